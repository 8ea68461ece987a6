package content

// Portfolio is the complete, read-only content set describing one person.
// Everything the assistant knows comes from here.
type Portfolio struct {
	Profile      Profile            `yaml:"profile" json:"profile" validate:"required"`
	Skills       []SkillEntry       `yaml:"skills" json:"skills" validate:"dive"`
	Projects     []ProjectEntry     `yaml:"projects" json:"projects" validate:"unique=ID,dive"`
	Certificates []CertificateEntry `yaml:"certificates" json:"certificates" validate:"unique=ID,dive"`
	Hobbies      []HobbyEntry       `yaml:"hobbies" json:"hobbies" validate:"unique=Name,dive"`
}

// Profile captures who the portfolio belongs to and how to reach them.
type Profile struct {
	Name      string       `yaml:"name" json:"name" validate:"required"`
	FirstName string       `yaml:"first_name" json:"first_name" validate:"required"`
	Title     string       `yaml:"title" json:"title"`
	Role      string       `yaml:"role" json:"role"`
	Focus     string       `yaml:"focus" json:"focus"`
	Bio       []string     `yaml:"bio" json:"bio"`
	Email     string       `yaml:"email" json:"email" validate:"required,email"`
	LinkedIn  string       `yaml:"linkedin" json:"linkedin" validate:"required,url"`
	Socials   []SocialLink `yaml:"socials" json:"socials" validate:"dive"`
	Pronouns  Pronouns     `yaml:"pronouns" json:"pronouns"`
}

// SocialLink is one labelled profile URL (GitHub, X, ...).
type SocialLink struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	URL   string `yaml:"url" json:"url" validate:"required"`
}

// Pronouns are used when canned replies refer to the person.
type Pronouns struct {
	Subject    string `yaml:"subject" json:"subject"`       // "he"
	Object     string `yaml:"object" json:"object"`         // "him"
	Possessive string `yaml:"possessive" json:"possessive"` // "his"
}

// SkillCategory groups skills for display and summaries.
type SkillCategory string

const (
	SkillCore  SkillCategory = "core"
	SkillTool  SkillCategory = "tool"
	SkillOther SkillCategory = "other"
)

// SkillEntry is one skill, tool or other competency. Order matters: the
// first entries of each category are used for summaries.
type SkillEntry struct {
	Name           string        `yaml:"name" json:"name" validate:"required"`
	Category       SkillCategory `yaml:"category" json:"category" validate:"oneof=core tool other"`
	Level          string        `yaml:"level" json:"level" validate:"oneof=Beginner Intermediate Advanced Expert"`
	Description    string        `yaml:"description" json:"description"`
	ShortDesc      string        `yaml:"short_desc" json:"short_desc"`
	RelatedProject string        `yaml:"related_project" json:"related_project"`
}

// ProjectEntry describes one portfolio project.
type ProjectEntry struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Category    string   `yaml:"category" json:"category" validate:"oneof=evolving prototype"`
	Description string   `yaml:"description" json:"description"`
	Timeline    string   `yaml:"timeline" json:"timeline"`
	Skills      []string `yaml:"skills" json:"skills"`
	Tools       []string `yaml:"tools" json:"tools"`
	Challenges  string   `yaml:"challenges" json:"challenges"`
	Outcomes    string   `yaml:"outcomes" json:"outcomes"`
	FutureScope string   `yaml:"future_scope" json:"future_scope"`
	GitHub      string   `yaml:"github" json:"github"`
	Demo        string   `yaml:"demo" json:"demo"`
}

// CertificateEntry is one earned certificate. Featured certificates make up
// the rotating highlight set on the site.
type CertificateEntry struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Title       string `yaml:"title" json:"title" validate:"required"`
	Issuer      string `yaml:"issuer" json:"issuer" validate:"required"`
	Date        string `yaml:"date" json:"date"`
	Category    string `yaml:"category" json:"category" validate:"oneof=valuable skill tool"`
	Description string `yaml:"description" json:"description"`
	ImageURL    string `yaml:"image_url" json:"image_url"`
	Featured    bool   `yaml:"featured" json:"featured"`
}

// HobbyEntry is keyed by Name, which must be unique.
type HobbyEntry struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Description string `yaml:"description" json:"description"`
}

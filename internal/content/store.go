package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultPortfolio []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// Store is the immutable, validated portfolio content. Accessors hand out
// copies so callers cannot mutate shared state.
type Store struct {
	p Portfolio
}

// Default returns the store built from the embedded portfolio.
func Default() (*Store, error) {
	return Parse(defaultPortfolio)
}

// Load reads the portfolio from a YAML file, or the embedded default when
// path is empty.
func Load(path string) (*Store, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates YAML portfolio content. Unknown keys are
// rejected.
func Parse(data []byte) (*Store, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Portfolio
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("content is empty")
		}
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	return New(p)
}

// New validates p and returns a store holding a private copy of it.
func New(p Portfolio) (*Store, error) {
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid portfolio content: %w", err)
	}
	return &Store{p: copyPortfolio(p)}, nil
}

func (s *Store) Portfolio() Portfolio {
	return copyPortfolio(s.p)
}

func (s *Store) Profile() Profile {
	return copyProfile(s.p.Profile)
}

// Skills returns every skill in display order.
func (s *Store) Skills() []SkillEntry {
	return slices.Clone(s.p.Skills)
}

// SkillsIn returns the skills of one category in display order.
func (s *Store) SkillsIn(cat SkillCategory) []SkillEntry {
	var out []SkillEntry
	for _, sk := range s.p.Skills {
		if sk.Category == cat {
			out = append(out, sk)
		}
	}
	return out
}

func (s *Store) Projects() []ProjectEntry {
	out := make([]ProjectEntry, len(s.p.Projects))
	for i, pr := range s.p.Projects {
		out[i] = copyProject(pr)
	}
	return out
}

// Project looks a project up by id.
func (s *Store) Project(id string) (ProjectEntry, bool) {
	for _, pr := range s.p.Projects {
		if pr.ID == id {
			return copyProject(pr), true
		}
	}
	return ProjectEntry{}, false
}

func (s *Store) Certificates() []CertificateEntry {
	return slices.Clone(s.p.Certificates)
}

// FeaturedCertificates returns the highlighted subset in display order.
func (s *Store) FeaturedCertificates() []CertificateEntry {
	var out []CertificateEntry
	for _, c := range s.p.Certificates {
		if c.Featured {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) Hobbies() []HobbyEntry {
	return slices.Clone(s.p.Hobbies)
}

func copyPortfolio(p Portfolio) Portfolio {
	out := Portfolio{
		Profile:      copyProfile(p.Profile),
		Skills:       slices.Clone(p.Skills),
		Certificates: slices.Clone(p.Certificates),
		Hobbies:      slices.Clone(p.Hobbies),
	}
	if p.Projects != nil {
		out.Projects = make([]ProjectEntry, len(p.Projects))
		for i, pr := range p.Projects {
			out.Projects[i] = copyProject(pr)
		}
	}
	return out
}

func copyProfile(p Profile) Profile {
	p.Bio = slices.Clone(p.Bio)
	p.Socials = slices.Clone(p.Socials)
	return p
}

func copyProject(p ProjectEntry) ProjectEntry {
	p.Skills = slices.Clone(p.Skills)
	p.Tools = slices.Clone(p.Tools)
	return p
}

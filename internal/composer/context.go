package composer

import (
	"fmt"
	"strings"

	"github.com/yash-755/robo/internal/content"
)

const (
	HeaderPersonal     = "===== PERSONAL INFORMATION ====="
	HeaderSkills       = "===== SKILLS & EXPERTISE ====="
	HeaderProjects     = "===== PROJECTS ====="
	HeaderCertificates = "===== CERTIFICATIONS ====="
	HeaderHobbies      = "===== HOBBIES & INTERESTS ====="
)

// DefaultMaxContextTokens is the budget used when none is configured.
const DefaultMaxContextTokens = 8000

// Compiler renders the content store into the plain-text knowledge block
// embedded in the system prompt.
type Compiler struct {
	store     *content.Store
	maxTokens int
	counter   TokenCounter
}

// NewCompiler creates a Compiler. maxTokens <= 0 disables the budget; a nil
// counter selects HeuristicCounter.
func NewCompiler(store *content.Store, maxTokens int, counter TokenCounter) *Compiler {
	if counter == nil {
		counter = HeuristicCounter{}
	}
	return &Compiler{store: store, maxTokens: maxTokens, counter: counter}
}

// Result is a compiled context together with what the budget did to it.
type Result struct {
	Text      string
	Tokens    int
	Compacted []string // section headers rendered in compact form, in compaction order
	Omitted   int      // entries dropped entirely
}

// entry is one renderable record. group, when set, is a sub-heading shared
// by consecutive entries (e.g. "Tools & Frameworks:").
type entry struct {
	group   string
	full    string
	compact string
}

type section struct {
	header  string
	preface string // fixed text, never compacted or dropped
	entries []entry
	compact bool
	keep    int
}

// Compile renders all five sections in fixed order. When a budget is set
// and exceeded, sections switch to compact form starting with hobbies, and
// then trailing entries are dropped from the last section backward.
// Personal information is never reduced.
func (c *Compiler) Compile() Result {
	secs := c.sections()

	render := func() Result {
		var parts []string
		var compacted []string
		omitted := 0
		for _, s := range secs {
			parts = append(parts, s.render())
			omitted += len(s.entries) - s.keep
		}
		// Compaction runs from the last section backward; report it that way.
		for i := len(secs) - 1; i >= 0; i-- {
			if secs[i].compact {
				compacted = append(compacted, secs[i].header)
			}
		}
		text := strings.Join(parts, "\n\n")
		return Result{Text: text, Tokens: c.counter.Count(text), Compacted: compacted, Omitted: omitted}
	}

	res := render()
	if c.maxTokens <= 0 || res.Tokens <= c.maxTokens {
		return res
	}

	// Hobbies, Certifications, Projects, Skills.
	for i := len(secs) - 1; i >= 1; i-- {
		secs[i].compact = true
		if res = render(); res.Tokens <= c.maxTokens {
			return res
		}
	}

	for i := len(secs) - 1; i >= 1; i-- {
		for secs[i].keep > 0 {
			secs[i].keep--
			if res = render(); res.Tokens <= c.maxTokens {
				return res
			}
		}
	}
	return res
}

func (s section) render() string {
	var sb strings.Builder
	sb.WriteString(s.header)
	sb.WriteString("\n")
	if s.preface != "" {
		sb.WriteString("\n")
		sb.WriteString(s.preface)
		sb.WriteString("\n")
	}

	group := ""
	n := 0
	for i := 0; i < s.keep; i++ {
		e := s.entries[i]
		if i == 0 || e.group != group {
			group = e.group
			n = 0
			sb.WriteString("\n")
			if group != "" {
				sb.WriteString(group)
				sb.WriteString("\n")
			}
		}
		n++
		if s.compact {
			sb.WriteString("- ")
			sb.WriteString(e.compact)
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "%d. %s\n", n, e.full)
		if !strings.HasSuffix(e.full, "\n") && strings.Contains(e.full, "\n") {
			sb.WriteString("\n")
		}
	}

	if dropped := len(s.entries) - s.keep; dropped > 0 {
		fmt.Fprintf(&sb, "\n(%d more entries omitted)\n", dropped)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Compiler) sections() []section {
	secs := []section{
		{header: HeaderPersonal, preface: personal(c.store.Profile())},
		{header: HeaderSkills, entries: skillEntries(c.store)},
		{header: HeaderProjects, entries: projectEntries(c.store.Projects())},
		{header: HeaderCertificates, entries: certificateEntries(c.store.Certificates())},
		{header: HeaderHobbies, entries: hobbyEntries(c.store.Hobbies())},
	}
	for i := range secs {
		secs[i].keep = len(secs[i].entries)
	}
	return secs
}

func personal(p content.Profile) string {
	var lines []string
	add := func(label, v string) {
		if v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	add("Name", p.Name)
	add("Title", p.Title)
	add("Role", p.Role)
	add("Current Focus", p.Focus)
	if len(p.Bio) > 0 {
		lines = append(lines, "", "Bio: "+strings.Join(p.Bio, " "), "")
	}
	add("Contact", p.Email)
	add("LinkedIn", p.LinkedIn)
	for _, s := range p.Socials {
		if s.Label == "LinkedIn" || strings.HasPrefix(s.URL, "mailto:") {
			continue
		}
		add(s.Label, s.URL)
	}
	return strings.Join(lines, "\n")
}

var skillGroups = []struct {
	cat   content.SkillCategory
	title string
}{
	{content.SkillCore, "Core Technical Skills:"},
	{content.SkillTool, "Tools & Frameworks:"},
	{content.SkillOther, "Other Competencies:"},
}

func skillEntries(s *content.Store) []entry {
	var out []entry
	for _, g := range skillGroups {
		for _, sk := range s.SkillsIn(g.cat) {
			var full string
			if g.cat == content.SkillCore {
				full = fmt.Sprintf("%s (%s)\n   - %s\n   - %s", sk.Name, sk.Level, sk.ShortDesc, sk.Description)
				if sk.RelatedProject != "" {
					full += "\n   - Related Project: " + sk.RelatedProject
				}
			} else {
				full = fmt.Sprintf("%s (%s) - %s", sk.Name, sk.Level, sk.Description)
			}
			out = append(out, entry{
				group:   g.title,
				full:    full,
				compact: compactLine(sk.Name, sk.ShortDesc),
			})
		}
	}
	return out
}

func projectEntries(projects []content.ProjectEntry) []entry {
	out := make([]entry, 0, len(projects))
	for _, p := range projects {
		var b strings.Builder
		b.WriteString(p.Title)
		fmt.Fprintf(&b, "\n   Category: %s", projectCategory(p.Category))
		if p.Timeline != "" {
			fmt.Fprintf(&b, "\n   Timeline: %s", p.Timeline)
		}
		fmt.Fprintf(&b, "\n   Description: %s", p.Description)
		if len(p.Skills) > 0 || len(p.Tools) > 0 {
			b.WriteString("\n\n   Technologies Used:")
			if len(p.Skills) > 0 {
				fmt.Fprintf(&b, "\n   - Skills: %s", strings.Join(p.Skills, ", "))
			}
			if len(p.Tools) > 0 {
				fmt.Fprintf(&b, "\n   - Tools: %s", strings.Join(p.Tools, ", "))
			}
			b.WriteString("\n")
		}
		optional := []struct{ label, v string }{
			{"Outcomes", p.Outcomes},
			{"Challenges", p.Challenges},
			{"Future Scope", p.FutureScope},
		}
		for _, o := range optional {
			if o.v != "" {
				fmt.Fprintf(&b, "\n   %s: %s", o.label, o.v)
			}
		}
		if links := projectLinks(p); links != "" {
			fmt.Fprintf(&b, "\n   Links: %s", links)
		}
		out = append(out, entry{full: b.String(), compact: compactLine(p.Title, p.Description)})
	}
	return out
}

func projectCategory(c string) string {
	if c == "evolving" {
		return "Evolving (Active Development)"
	}
	return "Prototype"
}

func projectLinks(p content.ProjectEntry) string {
	var links []string
	if p.GitHub != "" {
		links = append(links, "GitHub - "+p.GitHub)
	}
	if p.Demo != "" && p.Demo != p.GitHub {
		links = append(links, "Demo - "+p.Demo)
	}
	return strings.Join(links, ", ")
}

var certificateGroups = []struct {
	cat   string
	title string
}{
	{"valuable", "Valuable Certifications:"},
	{"skill", "Skill Certifications:"},
	{"tool", "Tool Certifications:"},
}

func certificateEntries(certs []content.CertificateEntry) []entry {
	var out []entry
	for _, g := range certificateGroups {
		for _, c := range certs {
			if c.Category != g.cat {
				continue
			}
			full := fmt.Sprintf("%s\n   Issuer: %s", c.Title, c.Issuer)
			if c.Date != "" {
				full += "\n   Date: " + c.Date
			}
			if c.Description != "" {
				full += "\n   Description: " + c.Description
			}
			out = append(out, entry{
				group:   g.title,
				full:    full,
				compact: fmt.Sprintf("%s (%s)", c.Title, c.Issuer),
			})
		}
	}
	return out
}

func hobbyEntries(hobbies []content.HobbyEntry) []entry {
	out := make([]entry, 0, len(hobbies))
	for _, h := range hobbies {
		full := h.Name
		if h.Description != "" {
			full += "\n   " + h.Description
		}
		out = append(out, entry{full: full, compact: h.Name})
	}
	return out
}

func compactLine(name, desc string) string {
	if desc == "" {
		return name
	}
	return name + ": " + desc
}

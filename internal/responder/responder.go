// Package responder answers portfolio questions with canned, content-backed
// replies. It never touches the network.
package responder

import (
	"fmt"
	"strings"

	"github.com/yash-755/robo/internal/content"
	"github.com/yash-755/robo/internal/policy"
)

const (
	summarySkills = 5
	summaryTools  = 5
	summaryCerts  = 3
)

type rule struct {
	name  string
	match func(lower string) bool
	reply func() string
}

// Responder evaluates an ordered rule table; the first matching rule
// produces the reply.
type Responder struct {
	store  *content.Store
	policy policy.Policy
	rules  []rule
}

func New(store *content.Store, pol policy.Policy) *Responder {
	r := &Responder{store: store, policy: pol}
	r.rules = append(r.rules, rule{name: "greeting", match: pol.IsGreeting, reply: pol.Greeting})
	for _, c := range pol.Categories {
		r.rules = append(r.rules, rule{name: string(c.Topic), match: c.Matches, reply: r.handler(c.Topic)})
	}
	return r
}

// Respond returns the reply for input. Matching is case-insensitive and
// input is not trimmed, so " hi" is not a greeting.
func (r *Responder) Respond(input string) string {
	reply, _ := r.Match(input)
	return reply
}

// Match is Respond that also reports which rule fired ("fallback" when none).
func (r *Responder) Match(input string) (reply, rule string) {
	lower := strings.ToLower(input)
	for _, ru := range r.rules {
		if ru.match(lower) {
			return ru.reply(), ru.name
		}
	}
	return r.policy.Fallback(), "fallback"
}

func (r *Responder) handler(t policy.Topic) func() string {
	switch t {
	case policy.TopicProjects:
		return r.projects
	case policy.TopicSkills:
		return r.skills
	case policy.TopicCertificates:
		return r.certificates
	case policy.TopicContact:
		return r.contact
	case policy.TopicHobbies:
		return r.hobbies
	default:
		return r.policy.Fallback
	}
}

func (r *Responder) projects() string {
	var lines []string
	for _, p := range r.store.Projects() {
		lines = append(lines, fmt.Sprintf("• %s: %s", p.Title, p.Description))
	}
	return fmt.Sprintf("Here are some of %s's key projects:\n\n%s\n\nWould you like to know more about a specific project?",
		r.policy.Owner, strings.Join(lines, "\n"))
}

func (r *Responder) skills() string {
	return fmt.Sprintf("%s is proficient in:\n\nSkills: %s\nTools: %s\n\nAsk me about a specific skill for more details!",
		r.policy.Owner,
		names(r.store.SkillsIn(content.SkillCore), summarySkills),
		names(r.store.SkillsIn(content.SkillTool), summaryTools))
}

func (r *Responder) certificates() string {
	certs := r.store.Certificates()
	if len(certs) > summaryCerts {
		certs = certs[:summaryCerts]
	}
	lines := make([]string, len(certs))
	for i, c := range certs {
		lines[i] = fmt.Sprintf("• %s (%s)", c.Title, c.Issuer)
	}
	return fmt.Sprintf("%s holds several valuable certifications:\n\n%s\n\n...and more! Check the Certificates section for the full list.",
		r.policy.Owner, strings.Join(lines, "\n"))
}

func (r *Responder) contact() string {
	p := r.store.Profile()
	return fmt.Sprintf("You can reach %s at: %s\nOr connect on LinkedIn: %s\n\nAlternatively, use the Contact form below!",
		r.policy.Owner, p.Email, p.LinkedIn)
}

func (r *Responder) hobbies() string {
	hs := r.store.Hobbies()
	list := make([]string, len(hs))
	for i, h := range hs {
		list[i] = h.Name
	}
	return fmt.Sprintf("When not coding, %s enjoys: %s.", r.policy.Owner, strings.Join(list, ", "))
}

func names(skills []content.SkillEntry, n int) string {
	if len(skills) > n {
		skills = skills[:n]
	}
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = s.Name
	}
	return strings.Join(out, ", ")
}

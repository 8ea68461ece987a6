// Package policy holds the scope rules shared by the system prompt and the
// rule-based responder: which topics are in scope, which keywords select
// them, and the fixed sentences used for greeting, fallback and refusal.
package policy

import (
	"fmt"
	"strings"

	"github.com/yash-755/robo/internal/content"
)

// AssistantName is the persona presented to visitors.
const AssistantName = "Robo"

type Topic string

const (
	TopicProjects     Topic = "projects"
	TopicSkills       Topic = "skills"
	TopicCertificates Topic = "certificates"
	TopicContact      Topic = "contact"
	TopicHobbies      Topic = "hobbies"
)

// Category maps a topic to the lower-case substrings that select it.
// Categories are evaluated in order; the first match wins.
type Category struct {
	Topic    Topic
	Keywords []string
}

// Matches reports whether lower (already lower-cased) contains a keyword.
func (c Category) Matches(lower string) bool {
	for _, kw := range c.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Policy is the declarative scope definition for one portfolio owner.
type Policy struct {
	Assistant string
	Owner     string // first name used in sentences
	Pronouns  content.Pronouns

	GreetingPrefixes []string
	Categories       []Category

	// ScopeTopics is the list offered in the refusal sentence.
	ScopeTopics []string
	// SuggestionTopics is what follow-up suggestions may draw from.
	SuggestionTopics []string

	ValidExamples   []string
	InvalidExamples []Example
}

// Example is an out-of-scope question and the note shown next to it.
type Example struct {
	Question string
	Note     string
}

// New builds the policy for the given profile.
func New(p content.Profile) Policy {
	owner := p.FirstName
	if owner == "" {
		owner = p.Name
	}
	pr := p.Pronouns
	return Policy{
		Assistant:        AssistantName,
		Owner:            owner,
		Pronouns:         pr,
		GreetingPrefixes: []string{"hi", "hello", "hey", "greetings"},
		Categories: []Category{
			{Topic: TopicProjects, Keywords: []string{"project", "work", "built"}},
			{Topic: TopicSkills, Keywords: []string{"skill", "tech", "stack", "tool"}},
			{Topic: TopicCertificates, Keywords: []string{"certificat", "qualification", "course"}},
			{Topic: TopicContact, Keywords: []string{"contact", "email", "reach", "hire"}},
			{Topic: TopicHobbies, Keywords: []string{"hobby", "interest", "fun"}},
		},
		ScopeTopics:      []string{"skills", "projects", "certifications", "experience", "hobbies"},
		SuggestionTopics: []string{"skills", "projects", "certifications", "hobbies", "contact info", "specific technologies"},
		ValidExamples: []string{
			fmt.Sprintf("What are %s's skills?", owner),
			fmt.Sprintf("Tell me about %s projects", pr.Possessive),
			fmt.Sprintf("Which certifications does %s have?", pr.Subject),
			fmt.Sprintf("What are %s hobbies?", pr.Possessive),
			fmt.Sprintf("How can I contact %s?", owner),
		},
		InvalidExamples: []Example{
			{Question: "Who is Elon Musk?", Note: "REFUSE"},
			{Question: "What is machine learning?", Note: fmt.Sprintf("REFUSE (unless asking about %s's ML skills)", strings.ToUpper(owner))},
			{Question: "Tell me a joke", Note: "REFUSE"},
			{Question: "What's the weather?", Note: "REFUSE"},
		},
	}
}

// Refusal is the sentence returned for anything outside the portfolio.
func (p Policy) Refusal() string {
	return fmt.Sprintf("I can only answer questions related to %s's portfolio. Please ask me about %s %s.",
		p.Owner, p.Pronouns.Possessive, JoinOr(p.ScopeTopics))
}

// Greeting answers a bare hello.
func (p Policy) Greeting() string {
	return fmt.Sprintf("Hello! I'm here to help you explore %s's portfolio. What would you like to know?", p.Owner)
}

// Fallback answers input that matches no category.
func (p Policy) Fallback() string {
	return fmt.Sprintf("I can tell you about %s's %s. What are you interested in?",
		p.Owner, JoinOr([]string{"projects", "skills", "certificates", "hobbies"}))
}

// Welcome is posted when a chat session opens.
func (p Policy) Welcome() string {
	return fmt.Sprintf("Hi, I'm %s — your virtual assistant! Ask me about %s's projects, skills, certificates, or how to contact %s.",
		p.Assistant, p.Owner, p.Pronouns.Object)
}

// IsGreeting reports whether lower starts with a greeting word. Matching is
// a plain prefix test, so "hiring" counts as a greeting.
func (p Policy) IsGreeting(lower string) bool {
	for _, g := range p.GreetingPrefixes {
		if strings.HasPrefix(lower, g) {
			return true
		}
	}
	return false
}

// Classify returns the first category whose keywords occur in lower.
func (p Policy) Classify(lower string) (Category, bool) {
	for _, c := range p.Categories {
		if c.Matches(lower) {
			return c, true
		}
	}
	return Category{}, false
}

// JoinOr renders a list as "a, b, or c".
func JoinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}

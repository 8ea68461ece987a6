package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yash-755/robo/internal/content"
)

func defaultPolicy(t *testing.T) Policy {
	t.Helper()
	s, err := content.Default()
	require.NoError(t, err)
	return New(s.Profile())
}

func TestSentences(t *testing.T) {
	p := defaultPolicy(t)

	assert.Equal(t,
		"I can only answer questions related to Yash's portfolio. Please ask me about his skills, projects, certifications, experience, or hobbies.",
		p.Refusal())
	assert.Equal(t,
		"Hello! I'm here to help you explore Yash's portfolio. What would you like to know?",
		p.Greeting())
	assert.Equal(t,
		"I can tell you about Yash's projects, skills, certificates, or hobbies. What are you interested in?",
		p.Fallback())
	assert.Equal(t,
		"Hi, I'm Robo — your virtual assistant! Ask me about Yash's projects, skills, certificates, or how to contact him.",
		p.Welcome())
}

func TestClassifyOrder(t *testing.T) {
	p := defaultPolicy(t)

	tests := []struct {
		input string
		want  Topic
		ok    bool
	}{
		{"show me your projects", TopicProjects, true},
		{"what tools and projects", TopicProjects, true},
		{"tech stack?", TopicSkills, true},
		{"any certifications", TopicCertificates, true},
		{"how do i reach you", TopicContact, true},
		{"what does he do for fun", TopicHobbies, true},
		{"who is elon musk?", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := p.Classify(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, c.Topic)
		})
	}
}

func TestIsGreeting(t *testing.T) {
	p := defaultPolicy(t)
	assert.True(t, p.IsGreeting("hello there"))
	assert.True(t, p.IsGreeting("greetings"))
	assert.True(t, p.IsGreeting("hiring?"))
	assert.False(t, p.IsGreeting(" hi"))
	assert.False(t, p.IsGreeting("oh hi"))
}

func TestJoinOr(t *testing.T) {
	assert.Equal(t, "", JoinOr(nil))
	assert.Equal(t, "a", JoinOr([]string{"a"}))
	assert.Equal(t, "a or b", JoinOr([]string{"a", "b"}))
	assert.Equal(t, "a, b, or c", JoinOr([]string{"a", "b", "c"}))
}

func TestNewUsesProfilePronouns(t *testing.T) {
	p := New(content.Profile{
		Name:      "Ada Lovelace",
		FirstName: "Ada",
		Pronouns:  content.Pronouns{Subject: "she", Object: "her", Possessive: "her"},
	})
	assert.Contains(t, p.Refusal(), "Ada's portfolio")
	assert.Contains(t, p.Refusal(), "about her skills")
	assert.Contains(t, p.Welcome(), "how to contact her.")
}

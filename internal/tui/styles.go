package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8B5CF6")
	muted  = lipgloss.Color("#6B7280")
	light  = lipgloss.Color("#F9FAFB")
)

// Styles holds the widget's lipgloss styles.
type Styles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Sender    lipgloss.Style
	Typing    lipgloss.Style
	Help      lipgloss.Style
	Prompt    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(light).
			Background(accent).
			Padding(0, 1),
		User: lipgloss.NewStyle().
			Foreground(light).
			Background(accent).
			Padding(0, 1),
		Assistant: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		Sender: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Typing: lipgloss.NewStyle().Italic(true).Foreground(muted),
		Help:   lipgloss.NewStyle().Foreground(muted),
		Prompt: lipgloss.NewStyle().Foreground(accent),
	}
}

// PlainStyles renders without colour or borders.
func PlainStyles() Styles {
	p := lipgloss.NewStyle()
	return Styles{Header: p, User: p, Assistant: p, Sender: p, Typing: p, Help: p, Prompt: p}
}

// Package tui renders a chat session as a full-screen terminal widget.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yash-755/robo/internal/session"
)

// Conversation is the part of session.Session the widget drives.
type Conversation interface {
	Send(text string) (session.Message, bool)
	Messages() []session.Message
	Typing() bool
	Close()
}

// postedMsg reports that the session posted at least one message since the
// last redraw.
type postedMsg struct{}

// Wake is a one-slot redraw signal fed by session.WithNotify. Posts that
// arrive while a signal is pending are merged into it; the widget re-reads
// the whole conversation on every signal, so none is lost.
type Wake chan struct{}

func NewWake() Wake { return make(Wake, 1) }

// Notify is a session.WithNotify callback. It never blocks.
func (w Wake) Notify(session.Message) {
	select {
	case w <- struct{}{}:
	default:
	}
}

const (
	headerHeight = 1
	footerHeight = 3
	maxInput     = 1000
)

// Model is the bubbletea model for the chat widget.
type Model struct {
	conv     Conversation
	updates  <-chan struct{}
	title    string
	styles   Styles
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	quitting bool
}

// New builds the widget. updates signals that the session posted on its own
// (welcome and replies), usually a Wake; the widget never closes it.
func New(conv Conversation, updates <-chan struct{}, title string, styles Styles) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask me anything..."
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = maxInput
	ti.Width = 76
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Typing

	vp := viewport.New(80, 20)

	m := Model{
		conv:     conv,
		updates:  updates,
		title:    title,
		styles:   styles,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		width:    80,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForPost(m.updates))
}

func waitForPost(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return postedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.conv.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			if _, ok := m.conv.Send(m.input.Value()); ok {
				m.input.Reset()
				m.refresh()
			}
			return m, nil
		}

	case postedMsg:
		m.refresh()
		return m, waitForPost(m.updates)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	var sb strings.Builder
	wrap := max(m.width-6, 20)
	for _, msg := range m.conv.Messages() {
		switch msg.Sender {
		case session.SenderUser:
			line := m.styles.User.Render(msg.Text)
			sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, line))
		default:
			sb.WriteString(m.styles.Sender.Render("Robo"))
			sb.WriteString("\n")
			sb.WriteString(m.styles.Assistant.Width(wrap).Render(msg.Text))
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := m.styles.Help.Render("enter send • esc quit")
	if m.conv.Typing() {
		status = m.styles.Typing.Render(m.spinner.View() + " Robo is typing...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(m.title),
		m.viewport.View(),
		status,
		m.input.View(),
	)
}

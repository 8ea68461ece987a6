// Package session models one chat widget conversation: the message list,
// the delayed welcome, the typing indicator and delayed replies.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultWelcomeDelay = 500 * time.Millisecond
	DefaultReplyDelay   = time.Second
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Responder produces the assistant's reply to one user message.
type Responder interface {
	Respond(input string) string
}

type Option func(*Session)

func WithWelcomeDelay(d time.Duration) Option {
	return func(s *Session) { s.welcomeDelay = d }
}

func WithReplyDelay(d time.Duration) Option {
	return func(s *Session) { s.replyDelay = d }
}

// WithNotify registers fn to receive every assistant message as it is
// posted. fn runs on a timer goroutine without the session lock held.
func WithNotify(fn func(Message)) Option {
	return func(s *Session) { s.notify = fn }
}

// Session is safe for concurrent use. Create one when the widget opens and
// Close it when the widget goes away.
type Session struct {
	responder    Responder
	welcome      string
	welcomeDelay time.Duration
	replyDelay   time.Duration
	notify       func(Message)

	mu       sync.Mutex
	messages []Message
	pending  int
	timers   map[*time.Timer]struct{}
	opened   bool
	closed   bool
}

func New(r Responder, welcome string, opts ...Option) *Session {
	s := &Session{
		responder:    r,
		welcome:      welcome,
		welcomeDelay: DefaultWelcomeDelay,
		replyDelay:   DefaultReplyDelay,
		timers:       make(map[*time.Timer]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open schedules the welcome message if the conversation is empty. Later
// calls are no-ops. The welcome is skipped if the visitor has already
// written by the time it is due.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened || s.closed || len(s.messages) > 0 {
		s.opened = true
		return
	}
	s.opened = true
	s.schedule(s.welcomeDelay, func() (Message, bool) {
		if len(s.messages) > 0 {
			return Message{}, false
		}
		return s.appendLocked(s.welcome, SenderAssistant), true
	})
}

// Send posts a user message and schedules the reply. Blank input and sends
// on a closed session are ignored and report false.
func (s *Session) Send(text string) (Message, bool) {
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Message{}, false
	}

	msg := s.appendLocked(text, SenderUser)
	s.pending++
	s.schedule(s.replyDelay, func() (Message, bool) {
		s.pending--
		return s.appendLocked(s.responder.Respond(text), SenderAssistant), true
	})
	return msg, true
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Typing reports whether a reply is pending.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// Close cancels every pending timer. No message is posted afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	clear(s.timers)
	s.pending = 0
}

// schedule runs post after d unless the session is closed first. post is
// called with the lock held. Must be called with s.mu held.
func (s *Session) schedule(d time.Duration, post func() (Message, bool)) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, t)
		msg, ok := post()
		notify := s.notify
		s.mu.Unlock()

		if ok && notify != nil {
			notify(msg)
		}
	})
	s.timers[t] = struct{}{}
}

func (s *Session) appendLocked(text string, from Sender) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    from,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

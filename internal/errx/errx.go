// Package errx defines the error taxonomy shared by the chat gateway and
// the HTTP layer. Every kind carries a fixed, client-safe message; causes
// are kept for logging only.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidInput
	KindServerConfiguration
	KindUpstreamFailure
	KindMalformedResponse
	KindRateLimited
	KindUnauthorized
	KindNotFound
)

var kindNames = map[Kind]string{
	KindUnexpected:          "unexpected",
	KindInvalidInput:        "invalid_input",
	KindServerConfiguration: "server_configuration",
	KindUpstreamFailure:     "upstream_failure",
	KindMalformedResponse:   "malformed_response",
	KindRateLimited:         "rate_limited",
	KindUnauthorized:        "unauthorized",
	KindNotFound:            "not_found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status is the HTTP status code reported for the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindInvalidInput:
		return "Message is required"
	case KindServerConfiguration:
		return "Server configuration error. Please contact the administrator."
	case KindUpstreamFailure:
		return "Failed to get response from AI assistant. Please try again."
	case KindMalformedResponse:
		return "Received invalid response from AI assistant."
	case KindRateLimited:
		return "Too many requests. Please slow down."
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	default:
		return "An unexpected error occurred. Please try again later."
	}
}

// Error wraps a cause with a kind and a public message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is the HTTP status for the error's kind.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// New builds an Error using the kind's default public message.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Message: kind.Message(), Err: cause}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Errorf(format, args...))
}

// WithMessage builds an Error with a custom public message.
func WithMessage(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// From returns err as an *Error, classifying anything else as unexpected.
// It returns nil for a nil error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(KindUnexpected, err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

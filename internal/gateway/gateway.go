// Package gateway implements the model-backed chat path: one visitor
// message in, one grounded answer out.
package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yash-755/robo/internal/composer"
	"github.com/yash-755/robo/internal/content"
	"github.com/yash-755/robo/internal/errx"
	"github.com/yash-755/robo/internal/policy"
	"github.com/yash-755/robo/internal/upstream"
	"github.com/yash-755/robo/pkg/logx"
)

// Completer sends a system prompt and a user message to a model.
// Implemented by upstream.Client.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Gateway is stateless apart from the cached system prompt and safe for
// concurrent use.
type Gateway struct {
	completer    Completer
	systemPrompt func() string
}

// New creates a Gateway. A nil completer means no upstream credential is
// configured; every request then fails with a server configuration error.
func New(store *content.Store, compiler *composer.Compiler, pol policy.Policy, c Completer) *Gateway {
	return &Gateway{
		completer: c,
		systemPrompt: sync.OnceValue(func() string {
			return composer.BuildSystemPrompt(compiler.Compile().Text, store.Profile(), pol)
		}),
	}
}

// SystemPrompt returns the prompt sent with every request. It is built on
// first use and reused afterwards.
func (g *Gateway) SystemPrompt() string {
	return g.systemPrompt()
}

// HandleChatRequest validates message, makes exactly one upstream call and
// returns the model's answer unchanged. Errors are always *errx.Error.
func (g *Gateway) HandleChatRequest(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", errx.New(errx.KindInvalidInput, errors.New("empty message"))
	}

	if g.completer == nil {
		err := errx.New(errx.KindServerConfiguration, errors.New("GROK_API_KEY is not set"))
		logx.Error().Err(err.Err).Str("kind", err.Kind.String()).Msg("chat request rejected")
		return "", err
	}

	start := time.Now()
	answer, err := g.completer.Complete(ctx, g.SystemPrompt(), message)
	if err != nil {
		e := classify(err)
		ev := logx.Error().Err(err).Str("kind", e.Kind.String()).Dur("elapsed", time.Since(start))
		var se *upstream.StatusError
		if errors.As(err, &se) {
			ev = ev.Int("upstream_status", se.StatusCode).Str("upstream_body", se.Body)
		}
		ev.Msg("upstream call failed")
		return "", e
	}

	logx.Debug().Dur("elapsed", time.Since(start)).Int("answer_len", len(answer)).Msg("chat answered")
	return answer, nil
}

func classify(err error) *errx.Error {
	var se *upstream.StatusError
	switch {
	case errors.As(err, &se):
		return errx.New(errx.KindUpstreamFailure, err)
	case errors.Is(err, upstream.ErrEmptyResponse):
		return errx.New(errx.KindMalformedResponse, err)
	default:
		return errx.From(err)
	}
}

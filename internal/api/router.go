// Package api exposes the HTTP and MCP surfaces of the assistant.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yash-755/robo/internal/errx"
	"github.com/yash-755/robo/internal/ratelimit"
	"github.com/yash-755/robo/internal/storage"
)

// ChatHandler answers one visitor message. Implemented by gateway.Gateway.
type ChatHandler interface {
	HandleChatRequest(ctx context.Context, message string) (string, error)
}

// FeedbackStore persists visitor feedback. Implemented by storage.Store.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, f storage.Feedback) (storage.Feedback, error)
	ListFeedback(ctx context.Context, limit int) ([]storage.Feedback, error)
}

type Options struct {
	Chat     ChatHandler
	Feedback FeedbackStore
	// Limiter guards the chat and feedback routes; nil disables limiting.
	Limiter        ratelimit.Limiter
	AllowedOrigins []string
	// AdminToken enables GET /api/feedback when non-empty.
	AdminToken string
	// StaticDir, when set, is served at / with index.html as the fallback.
	StaticDir string
	// TrustProxy takes the client IP from proxy headers. Off, the socket
	// peer address is used, so clients cannot pick their own rate limit key.
	TrustProxy bool
}

const healthMessage = "Robo backend is running"

// NewRouter builds the HTTP handler for the chat backend.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(accessLog)
	r.Use(recoverer)
	r.Use(securityHeaders)
	r.Use(corsPolicy(opts.AllowedOrigins))
	r.Use(preflightDone)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.With(rateLimit(opts.Limiter, "chat")).Post("/chat", handleChat(opts.Chat))

		if opts.Feedback != nil {
			r.With(rateLimit(opts.Limiter, "feedback")).Post("/feedback", handleSaveFeedback(opts.Feedback))
			if opts.AdminToken != "" {
				r.With(BearerAuth(opts.AdminToken)).Get("/feedback", handleListFeedback(opts.Feedback))
			}
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, errx.New(errx.KindNotFound, errors.New("no route for "+r.URL.Path)))
		})
	})

	if opts.StaticDir != "" {
		r.Handle("/*", staticSite(opts.StaticDir))
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": healthMessage,
	})
}

// staticSite serves files from dir. Paths that do not name a file get
// index.html so client-side routes resolve.
func staticSite(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
			if info, err := os.Stat(name); err != nil || info.IsDir() {
				http.ServeFile(w, r, index)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

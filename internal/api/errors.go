package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yash-755/robo/internal/errx"
	"github.com/yash-755/robo/pkg/logx"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Warn().Err(err).Msg("encoding response")
	}
}

// writeError is the only place an error becomes an HTTP response. The body
// carries the public message; the cause is logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := errx.From(err)
	status := e.Status()

	ev := logx.Warn()
	if status >= http.StatusInternalServerError {
		ev = logx.Error()
	}
	ev.Err(e.Err).
		Str("kind", e.Kind.String()).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg("request failed")

	writeJSON(w, status, map[string]string{"error": e.Message})
}

package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/yash-755/robo/internal/errx"
)

// BearerAuth rejects requests whose Authorization header does not carry token.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				writeError(w, r, errx.New(errx.KindUnauthorized, errors.New("invalid or missing bearer token")))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

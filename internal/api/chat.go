package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/yash-755/robo/internal/errx"
)

const maxRequestBodySize = 1 << 20 // 1MB

var validate = validator.New(validator.WithRequiredStructEnabled())

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

type chatResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads at most maxRequestBodySize bytes into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errx.New(errx.KindInvalidInput, err)
	}
	if err := validate.Struct(dst); err != nil {
		return errx.New(errx.KindInvalidInput, err)
	}
	return nil
}

func handleChat(chat ChatHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if chat == nil {
			writeError(w, r, errx.Newf(errx.KindServerConfiguration, "chat gateway not configured"))
			return
		}

		answer, err := chat.HandleChatRequest(r.Context(), req.Message)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, chatResponse{Message: answer})
	}
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/yash-755/robo/internal/errx"
	"github.com/yash-755/robo/internal/storage"
)

const maxFeedbackLength = 5000

type feedbackRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

type feedbackCreated struct {
	ID string `json:"id"`
}

func (f feedbackRequest) check() error {
	switch {
	case f.Rating < 0 || f.Rating > 5:
		return errx.WithMessage(errx.KindInvalidInput, "Rating must be between 0 and 5", errors.New("rating out of range"))
	case f.Rating == 0 && strings.TrimSpace(f.Feedback) == "":
		return errx.WithMessage(errx.KindInvalidInput, "Please provide a rating or feedback", errors.New("empty feedback"))
	case len(f.Feedback) > maxFeedbackLength:
		return errx.WithMessage(errx.KindInvalidInput, "Feedback is too long", errors.New("feedback too long"))
	}
	return nil
}

func handleSaveFeedback(store FeedbackStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := req.check(); err != nil {
			writeError(w, r, err)
			return
		}

		saved, err := store.SaveFeedback(r.Context(), storage.Feedback{
			Rating:   req.Rating,
			Comment:  strings.TrimSpace(req.Feedback),
			RemoteIP: clientIP(r),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, feedbackCreated{ID: saved.ID})
	}
}

func handleListFeedback(store FeedbackStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := storage.DefaultListLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, r, errx.WithMessage(errx.KindInvalidInput, "limit must be a positive integer", err))
				return
			}
			limit = n
		}

		list, err := store.ListFeedback(r.Context(), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

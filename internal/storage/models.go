package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

type Feedback struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"feedback"`
	RemoteIP  string    `json:"-"`
}

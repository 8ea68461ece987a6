package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps ListFeedback when the caller passes a non-positive limit.
const DefaultListLimit = 50

// SaveFeedback inserts f, filling ID and CreatedAt when they are zero, and
// returns the stored record.
func (s *Store) SaveFeedback(ctx context.Context, f Feedback) (Feedback, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	f.CreatedAt = f.CreatedAt.UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, created_at, rating, comment, remote_ip)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.CreatedAt.Format(time.RFC3339), f.Rating, f.Comment, f.RemoteIP,
	)
	if err != nil {
		return Feedback{}, fmt.Errorf("saving feedback: %w", err)
	}
	return f, nil
}

func (s *Store) GetFeedback(ctx context.Context, id string) (Feedback, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, rating, comment, remote_ip
		FROM feedback WHERE id = ?`, id)
	f, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Feedback{}, ErrNotFound
	}
	return f, err
}

// ListFeedback returns the newest entries first.
func (s *Store) ListFeedback(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, rating, comment, remote_ip
		FROM feedback ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	results := []Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, f)
	}
	return results, rows.Err()
}

func (s *Store) CountFeedback(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting feedback: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(sc scanner) (Feedback, error) {
	var f Feedback
	var createdAt string
	if err := sc.Scan(&f.ID, &createdAt, &f.Rating, &f.Comment, &f.RemoteIP); err != nil {
		return Feedback{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Feedback{}, fmt.Errorf("parsing created_at: %w", err)
	}
	f.CreatedAt = t
	return f, nil
}

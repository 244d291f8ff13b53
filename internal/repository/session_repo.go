package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SessionRepository interface {
	// GetSession returns (nil, zero time, nil) when the session is absent.
	GetSession(ctx context.Context, id string) ([]byte, time.Time, error)
	PutSession(ctx context.Context, id string, payload []byte, updatedAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
}

type sessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) GetSession(ctx context.Context, id string) ([]byte, time.Time, error) {
	var payload []byte
	var updatedAt time.Time
	row := r.db.QueryRowContext(ctx, `SELECT payload, updated_at FROM sessions WHERE id = ?`, id)
	if err := row.Scan(&payload, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, err
	}
	return payload, updatedAt, nil
}

func (r *sessionRepo) PutSession(ctx context.Context, id string, payload []byte, updatedAt time.Time) error {
	query := `INSERT INTO sessions (id, payload, updated_at) VALUES (?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, id, payload, updatedAt); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

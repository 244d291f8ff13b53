package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"artview/internal/repository"

	"github.com/rs/zerolog"
)

// Store reads and writes session state through the repository. All
// expiry and versioning rules live here; callers only see current,
// valid state.
type Store struct {
	repo   repository.SessionRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewStore(repo repository.SessionRepository, logger zerolog.Logger) *Store {
	lg := logger.With().Str("service", "SessionStore").Logger()
	return &Store{repo: repo, logger: lg, now: time.Now}
}

// Get returns the current state for a session, or a fresh empty state
// when the session is absent, expired, or unreadable. Expired sessions
// are discarded wholesale.
func (s *Store) Get(ctx context.Context, id string) (*State, error) {
	payload, updatedAt, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if payload == nil {
		return &State{SchemaVersion: SchemaVersion}, nil
	}

	if s.now().Sub(updatedAt) > ExpiryWindow {
		s.logger.Debug().Str("session_id", id).Time("updated_at", updatedAt).Msg("Session expired, discarding")
		if err := s.repo.DeleteSession(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to delete expired session")
		}
		return &State{SchemaVersion: SchemaVersion}, nil
	}

	var st State
	if err := json.Unmarshal(payload, &st); err != nil {
		s.logger.Warn().Err(err).Str("session_id", id).Msg("Corrupt session payload, resetting")
		return &State{SchemaVersion: SchemaVersion}, nil
	}
	migrate(&st)
	st.UpdatedAt = updatedAt
	return &st, nil
}

// Save merges a partial update into the stored state, refreshing the
// sliding expiry window.
func (s *Store) Save(ctx context.Context, id string, u Update) (*State, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Merge(u)
	st.SchemaVersion = SchemaVersion
	st.UpdatedAt = s.now()

	payload, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.PutSession(ctx, id, payload, st.UpdatedAt); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) Clear(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

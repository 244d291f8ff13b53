package dto

import (
	"time"

	"artview/internal/prompt"
	"artview/internal/session"
)

// SessionUpdateDTO is a partial update; absent fields keep their
// stored value.
type SessionUpdateDTO struct {
	File        *session.StoredFile `json:"file"`
	Preferences *prompt.Options     `json:"preferences"`
	Email       *string             `json:"email"`
}

func (d *SessionUpdateDTO) ToUpdate() session.Update {
	return session.Update{
		File:        d.File,
		Preferences: d.Preferences,
		Email:       d.Email,
	}
}

type SessionResponseDTO struct {
	File        *session.StoredFile `json:"file,omitempty"`
	Preferences prompt.Options      `json:"preferences"`
	Email       string              `json:"email,omitempty"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

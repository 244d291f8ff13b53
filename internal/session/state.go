// Package session keeps the upload workflow state server-side: the
// normalized file, the placement preferences, and the email the user
// entered, all in one versioned document.
package session

import (
	"time"

	"artview/internal/imaging"
	"artview/internal/prompt"
)

// SchemaVersion is stamped into every stored payload. Older payloads
// are upgraded on read.
const SchemaVersion = 1

// ExpiryWindow is the sliding lifetime of a session: a fixed duration
// after the last write the whole state is discarded on next read.
const ExpiryWindow = 24 * time.Hour

// StoredFile embeds the uploaded file inside the state as a data URI.
type StoredFile struct {
	Name    string `json:"name"`
	MIME    string `json:"type"`
	Size    int64  `json:"size"`
	DataURI string `json:"data"`
}

// Restore decodes the embedded data URI back into raw bytes.
func (f *StoredFile) Restore() (mime string, data []byte, err error) {
	return imaging.DecodeDataURI(f.DataURI)
}

type State struct {
	SchemaVersion int            `json:"schema_version"`
	File          *StoredFile    `json:"file,omitempty"`
	Preferences   prompt.Options `json:"preferences"`
	Email         string         `json:"email,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Update is a partial state change; nil fields are left untouched.
type Update struct {
	File        *StoredFile     `json:"file,omitempty"`
	Preferences *prompt.Options `json:"preferences,omitempty"`
	Email       *string         `json:"email,omitempty"`
}

// Merge applies an update to the state.
func (s *State) Merge(u Update) {
	if u.File != nil {
		s.File = u.File
	}
	if u.Preferences != nil {
		s.Preferences = *u.Preferences
	}
	if u.Email != nil {
		s.Email = *u.Email
	}
}

// migrate upgrades older payload versions in place. Version 0 payloads
// predate versioning; their fields line up with version 1, so only the
// stamp changes.
func migrate(s *State) {
	if s.SchemaVersion < SchemaVersion {
		s.SchemaVersion = SchemaVersion
	}
}

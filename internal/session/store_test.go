package session

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"artview/internal/imaging"
	"artview/internal/prompt"
	"artview/internal/repository"

	"github.com/rs/zerolog"
)

func testStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := repository.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(repository.NewSessionRepo(db), zerolog.Nop()), db
}

func TestGetMissingSession(t *testing.T) {
	store, _ := testStore(t)
	st, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.SchemaVersion != SchemaVersion || st.File != nil || st.Email != "" {
		t.Errorf("missing session should be empty, got %+v", st)
	}
}

func TestSaveMergesPartialUpdates(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	file := &StoredFile{Name: "art.jpg", MIME: "image/jpeg", Size: 3, DataURI: imaging.DataURI("image/jpeg", []byte{1, 2, 3})}
	if _, err := store.Save(ctx, "s1", Update{File: file}); err != nil {
		t.Fatalf("Save file: %v", err)
	}

	email := "artist@example.com"
	prefs := prompt.Options{Environment: "gallery", ArtworkType: "sculpture", IncludePedestal: true}
	st, err := store.Save(ctx, "s1", Update{Email: &email, Preferences: &prefs})
	if err != nil {
		t.Fatalf("Save prefs: %v", err)
	}

	if st.File == nil || st.File.Name != "art.jpg" {
		t.Errorf("file lost on partial update: %+v", st.File)
	}
	if st.Email != email || st.Preferences.Environment != "gallery" {
		t.Errorf("update not applied: %+v", st)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.File == nil || got.Email != email || !got.Preferences.IncludePedestal {
		t.Errorf("persisted state mismatch: %+v", got)
	}
}

func TestExpiryBoundary(t *testing.T) {
	store, db := testStore(t)
	ctx := context.Background()
	repo := repository.NewSessionRepo(db)

	now := time.Now().UTC()
	store.now = func() time.Time { return now }

	fresh := &State{SchemaVersion: SchemaVersion, Email: "keep@example.com"}
	payload, _ := json.Marshal(fresh)
	if err := repo.PutSession(ctx, "fresh", payload, now.Add(-ExpiryWindow+time.Minute)); err != nil {
		t.Fatalf("seed fresh session: %v", err)
	}

	stale := &State{SchemaVersion: SchemaVersion, Email: "drop@example.com"}
	payload, _ = json.Marshal(stale)
	if err := repo.PutSession(ctx, "stale", payload, now.Add(-ExpiryWindow-time.Minute)); err != nil {
		t.Fatalf("seed stale session: %v", err)
	}

	got, err := store.Get(ctx, "fresh")
	if err != nil {
		t.Fatalf("Get fresh: %v", err)
	}
	if got.Email != "keep@example.com" {
		t.Errorf("session just under the window should survive, got %+v", got)
	}

	got, err = store.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get stale: %v", err)
	}
	if got.Email != "" {
		t.Errorf("session past the window should be discarded, got %+v", got)
	}
	// Discard is wholesale: the row is gone.
	raw, _, err := repo.GetSession(ctx, "stale")
	if err != nil || raw != nil {
		t.Errorf("stale session should be deleted, got %q, %v", raw, err)
	}
}

func TestFileRestoreRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x11}
	file := &StoredFile{Name: "art.png", MIME: "image/png", Size: int64(len(raw)), DataURI: imaging.DataURI("image/png", raw)}
	if _, err := store.Save(ctx, "s1", Update{File: file}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	st, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	mime, data, err := st.File.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if mime != "image/png" || !bytes.Equal(data, raw) {
		t.Errorf("restore mismatch: mime=%s data=%v", mime, data)
	}
}

func TestMigrateStampsVersion(t *testing.T) {
	store, db := testStore(t)
	ctx := context.Background()
	repo := repository.NewSessionRepo(db)

	// Version 0 payload: no schema_version field at all.
	if err := repo.PutSession(ctx, "old", []byte(`{"email":"legacy@example.com"}`), time.Now().UTC()); err != nil {
		t.Fatalf("seed legacy session: %v", err)
	}

	st, err := store.Get(ctx, "old")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.SchemaVersion != SchemaVersion {
		t.Errorf("legacy payload not upgraded: version %d", st.SchemaVersion)
	}
	if st.Email != "legacy@example.com" {
		t.Errorf("legacy fields lost: %+v", st)
	}
}

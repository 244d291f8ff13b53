package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"artview/internal/config"

	"github.com/rs/zerolog"
)

// newTestAPI stands up the full router against a temp database and a
// fake prediction endpoint.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pred_test",
			"status": "succeeded",
			"output": "https://cdn.example.com/generated.png",
		})
	}))
	t.Cleanup(provider.Close)

	cfg := &config.Config{
		Port:               "8080",
		Environment:        "test",
		BaseURL:            "http://localhost:3000",
		DatabasePath:       filepath.Join(t.TempDir(), "api.db"),
		ReplicateAPIToken:  "r8_test",
		ReplicateBaseURL:   provider.URL,
		ProviderTimeoutSec: 10,
		MaxStreamMB:        8,
	}

	h, db, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return h
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSignupAndCreditLifecycle(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/auth/signup", map[string]string{"email": "Artist@Example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body)
	}
	var signup struct {
		Success   bool   `json:"success"`
		ID        string `json:"id"`
		Email     string `json:"email"`
		Credits   int    `json:"credits"`
		Plan      string `json:"plan"`
		ExpiresAt string `json:"expiresAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if !signup.Success || signup.Email != "artist@example.com" || signup.Credits != 3 {
		t.Fatalf("signup response = %+v", signup)
	}
	if signup.ID == "" {
		t.Errorf("signup response missing account id: %s", rec.Body)
	}
	if signup.Plan != "free" || signup.ExpiresAt == "" {
		t.Errorf("signup response = %+v", signup)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/credits?email=artist@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("credits status = %d", rec.Code)
	}

	// Burn the whole free allowance.
	for i := 0; i < 3; i++ {
		rec = doJSON(t, h, http.MethodPost, "/v1/credits", map[string]string{
			"email":  "artist@example.com",
			"action": "deduct",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("deduct %d status = %d, body %s", i, rec.Code, rec.Body)
		}
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/credits", map[string]string{
		"email":  "artist@example.com",
		"action": "deduct",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("deduct at zero status = %d, body %s", rec.Code, rec.Body)
	}
	var denied struct {
		NeedsUpgrade bool `json:"needsUpgrade"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &denied); err != nil {
		t.Fatalf("decode denial: %v", err)
	}
	if !denied.NeedsUpgrade {
		t.Errorf("denial should flag needsUpgrade: %s", rec.Body)
	}
}

func TestCreditsUnknownAccount(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/credits?email=nobody@example.com", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPlacementEndToEnd(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/placements", map[string]any{
		"image":       "data:image/png;base64,AAAA",
		"environment": "living-room",
		"artworkType": "painting",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Success    bool   `json:"success"`
		ImageURL   string `json:"image_url"`
		PromptUsed string `json:"prompt_used"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ImageURL != "https://cdn.example.com/generated.png" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.PromptUsed == "" {
		t.Error("prompt_used should be populated")
	}
}

func TestPlacementRequiresImage(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/placements", map[string]any{"environment": "living-room"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestUpscaleEndToEnd(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/upscales", map[string]string{
		"imageUrl": "https://cdn.example.com/generated.png",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Success          bool   `json:"success"`
		ScaleFactor      int    `json:"scale_factor"`
		UpscaledImageURL string `json:"upscaled_image_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ScaleFactor != 2 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	h := newTestAPI(t)

	email := "artist@example.com"
	rec := doJSON(t, h, http.MethodPut, "/v1/sessions/sess-1", map[string]any{
		"email":       email,
		"preferences": map[string]any{"environment": "gallery"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/sessions/sess-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got struct {
		Email       string `json:"email"`
		Preferences struct {
			Environment string `json:"environment"`
		} `json:"preferences"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if got.Email != email || got.Preferences.Environment != "gallery" {
		t.Fatalf("session = %+v", got)
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/sessions/sess-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/sessions/sess-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	var cleared struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cleared); err != nil {
		t.Fatalf("decode cleared session: %v", err)
	}
	if cleared.Email != "" {
		t.Errorf("cleared session still has email %q", cleared.Email)
	}
}

// The legacy /api/ prefix must redirect with the method preserved, or
// every POST endpoint breaks behind the shim.
func TestAPIPrefixRedirectKeepsMethod(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", map[string]string{"email": "artist@example.com"})
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusPermanentRedirect)
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/auth/signup" {
		t.Errorf("Location = %q", loc)
	}
}

func TestCheckoutUnconfigured(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/checkout", map[string]string{"email": "artist@example.com"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

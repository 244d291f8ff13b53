package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"artview/internal/api/v1/dto"
	"artview/internal/session"
)

type SessionHandler struct {
	store *session.Store
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// RegisterRoutes mounts v1 session routes
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/sessions/", h.handleSessions)
}

func (h *SessionHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	// 1. Extract session ID from path
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getSession(w, r, id)
	case http.MethodPut:
		h.updateSession(w, r, id)
	case http.MethodDelete:
		h.deleteSession(w, r, id)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SessionHandler) getSession(w http.ResponseWriter, r *http.Request, id string) {
	st, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.SessionResponseDTO{
		File:        st.File,
		Preferences: st.Preferences,
		Email:       st.Email,
		UpdatedAt:   st.UpdatedAt,
	})
}

func (h *SessionHandler) updateSession(w http.ResponseWriter, r *http.Request, id string) {
	// 1. Decode partial update
	var req dto.SessionUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	// 2. Merge into stored state
	st, err := h.store.Save(r.Context(), id, req.ToUpdate())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save session: "+err.Error())
		return
	}

	// 3. Return the merged state
	writeJSON(w, http.StatusOK, dto.SessionResponseDTO{
		File:        st.File,
		Preferences: st.Preferences,
		Email:       st.Email,
		UpdatedAt:   st.UpdatedAt,
	})
}

func (h *SessionHandler) deleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Clear(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear session: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"artview/internal/api/v1/dto"
	"artview/internal/service"

	"github.com/go-playground/validator/v10"
)

type AccountHandler struct {
	accountService service.AccountService
	validate       *validator.Validate
}

func NewAccountHandler(accountService service.AccountService, v *validator.Validate) *AccountHandler {
	return &AccountHandler{accountService: accountService, validate: v}
}

// RegisterRoutes mounts v1 account routes
func (h *AccountHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/signup", h.signup)
	mux.HandleFunc("/credits", h.handleCredits)
}

func (h *AccountHandler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. Decode request body into DTO
	var req dto.SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	// 2. Validate DTO
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidEmail.Error())
		return
	}

	// 3. Call service to create (or fetch) the account
	account, err := h.accountService.Signup(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create account: "+err.Error())
		return
	}

	// 4. Return response
	writeJSON(w, http.StatusOK, dto.SignupResponseDTO{
		Success:   true,
		ID:        account.ID,
		Email:     account.Email,
		Credits:   account.Credits,
		Plan:      string(account.Plan),
		ExpiresAt: account.ExpiresAt,
	})
}

func (h *AccountHandler) handleCredits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getCredits(w, r)
	case http.MethodPost:
		h.deductCredit(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) getCredits(w http.ResponseWriter, r *http.Request) {
	// 1. Read email from query parameters
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, service.ErrInvalidEmail.Error())
		return
	}

	// 2. Call service to read the balance
	status, err := h.accountService.GetCredits(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check credits: "+err.Error())
		return
	}

	// 3. Return response
	writeJSON(w, http.StatusOK, dto.CreditsResponseDTO{
		Success:   true,
		Credits:   status.Credits,
		Plan:      string(status.Plan),
		ExpiresAt: status.ExpiresAt,
		Expired:   status.Expired,
	})
}

func (h *AccountHandler) deductCredit(w http.ResponseWriter, r *http.Request) {
	// 1. Decode request body into DTO
	var req dto.CreditsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	// 2. Validate DTO and action
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidEmail.Error())
		return
	}
	if req.Action != "deduct" {
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	// 3. Call service to burn one credit
	remaining, err := h.accountService.Deduct(r.Context(), req.Email)
	if err != nil {
		zero := 0
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrCreditsExpired):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponseDTO{
				Success: false,
				Error:   err.Error(),
				Credits: &zero,
				Expired: true,
			})
		case errors.Is(err, service.ErrNoCreditsRemaining):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponseDTO{
				Success:      false,
				Error:        err.Error(),
				Credits:      &zero,
				NeedsUpgrade: true,
			})
		default:
			writeError(w, http.StatusInternalServerError, "Failed to deduct credit: "+err.Error())
		}
		return
	}

	// 4. Return response with the decremented balance
	writeJSON(w, http.StatusOK, dto.CreditsResponseDTO{
		Success: true,
		Credits: remaining,
	})
}

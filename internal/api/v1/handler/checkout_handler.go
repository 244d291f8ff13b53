package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"artview/internal/api/v1/dto"
	"artview/internal/service"

	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validate        *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService, v *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validate: v}
}

// RegisterRoutes mounts v1 checkout routes
func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/checkout", h.createCheckout)
	mux.HandleFunc("/checkout/confirm", h.confirmCheckout)
}

func (h *CheckoutHandler) createCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. Decode request body into DTO
	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	// 2. Validate DTO
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidEmail.Error())
		return
	}

	// 3. Call service to create the Stripe checkout session
	sess, err := h.checkoutService.CreateSession(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPaymentsNotConfigured):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create checkout session: "+err.Error())
		}
		return
	}

	// 4. Return response
	writeJSON(w, http.StatusOK, dto.CheckoutResponseDTO{
		SessionID: sess.ID,
		URL:       sess.URL,
	})
}

func (h *CheckoutHandler) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. Decode request body into DTO
	var req dto.CheckoutConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	// 2. Validate DTO
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	// 3. Call service to verify payment and grant credits
	account, err := h.checkoutService.Confirm(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotPaid):
			writeError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, service.ErrPaymentsNotConfigured):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to confirm checkout session: "+err.Error())
		}
		return
	}

	// 4. Return response with the updated balance
	writeJSON(w, http.StatusOK, dto.CheckoutConfirmResponseDTO{
		Success:   true,
		Email:     account.Email,
		Credits:   account.Credits,
		ExpiresAt: account.ExpiresAt.Format(time.RFC3339),
	})
}

package dto

type CheckoutRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type CheckoutResponseDTO struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type CheckoutConfirmRequestDTO struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type CheckoutConfirmResponseDTO struct {
	Success   bool   `json:"success"`
	Email     string `json:"email"`
	Credits   int    `json:"credits"`
	ExpiresAt string `json:"expiresAt"`
}

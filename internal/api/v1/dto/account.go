package dto

import "time"

type SignupRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type SignupResponseDTO struct {
	Success   bool      `json:"success"`
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Credits   int       `json:"credits"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreditsRequestDTO covers both the balance check and the deduct
// action on the same endpoint.
type CreditsRequestDTO struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"action"`
}

type CreditsResponseDTO struct {
	Success   bool      `json:"success"`
	Credits   int       `json:"credits"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expiresAt"`
	Expired   bool      `json:"expired,omitempty"`
}

package dto

// ErrorResponseDTO is the uniform error envelope. The optional flags
// let clients distinguish "buy more" from "start over".
type ErrorResponseDTO struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	Details      string `json:"details,omitempty"`
	Credits      *int   `json:"credits,omitempty"`
	Expired      bool   `json:"expired,omitempty"`
	NeedsUpgrade bool   `json:"needsUpgrade,omitempty"`
}

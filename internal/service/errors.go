package service

import "errors"

var (
	ErrAccountNotFound       = errors.New("user not found")
	ErrInvalidEmail          = errors.New("valid email is required")
	ErrCreditsExpired        = errors.New("credits have expired")
	ErrNoCreditsRemaining    = errors.New("no credits remaining")
	ErrPaymentsNotConfigured = errors.New("payments are not configured")
	ErrSessionNotPaid        = errors.New("payment session is not paid")
	ErrUnexpectedOutput      = errors.New("unexpected output format from provider")
	ErrCannotExtractURL      = errors.New("cannot extract URL from output object")
)

const maxErrorDetail = 500

// UpstreamError wraps a provider failure: a generic user-facing
// message plus a bounded diagnostic detail.
type UpstreamError struct {
	Msg    string
	Detail string
}

func (e *UpstreamError) Error() string { return e.Msg }

func newUpstreamError(msg string, err error) *UpstreamError {
	detail := err.Error()
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail]
	}
	return &UpstreamError{Msg: msg, Detail: detail}
}

package model

import "time"

type Plan string

const (
	PlanFree      Plan = "free"
	PlanEssential Plan = "essential"
	PlanStandard  Plan = "standard"
	PlanStudio    Plan = "studio"
)

// Account represents a credit-holding account keyed by email
type Account struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Credits   int       `db:"credits" json:"credits"`
	Plan      Plan      `db:"plan" json:"plan"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// Expired reports whether the account's credits have lapsed. Only the
// free plan carries expiry semantics.
func (a *Account) Expired(now time.Time) bool {
	return a.Plan == PlanFree && now.After(a.ExpiresAt)
}

// CreditGrant records a credit purchase, keyed by the payment session
// that funded it so a session can never be credited twice.
type CreditGrant struct {
	SessionID string    `db:"session_id" json:"session_id"`
	Email     string    `db:"email" json:"email"`
	Credits   int       `db:"credits" json:"credits"`
	GrantedAt time.Time `db:"granted_at" json:"granted_at"`
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"artview/internal/model"
	"artview/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Signup issues a small free allowance with a long fuse.
	SignupCredits  = 3
	SignupValidity = 90 * 24 * time.Hour

	// A purchase adds a fixed block with a short fuse; expiry only
	// ever moves forward.
	PurchaseCredits  = 10
	PurchaseValidity = 48 * time.Hour
)

// CreditStatus is the read-side view of an account's balance.
type CreditStatus struct {
	Credits   int
	Plan      model.Plan
	ExpiresAt time.Time
	Expired   bool
}

type AccountService interface {
	Signup(ctx context.Context, email string) (*model.Account, error)
	GetCredits(ctx context.Context, email string) (*CreditStatus, error)
	Deduct(ctx context.Context, email string) (int, error)
	Grant(ctx context.Context, email, paymentSessionID string) (*model.Account, error)
}

type accountService struct {
	repo   repository.AccountRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewAccountService(repo repository.AccountRepository, logger zerolog.Logger) AccountService {
	lg := logger.With().Str("service", "AccountService").Logger()
	return &accountService{repo: repo, logger: lg, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup is idempotent: an existing account is returned unchanged.
func (s *accountService) Signup(ctx context.Context, email string) (*model.Account, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	existing, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now().UTC()
	a := &model.Account{
		ID:        uuid.New().String(),
		Email:     email,
		Credits:   SignupCredits,
		Plan:      model.PlanFree,
		CreatedAt: now,
		ExpiresAt: now.Add(SignupValidity),
	}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		// Lost a signup race for the same email; the winner's row is
		// just as good.
		if again, getErr := s.repo.GetAccountByEmail(ctx, email); getErr == nil && again != nil {
			return again, nil
		}
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("Account created")
	return a, nil
}

func (s *accountService) GetCredits(ctx context.Context, email string) (*CreditStatus, error) {
	a, err := s.account(ctx, email)
	if err != nil {
		return nil, err
	}
	if a.Expired(s.now()) {
		return &CreditStatus{Credits: 0, Plan: a.Plan, ExpiresAt: a.ExpiresAt, Expired: true}, nil
	}
	return &CreditStatus{Credits: a.Credits, Plan: a.Plan, ExpiresAt: a.ExpiresAt}, nil
}

// Deduct burns one credit and returns the remaining balance.
func (s *accountService) Deduct(ctx context.Context, email string) (int, error) {
	a, err := s.account(ctx, email)
	if err != nil {
		return 0, err
	}
	if a.Expired(s.now()) {
		return 0, ErrCreditsExpired
	}
	remaining, err := s.repo.DeductCredit(ctx, a.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNoCredits) {
			return 0, ErrNoCreditsRemaining
		}
		return 0, err
	}
	s.logger.Debug().Str("email", a.Email).Int("remaining", remaining).Msg("Credit deducted")
	return remaining, nil
}

// Grant credits a confirmed purchase. Grants are keyed by payment
// session, so replaying a session returns the current balance without
// crediting again. Expiry moves to max(current, now+48h).
func (s *accountService) Grant(ctx context.Context, email, paymentSessionID string) (*model.Account, error) {
	email = normalizeEmail(email)
	a, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		// Purchases from an address that never signed up still land
		// somewhere usable.
		if a, err = s.Signup(ctx, email); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	newExpiry := now.Add(PurchaseValidity)
	if a.ExpiresAt.After(newExpiry) {
		newExpiry = a.ExpiresAt
	}

	applied, err := s.repo.GrantCredits(ctx, &model.CreditGrant{
		SessionID: paymentSessionID,
		Email:     a.Email,
		Credits:   PurchaseCredits,
		GrantedAt: now,
	}, newExpiry)
	if err != nil {
		return nil, err
	}
	if applied {
		s.logger.Info().Str("email", a.Email).Str("payment_session", paymentSessionID).Msg("Credits granted")
	} else {
		s.logger.Info().Str("payment_session", paymentSessionID).Msg("Grant already recorded for session, skipping")
	}

	return s.repo.GetAccountByEmail(ctx, a.Email)
}

func (s *accountService) account(ctx context.Context, email string) (*model.Account, error) {
	a, err := s.repo.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

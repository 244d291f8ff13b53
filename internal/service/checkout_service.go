package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"artview/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
)

// Price and product are fixed server-side; the client never chooses
// the amount it pays.
const (
	checkoutAmountCents = 500
	productName         = "Artwork Context - 10 Generations"
	productDescription  = "Generate 10 AI-powered artwork placements in different environments"
)

type CheckoutSession struct {
	ID  string
	URL string
}

type CheckoutService interface {
	CreateSession(ctx context.Context, email string) (*CheckoutSession, error)
	Confirm(ctx context.Context, sessionID string) (*model.Account, error)
}

type checkoutService struct {
	accounts AccountService
	baseURL  string
	enabled  bool
	logger   zerolog.Logger
}

// NewCheckoutService initializes the Stripe key and returns the
// service with a scoped logger.
func NewCheckoutService(secretKey, baseURL string, accounts AccountService, logger zerolog.Logger) CheckoutService {
	stripe.Key = secretKey
	lg := logger.With().Str("service", "CheckoutService").Logger()
	return &checkoutService{
		accounts: accounts,
		baseURL:  strings.TrimRight(baseURL, "/"),
		enabled:  secretKey != "",
		logger:   lg,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, email string) (*CheckoutSession, error) {
	if !s.enabled {
		return nil, ErrPaymentsNotConfigured
	}
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(productName),
					Description: stripe.String(productDescription),
				},
				UnitAmount: stripe.Int64(checkoutAmountCents),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.baseURL + "/upload"),
		Metadata: map[string]string{
			"email":   email,
			"credits": strconv.Itoa(PurchaseCredits),
		},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to create Stripe checkout session")
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// Confirm retrieves the checkout session from Stripe, verifies it was
// actually paid, and credits the account exactly once. The session ID
// comes from the success redirect and is treated as untrusted input.
func (s *checkoutService) Confirm(ctx context.Context, sessionID string) (*model.Account, error) {
	if !s.enabled {
		return nil, ErrPaymentsNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		s.logger.Warn().Err(err).Str("payment_session", sessionID).Msg("Failed to retrieve checkout session")
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrSessionNotPaid
	}

	email := sess.Metadata["email"]
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	if email == "" {
		return nil, errors.New("checkout session has no email")
	}

	return s.accounts.Grant(ctx, email, sess.ID)
}

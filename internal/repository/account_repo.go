package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"artview/internal/model"
)

// ErrNoCredits is returned when a conditional decrement matches no
// row, i.e. the balance is already zero.
var ErrNoCredits = errors.New("no credits remaining")

type AccountRepository interface {
	CreateAccount(ctx context.Context, a *model.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	DeductCredit(ctx context.Context, email string) (int, error)
	GrantCredits(ctx context.Context, g *model.CreditGrant, newExpiry time.Time) (bool, error)
	GetGrant(ctx context.Context, sessionID string) (*model.CreditGrant, error)
}

type accountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) CreateAccount(ctx context.Context, a *model.Account) error {
	query := `INSERT INTO accounts (id, email, credits, plan, created_at, expires_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.Credits, a.Plan, a.CreatedAt, a.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *accountRepo) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	query := `SELECT id, email, credits, plan, created_at, expires_at FROM accounts WHERE email = ?`
	row := r.db.QueryRowContext(ctx, query, email)
	if err := row.Scan(&a.ID, &a.Email, &a.Credits, &a.Plan, &a.CreatedAt, &a.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// DeductCredit decrements the balance by one in a single conditional
// UPDATE. Concurrent deducts serialize on the row, so updates are
// never lost; a zero balance matches no row and leaves it untouched.
func (r *accountRepo) DeductCredit(ctx context.Context, email string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET credits = credits - 1 WHERE email = ? AND credits > 0`, email)
	if err != nil {
		return 0, fmt.Errorf("deduct credit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNoCredits
	}

	var remaining int
	row := r.db.QueryRowContext(ctx, `SELECT credits FROM accounts WHERE email = ?`, email)
	if err := row.Scan(&remaining); err != nil {
		return 0, err
	}
	return remaining, nil
}

// GrantCredits records a purchase and credits the account in one
// transaction. The grant is keyed by payment session; a replayed
// session inserts nothing and the balance is left alone. Returns
// whether the grant was applied.
func (r *accountRepo) GrantCredits(ctx context.Context, g *model.CreditGrant, newExpiry time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin grant tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO credit_grants (session_id, email, credits, granted_at) VALUES (?, ?, ?, ?)`,
		g.SessionID, g.Email, g.Credits, g.GrantedAt)
	if err != nil {
		return false, fmt.Errorf("record grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET credits = credits + ?, expires_at = ? WHERE email = ?`,
		g.Credits, newExpiry, g.Email); err != nil {
		return false, fmt.Errorf("apply grant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit grant: %w", err)
	}
	return true, nil
}

func (r *accountRepo) GetGrant(ctx context.Context, sessionID string) (*model.CreditGrant, error) {
	var g model.CreditGrant
	query := `SELECT session_id, email, credits, granted_at FROM credit_grants WHERE session_id = ?`
	row := r.db.QueryRowContext(ctx, query, sessionID)
	if err := row.Scan(&g.SessionID, &g.Email, &g.Credits, &g.GrantedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

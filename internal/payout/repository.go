package payout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrPayoutNotFound = errors.New("payout not found")
	ErrDuplicateKey   = errors.New("idempotency key already used")
)

type Repository interface {
	Create(ctx context.Context, p *Payout) error
	GetByID(ctx context.Context, id int) (*Payout, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Payout, error)
	UpdateStatus(ctx context.Context, id int, status, gatewayPayoutID, failureReason string) error
	RecordRetry(ctx context.Context, id int) error
	List(ctx context.Context, limit, offset int) ([]Payout, error)
	ListNeedingAttention(ctx context.Context) ([]Payout, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payout) error {
	query := `
		INSERT INTO payouts
			(user_id, entity_type, entity_id, fund_account_id, amount_cents,
			 currency, status, idempotency_key, max_retries)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID, p.EntityType, p.EntityID, p.FundAccountID, p.AmountCents,
		p.Currency, p.Status, p.IdempotencyKey, p.MaxRetries,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payout, error) {
	var p Payout
	err := r.db.GetContext(ctx, &p, `SELECT * FROM payouts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payout: %w", err)
	}
	return &p, nil
}

func (r *repository) GetByIdempotencyKey(ctx context.Context, key string) (*Payout, error) {
	var p Payout
	err := r.db.GetContext(ctx, &p, `SELECT * FROM payouts WHERE idempotency_key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payout by key: %w", err)
	}
	return &p, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status, gatewayPayoutID, failureReason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payouts
		SET status = $1,
		    gateway_payout_id = COALESCE(NULLIF($2, ''), gateway_payout_id),
		    failure_reason = $3,
		    updated_at = NOW()
		WHERE id = $4`,
		status, gatewayPayoutID, failureReason, id)
	if err != nil {
		return fmt.Errorf("update payout status: %w", err)
	}
	return nil
}

func (r *repository) RecordRetry(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payouts
		SET retry_count = retry_count + 1, last_retry_at = NOW(), updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("record payout retry: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Payout, error) {
	payouts := []Payout{}
	err := r.db.SelectContext(ctx, &payouts,
		`SELECT * FROM payouts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	return payouts, nil
}

// ListNeedingAttention returns every failed payout, including those whose
// automatic retries are exhausted and now need manual intervention, plus
// rows stuck in a pre-terminal status for over an hour.
func (r *repository) ListNeedingAttention(ctx context.Context) ([]Payout, error) {
	payouts := []Payout{}
	err := r.db.SelectContext(ctx, &payouts, `
		SELECT * FROM payouts
		WHERE status = 'failed'
		   OR (status IN ('queued', 'pending', 'processing')
		       AND updated_at < NOW() - INTERVAL '1 hour')
		ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("list payouts needing attention: %w", err)
	}
	return payouts, nil
}

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	InsertHistory(ctx context.Context, h *OrderHistory) error
	InsertPayment(ctx context.Context, p *Payment) error
	GetHistoryByOrderID(ctx context.Context, orderID string) (*OrderHistory, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error)
	MarkHistoryFailed(ctx context.Context, orderID string) error
	MarkCapturedTx(ctx context.Context, tx *sqlx.Tx, orderID, transactionID, paymentMode string, totalCents int64) error
	MarkFailedTx(ctx context.Context, tx *sqlx.Tx, orderID string, totalCents int64) error
	ListByUser(ctx context.Context, userID int) ([]OrderHistory, error)
	List(ctx context.Context, limit, offset int) ([]OrderHistory, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertHistory(ctx context.Context, h *OrderHistory) error {
	query := `
		INSERT INTO order_histories
			(order_id, user_id, order_type, target_id, base_cents,
			 processing_fee_cents, convenience_fee_cents, gst_cents,
			 total_cents, currency, receipt, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		h.OrderID, h.UserID, h.OrderType, h.TargetID, h.BaseCents,
		h.ProcessingFeeCents, h.ConvenienceFeeCents, h.GSTCents,
		h.TotalCents, h.Currency, h.Receipt, h.Status,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order history: %w", err)
	}
	return nil
}

func (r *repository) InsertPayment(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments
			(order_id, user_id, order_type, amount_cents, amount_paid_cents,
			 amount_due_cents, payment_mode, transaction_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.OrderID, p.UserID, p.OrderType, p.AmountCents, p.AmountPaidCents,
		p.AmountDueCents, p.PaymentMode, p.TransactionID, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *repository) GetHistoryByOrderID(ctx context.Context, orderID string) (*OrderHistory, error) {
	var h OrderHistory
	err := r.db.GetContext(ctx, &h,
		`SELECT * FROM order_histories WHERE order_id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order history: %w", err)
	}
	return &h, nil
}

func (r *repository) GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM payments WHERE order_id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// MarkHistoryFailed is the compensating write for a failed payment-row
// insert: the ledger row must not stay Pending with no payment twin.
func (r *repository) MarkHistoryFailed(ctx context.Context, orderID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE order_histories SET status = $1, updated_at = NOW() WHERE order_id = $2`,
		StatusFailed, orderID)
	if err != nil {
		return fmt.Errorf("mark order history failed: %w", err)
	}
	return nil
}

// MarkCapturedTx flips both rows to Successful inside the caller's
// transaction. Guarded on current status so a replayed webhook is a no-op
// at the row level.
func (r *repository) MarkCapturedTx(ctx context.Context, tx *sqlx.Tx, orderID, transactionID, paymentMode string, totalCents int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE order_histories SET status = $1, updated_at = NOW()
		 WHERE order_id = $2 AND status = $3`,
		StatusSuccessful, orderID, StatusPending)
	if err != nil {
		return fmt.Errorf("mark history captured: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payments
		 SET status = $1, amount_paid_cents = $2, amount_due_cents = 0,
		     transaction_id = $3, payment_mode = COALESCE(NULLIF($4, ''), payment_mode),
		     updated_at = NOW()
		 WHERE order_id = $5 AND status = $6`,
		StatusSuccessful, totalCents, transactionID, paymentMode, orderID, StatusPending)
	if err != nil {
		return fmt.Errorf("mark payment captured: %w", err)
	}
	return nil
}

// MarkFailedTx flips both rows to Failed and restores the full amount due.
func (r *repository) MarkFailedTx(ctx context.Context, tx *sqlx.Tx, orderID string, totalCents int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE order_histories SET status = $1, updated_at = NOW()
		 WHERE order_id = $2 AND status = $3`,
		StatusFailed, orderID, StatusPending)
	if err != nil {
		return fmt.Errorf("mark history failed: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payments
		 SET status = $1, amount_paid_cents = 0, amount_due_cents = $2, updated_at = NOW()
		 WHERE order_id = $3 AND status = $4`,
		StatusFailed, totalCents, orderID, StatusPending)
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]OrderHistory, error) {
	histories := []OrderHistory{}
	err := r.db.SelectContext(ctx, &histories,
		`SELECT * FROM order_histories WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	return histories, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]OrderHistory, error) {
	histories := []OrderHistory{}
	err := r.db.SelectContext(ctx, &histories,
		`SELECT * FROM order_histories ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return histories, nil
}

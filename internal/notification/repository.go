package notification

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	WriteTx(ctx context.Context, tx *sqlx.Tx, n *Outbox) error
	Write(ctx context.Context, n *Outbox) error
	FetchPending(ctx context.Context, limit int) ([]Outbox, error)
	MarkSent(ctx context.Context, id int) error
	MarkAttemptFailed(ctx context.Context, id int, tries, maxTries int, errMsg string) error
	PendingCount(ctx context.Context) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const insertQuery = `
	INSERT INTO notification_outbox (user_id, channel, recipient, subject, body, status)
	VALUES ($1, $2, $3, $4, $5, 'pending')
	RETURNING id, created_at`

// WriteTx enqueues inside the caller's transaction. This is the only way
// payment-driven notifications get written.
func (r *repository) WriteTx(ctx context.Context, tx *sqlx.Tx, n *Outbox) error {
	err := tx.QueryRowxContext(ctx, insertQuery,
		n.UserID, n.Channel, n.Recipient, n.Subject, n.Body,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	n.Status = StatusPending
	return nil
}

func (r *repository) Write(ctx context.Context, n *Outbox) error {
	err := r.db.QueryRowxContext(ctx, insertQuery,
		n.UserID, n.Channel, n.Recipient, n.Subject, n.Body,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	n.Status = StatusPending
	return nil
}

// FetchPending returns the oldest unsent rows. One worker per process;
// rows are only retried after the poll that failed them completes.
func (r *repository) FetchPending(ctx context.Context, limit int) ([]Outbox, error) {
	rows := []Outbox{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM notification_outbox
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending notifications: %w", err)
	}
	return rows, nil
}

func (r *repository) MarkSent(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = 'sent', tries = tries + 1, processed_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// MarkAttemptFailed bumps the try counter; the row goes terminal once the
// cap is hit, otherwise it stays pending for the next poll.
func (r *repository) MarkAttemptFailed(ctx context.Context, id int, tries, maxTries int, errMsg string) error {
	status := StatusPending
	if tries+1 >= maxTries {
		status = StatusFailed
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = $1, tries = tries + 1, last_error = $2, processed_at = NOW()
		WHERE id = $3`, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}

func (r *repository) PendingCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM notification_outbox WHERE status = 'pending'`)
	if err != nil {
		return 0, fmt.Errorf("count pending notifications: %w", err)
	}
	return n, nil
}

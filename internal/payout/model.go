package payout

import "time"

// Gateway payout lifecycle. Queued and pending are pre-processing states;
// processed and reversed are terminal.
const (
	StatusQueued     = "queued"
	StatusPending    = "pending"
	StatusRejected   = "rejected"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusCancelled  = "cancelled"
	StatusReversed   = "reversed"
	StatusFailed     = "failed"
)

const (
	EntityVenue    = "venue"
	EntityProvider = "provider"
)

const DefaultMaxRetries = 3

// Payout is one transfer of collected money to a venue or provider owner.
// IdempotencyKey is unique: submitting the same key twice can never move
// money twice.
type Payout struct {
	ID              int        `db:"id" json:"id"`
	UserID          int        `db:"user_id" json:"user_id"`
	EntityType      string     `db:"entity_type" json:"entity_type"`
	EntityID        int        `db:"entity_id" json:"entity_id"`
	FundAccountID   string     `db:"fund_account_id" json:"fund_account_id"`
	AmountCents     int64      `db:"amount_cents" json:"amount_cents"`
	Currency        string     `db:"currency" json:"currency"`
	Status          string     `db:"status" json:"status"`
	GatewayPayoutID string     `db:"gateway_payout_id" json:"gateway_payout_id"`
	IdempotencyKey  string     `db:"idempotency_key" json:"idempotency_key"`
	RetryCount      int        `db:"retry_count" json:"retry_count"`
	MaxRetries      int        `db:"max_retries" json:"max_retries"`
	LastRetryAt     *time.Time `db:"last_retry_at" json:"last_retry_at,omitempty"`
	FailureReason   string     `db:"failure_reason" json:"failure_reason"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type CreatePayoutRequest struct {
	EntityType     string `json:"entity_type" binding:"required,oneof=venue provider"`
	EntityID       int    `json:"entity_id" binding:"required"`
	AmountCents    int64  `json:"amount_cents" binding:"required,min=100"`
	IdempotencyKey string `json:"idempotency_key"`
}

// validNext encodes the allowed status transitions. A gateway report that
// does not follow an edge here is rejected rather than applied.
var validNext = map[string][]string{
	StatusQueued:     {StatusPending, StatusProcessing, StatusRejected, StatusCancelled, StatusFailed},
	StatusPending:    {StatusQueued, StatusProcessing, StatusRejected, StatusCancelled, StatusFailed},
	StatusProcessing: {StatusProcessed, StatusReversed, StatusFailed},
	StatusProcessed:  {StatusReversed},
	StatusRejected:   {},
	StatusCancelled:  {},
	StatusReversed:   {},
	// A failed row re-enters the pipeline on retry, and the gateway may
	// still report a pre-processing status when the submission response
	// was lost.
	StatusFailed: {StatusQueued, StatusPending, StatusProcessing},
}

// CanTransition reports whether a payout may move from one status to
// another. Same-status updates are allowed as no-ops.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range validNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further gateway updates are expected.
func IsTerminal(status string) bool {
	return status == StatusProcessed || status == StatusReversed ||
		status == StatusRejected || status == StatusCancelled
}

// Retryable payouts failed without moving money.
func Retryable(status string) bool {
	return status == StatusFailed
}

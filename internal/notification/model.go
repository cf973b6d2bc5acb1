package notification

import "time"

const (
	ChannelEmail = "email"
	ChannelPush  = "push"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Outbox is one queued notification. Rows are written in the same
// transaction as the state change they announce, so a crash between the
// commit and the send loses nothing.
type Outbox struct {
	ID          int        `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"user_id"`
	Channel     string     `db:"channel" json:"channel"`
	Recipient   string     `db:"recipient" json:"recipient"`
	Subject     string     `db:"subject" json:"subject"`
	Body        string     `db:"body" json:"body"`
	Status      string     `db:"status" json:"status"`
	Tries       int        `db:"tries" json:"tries"`
	LastError   string     `db:"last_error" json:"last_error"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

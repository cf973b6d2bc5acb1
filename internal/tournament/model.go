package tournament

import "time"

const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

type Tournament struct {
	ID            int       `db:"id" json:"id"`
	OrganizerID   int       `db:"organizer_id" json:"organizer_id"`
	Name          string    `db:"name" json:"name"`
	Sport         string    `db:"sport" json:"sport"`
	EntryFeeCents int64     `db:"entry_fee_cents" json:"entry_fee_cents"`
	Status        string    `db:"status" json:"status"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// PaymentRef ties a captured order to the tournament it paid for. The
// unique order id makes the webhook side effect replay-safe.
type PaymentRef struct {
	ID           int       `db:"id" json:"id"`
	TournamentID int       `db:"tournament_id" json:"tournament_id"`
	OrderID      string    `db:"order_id" json:"order_id"`
	UserID       int       `db:"user_id" json:"user_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Sponsor struct {
	ID           int       `db:"id" json:"id"`
	TournamentID int       `db:"tournament_id" json:"tournament_id"`
	OrderID      string    `db:"order_id" json:"order_id"`
	SponsorID    int       `db:"sponsor_id" json:"sponsor_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreateTournamentRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=120"`
	Sport         string `json:"sport" binding:"required"`
	EntryFeeCents int64  `json:"entry_fee_cents" binding:"required,min=0"`
	StartDate     string `json:"start_date" binding:"required"`
}

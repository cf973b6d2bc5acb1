package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType tags which entity an order pays for. Exactly one target kind
// per order; the (order_type, target_id) pair replaces a row of nullable
// foreign keys.
type OrderType string

const (
	TypeTournament OrderType = "tournament"
	TypeBanner     OrderType = "banner"
	TypeShop       OrderType = "shop"
	TypeVenue      OrderType = "venue"
	TypeProvider   OrderType = "provider"
	TypeSponsor    OrderType = "sponsor"
	TypeBooking    OrderType = "booking"
)

const (
	StatusPending    = "Pending"
	StatusSuccessful = "Successful"
	StatusFailed     = "Failed"
)

// OrderHistory is the ledger row for one checkout attempt. Created Pending
// at order initiation; only the webhook path mutates it afterwards.
type OrderHistory struct {
	ID                  int       `db:"id" json:"id"`
	OrderID             string    `db:"order_id" json:"order_id"`
	UserID              int       `db:"user_id" json:"user_id"`
	OrderType           OrderType `db:"order_type" json:"order_type"`
	TargetID            int       `db:"target_id" json:"target_id"`
	BaseCents           int64     `db:"base_cents" json:"base_cents"`
	ProcessingFeeCents  int64     `db:"processing_fee_cents" json:"processing_fee_cents"`
	ConvenienceFeeCents int64     `db:"convenience_fee_cents" json:"convenience_fee_cents"`
	GSTCents            int64     `db:"gst_cents" json:"gst_cents"`
	TotalCents          int64     `db:"total_cents" json:"total_cents"`
	Currency            string    `db:"currency" json:"currency"`
	Receipt             string    `db:"receipt" json:"receipt"`
	Status              string    `db:"status" json:"status"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Payment mirrors OrderHistory 1:1 by order id and additionally tracks the
// money actually collected. The two rows always agree on status after any
// webhook has been fully processed.
type Payment struct {
	ID              int       `db:"id" json:"id"`
	OrderID         string    `db:"order_id" json:"order_id"`
	UserID          int       `db:"user_id" json:"user_id"`
	OrderType       OrderType `db:"order_type" json:"order_type"`
	AmountCents     int64     `db:"amount_cents" json:"amount_cents"`
	AmountPaidCents int64     `db:"amount_paid_cents" json:"amount_paid_cents"`
	AmountDueCents  int64     `db:"amount_due_cents" json:"amount_due_cents"`
	PaymentMode     string    `db:"payment_mode" json:"payment_mode"`
	TransactionID   string    `db:"transaction_id" json:"transaction_id"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CreateOrderRequest carries amounts in rupees; they are converted to paise
// with decimal arithmetic before touching the gateway.
type CreateOrderRequest struct {
	TargetID       int             `json:"target_id" binding:"required"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	ProcessingFee  decimal.Decimal `json:"processing_fee"`
	ConvenienceFee decimal.Decimal `json:"convenience_fee"`
	GSTAmount      decimal.Decimal `json:"gst_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" binding:"required"`
	PaymentMode    string          `json:"payment_mode"`
}

// WebhookEvent is the normalized gateway callback.
type WebhookEvent struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Method    string `json:"method"`
	Amount    int64  `json:"amount"`
	Attempts  int    `json:"attempts"`
}

// WebhookRequest matches the gateway's callback envelope.
type WebhookRequest struct {
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
				Method  string `json:"method"`
				Amount  int64  `json:"amount"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ToPaise converts a rupee amount to integer paise.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

package provider

import "time"

// Provider is an individual service provider (coach, umpire, physio) who
// sells sessions through the platform.
type Provider struct {
	ID               int        `db:"id" json:"id"`
	UserID           int        `db:"user_id" json:"user_id"`
	DisplayName      string     `db:"display_name" json:"display_name"`
	Service          string     `db:"service" json:"service"`
	RateCents        int64      `db:"rate_cents" json:"rate_cents"`
	FundAccountID    string     `db:"fund_account_id" json:"-"`
	PackageExpiresAt *time.Time `db:"package_expires_at" json:"package_expires_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

type CreateProviderRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=2,max=120"`
	Service     string `json:"service" binding:"required"`
	RateCents   int64  `json:"rate_cents" binding:"required,min=0"`
}

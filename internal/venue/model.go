package venue

import "time"

type Venue struct {
	ID               int        `db:"id" json:"id"`
	OwnerID          int        `db:"owner_id" json:"owner_id"`
	Name             string     `db:"name" json:"name"`
	Location         string     `db:"location" json:"location"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	FundAccountID    string     `db:"fund_account_id" json:"-"`
	PackageExpiresAt *time.Time `db:"package_expires_at" json:"package_expires_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// VenueSport is one bookable sport at a venue. PlayableAreas is the number
// of courts/turfs for that sport; bookings reference an area by index.
type VenueSport struct {
	ID            int    `db:"id" json:"id"`
	VenueID       int    `db:"venue_id" json:"venue_id"`
	Sport         string `db:"sport" json:"sport"`
	PlayableAreas int    `db:"playable_areas" json:"playable_areas"`
	PriceCents    int64  `db:"price_cents" json:"price_cents"`
}

type VenueWithSports struct {
	Venue
	Sports []VenueSport `json:"sports"`
}

type CreateVenueRequest struct {
	Name     string                   `json:"name" binding:"required,min=2,max=120"`
	Location string                   `json:"location" binding:"required"`
	Sports   []CreateVenueSportInput  `json:"sports" binding:"required,min=1,dive"`
}

type CreateVenueSportInput struct {
	Sport         string `json:"sport" binding:"required"`
	PlayableAreas int    `json:"playable_areas" binding:"required,min=1"`
	PriceCents    int64  `json:"price_cents" binding:"required,min=0"`
}

package booking

import "time"

const (
	PaymentPending    = "pending"
	PaymentSuccessful = "successful"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	PatternSingle   = "single"
	PatternMultiple = "multiple"
)

// Booking is one checkout's reservation. While the payment is in flight the
// row holds a lock (is_locked + locked_until + session_id); a slot is taken
// if a confirmed booking or an unexpired lock covers it.
type Booking struct {
	ID            int        `db:"id" json:"id"`
	VenueID       int        `db:"venue_id" json:"venue_id"`
	UserID        int        `db:"user_id" json:"user_id"`
	Sport         string     `db:"sport" json:"sport"`
	Pattern       string     `db:"pattern" json:"pattern"`
	TotalCents    int64      `db:"total_cents" json:"total_cents"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
	Status        string     `db:"status" json:"status"`
	IsLocked      bool       `db:"is_locked" json:"is_locked"`
	LockedUntil   *time.Time `db:"locked_until" json:"locked_until,omitempty"`
	SessionID     string     `db:"session_id" json:"session_id"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Slot is one reserved (date, time range, playable area) of a booking.
// Times are minutes from midnight.
type Slot struct {
	ID           int       `db:"id" json:"id"`
	BookingID    int       `db:"booking_id" json:"booking_id"`
	PlayDate     time.Time `db:"play_date" json:"play_date"`
	StartMinutes int       `db:"start_minutes" json:"start_minutes"`
	EndMinutes   int       `db:"end_minutes" json:"end_minutes"`
	AreaIndex    int       `db:"area_index" json:"area_index"`
}

type BookingWithSlots struct {
	Booking
	Slots []Slot `json:"slots"`
}

type SlotInput struct {
	StartMinutes int `json:"start_minutes" binding:"min=0,max=1439"`
	EndMinutes   int `json:"end_minutes" binding:"required,min=1,max=1440"`
	AreaIndex    int `json:"area_index" binding:"min=0"`
}

type DateInput struct {
	Date  string      `json:"date" binding:"required"`
	Slots []SlotInput `json:"slots" binding:"required,min=1,dive"`
}

type CheckoutRequest struct {
	VenueID   int         `json:"venue_id" binding:"required"`
	Sport     string      `json:"sport" binding:"required"`
	SessionID string      `json:"session_id"`
	Dates     []DateInput `json:"dates" binding:"required,min=1,dive"`
}

type BookedSlot struct {
	PlayDate     time.Time `db:"play_date" json:"play_date"`
	StartMinutes int       `db:"start_minutes" json:"start_minutes"`
	EndMinutes   int       `db:"end_minutes" json:"end_minutes"`
	AreaIndex    int       `db:"area_index" json:"area_index"`
	Status       string    `db:"status" json:"status"`
}

package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotUnavailable = errors.New("slot unavailable")
)

type Repository interface {
	AcquireLock(ctx context.Context, b *Booking, slots []Slot) (*BookingWithSlots, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetWithSlots(ctx context.Context, id int) (*BookingWithSlots, error)
	ReleaseLock(ctx context.Context, id int) error
	Confirm(ctx context.Context, tx *sqlx.Tx, id int) error
	MarkPaymentFailed(ctx context.Context, tx *sqlx.Tx, id int) error
	Cancel(ctx context.Context, id int) error
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListByVenue(ctx context.Context, venueID int) ([]Booking, error)
	BookedSlots(ctx context.Context, venueID int, sport string, date time.Time) ([]BookedSlot, error)
	DeleteExpiredLocks(ctx context.Context) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// slotConflictQuery treats a slot as taken when a confirmed booking or an
// unexpired lock covers an overlapping time range on the same area. Expired
// locks are invisible here even before the sweeper removes the rows.
const slotConflictQuery = `
	SELECT EXISTS(
		SELECT 1
		FROM bookings b
		JOIN booking_slots s ON s.booking_id = b.id
		WHERE b.venue_id = $1
		  AND b.sport = $2
		  AND s.play_date = $3
		  AND s.area_index = $4
		  AND s.start_minutes < $6
		  AND $5 < s.end_minutes
		  AND b.status <> 'cancelled'
		  AND (b.status = 'confirmed' OR (b.is_locked AND b.locked_until > NOW()))
	)
`

// AcquireLock is the platform's one true mutual-exclusion point. The venue
// row lock serializes concurrent checkouts for the same venue, so the
// conflict check and insert act as a single compare-and-swap.
func (r *repository) AcquireLock(ctx context.Context, b *Booking, slots []Slot) (*BookingWithSlots, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var venueID int
	err = tx.GetContext(ctx, &venueID, `SELECT id FROM venues WHERE id = $1 FOR UPDATE`, b.VenueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	for _, s := range slots {
		var taken bool
		err = tx.GetContext(ctx, &taken, slotConflictQuery,
			b.VenueID, b.Sport, s.PlayDate, s.AreaIndex, s.StartMinutes, s.EndMinutes)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlotUnavailable
		}
	}

	var created Booking
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO bookings
			(venue_id, user_id, sport, pattern, total_cents, payment_status, status, is_locked, locked_until, session_id)
		 VALUES ($1, $2, $3, $4, $5, 'pending', 'pending', true, $6, $7)
		 RETURNING id, venue_id, user_id, sport, pattern, total_cents, payment_status, status, is_locked, locked_until, session_id, created_at`,
		b.VenueID, b.UserID, b.Sport, b.Pattern, b.TotalCents, b.LockedUntil, b.SessionID,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}

	out := &BookingWithSlots{Booking: created}
	for _, s := range slots {
		var inserted Slot
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO booking_slots (booking_id, play_date, start_minutes, end_minutes, area_index)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, booking_id, play_date, start_minutes, end_minutes, area_index`,
			created.ID, s.PlayDate, s.StartMinutes, s.EndMinutes, s.AreaIndex,
		).StructScan(&inserted)
		if err != nil {
			return nil, err
		}
		out.Slots = append(out.Slots, inserted)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b,
		`SELECT id, venue_id, user_id, sport, pattern, total_cents, payment_status, status, is_locked, locked_until, session_id, created_at
		 FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetWithSlots(ctx context.Context, id int) (*BookingWithSlots, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	err = r.db.SelectContext(ctx, &slots,
		`SELECT id, booking_id, play_date, start_minutes, end_minutes, area_index
		 FROM booking_slots WHERE booking_id = $1 ORDER BY play_date, start_minutes`, id)
	if err != nil {
		return nil, err
	}

	return &BookingWithSlots{Booking: *b, Slots: slots}, nil
}

func (r *repository) ReleaseLock(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET is_locked = false WHERE id = $1`, id)
	return err
}

// Confirm runs inside the webhook transaction so booking and payment state
// commit together.
func (r *repository) Confirm(ctx context.Context, tx *sqlx.Tx, id int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings
		 SET status = 'confirmed', payment_status = 'successful', is_locked = false
		 WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	// Zero rows on replay: already confirmed.
	_, err = res.RowsAffected()
	return err
}

func (r *repository) MarkPaymentFailed(ctx context.Context, tx *sqlx.Tx, id int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings
		 SET payment_status = 'failed', is_locked = false
		 WHERE id = $1 AND status = 'pending'`, id)
	return err
}

func (r *repository) Cancel(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings
		 SET status = 'cancelled', is_locked = false
		 WHERE id = $1 AND status IN ('pending', 'confirmed')`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT id, venue_id, user_id, sport, pattern, total_cents, payment_status, status, is_locked, locked_until, session_id, created_at
		 FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByVenue(ctx context.Context, venueID int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT id, venue_id, user_id, sport, pattern, total_cents, payment_status, status, is_locked, locked_until, session_id, created_at
		 FROM bookings WHERE venue_id = $1 ORDER BY created_at DESC`, venueID)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) BookedSlots(ctx context.Context, venueID int, sport string, date time.Time) ([]BookedSlot, error) {
	var slots []BookedSlot
	err := r.db.SelectContext(ctx, &slots,
		`SELECT s.play_date, s.start_minutes, s.end_minutes, s.area_index, b.status
		 FROM booking_slots s
		 JOIN bookings b ON b.id = s.booking_id
		 WHERE b.venue_id = $1
		   AND b.sport = $2
		   AND s.play_date = $3
		   AND b.status <> 'cancelled'
		   AND (b.status = 'confirmed' OR (b.is_locked AND b.locked_until > NOW()))
		 ORDER BY s.start_minutes`, venueID, sport, date)
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// DeleteExpiredLocks removes locked-but-unpaid bookings whose window has
// passed. The conflict query already ignores them, so the sweep only keeps
// the table from accumulating dead rows.
func (r *repository) DeleteExpiredLocks(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM bookings
		 WHERE is_locked AND locked_until <= NOW() AND status = 'pending' AND payment_status = 'pending'`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

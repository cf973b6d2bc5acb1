package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/internal/auth"
	"courtside/internal/logger"
	"courtside/internal/metrics"
	"courtside/internal/venue"

	"github.com/google/uuid"
)

var (
	ErrSportNotOffered = errors.New("sport not offered at this venue")
	ErrBadSlot         = errors.New("invalid slot")
	ErrNotOwner        = errors.New("can only cancel own bookings")
)

type Service interface {
	AcquireLock(ctx context.Context, principal auth.Principal, req CheckoutRequest) (*BookingWithSlots, error)
	ReleaseLock(ctx context.Context, bookingID int) error
	Cancel(ctx context.Context, principal auth.Principal, bookingID int) error
	GetWithSlots(ctx context.Context, bookingID int) (*BookingWithSlots, error)
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListByVenue(ctx context.Context, venueID int) ([]Booking, error)
	Availability(ctx context.Context, venueID int, sport string, date time.Time) ([]BookedSlot, error)
	StartSweeper(ctx context.Context, interval time.Duration)
}

type service struct {
	repo       Repository
	venueRepo  venue.Repository
	lockWindow time.Duration
}

func NewService(repo Repository, venueRepo venue.Repository, lockWindow time.Duration) Service {
	return &service{
		repo:       repo,
		venueRepo:  venueRepo,
		lockWindow: lockWindow,
	}
}

func (s *service) AcquireLock(ctx context.Context, principal auth.Principal, req CheckoutRequest) (*BookingWithSlots, error) {
	sport, err := s.venueRepo.GetSport(ctx, req.VenueID, req.Sport)
	if err != nil {
		return nil, ErrSportNotOffered
	}

	today := time.Now().Truncate(24 * time.Hour)

	var slots []Slot
	var totalCents int64
	for _, d := range req.Dates {
		playDate, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrBadSlot)
		}
		if playDate.Before(today) {
			return nil, fmt.Errorf("%w: cannot book a past date", ErrBadSlot)
		}
		for _, in := range d.Slots {
			if in.EndMinutes <= in.StartMinutes {
				return nil, fmt.Errorf("%w: end must be after start", ErrBadSlot)
			}
			if in.AreaIndex >= sport.PlayableAreas {
				return nil, fmt.Errorf("%w: area index out of range", ErrBadSlot)
			}
			slots = append(slots, Slot{
				PlayDate:     playDate,
				StartMinutes: in.StartMinutes,
				EndMinutes:   in.EndMinutes,
				AreaIndex:    in.AreaIndex,
			})
			// Hourly rate pro-rated to the slot length.
			totalCents += sport.PriceCents * int64(in.EndMinutes-in.StartMinutes) / 60
		}
	}

	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: no slots requested", ErrBadSlot)
	}

	pattern := PatternSingle
	if len(slots) > 1 {
		pattern = PatternMultiple
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	lockedUntil := time.Now().Add(s.lockWindow)
	b := &Booking{
		VenueID:     req.VenueID,
		UserID:      principal.UserID,
		Sport:       req.Sport,
		Pattern:     pattern,
		TotalCents:  totalCents,
		LockedUntil: &lockedUntil,
		SessionID:   sessionID,
	}

	created, err := s.repo.AcquireLock(ctx, b, slots)
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			metrics.RecordSlotLock("conflict")
		}
		return nil, err
	}

	metrics.RecordSlotLock("acquired")
	return created, nil
}

func (s *service) ReleaseLock(ctx context.Context, bookingID int) error {
	return s.repo.ReleaseLock(ctx, bookingID)
}

func (s *service) Cancel(ctx context.Context, principal auth.Principal, bookingID int) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if b.UserID != principal.UserID && !principal.IsAdmin() {
		return ErrNotOwner
	}

	return s.repo.Cancel(ctx, bookingID)
}

func (s *service) GetWithSlots(ctx context.Context, bookingID int) (*BookingWithSlots, error) {
	return s.repo.GetWithSlots(ctx, bookingID)
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByVenue(ctx context.Context, venueID int) ([]Booking, error) {
	return s.repo.ListByVenue(ctx, venueID)
}

func (s *service) Availability(ctx context.Context, venueID int, sport string, date time.Time) ([]BookedSlot, error) {
	return s.repo.BookedSlots(ctx, venueID, sport, date)
}

// StartSweeper periodically removes expired locked-but-unpaid bookings.
// Expired locks are already ignored by every availability check, so the
// sweep cadence only affects table size, not correctness.
func (s *service) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.repo.DeleteExpiredLocks(ctx)
			if err != nil {
				logger.Errorf("lock sweeper: %v", err)
				continue
			}
			if n > 0 {
				metrics.SlotLocksExpiredTotal.Add(float64(n))
				logger.Info("removed expired slot locks", "count", n)
			}
		}
	}
}

package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"courtside/internal/api"
	"courtside/internal/auth"
	"courtside/internal/booking"
)

// Each purchase kind plugs its target check and its captured-payment side
// effect into the shared order pipeline. Side effects run inside the
// webhook transaction and must be replay safe.
type strategy struct {
	label      string
	validate   func(ctx context.Context, p auth.Principal, targetID int) error
	onCaptured func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error
	onFailed   func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error
}

const (
	packagePeriod = 365 * 24 * time.Hour
	bannerPeriod  = 30 * 24 * time.Hour
)

func (s *service) buildStrategies() map[OrderType]strategy {
	existsCheck := func(name string, exists func(context.Context, int) (bool, error)) func(context.Context, auth.Principal, int) error {
		return func(ctx context.Context, _ auth.Principal, targetID int) error {
			ok, err := exists(ctx, targetID)
			if err != nil {
				return err
			}
			if !ok {
				return api.NotFound(fmt.Sprintf("%s %d not found", name, targetID))
			}
			return nil
		}
	}

	return map[OrderType]strategy{
		TypeTournament: {
			label:    "Tournament Registration",
			validate: existsCheck("tournament", s.tournaments.Exists),
			onCaptured: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				if err := s.tournaments.Activate(ctx, tx, h.TargetID); err != nil {
					return err
				}
				return s.tournaments.AppendPaymentRef(ctx, tx, h.TargetID, h.OrderID, h.UserID, h.TotalCents)
			},
		},
		TypeSponsor: {
			label:    "Tournament Sponsorship",
			validate: existsCheck("tournament", s.tournaments.Exists),
			onCaptured: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				return s.tournaments.AppendSponsor(ctx, tx, h.TargetID, h.OrderID, h.UserID, h.TotalCents)
			},
		},
		TypeBanner: {
			label:    "Banner Placement",
			validate: existsCheck("banner", s.banners.Exists),
			onCaptured: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				return s.banners.Activate(ctx, tx, h.TargetID, time.Now().Add(bannerPeriod))
			},
		},
		TypeShop: {
			label:    "Shop Listing Package",
			validate: existsCheck("shop", s.shops.Exists),
			onCaptured: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				return s.shops.ExtendPackage(ctx, tx, h.TargetID, time.Now().Add(packagePeriod))
			},
		},
		TypeVenue: {
			label:    "Venue Listing Package",
			validate: existsCheck("venue", s.venues.Exists),
			onCaptured: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				return s.venues.ExtendPackage(ctx, tx, h.TargetID, time.Now().Add(packagePeriod))
			},
		},
		TypeProvider: {
			label:    "Provider Listing Package",
			validate: existsCheck("provider", s.providers.Exists),
			onCaptured: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				return s.providers.ExtendPackage(ctx, tx, h.TargetID, time.Now().Add(packagePeriod))
			},
		},
		TypeBooking: {
			label:    "Slot Booking",
			validate: s.validateBookingTarget,
			onCaptured: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				return s.bookings.Confirm(ctx, tx, h.TargetID)
			},
			onFailed: func(ctx context.Context, tx *sqlx.Tx, h *OrderHistory) error {
				return s.bookings.MarkPaymentFailed(ctx, tx, h.TargetID)
			},
		},
	}
}

// A booking order is only valid while the caller still holds the slot
// lock; anything else means the hold expired or the booking is settled.
func (s *service) validateBookingTarget(ctx context.Context, p auth.Principal, targetID int) error {
	b, err := s.bookings.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return api.NotFound("booking not found")
		}
		return err
	}
	if b.UserID != p.UserID {
		return api.NewError(api.KindForbidden, "booking belongs to another user")
	}
	if b.PaymentStatus != booking.PaymentPending {
		return api.Conflict("booking already settled")
	}
	if !b.IsLocked || b.LockedUntil == nil || !b.LockedUntil.After(time.Now()) {
		return api.Conflict("slot hold expired, lock the slot again")
	}
	return nil
}

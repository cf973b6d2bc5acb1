package order

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"courtside/internal/banner"
	"courtside/internal/booking"
	"courtside/internal/logger"
	"courtside/internal/notification"
	"courtside/internal/provider"
	"courtside/internal/shop"
	"courtside/internal/tournament"
	"courtside/internal/user"
	"courtside/internal/venue"
)

func init() {
	logger.Init()
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertHistory(ctx context.Context, h *OrderHistory) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockRepository) InsertPayment(ctx context.Context, p *Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) GetHistoryByOrderID(ctx context.Context, orderID string) (*OrderHistory, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OrderHistory), args.Error(1)
}

func (m *MockRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) MarkHistoryFailed(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockRepository) MarkCapturedTx(ctx context.Context, tx *sqlx.Tx, orderID, transactionID, paymentMode string, totalCents int64) error {
	return m.Called(ctx, tx, orderID, transactionID, paymentMode, totalCents).Error(0)
}

func (m *MockRepository) MarkFailedTx(ctx context.Context, tx *sqlx.Tx, orderID string, totalCents int64) error {
	return m.Called(ctx, tx, orderID, totalCents).Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int) ([]OrderHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrderHistory), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]OrderHistory, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrderHistory), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, name, email, phone, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, name, email, phone, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) SetDeviceToken(ctx context.Context, id int, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

type MockTournamentRepo struct {
	mock.Mock
}

func (m *MockTournamentRepo) Create(ctx context.Context, organizerID int, name, sport string, entryFeeCents int64, startDate time.Time) (*tournament.Tournament, error) {
	args := m.Called(ctx, organizerID, name, sport, entryFeeCents, startDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tournament.Tournament), args.Error(1)
}

func (m *MockTournamentRepo) GetByID(ctx context.Context, id int) (*tournament.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tournament.Tournament), args.Error(1)
}

func (m *MockTournamentRepo) List(ctx context.Context) ([]tournament.Tournament, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tournament.Tournament), args.Error(1)
}

func (m *MockTournamentRepo) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTournamentRepo) Activate(ctx context.Context, tx *sqlx.Tx, id int) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *MockTournamentRepo) AppendPaymentRef(ctx context.Context, tx *sqlx.Tx, id int, orderID string, userID int, amountCents int64) error {
	return m.Called(ctx, tx, id, orderID, userID, amountCents).Error(0)
}

func (m *MockTournamentRepo) AppendSponsor(ctx context.Context, tx *sqlx.Tx, id int, orderID string, sponsorID int, amountCents int64) error {
	return m.Called(ctx, tx, id, orderID, sponsorID, amountCents).Error(0)
}

func (m *MockTournamentRepo) ListSponsors(ctx context.Context, id int) ([]tournament.Sponsor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tournament.Sponsor), args.Error(1)
}

type MockVenueRepo struct {
	mock.Mock
}

func (m *MockVenueRepo) Create(ctx context.Context, ownerID int, req venue.CreateVenueRequest) (*venue.VenueWithSports, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.VenueWithSports), args.Error(1)
}

func (m *MockVenueRepo) GetByID(ctx context.Context, id int) (*venue.VenueWithSports, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.VenueWithSports), args.Error(1)
}

func (m *MockVenueRepo) List(ctx context.Context) ([]venue.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]venue.Venue), args.Error(1)
}

func (m *MockVenueRepo) GetSport(ctx context.Context, venueID int, sport string) (*venue.VenueSport, error) {
	args := m.Called(ctx, venueID, sport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.VenueSport), args.Error(1)
}

func (m *MockVenueRepo) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVenueRepo) ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	return m.Called(ctx, tx, id, until).Error(0)
}

func (m *MockVenueRepo) SetFundAccount(ctx context.Context, id int, fundAccountID string) error {
	return m.Called(ctx, id, fundAccountID).Error(0)
}

type MockShopRepo struct {
	mock.Mock
}

func (m *MockShopRepo) Create(ctx context.Context, ownerID int, req shop.CreateShopRequest) (*shop.Shop, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

func (m *MockShopRepo) GetByID(ctx context.Context, id int) (*shop.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

func (m *MockShopRepo) List(ctx context.Context) ([]shop.Shop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shop.Shop), args.Error(1)
}

func (m *MockShopRepo) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockShopRepo) ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	return m.Called(ctx, tx, id, until).Error(0)
}

type MockProviderRepo struct {
	mock.Mock
}

func (m *MockProviderRepo) Create(ctx context.Context, userID int, req provider.CreateProviderRequest) (*provider.Provider, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Provider), args.Error(1)
}

func (m *MockProviderRepo) GetByID(ctx context.Context, id int) (*provider.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Provider), args.Error(1)
}

func (m *MockProviderRepo) List(ctx context.Context) ([]provider.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Provider), args.Error(1)
}

func (m *MockProviderRepo) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProviderRepo) ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	return m.Called(ctx, tx, id, until).Error(0)
}

func (m *MockProviderRepo) SetFundAccount(ctx context.Context, id int, fundAccountID string) error {
	return m.Called(ctx, id, fundAccountID).Error(0)
}

type MockBannerRepo struct {
	mock.Mock
}

func (m *MockBannerRepo) Create(ctx context.Context, ownerID int, req banner.CreateBannerRequest) (*banner.Banner, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banner.Banner), args.Error(1)
}

func (m *MockBannerRepo) GetByID(ctx context.Context, id int) (*banner.Banner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banner.Banner), args.Error(1)
}

func (m *MockBannerRepo) ListActive(ctx context.Context) ([]banner.Banner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]banner.Banner), args.Error(1)
}

func (m *MockBannerRepo) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBannerRepo) Activate(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	return m.Called(ctx, tx, id, until).Error(0)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) AcquireLock(ctx context.Context, b *booking.Booking, slots []booking.Slot) (*booking.BookingWithSlots, error) {
	args := m.Called(ctx, b, slots)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingWithSlots), args.Error(1)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetWithSlots(ctx context.Context, id int) (*booking.BookingWithSlots, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingWithSlots), args.Error(1)
}

func (m *MockBookingRepo) ReleaseLock(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepo) Confirm(ctx context.Context, tx *sqlx.Tx, id int) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *MockBookingRepo) MarkPaymentFailed(ctx context.Context, tx *sqlx.Tx, id int) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepo) ListByUser(ctx context.Context, userID int) ([]booking.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListByVenue(ctx context.Context, venueID int) ([]booking.Booking, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) BookedSlots(ctx context.Context, venueID int, sport string, date time.Time) ([]booking.BookedSlot, error) {
	args := m.Called(ctx, venueID, sport, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.BookedSlot), args.Error(1)
}

func (m *MockBookingRepo) DeleteExpiredLocks(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) WriteTx(ctx context.Context, tx *sqlx.Tx, n *notification.Outbox) error {
	return m.Called(ctx, tx, n).Error(0)
}

func (m *MockOutboxRepo) Write(ctx context.Context, n *notification.Outbox) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockOutboxRepo) FetchPending(ctx context.Context, limit int) ([]notification.Outbox, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Outbox), args.Error(1)
}

func (m *MockOutboxRepo) MarkSent(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepo) MarkAttemptFailed(ctx context.Context, id int, tries, maxTries int, errMsg string) error {
	return m.Called(ctx, id, tries, maxTries, errMsg).Error(0)
}

func (m *MockOutboxRepo) PendingCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

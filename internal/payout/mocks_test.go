package payout

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"courtside/internal/logger"
	"courtside/internal/notification"
	"courtside/internal/provider"
	"courtside/internal/user"
	"courtside/internal/venue"
)

func init() { logger.Init() }

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Payout) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payout), args.Error(1)
}

func (m *MockRepository) GetByIdempotencyKey(ctx context.Context, key string) (*Payout, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payout), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int, status, gatewayPayoutID, failureReason string) error {
	return m.Called(ctx, id, status, gatewayPayoutID, failureReason).Error(0)
}

func (m *MockRepository) RecordRetry(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]Payout, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payout), args.Error(1)
}

func (m *MockRepository) ListNeedingAttention(ctx context.Context) ([]Payout, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payout), args.Error(1)
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

package payout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"courtside/internal/api"
	"courtside/internal/gateway"
	"courtside/internal/logger"
	"courtside/internal/metrics"
	"courtside/internal/notification"
	"courtside/internal/provider"
	"courtside/internal/user"
	"courtside/internal/venue"
)

var (
	ErrRetriesExhausted = errors.New("payout retries exhausted")
	ErrNotRetryable     = errors.New("payout is not in a retryable state")
	ErrBadTransition    = errors.New("illegal payout status transition")
)

type Service interface {
	Create(ctx context.Context, req CreatePayoutRequest) (*Payout, error)
	Retry(ctx context.Context, id int) (*Payout, error)
	SyncStatus(ctx context.Context, id int) (*Payout, error)
	Get(ctx context.Context, id int) (*Payout, error)
	List(ctx context.Context, limit, offset int) ([]Payout, error)
	ListNeedingAttention(ctx context.Context) ([]Payout, error)
}

type service struct {
	repo      Repository
	venues    venue.Repository
	providers provider.Repository
	users     user.Repository
	outbox    notification.Repository
	gw        *gateway.Client
}

func NewService(repo Repository, venues venue.Repository, providers provider.Repository, users user.Repository, outbox notification.Repository, gw *gateway.Client) Service {
	return &service{
		repo:      repo,
		venues:    venues,
		providers: providers,
		users:     users,
		outbox:    outbox,
		gw:        gw,
	}
}

// Create records the payout first and only then calls the gateway: if the
// process dies in between, the row is left queued with no gateway id and
// Retry can resubmit it under the same idempotency key.
func (s *service) Create(ctx context.Context, req CreatePayoutRequest) (*Payout, error) {
	ownerID, fundAccountID, err := s.resolveRecipient(ctx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	p := &Payout{
		UserID:         ownerID,
		EntityType:     req.EntityType,
		EntityID:       req.EntityID,
		FundAccountID:  fundAccountID,
		AmountCents:    req.AmountCents,
		Currency:       "INR",
		Status:         StatusQueued,
		IdempotencyKey: key,
		MaxRetries:     DefaultMaxRetries,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			// Same key means same payout; hand back the first one.
			return s.repo.GetByIdempotencyKey(ctx, key)
		}
		return nil, err
	}

	s.submit(ctx, p)
	metrics.RecordPayout(p.Status)
	return p, nil
}

// resolveRecipient finds the owner and fund account for the entity being
// paid, creating the gateway contact and fund account on first payout.
func (s *service) resolveRecipient(ctx context.Context, entityType string, entityID int) (int, string, error) {
	switch entityType {
	case EntityVenue:
		v, err := s.venues.GetByID(ctx, entityID)
		if err != nil {
			return 0, "", err
		}
		if v.FundAccountID != "" {
			return v.OwnerID, v.FundAccountID, nil
		}
		faID, err := s.provisionFundAccount(ctx, v.OwnerID)
		if err != nil {
			return 0, "", err
		}
		if err := s.venues.SetFundAccount(ctx, v.ID, faID); err != nil {
			return 0, "", err
		}
		return v.OwnerID, faID, nil

	case EntityProvider:
		p, err := s.providers.GetByID(ctx, entityID)
		if err != nil {
			return 0, "", err
		}
		if p.FundAccountID != "" {
			return p.UserID, p.FundAccountID, nil
		}
		faID, err := s.provisionFundAccount(ctx, p.UserID)
		if err != nil {
			return 0, "", err
		}
		if err := s.providers.SetFundAccount(ctx, p.ID, faID); err != nil {
			return 0, "", err
		}
		return p.UserID, faID, nil

	default:
		return 0, "", api.Validation(fmt.Sprintf("unknown payout entity type %q", entityType))
	}
}

func (s *service) provisionFundAccount(ctx context.Context, ownerID int) (string, error) {
	u, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return "", err
	}

	contact, err := s.gw.CreateContact(ctx, u.Name, u.Email, "vendor")
	if err != nil {
		return "", fmt.Errorf("create gateway contact: %w", err)
	}

	fa, err := s.gw.CreateFundAccount(ctx, contact.ID, "bank_account", map[string]interface{}{
		"name": u.Name,
	})
	if err != nil {
		return "", fmt.Errorf("create fund account: %w", err)
	}
	return fa.ID, nil
}

// submit pushes the payout to the gateway and records the outcome. Gateway
// failure leaves the row failed but retryable; it never raises past here.
func (s *service) submit(ctx context.Context, p *Payout) {
	gwPayout, err := s.gw.CreatePayout(ctx, p.FundAccountID, p.AmountCents, p.Currency, p.IdempotencyKey)
	if err != nil {
		logger.Errorf("submit payout %d: %v", p.ID, err)
		p.Status = StatusFailed
		p.FailureReason = err.Error()
		if updErr := s.repo.UpdateStatus(ctx, p.ID, StatusFailed, "", err.Error()); updErr != nil {
			logger.Errorf("record payout %d failure: %v", p.ID, updErr)
		}
		return
	}

	status := gwPayout.Status
	if status == "" {
		status = StatusPending
	}
	p.Status = status
	p.GatewayPayoutID = gwPayout.ID
	if err := s.repo.UpdateStatus(ctx, p.ID, status, gwPayout.ID, ""); err != nil {
		logger.Errorf("record payout %d submission: %v", p.ID, err)
	}
	logger.Infof("payout %d submitted: %s, gateway id %s", p.ID, status, gwPayout.ID)
}

// Retry resubmits a failed payout under its original idempotency key. The
// gateway deduplicates on that key, so a payout that actually went
// through the first time is not paid twice.
func (s *service) Retry(ctx context.Context, id int) (*Payout, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Retryable(p.Status) {
		return nil, ErrNotRetryable
	}
	if p.RetryCount >= p.MaxRetries {
		return nil, ErrRetriesExhausted
	}

	if err := s.repo.RecordRetry(ctx, p.ID); err != nil {
		return nil, err
	}
	p.RetryCount++

	metrics.PayoutRetriesTotal.Inc()
	s.submit(ctx, p)
	metrics.RecordPayout(p.Status)
	return p, nil
}

// SyncStatus pulls the current gateway status and applies it if the
// transition is legal.
func (s *service) SyncStatus(ctx context.Context, id int) (*Payout, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.GatewayPayoutID == "" {
		return p, nil
	}

	gwPayout, err := s.gw.GetPayout(ctx, p.GatewayPayoutID)
	if err != nil {
		return nil, fmt.Errorf("fetch payout %s: %w", p.GatewayPayoutID, err)
	}

	if gwPayout.Status == p.Status {
		return p, nil
	}
	if !CanTransition(p.Status, gwPayout.Status) {
		logger.Errorf("payout %d: gateway reports %s but payout is %s", p.ID, gwPayout.Status, p.Status)
		return nil, fmt.Errorf("%w: %s to %s", ErrBadTransition, p.Status, gwPayout.Status)
	}

	if err := s.repo.UpdateStatus(ctx, p.ID, gwPayout.Status, gwPayout.ID, ""); err != nil {
		return nil, err
	}
	p.Status = gwPayout.Status
	metrics.RecordPayout(p.Status)

	if p.Status == StatusProcessed {
		s.notifyProcessed(ctx, p)
	}
	return p, nil
}

func (s *service) notifyProcessed(ctx context.Context, p *Payout) {
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		logger.Errorf("notify payout %d: %v", p.ID, err)
		return
	}
	n := notification.PayoutProcessedEmail(u.ID, u.Email, u.Name, p.AmountCents)
	if err := s.outbox.Write(ctx, n); err != nil {
		logger.Errorf("queue payout notification: %v", err)
	}
}

func (s *service) Get(ctx context.Context, id int) (*Payout, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Payout, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *service) ListNeedingAttention(ctx context.Context) ([]Payout, error) {
	return s.repo.ListNeedingAttention(ctx)
}

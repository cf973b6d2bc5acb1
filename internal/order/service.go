package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"courtside/internal/api"
	"courtside/internal/auth"
	"courtside/internal/banner"
	"courtside/internal/booking"
	"courtside/internal/gateway"
	"courtside/internal/logger"
	"courtside/internal/metrics"
	"courtside/internal/notification"
	"courtside/internal/provider"
	"courtside/internal/shop"
	"courtside/internal/tournament"
	"courtside/internal/user"
	"courtside/internal/venue"
)

const statusCaptured = "captured"

// CreateOrderResponse is what the client needs to open the gateway's
// payment sheet.
type CreateOrderResponse struct {
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	HistoryID int    `json:"history_id"`
	OrderType string `json:"order_type"`
	TargetID  int    `json:"target_id"`
}

type Service interface {
	CreateOrder(ctx context.Context, p auth.Principal, kind OrderType, req CreateOrderRequest) (*CreateOrderResponse, error)
	ProcessWebhook(ctx context.Context, ev WebhookEvent) error
	GetByOrderID(ctx context.Context, orderID string) (*OrderHistory, *Payment, error)
	ListByUser(ctx context.Context, userID int) ([]OrderHistory, error)
	List(ctx context.Context, limit, offset int) ([]OrderHistory, error)
}

type service struct {
	db          *sqlx.DB
	repo        Repository
	users       user.Repository
	tournaments tournament.Repository
	venues      venue.Repository
	shops       shop.Repository
	providers   provider.Repository
	banners     banner.Repository
	bookings    booking.Repository
	outbox      notification.Repository
	gw          *gateway.Client
	strategies  map[OrderType]strategy
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	users user.Repository,
	tournaments tournament.Repository,
	venues venue.Repository,
	shops shop.Repository,
	providers provider.Repository,
	banners banner.Repository,
	bookings booking.Repository,
	outbox notification.Repository,
	gw *gateway.Client,
) Service {
	s := &service{
		db:          db,
		repo:        repo,
		users:       users,
		tournaments: tournaments,
		venues:      venues,
		shops:       shops,
		providers:   providers,
		banners:     banners,
		bookings:    bookings,
		outbox:      outbox,
		gw:          gw,
	}
	s.strategies = s.buildStrategies()
	return s
}

// CreateOrder opens a gateway order and records it as a Pending ledger
// pair. If the second insert fails the first is flipped to Failed so no
// half-written Pending row survives.
func (s *service) CreateOrder(ctx context.Context, p auth.Principal, kind OrderType, req CreateOrderRequest) (*CreateOrderResponse, error) {
	strat, ok := s.strategies[kind]
	if !ok {
		return nil, api.Validation(fmt.Sprintf("unknown order type %q", kind))
	}

	if err := strat.validate(ctx, p, req.TargetID); err != nil {
		return nil, err
	}

	totalPaise := ToPaise(req.TotalAmount)
	if totalPaise <= 0 {
		return nil, api.Validation("total amount must be positive")
	}

	receipt := "rcpt_" + uuid.NewString()
	gwOrder, err := s.gw.CreateOrder(ctx, totalPaise, "INR", receipt)
	if err != nil {
		if errors.Is(err, gateway.ErrGatewayUnavailable) {
			return nil, api.WrapError(api.KindGatewayUnavailable, "payment gateway unavailable", err)
		}
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	h := &OrderHistory{
		OrderID:             gwOrder.ID,
		UserID:              p.UserID,
		OrderType:           kind,
		TargetID:            req.TargetID,
		BaseCents:           ToPaise(req.BaseAmount),
		ProcessingFeeCents:  ToPaise(req.ProcessingFee),
		ConvenienceFeeCents: ToPaise(req.ConvenienceFee),
		GSTCents:            ToPaise(req.GSTAmount),
		TotalCents:          totalPaise,
		Currency:            "INR",
		Receipt:             receipt,
		Status:              StatusPending,
	}
	if err := s.repo.InsertHistory(ctx, h); err != nil {
		return nil, err
	}

	pay := &Payment{
		OrderID:        gwOrder.ID,
		UserID:         p.UserID,
		OrderType:      kind,
		AmountCents:    totalPaise,
		AmountDueCents: totalPaise,
		PaymentMode:    req.PaymentMode,
		Status:         StatusPending,
	}
	if err := s.repo.InsertPayment(ctx, pay); err != nil {
		if markErr := s.repo.MarkHistoryFailed(ctx, gwOrder.ID); markErr != nil {
			logger.Errorf("compensate order %s: %v", gwOrder.ID, markErr)
		}
		return nil, err
	}

	metrics.RecordOrderCreated(string(kind))
	logger.Infof("order %s created: %s #%d for user %d, %d paise", gwOrder.ID, kind, req.TargetID, p.UserID, totalPaise)

	return &CreateOrderResponse{
		OrderID:   gwOrder.ID,
		Amount:    gwOrder.Amount,
		Currency:  gwOrder.Currency,
		Receipt:   receipt,
		HistoryID: h.ID,
		OrderType: string(kind),
		TargetID:  req.TargetID,
	}, nil
}

// ProcessWebhook settles one gateway callback. Replays are no-ops: a
// captured event against an already Successful order (or a failure
// against a non-Pending one) changes nothing. ErrOrderNotFound means the
// callback beat the order rows and the caller should retry later.
func (s *service) ProcessWebhook(ctx context.Context, ev WebhookEvent) error {
	h, err := s.repo.GetHistoryByOrderID(ctx, ev.OrderID)
	if err != nil {
		return err
	}

	captured := ev.Status == statusCaptured
	if captured && h.Status == StatusSuccessful {
		metrics.RecordWebhook(ev.Status, "noop")
		logger.Infof("webhook replay for order %s ignored", ev.OrderID)
		return nil
	}
	if !captured && h.Status != StatusPending {
		metrics.RecordWebhook(ev.Status, "noop")
		return nil
	}

	strat := s.strategies[h.OrderType]

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin webhook tx: %w", err)
	}
	defer tx.Rollback()

	if captured {
		if err := s.repo.MarkCapturedTx(ctx, tx, h.OrderID, ev.PaymentID, ev.Method, h.TotalCents); err != nil {
			return err
		}
		if strat.onCaptured != nil {
			if err := strat.onCaptured(ctx, tx, h); err != nil {
				return fmt.Errorf("apply %s side effect for order %s: %w", h.OrderType, h.OrderID, err)
			}
		}
	} else {
		if err := s.repo.MarkFailedTx(ctx, tx, h.OrderID, h.TotalCents); err != nil {
			return err
		}
		if strat.onFailed != nil {
			if err := strat.onFailed(ctx, tx, h); err != nil {
				return fmt.Errorf("apply %s failure effect for order %s: %w", h.OrderType, h.OrderID, err)
			}
		}
	}

	if err := s.enqueueNotifications(ctx, tx, h, strat, captured); err != nil {
		logger.Errorf("queue notifications for order %s: %v", h.OrderID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit webhook tx: %w", err)
	}

	outcome := "settled"
	if !captured {
		outcome = "failed"
	}
	metrics.RecordWebhook(ev.Status, outcome)
	logger.Infof("webhook for order %s processed: %s", ev.OrderID, outcome)
	return nil
}

func (s *service) enqueueNotifications(ctx context.Context, tx *sqlx.Tx, h *OrderHistory, strat strategy, captured bool) error {
	u, err := s.users.FindByID(ctx, h.UserID)
	if err != nil {
		return err
	}

	var email *notification.Outbox
	if captured {
		email = notification.PaymentSuccessEmail(u.ID, u.Email, u.Name, strat.label, h.TotalCents)
	} else {
		email = notification.PaymentFailedEmail(u.ID, u.Email, u.Name, strat.label)
	}
	if err := s.outbox.WriteTx(ctx, tx, email); err != nil {
		return err
	}

	if captured && u.DeviceToken != "" {
		push := notification.PaymentSuccessPush(u.ID, u.DeviceToken, strat.label)
		if err := s.outbox.WriteTx(ctx, tx, push); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetByOrderID(ctx context.Context, orderID string) (*OrderHistory, *Payment, error) {
	h, err := s.repo.GetHistoryByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.repo.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return h, p, nil
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]OrderHistory, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]OrderHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"courtside/internal/logger"
	"courtside/internal/metrics"
)

const (
	retryQueue       = "webhooks:retry"
	retryDeadQueue   = "webhooks:dead"
	maxRetryAttempts = 5
)

// RetryQueue parks webhooks that arrived before their order rows were
// committed and replays them shortly after. Events that still cannot be
// matched after the attempt cap land on a dead queue for manual review.
type RetryQueue struct {
	redis   *redis.Client
	service Service
	delay   time.Duration
}

func NewRetryQueue(rdb *redis.Client, svc Service) *RetryQueue {
	return &RetryQueue{
		redis:   rdb,
		service: svc,
		delay:   2 * time.Second,
	}
}

func (q *RetryQueue) Enqueue(ctx context.Context, ev WebhookEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := q.redis.LPush(ctx, retryQueue, string(data)).Err(); err != nil {
		logger.Errorf("queue webhook retry for order %s: %v", ev.OrderID, err)
		return err
	}
	metrics.WebhookRetriesTotal.Inc()
	logger.Infof("webhook for order %s queued for retry (attempt %d)", ev.OrderID, ev.Attempts)
	return nil
}

func (q *RetryQueue) Start(ctx context.Context) {
	logger.Info("webhook retry worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("webhook retry worker stopped")
			return
		default:
			q.processNext(ctx)
		}
	}
}

func (q *RetryQueue) processNext(ctx context.Context) {
	result, err := q.redis.BRPop(ctx, 2*time.Second, retryQueue).Result()
	if err != nil {
		return
	}

	var ev WebhookEvent
	if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
		logger.Errorf("bad webhook retry payload: %v", err)
		return
	}

	time.Sleep(q.delay)

	ev.Attempts++
	err = q.service.ProcessWebhook(ctx, ev)
	if err == nil {
		logger.Infof("webhook retry for order %s succeeded on attempt %d", ev.OrderID, ev.Attempts)
		return
	}

	if !errors.Is(err, ErrOrderNotFound) {
		logger.Errorf("webhook retry for order %s: %v", ev.OrderID, err)
	}

	if ev.Attempts < maxRetryAttempts {
		data, _ := json.Marshal(ev)
		q.redis.LPush(context.Background(), retryQueue, string(data))
		metrics.WebhookRetriesTotal.Inc()
		return
	}

	q.saveDead(ev, err)
}

func (q *RetryQueue) saveDead(ev WebhookEvent, err error) {
	dead := map[string]interface{}{
		"event": ev,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(dead)
	q.redis.LPush(context.Background(), retryDeadQueue, string(data))
	logger.Errorf("webhook for order %s dropped after %d attempts", ev.OrderID, ev.Attempts)
}

func (q *RetryQueue) QueueLength(ctx context.Context) int64 {
	n, _ := q.redis.LLen(ctx, retryQueue).Result()
	return n
}

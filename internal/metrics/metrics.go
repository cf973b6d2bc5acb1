package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "courtside_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_orders_created_total",
			Help: "Total number of gateway orders created",
		},
		[]string{"order_type"},
	)

	WebhooksProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_webhooks_processed_total",
			Help: "Total number of payment webhooks processed",
		},
		[]string{"status", "outcome"},
	)

	WebhookRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_webhook_retries_total",
			Help: "Webhooks requeued because the order rows were not visible yet",
		},
	)

	SlotLocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_slot_locks_total",
			Help: "Slot lock acquisition attempts",
		},
		[]string{"result"},
	)

	SlotLocksExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_slot_locks_expired_total",
			Help: "Stale slot locks removed by the sweeper",
		},
	)

	PayoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_payouts_total",
			Help: "Payout submissions by status",
		},
		[]string{"status"},
	)

	PayoutRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "courtside_payout_retries_total",
			Help: "Total payout retry attempts",
		},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courtside_notifications_sent_total",
			Help: "Outbox notifications dispatched",
		},
		[]string{"channel", "status"},
	)

	NotificationOutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "courtside_notification_outbox_pending",
			Help: "Pending rows in the notification outbox",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordOrderCreated(orderType string) {
	OrdersCreatedTotal.WithLabelValues(orderType).Inc()
}

func RecordWebhook(status, outcome string) {
	WebhooksProcessedTotal.WithLabelValues(status, outcome).Inc()
}

func RecordSlotLock(result string) {
	SlotLocksTotal.WithLabelValues(result).Inc()
}

func RecordPayout(status string) {
	PayoutsTotal.WithLabelValues(status).Inc()
}

func RecordNotification(channel, status string) {
	NotificationsSentTotal.WithLabelValues(channel, status).Inc()
}

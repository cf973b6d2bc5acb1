package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"courtside/internal/logger"
	"courtside/internal/metrics"
)

const maxTries = 3

type Service struct {
	repo     Repository
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string

	pushEndpoint string
	pushAPIKey   string
	hc           *http.Client
}

func New(repo Repository, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, pushEndpoint, pushAPIKey string) *Service {
	return &Service{
		repo:         repo,
		from:         fromEmail,
		fromName:     fromName,
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPass:     smtpPass,
		pushEndpoint: pushEndpoint,
		pushAPIKey:   pushAPIKey,
		hc:           &http.Client{Timeout: 10 * time.Second},
	}
}

// Start polls the outbox until the context is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	logger.Info("notification worker started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		case <-ticker.C:
			s.processBatch(ctx)
		}
	}
}

func (s *Service) processBatch(ctx context.Context) {
	rows, err := s.repo.FetchPending(ctx, 20)
	if err != nil {
		logger.Errorf("fetch pending notifications: %v", err)
		return
	}

	for i := range rows {
		s.deliver(ctx, &rows[i])
	}

	if n, err := s.repo.PendingCount(ctx); err == nil {
		metrics.NotificationOutboxPending.Set(float64(n))
	}
}

func (s *Service) deliver(ctx context.Context, n *Outbox) {
	var err error
	switch n.Channel {
	case ChannelPush:
		err = s.sendPush(ctx, n)
	default:
		err = s.sendEmail(n)
	}

	if err != nil {
		logger.Errorf("notification %d to %s failed (attempt %d): %v", n.ID, n.Recipient, n.Tries+1, err)
		metrics.RecordNotification(n.Channel, "failed")
		if markErr := s.repo.MarkAttemptFailed(ctx, n.ID, n.Tries, maxTries, err.Error()); markErr != nil {
			logger.Errorf("mark notification failed: %v", markErr)
		}
		return
	}

	metrics.RecordNotification(n.Channel, "sent")
	if err := s.repo.MarkSent(ctx, n.ID); err != nil {
		logger.Errorf("mark notification sent: %v", err)
	}
}

func (s *Service) sendEmail(n *Outbox) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", n.Recipient)
	message += fmt.Sprintf("Subject: %s\r\n", n.Subject)
	message += "\r\n" + n.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{n.Recipient}, []byte(message))
}

// sendPush posts to the configured push provider. The recipient is the
// device token registered for the user.
func (s *Service) sendPush(ctx context.Context, n *Outbox) error {
	payload, err := json.Marshal(map[string]string{
		"to":    n.Recipient,
		"title": n.Subject,
		"body":  n.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.pushEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.pushAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.pushAPIKey)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push provider returned %d", resp.StatusCode)
	}
	return nil
}

// PaymentSuccessEmail fills the standard confirmation template.
func PaymentSuccessEmail(userID int, email, name, what string, amountCents int64) *Outbox {
	return &Outbox{
		UserID:    userID,
		Channel:   ChannelEmail,
		Recipient: email,
		Subject:   "Payment Received - " + what,
		Body: fmt.Sprintf(`Hi %s,

We received your payment of Rs %.2f for %s.

Thanks for playing with us!

- Courtside Team`, name, float64(amountCents)/100, what),
	}
}

func PaymentFailedEmail(userID int, email, name, what string) *Outbox {
	return &Outbox{
		UserID:    userID,
		Channel:   ChannelEmail,
		Recipient: email,
		Subject:   "Payment Failed - " + what,
		Body: fmt.Sprintf(`Hi %s,

Your payment for %s did not go through. No money was taken; please try again.

- Courtside Team`, name, what),
	}
}

func PaymentSuccessPush(userID int, deviceToken, what string) *Outbox {
	return &Outbox{
		UserID:    userID,
		Channel:   ChannelPush,
		Recipient: deviceToken,
		Subject:   "Payment received",
		Body:      "Your payment for " + what + " is confirmed.",
	}
}

func PayoutProcessedEmail(userID int, email, name string, amountCents int64) *Outbox {
	return &Outbox{
		UserID:    userID,
		Channel:   ChannelEmail,
		Recipient: email,
		Subject:   "Payout Processed",
		Body: fmt.Sprintf(`Hi %s,

Your payout of Rs %.2f has been processed and is on its way to your account.

- Courtside Team`, name, float64(amountCents)/100),
	}
}

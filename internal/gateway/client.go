package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrGatewayUnavailable covers network failures, timeouts and 5xx answers
// from the payment processor. Callers surface it; they do not retry.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Client talks to the remote payment processor (Razorpay-compatible REST
// API). Orders collect money in; contacts/fund accounts/payouts move money
// out to venues and individual providers.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string

	hc *http.Client
}

func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		hc: &http.Client{
			Timeout: timeout,
		},
	}
}

// Order is the gateway-issued order descriptor. Amounts are in minor
// currency units (paise).
type Order struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
}

type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"type"`
}

type FundAccount struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Type      string `json:"account_type"`
}

type Payout struct {
	ID            string `json:"id"`
	FundAccountID string `json:"fund_account_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	ReferenceID   string `json:"reference_id"`
}

func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*Order, error) {
	body := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}

	var order Order
	if err := c.post(ctx, "/orders", body, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (c *Client) CreateContact(ctx context.Context, name, email, contactType string) (*Contact, error) {
	body := map[string]interface{}{
		"name":  name,
		"email": email,
		"type":  contactType,
	}

	var contact Contact
	if err := c.post(ctx, "/contacts", body, &contact); err != nil {
		return nil, err
	}

	return &contact, nil
}

func (c *Client) CreateFundAccount(ctx context.Context, contactID, accountType string, details map[string]interface{}) (*FundAccount, error) {
	body := map[string]interface{}{
		"contact_id":   contactID,
		"account_type": accountType,
		accountType:    details,
	}

	var fa FundAccount
	if err := c.post(ctx, "/fund_accounts", body, &fa); err != nil {
		return nil, err
	}

	return &fa, nil
}

func (c *Client) CreatePayout(ctx context.Context, fundAccountID string, amountPaise int64, currency, referenceID string) (*Payout, error) {
	body := map[string]interface{}{
		"fund_account_id": fundAccountID,
		"amount":          amountPaise,
		"currency":        currency,
		"reference_id":    referenceID,
		"mode":            "IMPS",
		"purpose":         "payout",
	}

	var payout Payout
	if err := c.post(ctx, "/payouts", body, &payout); err != nil {
		return nil, err
	}

	return &payout, nil
}

func (c *Client) GetPayout(ctx context.Context, payoutID string) (*Payout, error) {
	var payout Payout
	if err := c.do(ctx, http.MethodGet, "/payouts/"+payoutID, nil, &payout); err != nil {
		return nil, err
	}
	return &payout, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode gateway request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Description != "" {
			return fmt.Errorf("gateway rejected request: %s", apiErr.Error.Description)
		}
		return fmt.Errorf("gateway rejected request: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode gateway response: %w", err)
		}
	}

	return nil
}

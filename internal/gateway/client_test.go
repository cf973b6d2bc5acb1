package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key_id", user)
		require.Equal(t, "key_secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(50000), body["amount"])
		require.Equal(t, "INR", body["currency"])

		json.NewEncoder(w).Encode(Order{
			ID:        "order_abc123",
			Amount:    50000,
			AmountDue: 50000,
			Currency:  "INR",
			Receipt:   body["receipt"].(string),
			Status:    "created",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key_id", "key_secret", 5*time.Second)

	order, err := client.CreateOrder(context.Background(), 50000, "INR", "rcpt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc123", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, int64(0), order.AmountPaid)
	assert.Equal(t, int64(50000), order.AmountDue)
	assert.Equal(t, "rcpt_1", order.Receipt)
}

func TestCreateOrderGatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "s", time.Second)

	_, err := client.CreateOrder(context.Background(), 1000, "INR", "rcpt_2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateOrderConnectionRefused(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "k", "s", time.Second)

	_, err := client.CreateOrder(context.Background(), 1000, "INR", "rcpt_3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateOrderBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"code":        "BAD_REQUEST_ERROR",
				"description": "amount must be at least 100",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "s", time.Second)

	_, err := client.CreateOrder(context.Background(), 1, "INR", "rcpt_4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGatewayUnavailable)
	assert.Contains(t, err.Error(), "amount must be at least 100")
}

func TestCreatePayout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payouts", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "fa_001", body["fund_account_id"])

		json.NewEncoder(w).Encode(Payout{
			ID:            "pout_001",
			FundAccountID: "fa_001",
			Amount:        25000,
			Currency:      "INR",
			Status:        "queued",
			ReferenceID:   body["reference_id"].(string),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "s", time.Second)

	payout, err := client.CreatePayout(context.Background(), "fa_001", 25000, "INR", "ref_9")
	require.NoError(t, err)
	assert.Equal(t, "pout_001", payout.ID)
	assert.Equal(t, "queued", payout.Status)
	assert.Equal(t, "ref_9", payout.ReferenceID)
}

func TestCreateContactAndFundAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/contacts":
			json.NewEncoder(w).Encode(Contact{ID: "cont_1", Name: "Arena One", Type: "vendor"})
		case "/fund_accounts":
			json.NewEncoder(w).Encode(FundAccount{ID: "fa_1", ContactID: "cont_1", Type: "bank_account"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "s", time.Second)

	contact, err := client.CreateContact(context.Background(), "Arena One", "ops@arena.one", "vendor")
	require.NoError(t, err)
	assert.Equal(t, "cont_1", contact.ID)

	fa, err := client.CreateFundAccount(context.Background(), contact.ID, "bank_account", map[string]interface{}{
		"name":           "Arena One",
		"ifsc":           "HDFC0000001",
		"account_number": "1234567890",
	})
	require.NoError(t, err)
	assert.Equal(t, "fa_1", fa.ID)
	assert.Equal(t, "cont_1", fa.ContactID)
}

//go:build unit

package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ticketline/internal/pkg/config"
	"ticketline/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGatewayServer serves the token endpoint plus the payment resources,
// counting token requests so the cache behavior is observable.
func newGatewayServer(t *testing.T, tokenCalls *atomic.Int32, expiresIn int, status string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))

		n := tokenCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok-%d", n),
			"expires_in":   expiresIn,
		})
	})
	mux.HandleFunc("POST /v1/payments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload createPaymentPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(paymentResource{
			ID:          "pay_1",
			Reference:   payload.Reference,
			Status:      "open",
			CheckoutURL: "https://pay.example/pay_1",
		})
	})
	mux.HandleFunc("GET /v1/payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(paymentResource{
			ID:        r.PathValue("id"),
			Reference: "ref-1",
			Status:    status,
		})
	})
	return httptest.NewServer(mux)
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.GatewayConfig{
		BaseURL:      baseURL,
		ClientID:     "client-1",
		ClientSecret: "secret",
		Timeout:      5 * time.Second,
	})
}

func TestTokenReusedWhileValid(t *testing.T) {
	var tokenCalls atomic.Int32
	server := newGatewayServer(t, &tokenCalls, 3600, "open")
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	_, err := client.GetPayment(ctx, "pay_1")
	require.NoError(t, err)
	_, err = client.GetPayment(ctx, "pay_1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestTokenRefreshedNearExpiry(t *testing.T) {
	var tokenCalls atomic.Int32
	// Expires inside the refresh margin, so every call fetches anew.
	server := newGatewayServer(t, &tokenCalls, 10, "open")
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	_, err := client.GetPayment(ctx, "pay_1")
	require.NoError(t, err)
	_, err = client.GetPayment(ctx, "pay_1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestCreatePayment(t *testing.T) {
	var tokenCalls atomic.Int32
	server := newGatewayServer(t, &tokenCalls, 3600, "open")
	defer server.Close()

	client := newTestClient(server.URL)

	payment, err := client.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		Reference:   "order-1",
		AmountCents: 8000,
		Currency:    "EUR",
		Lines:       []commands.PaymentLine{{Description: "reserved seat", Quantity: 1, UnitPriceCents: 8000}},
	})
	require.NoError(t, err)

	assert.Equal(t, "pay_1", payment.ID)
	assert.Equal(t, "order-1", payment.Reference)
	assert.Equal(t, commands.PaymentStatusPending, payment.Status)
	assert.Equal(t, "https://pay.example/pay_1", payment.PayableRef)
}

func TestGatewayErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
			return
		}
		http.Error(w, `{"error":"payment not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetPayment(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		provider string
		want     commands.PaymentStatus
	}{
		{provider: "paid", want: commands.PaymentStatusPaid},
		{provider: "settled", want: commands.PaymentStatusPaid},
		{provider: "canceled", want: commands.PaymentStatusCancelled},
		{provider: "cancelled", want: commands.PaymentStatusCancelled},
		{provider: "expired", want: commands.PaymentStatusCancelled},
		{provider: "failed", want: commands.PaymentStatusCancelled},
		{provider: "open", want: commands.PaymentStatusPending},
		{provider: "pending", want: commands.PaymentStatusPending},
		// A status we have never seen must not move an order.
		{provider: "under_review", want: commands.PaymentStatusPending},
		{provider: "", want: commands.PaymentStatusPending},
	}

	for _, tc := range cases {
		t.Run("status "+tc.provider, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeStatus(tc.provider))
		})
	}
}

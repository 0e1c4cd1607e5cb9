package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "server-key", "client-key", "sandbox", zap.NewNop())
}

func TestCreateSession_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "server-key", user)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		td := body["transaction_details"].(map[string]interface{})
		assert.Equal(t, "ORDER-0001AAAA", td["order_id"])
		assert.Equal(t, float64(8000), td["gross_amount"])

		json.NewEncoder(w).Encode(map[string]string{
			"token":        "snap-abc",
			"redirect_url": "https://pay.example.com/abc",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	session, err := c.CreateSession(context.Background(), "ORDER-0001AAAA", 8000,
		[]ItemDetail{{ID: "p1", Name: "Chair", Price: 4000, Quantity: 2}},
		CustomerDetail{FirstName: "buyer", Email: "buyer@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "snap-abc", session.Token)
	assert.Equal(t, "https://pay.example.com/abc", session.RedirectURL)
}

func TestCreateSession_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "snap-abc", "redirect_url": "u"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	session, err := c.CreateSession(context.Background(), "ORDER-0002BBBB", 100, nil, CustomerDetail{})
	require.NoError(t, err)
	assert.Equal(t, "snap-abc", session.Token)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreateSession_ExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateSession(context.Background(), "ORDER-0003CCCC", 100, nil, CustomerDetail{})
	assert.ErrorIs(t, err, xerrors.ErrGatewayUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreateSession_RejectionIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateSession(context.Background(), "ORDER-0004DDDD", 100, nil, CustomerDetail{})
	assert.ErrorIs(t, err, xerrors.ErrGatewayRejected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotification_MapStatus(t *testing.T) {
	tests := []struct {
		name        string
		txStatus    string
		fraudStatus string
		want        domain.OrderStatus
	}{
		{"settlement", "settlement", "", domain.OrderSuccess},
		{"capture accepted", "capture", "accept", domain.OrderSuccess},
		{"capture challenged", "capture", "challenge", domain.OrderChallenge},
		{"deny", "deny", "", domain.OrderFailed},
		{"cancel", "cancel", "", domain.OrderFailed},
		{"failure", "failure", "", domain.OrderFailed},
		{"expire", "expire", "", domain.OrderExpired},
		{"pending", "pending", "", domain.OrderPending},
		{"unknown vocabulary stays pending", "refund", "", domain.OrderPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{TransactionStatus: tt.txStatus, FraudStatus: tt.fraudStatus}
			assert.Equal(t, tt.want, n.MapStatus())
		})
	}
}

func signFor(orderRef, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderRef + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestVerifyNotification(t *testing.T) {
	c := newTestClient("http://unused")

	n := &Notification{
		OrderRef:          "ORDER-0005EEEE",
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "8000.00",
	}
	n.SignatureKey = signFor(n.OrderRef, n.StatusCode, n.GrossAmount, "server-key")
	assert.True(t, c.VerifyNotification(n))

	// Signed with the wrong key.
	n.SignatureKey = signFor(n.OrderRef, n.StatusCode, n.GrossAmount, "guessed-key")
	assert.False(t, c.VerifyNotification(n))

	// Body tampered after signing.
	n.SignatureKey = signFor(n.OrderRef, n.StatusCode, "1.00", "server-key")
	assert.False(t, c.VerifyNotification(n))

	// No signature at all.
	n.SignatureKey = ""
	assert.False(t, c.VerifyNotification(n))
}

func TestNotification_GrossAmountValue(t *testing.T) {
	n := &Notification{GrossAmount: "8000.00"}
	v, err := n.GrossAmountValue()
	require.NoError(t, err)
	assert.Equal(t, int64(8000), v)

	n = &Notification{GrossAmount: "not-a-number"}
	_, err = n.GrossAmountValue()
	assert.Error(t, err)
}

package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strconv"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
)

// PaymentSession is what create-transaction returns to the caller: the token
// the SPA feeds into the gateway's hosted UI plus the redirect fallback.
type PaymentSession struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type CustomerDetail struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// CreateSession requests a hosted-checkout session for the order.
func (c *Client) CreateSession(ctx context.Context, orderRef string, grossAmount int64, items []ItemDetail, customer CustomerDetail) (*PaymentSession, error) {
	payload := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     orderRef,
			"gross_amount": grossAmount,
		},
		"item_details":     items,
		"customer_details": customer,
		"credit_card": map[string]interface{}{
			"secure": true,
		},
	}

	var session PaymentSession
	if err := c.postJSON(ctx, "/snap/v1/transactions", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Notification is the callback body the gateway posts after a payment event.
type Notification struct {
	OrderRef          string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
	SignatureKey      string `json:"signature_key"`
}

// VerifyNotification authenticates a callback. The gateway signs every
// notification with sha512(order_id + status_code + gross_amount + server
// key); a body that fails this check did not come from the gateway and must
// not touch any order.
func (c *Client) VerifyNotification(n *Notification) bool {
	sum := sha512.Sum512([]byte(n.OrderRef + n.StatusCode + n.GrossAmount + c.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// MapStatus folds the gateway's status vocabulary onto the order state
// machine. Unknown vocabulary maps to pending so a replayed or future status
// never corrupts an order.
func (n *Notification) MapStatus() domain.OrderStatus {
	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus == "challenge" {
			return domain.OrderChallenge
		}
		return domain.OrderSuccess
	case "settlement":
		return domain.OrderSuccess
	case "deny", "cancel", "failure":
		return domain.OrderFailed
	case "expire":
		return domain.OrderExpired
	default:
		return domain.OrderPending
	}
}

// GrossAmountValue parses the decimal-string amount the gateway reports.
func (n *Notification) GrossAmountValue() (int64, error) {
	f, err := strconv.ParseFloat(n.GrossAmount, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

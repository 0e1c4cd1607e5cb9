package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderSuccess   OrderStatus = "success"
	OrderFailed    OrderStatus = "failed"
	OrderExpired   OrderStatus = "expired"
	OrderChallenge OrderStatus = "challenge"
)

// Terminal reports whether no further transition may leave this status.
// challenge is non-terminal: the gateway resolves it to success or failed
// after manual review.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderSuccess, OrderFailed, OrderExpired:
		return true
	}
	return false
}

// CanTransition encodes the order state machine.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s == to {
		return false
	}
	switch s {
	case OrderPending:
		return to == OrderSuccess || to == OrderFailed || to == OrderExpired || to == OrderChallenge
	case OrderChallenge:
		return to == OrderSuccess || to == OrderFailed
	}
	return false
}

// LineItem is the normalized shape both single-product and cart checkouts
// reduce to. Name and UnitPrice are snapshots taken at purchase time, so
// order history stays renderable after the product is deleted.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

type Order struct {
	ID          string      `json:"id"`
	BuyerID     string      `json:"buyer_id"`
	OrderRef    string      `json:"order_ref"` // external transaction identifier
	LineItems   []LineItem  `json:"line_items"`
	TotalAmount int64       `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	SnapToken   string      `json:"snap_token,omitempty"`
	RedirectURL string      `json:"redirect_url,omitempty"`
	PaidAt      *time.Time  `json:"paid_at,omitempty"`
	ExpiredAt   *time.Time  `json:"expired_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

func (o *Order) Total() int64 {
	var sum int64
	for _, li := range o.LineItems {
		sum += li.Subtotal()
	}
	return sum
}

// CartLine is one client-submitted cart entry; prices are never taken from
// the client, only the product reference and quantity.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

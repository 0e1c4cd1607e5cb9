package domain

import "time"

const (
	NotifProductRemoved = "product_removed"
	NotifOrderPaid      = "order_paid"
)

type Notification struct {
	ID        string                 `json:"id"`
	AccountID string                 `json:"account_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

package domain

import "time"

// WishlistEntry links an account to a product of interest. At most one entry
// exists per (account, product) pair; the store enforces it.
type WishlistEntry struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	// Populated on list reads; nil when the product no longer exists.
	Product *Product `json:"product,omitempty"`
}

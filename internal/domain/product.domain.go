package domain

import (
	"time"

	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

const (
	ListingSell     = "Sell"
	ListingDonation = "Donation"
	ListingSwap     = "Swap"

	ConditionNew  = "new"
	ConditionUsed = "used"
)

const PlaceholderImageURL = "/static/placeholder.png"

type Product struct {
	ID          string     `json:"id"`
	SellerID    string     `json:"seller_id"`
	Name        string     `json:"name"`
	Price       int64      `json:"price"` // minor currency unit
	Category    string     `json:"category"`
	Condition   string     `json:"condition"`
	ListingType string     `json:"listing_type"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Images      []string   `json:"images,omitempty"`
	Image       string     `json:"image,omitempty"` // legacy single-image field
	ViewCount   int64      `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// PrimaryImageURL resolves the one canonical image for a product. Historic
// records populate any of three fields; priority is
// imageUrl > images[0] > image > placeholder.
func (p *Product) PrimaryImageURL() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	if p.Image != "" {
		return p.Image
	}
	return PlaceholderImageURL
}

// Payable reports whether a buyer can check this listing out. Donation and
// Swap listings never go through the payment gateway.
func (p *Product) Payable() bool {
	return p.ListingType == ListingSell && p.Price > 0
}

func (p *Product) Validate() error {
	if p.Name == "" || p.Category == "" {
		return xerrors.ErrInvalidInput
	}
	switch p.ListingType {
	case ListingSell:
		if p.Price <= 0 {
			return xerrors.ErrPriceRequired
		}
	case ListingDonation, ListingSwap:
		// price unused for payment
	default:
		return xerrors.ErrInvalidListing
	}
	if p.Condition != ConditionNew && p.Condition != ConditionUsed {
		return xerrors.ErrInvalidCondition
	}
	if p.Price < 0 {
		return xerrors.ErrInvalidInput
	}
	return nil
}

// Sort keys for product listing.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

type ProductFilter struct {
	Category string
	Search   string // free text over name/description
	Sort     string // SortNewest (default) | SortPriceAsc | SortPriceDesc
	SellerID string
	Limit    int
	Offset   int
}

// ProductUpdate carries the seller-editable fields.
type ProductUpdate struct {
	Name        *string `json:"name,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Category    *string `json:"category,omitempty"`
	Condition   *string `json:"condition,omitempty"`
	ListingType *string `json:"listing_type,omitempty"`
	Description *string `json:"description,omitempty"`
}

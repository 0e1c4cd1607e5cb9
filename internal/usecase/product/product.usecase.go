package product

import (
	"context"
	"log"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, id string, upd *domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type Usecase struct {
	repo ProductRepo
	sf   *id.Snowflake
}

func New(repo ProductRepo, sf *id.Snowflake) *Usecase {
	return &Usecase{repo: repo, sf: sf}
}

type CreateInput struct {
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	ListingType string   `json:"listing_type"`
	Description string   `json:"description"`
	Images      []string // stored image URLs, first = primary
}

func (u *Usecase) Create(ctx context.Context, sellerID string, in CreateInput) (*domain.Product, error) {
	p := &domain.Product{
		ID:          u.sf.Generate(),
		SellerID:    sellerID,
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		ListingType: in.ListingType,
		Description: in.Description,
		Images:      in.Images,
	}
	if len(in.Images) > 0 {
		p.ImageURL = in.Images[0]
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *Usecase) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	return u.repo.List(ctx, f)
}

// Get returns the product and bumps its view counter. The counter is
// best-effort; a failed bump never fails the read.
func (u *Usecase) Get(ctx context.Context, productID string) (*domain.Product, error) {
	p, err := u.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := u.repo.IncrementViews(ctx, productID); err != nil {
		log.Printf("failed to bump view count for product %s: %v", productID, err)
	} else {
		p.ViewCount++
	}
	return p, nil
}

// Update applies a seller edit. Only the owner or an admin may edit.
func (u *Usecase) Update(ctx context.Context, actorID, actorRole, productID string, upd *domain.ProductUpdate) (*domain.Product, error) {
	current, err := u.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if current.SellerID != actorID && actorRole != domain.RoleAdmin {
		return nil, xerrors.ErrForbidden
	}

	// Validate the merged result before touching the store.
	merged := *current
	if upd.Name != nil {
		merged.Name = *upd.Name
	}
	if upd.Price != nil {
		merged.Price = *upd.Price
	}
	if upd.Category != nil {
		merged.Category = *upd.Category
	}
	if upd.Condition != nil {
		merged.Condition = *upd.Condition
	}
	if upd.ListingType != nil {
		merged.ListingType = *upd.ListingType
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return u.repo.Update(ctx, productID, upd)
}

func (u *Usecase) Delete(ctx context.Context, actorID, actorRole, productID string) error {
	current, err := u.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if current.SellerID != actorID && actorRole != domain.RoleAdmin {
		return xerrors.ErrForbidden
	}
	return u.repo.Delete(ctx, productID)
}

package wishlist

import (
	"context"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
)

type WishlistRepo interface {
	Add(ctx context.Context, e *domain.WishlistEntry) error
	Remove(ctx context.Context, accountID, productID string) error
	Exists(ctx context.Context, accountID, productID string) (bool, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.WishlistEntry, error)
}

type ProductGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Usecase struct {
	repo     WishlistRepo
	products ProductGetter
	sf       *id.Snowflake
}

func New(repo WishlistRepo, products ProductGetter, sf *id.Snowflake) *Usecase {
	return &Usecase{repo: repo, products: products, sf: sf}
}

// Add saves a product to the account's wishlist. Duplicates are rejected by
// the store's unique index, not by a check-then-insert here.
func (u *Usecase) Add(ctx context.Context, accountID, productID string) (*domain.WishlistEntry, error) {
	if _, err := u.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	entry := &domain.WishlistEntry{
		ID:        u.sf.Generate(),
		AccountID: accountID,
		ProductID: productID,
	}
	if err := u.repo.Add(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (u *Usecase) Remove(ctx context.Context, accountID, productID string) error {
	return u.repo.Remove(ctx, accountID, productID)
}

func (u *Usecase) Check(ctx context.Context, accountID, productID string) (bool, error) {
	return u.repo.Exists(ctx, accountID, productID)
}

func (u *Usecase) List(ctx context.Context, accountID string) ([]*domain.WishlistEntry, error) {
	return u.repo.ListByAccount(ctx, accountID)
}

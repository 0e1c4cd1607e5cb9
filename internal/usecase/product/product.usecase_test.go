package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type fakeRepo struct {
	byID    map[string]*domain.Product
	updates []*domain.ProductUpdate
	deleted []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*domain.Product{}}
}

func (r *fakeRepo) Create(ctx context.Context, p *domain.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, xerrors.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeRepo) IncrementViews(ctx context.Context, id string) error { return nil }

func (r *fakeRepo) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, upd *domain.ProductUpdate) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, xerrors.ErrProductNotFound
	}
	r.updates = append(r.updates, upd)
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	return p, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func newTestUsecase(t *testing.T, repo *fakeRepo) *Usecase {
	t.Helper()
	sf, err := id.NewSnowflake(1)
	require.NoError(t, err)
	return New(repo, sf)
}

func validInput() CreateInput {
	return CreateInput{
		Name:        "Bamboo chair",
		Price:       4000,
		Category:    "furniture",
		Condition:   domain.ConditionUsed,
		ListingType: domain.ListingSell,
		Images:      []string{"/uploads/a.jpg", "/uploads/b.jpg"},
	}
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(t, repo)

	p, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "seller-1", p.SellerID)
	assert.NotEmpty(t, p.ID)
	// First uploaded image becomes the primary.
	assert.Equal(t, "/uploads/a.jpg", p.ImageURL)
	assert.Equal(t, "/uploads/a.jpg", p.PrimaryImageURL())
}

func TestCreate_InvalidListing(t *testing.T) {
	uc := newTestUsecase(t, newFakeRepo())

	in := validInput()
	in.Price = 0
	_, err := uc.Create(context.Background(), "seller-1", in)
	assert.ErrorIs(t, err, xerrors.ErrPriceRequired)
}

func TestGet_BumpsViewCount(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(t, repo)

	created, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(t, repo)

	created, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)

	newPrice := int64(5000)
	upd := &domain.ProductUpdate{Price: &newPrice}

	_, err = uc.Update(context.Background(), "someone-else", domain.RoleUser, created.ID, upd)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	p, err := uc.Update(context.Background(), "seller-1", domain.RoleUser, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), p.Price)

	// Admins may edit any listing.
	newPrice2 := int64(6000)
	_, err = uc.Update(context.Background(), "admin-1", domain.RoleAdmin, created.ID, &domain.ProductUpdate{Price: &newPrice2})
	assert.NoError(t, err)
}

func TestUpdate_MergedResultValidated(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(t, repo)

	created, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)

	// Zeroing the price on a Sell listing is invalid; nothing reaches the store.
	badPrice := int64(0)
	_, err = uc.Update(context.Background(), "seller-1", domain.RoleUser, created.ID, &domain.ProductUpdate{Price: &badPrice})
	assert.ErrorIs(t, err, xerrors.ErrPriceRequired)
	assert.Empty(t, repo.updates)
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(t, repo)

	created, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)

	err = uc.Delete(context.Background(), "someone-else", domain.RoleUser, created.ID)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	err = uc.Delete(context.Background(), "seller-1", domain.RoleUser, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{created.ID}, repo.deleted)
}

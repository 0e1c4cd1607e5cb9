package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type fakeProductRepo struct {
	byID    map[string]*domain.Product
	deleted []string
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, xerrors.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return xerrors.ErrProductNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

type fakeAccountRepo struct{}

func (fakeAccountRepo) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return []*domain.Account{{ID: "1", Username: "alice", PasswordHash: "secret-hash"}}, nil
}

func (fakeAccountRepo) Count(ctx context.Context) (int64, error) { return 1, nil }

type fakeNotifier struct {
	sent []*domain.Notification
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, accountID, notifType, title, message string, payload map[string]interface{}) (*domain.Notification, error) {
	if n.err != nil {
		return nil, n.err
	}
	notif := &domain.Notification{AccountID: accountID, Type: notifType, Message: message, Payload: payload}
	n.sent = append(n.sent, notif)
	return notif, nil
}

func TestDeleteProduct_RequiresReason(t *testing.T) {
	products := &fakeProductRepo{byID: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Chair", SellerID: "seller-1"},
	}}
	notif := &fakeNotifier{}
	uc := New(products, fakeAccountRepo{}, notif, zap.NewNop())

	err := uc.DeleteProduct(context.Background(), "admin-1", "p1", "")
	assert.ErrorIs(t, err, xerrors.ErrReasonRequired)

	// Nothing was deleted or notified.
	assert.Empty(t, products.deleted)
	assert.Empty(t, notif.sent)
	_, err = products.GetByID(context.Background(), "p1")
	assert.NoError(t, err)
}

func TestDeleteProduct_NotifiesSeller(t *testing.T) {
	products := &fakeProductRepo{byID: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Chair", SellerID: "seller-1"},
	}}
	notif := &fakeNotifier{}
	uc := New(products, fakeAccountRepo{}, notif, zap.NewNop())

	err := uc.DeleteProduct(context.Background(), "admin-1", "p1", "prohibited item")
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, products.deleted)
	require.Len(t, notif.sent, 1)
	sent := notif.sent[0]
	assert.Equal(t, "seller-1", sent.AccountID)
	assert.Equal(t, domain.NotifProductRemoved, sent.Type)
	assert.Contains(t, sent.Message, "prohibited item")
	assert.Equal(t, "prohibited item", sent.Payload["reason"])
}

func TestDeleteProduct_NotificationFailureDoesNotUndoDeletion(t *testing.T) {
	products := &fakeProductRepo{byID: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Chair", SellerID: "seller-1"},
	}}
	notif := &fakeNotifier{err: errors.New("notification store down")}
	uc := New(products, fakeAccountRepo{}, notif, zap.NewNop())

	err := uc.DeleteProduct(context.Background(), "admin-1", "p1", "spam")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, products.deleted)
}

func TestDeleteProduct_UnknownProduct(t *testing.T) {
	uc := New(&fakeProductRepo{byID: map[string]*domain.Product{}}, fakeAccountRepo{}, &fakeNotifier{}, zap.NewNop())
	err := uc.DeleteProduct(context.Background(), "admin-1", "missing", "spam")
	assert.ErrorIs(t, err, xerrors.ErrProductNotFound)
}

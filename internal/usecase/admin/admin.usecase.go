package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type ProductRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type AccountRepo interface {
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	Count(ctx context.Context) (int64, error)
}

type NotificationSink interface {
	Notify(ctx context.Context, accountID, notifType, title, message string, payload map[string]interface{}) (*domain.Notification, error)
}

type Usecase struct {
	products ProductRepo
	accounts AccountRepo
	notif    NotificationSink
	logger   *zap.Logger
}

func New(products ProductRepo, accounts AccountRepo, notif NotificationSink, logger *zap.Logger) *Usecase {
	return &Usecase{
		products: products,
		accounts: accounts,
		notif:    notif,
		logger:   logger,
	}
}

func (u *Usecase) ListProducts(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	return u.products.List(ctx, f)
}

// DeleteProduct removes a listing as a moderation action. Ordering matters:
// validate the reason, delete, then notify the seller. Notification delivery
// is best-effort; the deletion stands even if it fails.
func (u *Usecase) DeleteProduct(ctx context.Context, adminID, productID, reason string) error {
	if reason == "" {
		return xerrors.ErrReasonRequired
	}

	p, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := u.products.Delete(ctx, productID); err != nil {
		return err
	}

	u.logger.Info("admin removed product",
		zap.String("admin_id", adminID),
		zap.String("product_id", productID),
		zap.String("seller_id", p.SellerID),
		zap.String("reason", reason))

	if _, err := u.notif.Notify(ctx, p.SellerID, domain.NotifProductRemoved,
		"Your listing was removed",
		"An administrator removed your listing \""+p.Name+"\". Reason: "+reason,
		map[string]interface{}{
			"product_id":   p.ID,
			"product_name": p.Name,
			"reason":       reason,
		}); err != nil {
		u.logger.Warn("failed to notify seller about removal",
			zap.String("product_id", productID),
			zap.Error(err))
	}
	return nil
}

func (u *Usecase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error) {
	accounts, err := u.accounts.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	summaries := make([]*domain.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, a.Summary())
	}
	return summaries, nil
}

func (u *Usecase) CountUsers(ctx context.Context) (int64, error) {
	return u.accounts.Count(ctx)
}

func (u *Usecase) CountProducts(ctx context.Context) (int64, error) {
	return u.products.Count(ctx)
}

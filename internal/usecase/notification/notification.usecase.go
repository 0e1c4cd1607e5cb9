package notification

import (
	"context"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
)

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, accountID, id string, read bool) error
	CountUnread(ctx context.Context, accountID string) (int64, error)
}

type Usecase struct {
	repo     NotificationRepo
	notifier *Notifier
	sf       *id.Snowflake
}

func New(repo NotificationRepo, notifier *Notifier, sf *id.Snowflake) *Usecase {
	return &Usecase{repo: repo, notifier: notifier, sf: sf}
}

// Notify persists a notification and pushes it to any live websocket
// connections the account holds.
func (u *Usecase) Notify(ctx context.Context, accountID, notifType, title, message string, payload map[string]interface{}) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        u.sf.Generate(),
		AccountID: accountID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Payload:   payload,
	}
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	u.notifier.Push(n)
	return n, nil
}

func (u *Usecase) List(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	return u.repo.ListByAccount(ctx, accountID, limit, offset)
}

func (u *Usecase) MarkRead(ctx context.Context, accountID, notifID string, read bool) error {
	return u.repo.MarkRead(ctx, accountID, notifID, read)
}

func (u *Usecase) CountUnread(ctx context.Context, accountID string) (int64, error) {
	return u.repo.CountUnread(ctx, accountID)
}

func (u *Usecase) WSNotifier() *Notifier {
	return u.notifier
}

package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO notifications (id, account_id, type, title, message, payload)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query,
		n.ID, n.AccountID, n.Type, n.Title, n.Message, payload,
	).Scan(&n.CreatedAt)
}

func (r *NotificationRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `
        SELECT id, account_id, type, title, message, payload, read, created_at
        FROM notifications
        WHERE account_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Notification
	for rows.Next() {
		var (
			n       domain.Notification
			payload []byte
		)
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Type, &n.Title, &n.Message, &payload, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &n.Payload); err != nil {
				return nil, err
			}
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead flips the read flag for one notification owned by the account.
func (r *NotificationRepo) MarkRead(ctx context.Context, accountID, id string, read bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = $1 WHERE id = $2 AND account_id = $3`,
		read, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, accountID string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE account_id = $1 AND read = FALSE`,
		accountID).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return total, err
}

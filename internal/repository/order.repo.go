package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `id, buyer_id, order_ref, line_items, total_amount, status, snap_token, redirect_url, paid_at, expired_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	err := row.Scan(
		&o.ID,
		&o.BuyerID,
		&o.OrderRef,
		&items,
		&o.TotalAmount,
		&o.Status,
		&o.SnapToken,
		&o.RedirectURL,
		&o.PaidAt,
		&o.ExpiredAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUnknownOrder
	}
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.LineItems); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.LineItems)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO orders (id, buyer_id, order_ref, line_items, total_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query,
		o.ID, o.BuyerID, o.OrderRef, items, o.TotalAmount, o.Status,
	).Scan(&o.CreatedAt)
}

func (r *OrderRepo) SetPaymentSession(ctx context.Context, id, snapToken, redirectURL string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE orders
        SET snap_token = $1, redirect_url = $2, updated_at = NOW()
        WHERE id = $3
    `, snapToken, redirectURL, id)
	return err
}

func (r *OrderRepo) GetByRef(ctx context.Context, orderRef string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_ref = $1`
	return scanOrder(r.db.QueryRow(ctx, query, orderRef))
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

// TransitionByRef applies a status transition with a conditional write: the
// row only changes when its current status is one of allowedFrom. Returns
// whether the row flipped, which is how duplicate gateway callbacks are
// detected without double-applying side effects.
func (r *OrderRepo) TransitionByRef(ctx context.Context, orderRef string, to domain.OrderStatus, allowedFrom ...domain.OrderStatus) (bool, error) {
	from := make([]string, 0, len(allowedFrom))
	for _, s := range allowedFrom {
		from = append(from, string(s))
	}

	query := `
        UPDATE orders
        SET status     = $1,
            paid_at    = CASE WHEN $1 = 'success' THEN NOW() ELSE paid_at END,
            expired_at = CASE WHEN $1 = 'expired' THEN NOW() ELSE expired_at END,
            updated_at = NOW()
        WHERE order_ref = $2 AND status = ANY($3)
    `
	tag, err := r.db.Exec(ctx, query, string(to), orderRef, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE buyer_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ExpireStale marks pending orders older than the cutoff as expired. Covers
// buyers who abandon the hosted checkout before the gateway's own expiry
// callback arrives.
func (r *OrderRepo) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = 'expired', expired_at = NOW(), updated_at = NOW()
        WHERE status = 'pending' AND created_at < $1
    `, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

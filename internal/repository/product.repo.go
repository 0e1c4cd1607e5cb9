package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type ProductRepo struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, seller_id, name, price, category, condition, listing_type, description, image_url, images, image, view_count, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.Name,
		&p.Price,
		&p.Category,
		&p.Condition,
		&p.ListingType,
		&p.Description,
		&p.ImageURL,
		&p.Images,
		&p.Image,
		&p.ViewCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	query := `
        INSERT INTO products
        (id, seller_id, name, price, category, condition, listing_type, description, image_url, images, image)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at
    `
	return r.db.QueryRow(ctx, query,
		p.ID, p.SellerID, p.Name, p.Price, p.Category, p.Condition,
		p.ListingType, p.Description, p.ImageURL, p.Images, p.Image,
	).Scan(&p.CreatedAt)
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

// IncrementViews bumps the view counter; detail reads call it after a
// successful fetch.
func (r *ProductRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE products SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

// List applies the optional filter and returns a deterministic ordering:
// newest-first by default, price order when requested, id as tiebreak.
func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	var (
		where []string
		args  []interface{}
	)

	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if f.SellerID != "" {
		args = append(args, f.SellerID)
		where = append(where, fmt.Sprintf("seller_id = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch f.Sort {
	case domain.SortPriceAsc:
		query += " ORDER BY price ASC, id ASC"
	case domain.SortPriceDesc:
		query += " ORDER BY price DESC, id ASC"
	default:
		query += " ORDER BY created_at DESC, id DESC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepo) Update(ctx context.Context, id string, upd *domain.ProductUpdate) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name         = COALESCE($1, name),
            price        = COALESCE($2, price),
            category     = COALESCE($3, category),
            condition    = COALESCE($4, condition),
            listing_type = COALESCE($5, listing_type),
            description  = COALESCE($6, description),
            updated_at   = NOW()
        WHERE id = $7
        RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query,
		upd.Name, upd.Price, upd.Category, upd.Condition, upd.ListingType, upd.Description, id,
	))
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	return total, err
}

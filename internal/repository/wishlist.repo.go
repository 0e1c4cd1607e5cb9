package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type WishlistRepo struct {
	db *pgxpool.Pool
}

func NewWishlistRepository(db *pgxpool.Pool) *WishlistRepo {
	return &WishlistRepo{db: db}
}

// Add inserts a wishlist entry. The (account_id, product_id) unique index is
// the duplicate guard; concurrent duplicate adds race at the store, not here.
func (r *WishlistRepo) Add(ctx context.Context, e *domain.WishlistEntry) error {
	query := `
        INSERT INTO wishlist_entries (id, account_id, product_id)
        VALUES ($1, $2, $3)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query, e.ID, e.AccountID, e.ProductID).Scan(&e.CreatedAt)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == xerrors.PGUniqueViolation {
			return xerrors.ErrDuplicateWishlist
		}
		return err
	}
	return nil
}

func (r *WishlistRepo) Remove(ctx context.Context, accountID, productID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM wishlist_entries WHERE account_id = $1 AND product_id = $2`,
		accountID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrWishlistNotFound
	}
	return nil
}

func (r *WishlistRepo) Exists(ctx context.Context, accountID, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlist_entries WHERE account_id = $1 AND product_id = $2)`,
		accountID, productID).Scan(&exists)
	return exists, err
}

// ListByAccount joins the referenced product where it still exists; deleted
// products come back with a nil Product.
func (r *WishlistRepo) ListByAccount(ctx context.Context, accountID string) ([]*domain.WishlistEntry, error) {
	query := `
        SELECT w.id, w.account_id, w.product_id, w.created_at,
               p.id, p.seller_id, p.name, p.price, p.category, p.condition,
               p.listing_type, p.description, p.image_url, p.images, p.image,
               p.view_count, p.created_at, p.updated_at
        FROM wishlist_entries w
        LEFT JOIN products p ON p.id = w.product_id
        WHERE w.account_id = $1
        ORDER BY w.created_at DESC, w.id DESC
    `
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.WishlistEntry
	for rows.Next() {
		var (
			e domain.WishlistEntry
			p domain.Product

			pID, pSeller, pName, pCategory, pCondition, pListing, pDescription, pImageURL, pImage *string
			pPrice, pViews                                                                        *int64
			pImages                                                                               []string
			pCreatedAt, pUpdatedAt                                                                *time.Time
		)
		err := rows.Scan(
			&e.ID, &e.AccountID, &e.ProductID, &e.CreatedAt,
			&pID, &pSeller, &pName, &pPrice, &pCategory, &pCondition,
			&pListing, &pDescription, &pImageURL, &pImages, &pImage,
			&pViews, &pCreatedAt, &pUpdatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			break
		}
		if err != nil {
			return nil, err
		}
		if pID != nil {
			p.ID = *pID
			p.SellerID = *pSeller
			p.Name = *pName
			p.Price = *pPrice
			p.Category = *pCategory
			p.Condition = *pCondition
			p.ListingType = *pListing
			p.Description = *pDescription
			p.ImageURL = *pImageURL
			p.Images = pImages
			p.Image = *pImage
			p.ViewCount = *pViews
			p.CreatedAt = *pCreatedAt
			p.UpdatedAt = pUpdatedAt
			e.Product = &p
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type AccountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.DisplayName,
		&a.Phone,
		&a.EmailVerified,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const accountColumns = `id, username, email, password_hash, role, display_name, phone, email_verified, created_at, updated_at`

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `
        INSERT INTO accounts (id, username, email, password_hash, role, display_name, phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Role, a.DisplayName, a.Phone,
	).Scan(&a.CreatedAt)
	if err != nil {
		if xerrors.ParsePGErrorCode(err) == xerrors.PGUniqueViolation {
			return xerrors.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(r.db.QueryRow(ctx, query, username))
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *AccountRepo) UpdateProfile(ctx context.Context, id string, upd *domain.ProfileUpdate) (*domain.Account, error) {
	query := `
        UPDATE accounts
        SET display_name = COALESCE($1, display_name),
            phone        = COALESCE($2, phone),
            updated_at   = NOW()
        WHERE id = $3
        RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRow(ctx, query, upd.DisplayName, upd.Phone, id))
}

func (r *AccountRepo) MarkEmailVerified(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrUserNotFound
	}
	return nil
}

func (r *AccountRepo) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        ORDER BY created_at DESC, id DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// AccountExists backs the auth middleware's token-to-account check.
func (r *AccountRepo) AccountExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *AccountRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total)
	return total, err
}

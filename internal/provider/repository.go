package provider

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrProviderNotFound = errors.New("provider not found")

type Repository interface {
	Create(ctx context.Context, userID int, req CreateProviderRequest) (*Provider, error)
	GetByID(ctx context.Context, id int) (*Provider, error)
	List(ctx context.Context) ([]Provider, error)
	Exists(ctx context.Context, id int) (bool, error)
	ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error
	SetFundAccount(ctx context.Context, id int, fundAccountID string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, req CreateProviderRequest) (*Provider, error) {
	var p Provider
	err := r.db.GetContext(ctx, &p,
		`INSERT INTO providers (user_id, display_name, service, rate_cents)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, display_name, service, rate_cents, fund_account_id, package_expires_at, created_at`,
		userID, req.DisplayName, req.Service, req.RateCents)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Provider, error) {
	var p Provider
	err := r.db.GetContext(ctx, &p,
		`SELECT id, user_id, display_name, service, rate_cents, fund_account_id, package_expires_at, created_at
		 FROM providers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Provider, error) {
	var providers []Provider
	err := r.db.SelectContext(ctx, &providers,
		`SELECT id, user_id, display_name, service, rate_cents, fund_account_id, package_expires_at, created_at
		 FROM providers ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM providers WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	res, err := tx.ExecContext(ctx, `UPDATE providers SET package_expires_at = $1 WHERE id = $2`, until, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProviderNotFound
	}
	return nil
}

func (r *repository) SetFundAccount(ctx context.Context, id int, fundAccountID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE providers SET fund_account_id = $1 WHERE id = $2`, fundAccountID, id)
	return err
}

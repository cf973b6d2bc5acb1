package shop

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrShopNotFound = errors.New("shop not found")

type Repository interface {
	Create(ctx context.Context, ownerID int, req CreateShopRequest) (*Shop, error)
	GetByID(ctx context.Context, id int) (*Shop, error)
	List(ctx context.Context) ([]Shop, error)
	Exists(ctx context.Context, id int) (bool, error)
	ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ownerID int, req CreateShopRequest) (*Shop, error) {
	var s Shop
	err := r.db.GetContext(ctx, &s,
		`INSERT INTO shops (owner_id, name, location, category)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, owner_id, name, location, category, package_expires_at, created_at`,
		ownerID, req.Name, req.Location, req.Category)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Shop, error) {
	var s Shop
	err := r.db.GetContext(ctx, &s,
		`SELECT id, owner_id, name, location, category, package_expires_at, created_at
		 FROM shops WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	err := r.db.SelectContext(ctx, &shops,
		`SELECT id, owner_id, name, location, category, package_expires_at, created_at
		 FROM shops ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM shops WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	res, err := tx.ExecContext(ctx, `UPDATE shops SET package_expires_at = $1 WHERE id = $2`, until, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShopNotFound
	}
	return nil
}

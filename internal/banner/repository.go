package banner

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrBannerNotFound = errors.New("banner not found")

type Repository interface {
	Create(ctx context.Context, ownerID int, req CreateBannerRequest) (*Banner, error)
	GetByID(ctx context.Context, id int) (*Banner, error)
	ListActive(ctx context.Context) ([]Banner, error)
	Exists(ctx context.Context, id int) (bool, error)
	Activate(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ownerID int, req CreateBannerRequest) (*Banner, error) {
	var b Banner
	err := r.db.GetContext(ctx, &b,
		`INSERT INTO banners (owner_id, title, image_path, target_url, is_active)
		 VALUES ($1, $2, $3, $4, false)
		 RETURNING id, owner_id, title, image_path, target_url, is_active, expires_at, created_at`,
		ownerID, req.Title, req.ImagePath, req.TargetURL)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Banner, error) {
	var b Banner
	err := r.db.GetContext(ctx, &b,
		`SELECT id, owner_id, title, image_path, target_url, is_active, expires_at, created_at
		 FROM banners WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBannerNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Banner, error) {
	var banners []Banner
	err := r.db.SelectContext(ctx, &banners,
		`SELECT id, owner_id, title, image_path, target_url, is_active, expires_at, created_at
		 FROM banners
		 WHERE is_active AND (expires_at IS NULL OR expires_at > NOW())
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM banners WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) Activate(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE banners SET is_active = true, expires_at = $1 WHERE id = $2`, until, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBannerNotFound
	}
	return nil
}

package venue

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrVenueNotFound = errors.New("venue not found")

type Repository interface {
	Create(ctx context.Context, ownerID int, req CreateVenueRequest) (*VenueWithSports, error)
	GetByID(ctx context.Context, id int) (*VenueWithSports, error)
	List(ctx context.Context) ([]Venue, error)
	GetSport(ctx context.Context, venueID int, sport string) (*VenueSport, error)
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

func (r *repository) Create(ctx context.Context, ownerID int, req CreateVenueRequest) (*VenueWithSports, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var v Venue
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO venues (owner_id, name, location, is_active)
		 VALUES ($1, $2, $3, true)
		 RETURNING id, owner_id, name, location, is_active, fund_account_id, package_expires_at, created_at`,
		ownerID, req.Name, req.Location,
	).StructScan(&v)
	if err != nil {
		return nil, err
	}

	out := &VenueWithSports{Venue: v}
	for _, s := range req.Sports {
		var vs VenueSport
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO venue_sports (venue_id, sport, playable_areas, price_cents)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, venue_id, sport, playable_areas, price_cents`,
			v.ID, s.Sport, s.PlayableAreas, s.PriceCents,
		).StructScan(&vs)
		if err != nil {
			return nil, err
		}
		out.Sports = append(out.Sports, vs)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*VenueWithSports, error) {
	var v Venue
	err := r.db.GetContext(ctx, &v,
		`SELECT id, owner_id, name, location, is_active, fund_account_id, package_expires_at, created_at
		 FROM venues WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	var sports []VenueSport
	err = r.db.SelectContext(ctx, &sports,
		`SELECT id, venue_id, sport, playable_areas, price_cents
		 FROM venue_sports WHERE venue_id = $1 ORDER BY sport`, id)
	if err != nil {
		return nil, err
	}

	return &VenueWithSports{Venue: v, Sports: sports}, nil
}

func (r *repository) List(ctx context.Context) ([]Venue, error) {
	var venues []Venue
	err := r.db.SelectContext(ctx, &venues,
		`SELECT id, owner_id, name, location, is_active, fund_account_id, package_expires_at, created_at
		 FROM venues WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *repository) GetSport(ctx context.Context, venueID int, sport string) (*VenueSport, error) {
	var vs VenueSport
	err := r.db.GetContext(ctx, &vs,
		`SELECT id, venue_id, sport, playable_areas, price_cents
		 FROM venue_sports WHERE venue_id = $1 AND sport = $2`, venueID, sport)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &vs, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM venues WHERE id = $1)`, id)
	return exists, err
}

// ExtendPackage runs inside the caller's transaction so the package update
// commits together with the payment state change.
func (r *repository) ExtendPackage(ctx context.Context, tx *sqlx.Tx, id int, until time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE venues SET package_expires_at = $1 WHERE id = $2`, until, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *repository) SetFundAccount(ctx context.Context, id int, fundAccountID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE venues SET fund_account_id = $1 WHERE id = $2`, fundAccountID, id)
	return err
}

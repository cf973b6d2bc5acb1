package tournament

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type Repository interface {
	Create(ctx context.Context, organizerID int, name, sport string, entryFeeCents int64, startDate time.Time) (*Tournament, error)
	GetByID(ctx context.Context, id int) (*Tournament, error)
	List(ctx context.Context) ([]Tournament, error)
	Exists(ctx context.Context, id int) (bool, error)
	Activate(ctx context.Context, tx *sqlx.Tx, id int) error
	AppendPaymentRef(ctx context.Context, tx *sqlx.Tx, id int, orderID string, userID int, amountCents int64) error
	AppendSponsor(ctx context.Context, tx *sqlx.Tx, id int, orderID string, sponsorID int, amountCents int64) error
	ListSponsors(ctx context.Context, id int) ([]Sponsor, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, organizerID int, name, sport string, entryFeeCents int64, startDate time.Time) (*Tournament, error) {
	query := `
		INSERT INTO tournaments (organizer_id, name, sport, entry_fee_cents, status, start_date)
		VALUES ($1, $2, $3, $4, 'draft', $5)
		RETURNING id, organizer_id, name, sport, entry_fee_cents, status, start_date, created_at
	`

	var t Tournament
	err := r.db.GetContext(ctx, &t, query, organizerID, name, sport, entryFeeCents, startDate)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Tournament, error) {
	var t Tournament
	err := r.db.GetContext(ctx, &t,
		`SELECT id, organizer_id, name, sport, entry_fee_cents, status, start_date, created_at
		 FROM tournaments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context) ([]Tournament, error) {
	var list []Tournament
	err := r.db.SelectContext(ctx, &list,
		`SELECT id, organizer_id, name, sport, entry_fee_cents, status, start_date, created_at
		 FROM tournaments ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) Activate(ctx context.Context, tx *sqlx.Tx, id int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE tournaments SET status = 'active' WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return err
	}
	// Zero rows means the tournament is already active; that's fine on
	// webhook replays.
	_, err = res.RowsAffected()
	return err
}

func (r *repository) AppendPaymentRef(ctx context.Context, tx *sqlx.Tx, id int, orderID string, userID int, amountCents int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tournament_payments (tournament_id, order_id, user_id, amount_cents)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (order_id) DO NOTHING`,
		id, orderID, userID, amountCents)
	return err
}

func (r *repository) AppendSponsor(ctx context.Context, tx *sqlx.Tx, id int, orderID string, sponsorID int, amountCents int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tournament_sponsors (tournament_id, order_id, sponsor_id, amount_cents)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (order_id) DO NOTHING`,
		id, orderID, sponsorID, amountCents)
	return err
}

func (r *repository) ListSponsors(ctx context.Context, id int) ([]Sponsor, error) {
	var sponsors []Sponsor
	err := r.db.SelectContext(ctx, &sponsors,
		`SELECT id, tournament_id, order_id, sponsor_id, amount_cents, created_at
		 FROM tournament_sponsors WHERE tournament_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	return sponsors, nil
}

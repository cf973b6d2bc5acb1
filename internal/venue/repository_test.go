package venue

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), dbMock
}

func venueRow(id int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "name", "location", "is_active", "fund_account_id", "package_expires_at", "created_at",
	}).AddRow(id, 9, "Smash Arena", "Indiranagar", true, "", nil, time.Now())
}

func TestCreateInsertsVenueAndSports(t *testing.T) {
	repo, dbMock := newMockRepo(t)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("INSERT INTO venues").
		WithArgs(9, "Smash Arena", "Indiranagar").
		WillReturnRows(venueRow(4))
	dbMock.ExpectQuery("INSERT INTO venue_sports").
		WithArgs(4, "badminton", 3, int64(40000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "venue_id", "sport", "playable_areas", "price_cents"}).
			AddRow(11, 4, "badminton", 3, int64(40000)))
	dbMock.ExpectCommit()

	out, err := repo.Create(context.Background(), 9, CreateVenueRequest{
		Name:     "Smash Arena",
		Location: "Indiranagar",
		Sports:   []CreateVenueSportInput{{Sport: "badminton", PlayableAreas: 3, PriceCents: 40000}},
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, out.ID)
	assert.Len(t, out.Sports, 1)
	assert.Equal(t, "badminton", out.Sports[0].Sport)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestCreateRollsBackOnSportInsertFailure(t *testing.T) {
	repo, dbMock := newMockRepo(t)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("INSERT INTO venues").
		WillReturnRows(venueRow(4))
	dbMock.ExpectQuery("INSERT INTO venue_sports").
		WillReturnError(assert.AnError)
	dbMock.ExpectRollback()

	_, err := repo.Create(context.Background(), 9, CreateVenueRequest{
		Name:     "Smash Arena",
		Location: "Indiranagar",
		Sports:   []CreateVenueSportInput{{Sport: "badminton", PlayableAreas: 3, PriceCents: 40000}},
	})

	assert.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, dbMock := newMockRepo(t)

	dbMock.ExpectQuery("FROM venues WHERE id").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestGetSportNotFound(t *testing.T) {
	repo, dbMock := newMockRepo(t)

	dbMock.ExpectQuery("FROM venue_sports WHERE venue_id").
		WithArgs(4, "squash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetSport(context.Background(), 4, "squash")
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestExtendPackageMissingVenue(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	until := time.Now().AddDate(1, 0, 0)
	dbMock.ExpectBegin()
	dbMock.ExpectExec("UPDATE venues SET package_expires_at").
		WithArgs(until, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := sqlxDB.BeginTxx(context.Background(), nil)
	assert.NoError(t, err)

	err = repo.ExtendPackage(context.Background(), tx, 99, until)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestSetFundAccount(t *testing.T) {
	repo, dbMock := newMockRepo(t)

	dbMock.ExpectExec("UPDATE venues SET fund_account_id").
		WithArgs("fa_77", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetFundAccount(context.Background(), 4, "fa_77"))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

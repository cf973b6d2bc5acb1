package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dbx := sqlx.NewDb(db, "sqlmock")
	return NewRepository(dbx), mock, func() { db.Close() }
}

func bookingColumns() []string {
	return []string{"id", "venue_id", "user_id", "sport", "pattern", "total_cents",
		"payment_status", "status", "is_locked", "locked_until", "session_id", "created_at"}
}

func TestAcquireLock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	playDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	lockedUntil := time.Now().Add(10 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM venues WHERE id = $1 FOR UPDATE`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`SELECT EXISTS\(`).
		WithArgs(5, "badminton", playDate, 0, 360, 420).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(5, 7, "badminton", PatternSingle, int64(40000), lockedUntil, "sess-1").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(11, 5, 7, "badminton", PatternSingle, int64(40000),
				PaymentPending, StatusPending, true, lockedUntil, "sess-1", time.Now()))
	mock.ExpectQuery(`INSERT INTO booking_slots`).
		WithArgs(11, playDate, 360, 420, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "play_date", "start_minutes", "end_minutes", "area_index"}).
			AddRow(1, 11, playDate, 360, 420, 0))
	mock.ExpectCommit()

	b := &Booking{
		VenueID:     5,
		UserID:      7,
		Sport:       "badminton",
		Pattern:     PatternSingle,
		TotalCents:  40000,
		LockedUntil: &lockedUntil,
		SessionID:   "sess-1",
	}
	slots := []Slot{{PlayDate: playDate, StartMinutes: 360, EndMinutes: 420, AreaIndex: 0}}

	got, err := repo.AcquireLock(context.Background(), b, slots)
	assert.NoError(t, err)
	assert.Equal(t, 11, got.ID)
	assert.True(t, got.IsLocked)
	assert.Len(t, got.Slots, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireLockConflict(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	playDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	lockedUntil := time.Now().Add(10 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM venues WHERE id = $1 FOR UPDATE`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`SELECT EXISTS\(`).
		WithArgs(5, "badminton", playDate, 0, 360, 420).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	b := &Booking{
		VenueID:     5,
		UserID:      7,
		Sport:       "badminton",
		Pattern:     PatternSingle,
		TotalCents:  40000,
		LockedUntil: &lockedUntil,
		SessionID:   "sess-1",
	}
	slots := []Slot{{PlayDate: playDate, StartMinutes: 360, EndMinutes: 420, AreaIndex: 0}}

	_, err := repo.AcquireLock(context.Background(), b, slots)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireLockVenueMissing(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM venues WHERE id = $1 FOR UPDATE`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	lockedUntil := time.Now().Add(10 * time.Minute)
	b := &Booking{VenueID: 99, UserID: 7, Sport: "badminton", Pattern: PatternSingle, LockedUntil: &lockedUntil, SessionID: "s"}

	_, err := repo.AcquireLock(context.Background(), b, []Slot{})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmReleasesLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := dbx.Beginx()
	assert.NoError(t, err)

	assert.NoError(t, repo.Confirm(context.Background(), tx, 11))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmReplayIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := dbx.Beginx()
	assert.NoError(t, err)

	assert.NoError(t, repo.Confirm(context.Background(), tx, 11))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredLocks(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(`DELETE FROM bookings`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpiredLocks(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package reservation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), db, mock
}

func newReservation() *domain.Reservation {
	return &domain.Reservation{
		BusinessID:      1,
		StaffID:         2,
		ServiceID:       3,
		Customer:        domain.Customer{UserID: 100, Name: "Anna", Email: ptr.Ptr("anna@example.com")},
		Date:            types.MustDate("2024-03-04"),
		StartTime:       types.MustTimeString("10:00"),
		EndTime:         types.MustTimeString("11:00"),
		DurationMinutes: 60,
		PriceMinorUnits: 250000,
		ServiceName:     "Haircut",
		Status:          domain.StatusPending,
	}
}

func reservationRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		int64(10), int64(1), int64(2), int64(3),
		int64(100), "Anna", "anna@example.com", nil,
		now, "10:00:00", "11:00:00", 60, int64(250000), "Haircut",
		"confirmed", nil, nil, nil, now, now,
	)
}

func TestCreate_Success(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO reservations").
		WithArgs(
			int64(1), int64(2), int64(3), int64(100), "Anna", sqlmock.AnyArg(), sqlmock.AnyArg(),
			"2024-03-04", "10:00", "11:00", 60, int64(250000), "Haircut", sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	created, err := repo.Create(context.Background(), newReservation())

	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ConstraintViolationsAreConflicts(t *testing.T) {
	for _, code := range []pq.ErrorCode{"23505", "23P01", "40001"} {
		t.Run(string(code), func(t *testing.T) {
			repo, _, mock := newRepo(t)

			mock.ExpectQuery("INSERT INTO reservations").
				WillReturnError(&pq.Error{Code: code, Message: "conflicting key value"})

			_, err := repo.Create(context.Background(), newReservation())

			assert.ErrorIs(t, err, ErrSlotConflict)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreate_OtherErrors(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO reservations").WillReturnError(&pq.Error{Code: "23502"})

	_, err := repo.Create(context.Background(), newReservation())

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotConflict)
}

func TestGetByID(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
		WithArgs(int64(10)).
		WillReturnRows(reservationRow(now))

	res, err := repo.GetByID(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), res.ID)
	assert.Equal(t, "2024-03-04", res.Date.String())
	assert.Equal(t, "10:00", res.StartTime.String())
	assert.Equal(t, "11:00", res.EndTime.String())
	assert.Equal(t, domain.StatusConfirmed, res.Status)
	assert.Equal(t, "anna@example.com", *res.Customer.Email)
	assert.Nil(t, res.Customer.Phone)
	assert.Nil(t, res.CancelledAt)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListForStaffDay_LocksInsideTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	now := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE (.+) status <> \\$3 ORDER BY start_time ASC FOR UPDATE").
		WithArgs("2024-03-04", int64(2), "cancelled").
		WillReturnRows(reservationRow(now))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	list, err := repo.ListForStaffDay(ctx, 2, types.MustDate("2024-03-04"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(10), list[0].ID)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForStaffDay_SerializationFailureIsConflict(t *testing.T) {
	repo, db, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"})
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	_, err = repo.ListForStaffDay(ctx, 2, types.MustDate("2024-03-04"))

	assert.ErrorIs(t, err, ErrSlotConflict)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForStaffDay_NoLockOutsideTransaction(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("ORDER BY start_time ASC$").
		WillReturnRows(sqlmock.NewRows(columns))

	list, err := repo.ListForStaffDay(context.Background(), 2, types.MustDate("2024-03-04"))

	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockStaffDay(t *testing.T) {
	repo, db, mock := newRepo(t)

	assert.ErrorIs(t, repo.LockStaffDay(context.Background(), 2, types.MustDate("2024-03-04")), ErrNoTransaction)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("reservation:staff:2:date:2024-03-04").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	require.NoError(t, repo.LockStaffDay(ctx, 2, types.MustDate("2024-03-04")))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByFilter_ExcludesCancelledByDefault(t *testing.T) {
	repo, _, mock := newRepo(t)
	staffID := int64(2)
	from := types.MustDate("2024-03-01")

	mock.ExpectQuery("WHERE business_id = \\$1 AND staff_id = \\$2 AND reservation_date >= \\$3 AND status <> \\$4").
		WithArgs(int64(1), int64(2), "2024-03-01", "cancelled").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.ListByFilter(context.Background(), domain.ReservationsFilter{
		BusinessID: 1,
		StaffID:    &staffID,
		StartDate:  &from,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCustomer_WithStatus(t *testing.T) {
	repo, _, mock := newRepo(t)
	status := domain.StatusPending

	mock.ExpectQuery("WHERE customer_user_id = \\$1 AND status = \\$2").
		WithArgs(int64(100), "pending").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.ListByCustomer(context.Background(), 100, &status)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_Conditional(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("UPDATE reservations SET status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2 AND status = \\$3").
		WithArgs("confirmed", int64(10), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), 10, domain.StatusPending, domain.StatusConfirmed))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 10, domain.StatusPending, domain.StatusConfirmed), ErrStatusChanged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("UPDATE reservations SET status = \\$1, cancellation_reason = \\$2, cancelled_at = NOW\\(\\)").
		WithArgs("cancelled", "sick", int64(10), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE reservations").
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, repo.Cancel(context.Background(), 10, domain.StatusConfirmed, ptr.Ptr("sick")))
	assert.ErrorIs(t, repo.Cancel(context.Background(), 10, domain.StatusConfirmed, nil), ErrExecQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}

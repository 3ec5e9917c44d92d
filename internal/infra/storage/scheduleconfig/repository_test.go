package scheduleconfig

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM business_schedule_configs WHERE business_id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"business_id"}))

	_, err := repo.Get(context.Background(), 1)

	assert.ErrorIs(t, err, ErrConfigNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_LoadsChildren(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM business_schedule_configs").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"business_id", "slot_interval_minutes", "lead_time_minutes", "advance_booking_days", "created_at", "updated_at",
		}).AddRow(int64(1), 30, 60, 14, now, now))

	mock.ExpectQuery("FROM business_day_schedules").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"weekday", "enabled", "open_time", "close_time"}).
			AddRow(0, false, nil, nil).
			AddRow(1, true, "08:00:00", "20:00:00"))

	mock.ExpectQuery("FROM business_blackout_dates").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"blackout_date"}).
			AddRow(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))

	mock.ExpectQuery("FROM business_date_overrides").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"override_date", "enabled", "open_time", "close_time"}).
			AddRow(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), true, "10:00:00", "14:00:00"))

	cfg, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.SlotIntervalMinutes)
	assert.Equal(t, 60, cfg.LeadTimeMinutes)
	assert.Equal(t, 14, cfg.AdvanceBookingDays)
	assert.False(t, cfg.IsDefault)

	monday := cfg.Days.Day(time.Monday)
	assert.True(t, monday.Enabled)
	assert.Equal(t, "08:00", monday.Open.String())
	assert.Equal(t, "20:00", monday.Close.String())
	assert.False(t, cfg.Days.Day(time.Sunday).Enabled)
	assert.True(t, cfg.Days.Day(time.Sunday).Open.IsZero())

	assert.True(t, cfg.IsBlackout(types.MustDate("2024-12-31")))
	override, ok := cfg.DateOverrides[types.MustDate("2024-12-30")]
	require.True(t, ok)
	assert.Equal(t, "14:00", override.Close.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_InvalidWeekday(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM business_schedule_configs").
		WillReturnRows(sqlmock.NewRows([]string{
			"business_id", "slot_interval_minutes", "lead_time_minutes", "advance_booking_days", "created_at", "updated_at",
		}).AddRow(int64(1), 0, 0, 0, now, now))
	mock.ExpectQuery("FROM business_day_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"weekday", "enabled", "open_time", "close_time"}).
			AddRow(9, true, "08:00:00", "20:00:00"))

	_, err := repo.Get(context.Background(), 1)

	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestUpsert_ReplacesChildren(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	cfg := domain.DefaultScheduleConfig(1)
	cfg.BlackoutDates[types.MustDate("2024-12-31")] = struct{}{}
	cfg.BlackoutDates[types.MustDate("2024-12-25")] = struct{}{}

	mock.ExpectQuery("INSERT INTO business_schedule_configs (.+) ON CONFLICT \\(business_id\\) DO UPDATE").
		WithArgs(int64(1), 0, 0, 0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("DELETE FROM business_day_schedules WHERE business_id = \\$1").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec("DELETE FROM business_blackout_dates").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM business_date_overrides").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO business_day_schedules").WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec("INSERT INTO business_blackout_dates").
		WithArgs(int64(1), "2024-12-25", int64(1), "2024-12-31").
		WillReturnResult(sqlmock.NewResult(0, 2))

	saved, err := repo.Upsert(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, saved.IsDefault)
	assert.Equal(t, now, saved.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_PropagatesErrors(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO business_schedule_configs").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Upsert(context.Background(), domain.DefaultScheduleConfig(1))

	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestLockBusiness(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewRepository(db)

	assert.ErrorIs(t, repo.LockBusiness(context.Background(), 1), ErrNoTransaction)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("schedule_config:business:1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	require.NoError(t, repo.LockBusiness(ctx, 1))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

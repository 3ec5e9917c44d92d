package scheduleconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const (
	configsTable   = "business_schedule_configs"
	daysTable      = "business_day_schedules"
	blackoutsTable = "business_blackout_dates"
	overridesTable = "business_date_overrides"
)

// Repository репозиторий конфигурации расписания бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get загружает конфигурацию бизнеса со всеми дочерними записями.
// Если бизнес конфигурацию не сохранял, возвращается ErrConfigNotFound.
func (r *Repository) Get(ctx context.Context, businessID int64) (*domain.BusinessScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"slot_interval_minutes",
		"lead_time_minutes",
		"advance_booking_days",
		"created_at",
		"updated_at",
	).
		From(configsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	cfg := &domain.BusinessScheduleConfig{
		BlackoutDates: map[types.Date]struct{}{},
		DateOverrides: map[types.Date]domain.DaySchedule{},
	}
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.BusinessID,
		&cfg.SlotIntervalMinutes,
		&cfg.LeadTimeMinutes,
		&cfg.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan config: %w", ErrScanRow, err)
	}
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	if err := r.loadDays(ctx, executor, cfg); err != nil {
		return nil, err
	}
	if err := r.loadBlackouts(ctx, executor, cfg); err != nil {
		return nil, err
	}
	if err := r.loadOverrides(ctx, executor, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *Repository) loadDays(ctx context.Context, executor DBExecutor, cfg *domain.BusinessScheduleConfig) error {
	query, args, err := psqlbuilder.Select("weekday", "enabled", "open_time", "close_time").
		From(daysTable).
		Where(squirrel.Eq{"business_id": cfg.BusinessID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadDays - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule
		if err := rows.Scan(&weekday, &day.Enabled, &day.Open, &day.Close); err != nil {
			return fmt.Errorf("%w: loadDays - scan row: %v", ErrScanRow, err)
		}
		if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, weekday)
		}
		cfg.Days[weekday] = day
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadDays - rows error: %w", ErrScanRow, err)
	}
	return nil
}

func (r *Repository) loadBlackouts(ctx context.Context, executor DBExecutor, cfg *domain.BusinessScheduleConfig) error {
	query, args, err := psqlbuilder.Select("blackout_date").
		From(blackoutsTable).
		Where(squirrel.Eq{"business_id": cfg.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadBlackouts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadBlackouts - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var date types.Date
		if err := rows.Scan(&date); err != nil {
			return fmt.Errorf("%w: loadBlackouts - scan row: %v", ErrScanRow, err)
		}
		cfg.BlackoutDates[date] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadBlackouts - rows error: %w", ErrScanRow, err)
	}
	return nil
}

func (r *Repository) loadOverrides(ctx context.Context, executor DBExecutor, cfg *domain.BusinessScheduleConfig) error {
	query, args, err := psqlbuilder.Select("override_date", "enabled", "open_time", "close_time").
		From(overridesTable).
		Where(squirrel.Eq{"business_id": cfg.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadOverrides - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var date types.Date
		var day domain.DaySchedule
		if err := rows.Scan(&date, &day.Enabled, &day.Open, &day.Close); err != nil {
			return fmt.Errorf("%w: loadOverrides - scan row: %v", ErrScanRow, err)
		}
		cfg.DateOverrides[date] = day
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadOverrides - rows error: %w", ErrScanRow, err)
	}
	return nil
}

// LockBusiness берет транзакционную advisory-блокировку на конфигурацию бизнеса.
// Блокировка работает и до первого сохранения, когда строки конфигурации еще нет.
func (r *Repository) LockBusiness(ctx context.Context, businessID int64) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}

	key := fmt.Sprintf("schedule_config:business:%d", businessID)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("%w: LockBusiness - acquire lock: %w", ErrExecQuery, err)
	}
	return nil
}

// Upsert создает или полностью заменяет конфигурацию бизнеса.
// Должен вызываться внутри транзакции: дочерние записи удаляются и вставляются заново.
func (r *Repository) Upsert(ctx context.Context, cfg *domain.BusinessScheduleConfig) (*domain.BusinessScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(configsTable).
		Columns("business_id", "slot_interval_minutes", "lead_time_minutes", "advance_booking_days").
		Values(cfg.BusinessID, cfg.SlotIntervalMinutes, cfg.LeadTimeMinutes, cfg.AdvanceBookingDays).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			lead_time_minutes = EXCLUDED.lead_time_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	for _, table := range []string{daysTable, blackoutsTable, overridesTable} {
		if err := r.deleteChildren(ctx, executor, table, cfg.BusinessID); err != nil {
			return nil, err
		}
	}

	days := psqlbuilder.Insert(daysTable).Columns("business_id", "weekday", "enabled", "open_time", "close_time")
	for _, weekday := range domain.Weekdays {
		day := cfg.Days[weekday]
		days = days.Values(cfg.BusinessID, int(weekday), day.Enabled, day.Open, day.Close)
	}
	if err := r.execInsert(ctx, executor, "Upsert days", days); err != nil {
		return nil, err
	}

	if len(cfg.BlackoutDates) > 0 {
		blackouts := psqlbuilder.Insert(blackoutsTable).Columns("business_id", "blackout_date")
		for _, date := range sortedDates(cfg.BlackoutDates) {
			blackouts = blackouts.Values(cfg.BusinessID, date)
		}
		if err := r.execInsert(ctx, executor, "Upsert blackouts", blackouts); err != nil {
			return nil, err
		}
	}

	if len(cfg.DateOverrides) > 0 {
		overrides := psqlbuilder.Insert(overridesTable).Columns("business_id", "override_date", "enabled", "open_time", "close_time")
		for _, date := range sortedDates(cfg.DateOverrides) {
			day := cfg.DateOverrides[date]
			overrides = overrides.Values(cfg.BusinessID, date, day.Enabled, day.Open, day.Close)
		}
		if err := r.execInsert(ctx, executor, "Upsert overrides", overrides); err != nil {
			return nil, err
		}
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time
	cfg.IsDefault = false

	return cfg, nil
}

func (r *Repository) deleteChildren(ctx context.Context, executor DBExecutor, table string, businessID int64) error {
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build delete %s: %v", ErrBuildQuery, table, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - delete %s: %v", ErrExecQuery, table, err)
	}
	return nil
}

func (r *Repository) execInsert(ctx context.Context, executor DBExecutor, op string, builder squirrel.InsertBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build insert query: %v", ErrBuildQuery, op, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute insert: %v", ErrExecQuery, op, err)
	}
	return nil
}

// sortedDates возвращает ключи в порядке возрастания, чтобы запросы были детерминированными
func sortedDates[V any](m map[types.Date]V) []types.Date {
	dates := make([]types.Date, 0, len(m))
	for date := range m {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

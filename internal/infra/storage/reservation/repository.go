package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const table = "reservations"

// Коды ошибок PostgreSQL, означающие проигранную гонку за слот
const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

var columns = []string{
	"id",
	"business_id",
	"staff_id",
	"service_id",
	"customer_user_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"reservation_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"price_minor_units",
	"service_name",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование.
// Запрет пересечений обеспечивает сама база (exclusion constraint и уникальный индекс),
// поэтому проигравший конкурентную вставку получает ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"business_id",
			"staff_id",
			"service_id",
			"customer_user_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"reservation_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"price_minor_units",
			"service_name",
			"status",
			"notes",
		).
		Values(
			res.BusinessID,
			res.StaffID,
			res.ServiceID,
			res.Customer.UserID,
			res.Customer.Name,
			res.Customer.Email,
			res.Customer.Phone,
			res.Date,
			res.StartTime,
			res.EndTime,
			res.DurationMinutes,
			res.PriceMinorUnits,
			res.ServiceName,
			res.Status,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt, &updatedAt)
	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: Create - staff=%d date=%s start=%s: %w",
				ErrSlotConflict, res.StaffID, res.Date, res.StartTime, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// LockStaffDay берет транзакционную advisory-блокировку на пару (сотрудник, дата).
// Конкурентные создания на тот же день сотрудника выполняются по очереди до коммита.
func (r *Repository) LockStaffDay(ctx context.Context, staffID int64, date types.Date) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}

	key := fmt.Sprintf("reservation:staff:%d:date:%s", staffID, date)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		if isSlotConflict(err) {
			return fmt.Errorf("%w: LockStaffDay: %w", ErrSlotConflict, err)
		}
		return fmt.Errorf("%w: LockStaffDay - acquire lock: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ListForStaffDay возвращает активные (не отмененные) бронирования сотрудника на дату по возрастанию времени.
// Внутри транзакции строки блокируются FOR UPDATE, отказ сериализации возвращается как ErrSlotConflict.
func (r *Repository) ListForStaffDay(ctx context.Context, staffID int64, date types.Date) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"staff_id": staffID, "reservation_date": date}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForStaffDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: ListForStaffDay - staff=%d date=%s: %w", ErrSlotConflict, staffID, date, err)
		}
		return nil, fmt.Errorf("%w: ListForStaffDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: ListForStaffDay - staff=%d date=%s: %w", ErrSlotConflict, staffID, date, err)
		}
		return nil, err
	}
	return reservations, nil
}

// ListByCustomer получает бронирования клиента, новые сначала.
// Опционально фильтрует по статусу.
func (r *Repository) ListByCustomer(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_user_id": userID}).
		OrderBy("reservation_date DESC", "start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByFilter получает бронирования бизнеса с фильтрацией по сотруднику, периоду и статусу
func (r *Repository) ListByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	selectBuilder = selectBuilder.OrderBy("reservation_date ASC", "start_time ASC", "staff_id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus переводит бронирование из expected в next.
// Обновление условное: если статус уже изменился, возвращается ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, expected, next domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(next)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(expected)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование, находящееся в статусе expected
func (r *Repository) Cancel(ctx context.Context, id int64, expected domain.ReservationStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(expected)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.BusinessID,
		&res.StaffID,
		&res.ServiceID,
		&res.Customer.UserID,
		&res.Customer.Name,
		&res.Customer.Email,
		&res.Customer.Phone,
		&res.Date,
		&res.StartTime,
		&res.EndTime,
		&res.DurationMinutes,
		&res.PriceMinorUnits,
		&res.ServiceName,
		&res.Status,
		&res.Notes,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

// isSlotConflict распознает нарушения ограничений на пересечение и отказ сериализации
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch string(pqErr.Code) {
	case pgUniqueViolation, pgExclusionViolation, pgSerializationFailure:
		return true
	default:
		return false
	}
}

package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	configRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/scheduleconfig"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalog"
	"github.com/m04kA/SMC-ReservationService/internal/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	configRepo      ConfigRepository
	catalog         CatalogClient
	notifier        Notifier
	txManager       TransactionManager
	metrics         MetricsRecorder
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	configRepo ConfigRepository,
	catalog CatalogClient,
	notifier Notifier,
	txManager TransactionManager,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		configRepo:      configRepo,
		catalog:         catalog,
		notifier:        notifier,
		txManager:       txManager,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает бронирование в статусе Pending.
// Транзакция начинается с блокировки (сотрудник, дата), затем внутри нее повторяются
// проверка окна и пересечений; окончательный арбитр - ограничения базы.
// Из конкурентных запросов на один интервал успешен ровно один, остальные получают ErrSlotTaken.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("CreateReservation: user=%d, business=%d, service=%d, staff=%d, date=%s, time=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.StaffID, req.Date, req.StartTime)

	defer func() {
		uc.metrics.RecordReservation(outcomeOf(err))
	}()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Бизнес
	business, err := uc.catalog.GetBusinessFresh(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateReservation: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateReservation: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("CreateReservation: business id=%d is not active", req.BusinessID)
		return nil, ErrBusinessInactive
	}

	// 3. Услуга
	service, err := uc.catalog.GetServiceFresh(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateReservation: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}
	if service.DurationMinutes < domain.MinServiceDurationMinutes || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		uc.logger.Error("CreateReservation: service id=%d has unusable duration %d", service.ID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service duration %d is out of range", ErrInternal, service.DurationMinutes)
	}

	// 4. Сотрудник и его допуск к услуге
	staff, err := uc.catalog.GetStaffFresh(ctx, req.BusinessID, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateReservation: staff id=%d not found in business id=%d", req.StaffID, req.BusinessID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateReservation: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.CanPerform(service.ID) {
		uc.logger.Warn("CreateReservation: staff id=%d does not perform service id=%d", staff.ID, service.ID)
		return nil, ErrStaffIneligible
	}

	var created *domain.Reservation

	// 5. Запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокировка пары (сотрудник, дата) первым запросом транзакции
		if err := uc.reservationRepo.LockStaffDay(txCtx, req.StaffID, req.Date); err != nil {
			return uc.stepError("lock staff day", err)
		}

		// 5.2. Конфигурация: для записи ошибки чтения не заменяются значениями по умолчанию
		cfg, err := uc.configRepo.Get(txCtx, req.BusinessID)
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			cfg = domain.DefaultScheduleConfig(req.BusinessID)
		} else if err != nil {
			return uc.stepError("get config", err)
		}

		// 5.3. Окно записи
		now := uc.timeProvider.Now().In(uc.location)
		checker, err := uc.checkWindow(cfg, req, service.DurationMinutes, now)
		if err != nil {
			uc.logger.Warn("CreateReservation: window check failed: %v", err)
			return err
		}

		// 5.4. Повторное чтение активных бронирований под блокировкой
		existing, err := uc.reservationRepo.ListForStaffDay(txCtx, req.StaffID, req.Date)
		if err != nil {
			return uc.stepError("list reservations", err)
		}
		if checker.Conflicts(req.StartTime, existing) {
			uc.logger.Warn("CreateReservation: slot %s %s is taken for staff=%d", req.Date, req.StartTime, req.StaffID)
			return ErrSlotTaken
		}

		// 5.5. Запись
		endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
		}

		res := &domain.Reservation{
			BusinessID: req.BusinessID,
			StaffID:    req.StaffID,
			ServiceID:  req.ServiceID,
			Customer: domain.Customer{
				UserID: req.UserID,
				Name:   strings.TrimSpace(req.Customer.Name),
				Email:  req.Customer.Email,
				Phone:  req.Customer.Phone,
			},
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			Status:          domain.StatusPending,
			DurationMinutes: service.DurationMinutes,
			PriceMinorUnits: service.PriceMinorUnits,
			ServiceName:     service.Name,
			Notes:           req.Notes,
		}

		created, err = uc.reservationRepo.Create(txCtx, res)
		if err != nil {
			return uc.stepError("create reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, uc.mapTxError(err)
	}

	uc.logger.Info("CreateReservation: created reservation id=%d for staff=%d at %s %s",
		created.ID, created.StaffID, created.Date, created.StartTime)

	// 6. Уведомление после коммита. Ошибка не отменяет бронирование.
	if err := uc.notifier.ReservationCreated(ctx, created); err != nil {
		uc.logger.Warn("CreateReservation: failed to notify about reservation id=%d: %v", created.ID, err)
	}

	return &Response{Reservation: created}, nil
}

// checkWindow проверяет дату и время начала по конфигурации и возвращает проверку пересечений
func (uc *UseCase) checkWindow(
	cfg *domain.BusinessScheduleConfig,
	req *Request,
	duration int,
	now time.Time,
) (slots.Checker, error) {
	checker := slots.Checker{
		Date:            req.Date,
		DurationMinutes: duration,
		LeadTimeMinutes: cfg.LeadTimeMinutes,
		Now:             now,
		Location:        uc.location,
	}

	today := types.DateOf(now)
	if !cfg.WithinHorizon(req.Date, today) {
		return checker, fmt.Errorf("%w: date=%s, today=%s, advance=%d", ErrDateOutOfRange, req.Date, today, cfg.AdvanceBookingDays)
	}

	window := cfg.ResolveDay(req.Date)
	if !window.IsBookable() {
		return checker, fmt.Errorf("%w: %s", ErrBusinessClosed, req.Date)
	}

	if !window.Contains(req.StartTime, duration) {
		return checker, fmt.Errorf("%w: %s+%dm is outside %s-%s",
			ErrOutsideWorkingHours, req.StartTime, duration, window.Open, window.Close)
	}

	grid, err := slots.NewGenerator(window.Open, window.Close, cfg.SlotInterval(duration), duration)
	if err != nil {
		return checker, fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}
	if !grid.IsOnGrid(req.StartTime) {
		return checker, fmt.Errorf("%w: %s with step %d from %s", ErrOffGrid, req.StartTime, grid.Interval, window.Open)
	}

	if checker.TooLate(req.StartTime) {
		return checker, fmt.Errorf("%w: lead time is %d minutes", ErrTooLateToBook, cfg.LeadTimeMinutes)
	}

	return checker, nil
}

// stepError переводит ошибку шага транзакции: проигранная гонка становится ErrSlotTaken, остальное ErrInternal
func (uc *UseCase) stepError(step string, err error) error {
	if lostRace(err) {
		uc.logger.Warn("CreateReservation: lost concurrent reservation race at %s: %v", step, err)
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	}
	uc.logger.Error("CreateReservation: failed to %s: %v", step, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, step, err)
}

// lostRace распознает отказ сериализации и срабатывание ограничений на пересечение
func lostRace(err error) bool {
	return txmanager.IsSerializationFailure(err) || errors.Is(err, reservationRepo.ErrSlotConflict)
}

// mapTxError сохраняет вид ошибки, пришедшей из транзакции
func (uc *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return err
	case lostRace(err):
		uc.logger.Warn("CreateReservation: lost concurrent reservation race: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	case domain.KindOf(err) != domain.KindInternal, errors.Is(err, ErrInternal):
		return err
	default:
		uc.logger.Error("CreateReservation: transaction error: %v", err)
		return fmt.Errorf("%w: transaction error: %v", ErrInternal, err)
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordReservation(string) {}

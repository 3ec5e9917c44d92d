package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	configRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/scheduleconfig"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalog"
	"github.com/m04kA/SMC-ReservationService/internal/slots"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case получения сетки доступности сотрудника на дату
type UseCase struct {
	reservationRepo ReservationRepository
	configRepo      ConfigRepository
	catalog         CatalogClient
	metrics         MetricsRecorder
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс, в котором интерпретируются даты и время бизнеса.
func NewUseCase(
	reservationRepo ReservationRepository,
	configRepo ConfigRepository,
	catalog CatalogClient,
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
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute возвращает кандидатов на начало записи с отметкой доступности.
// Закрытый день, прошедшая дата или дата за горизонтом бронирования дают пустой список, а не ошибку.
// Только чтение: блокировок нет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: business=%d, staff=%d, service=%d, duration=%d, date=%s",
		req.BusinessID, req.StaffID, req.ServiceID, req.DurationMinutes, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		uc.metrics.RecordAvailability(resultInvalid)
		return nil, err
	}

	// 2. Сотрудник должен существовать в бизнесе
	staff, err := uc.catalog.GetStaff(ctx, req.BusinessID, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrStaffNotFound) || errors.Is(err, catalogClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailability: staff id=%d not found in business id=%d", req.StaffID, req.BusinessID)
			uc.metrics.RecordAvailability(resultNotFound)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailability: failed to get staff id=%d: %v", req.StaffID, err)
		uc.metrics.RecordAvailability(resultError)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// 3. Длительность записи: из услуги или из запроса
	duration, err := uc.resolveDuration(ctx, req, staff)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Date:            req.Date,
		BusinessID:      req.BusinessID,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		Slots:           []domain.AvailableSlot{},
	}

	// 4. Конфигурация расписания. Для чтения ошибки не фатальны.
	cfg := uc.loadConfig(ctx, req.BusinessID)

	// 5. Горизонт бронирования
	now := uc.timeProvider.Now().In(uc.location)
	today := types.DateOf(now)
	if !cfg.WithinHorizon(req.Date, today) {
		uc.logger.Info("GetAvailability: date=%s is outside booking horizon (today=%s, advance=%d)",
			req.Date, today, cfg.AdvanceBookingDays)
		uc.metrics.RecordAvailability(resultOutOfRange)
		return resp, nil
	}

	// 6. Расписание дня: blackout, переопределение даты, день недели
	window := cfg.ResolveDay(req.Date)
	if !window.IsBookable() {
		uc.logger.Info("GetAvailability: business=%d is closed on %s (blackout=%t)", req.BusinessID, req.Date, window.Blackout)
		uc.metrics.RecordAvailability(resultClosed)
		return resp, nil
	}

	// 7. Кандидаты сетки
	generator, err := slots.NewGenerator(window.Open, window.Close, cfg.SlotInterval(duration), duration)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to build slot grid: %v", err)
		uc.metrics.RecordAvailability(resultError)
		return nil, fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}
	candidates := generator.Slots()
	if len(candidates) == 0 {
		uc.metrics.RecordAvailability(resultClosed)
		return resp, nil
	}

	// 8. Активные бронирования сотрудника на дату
	reservations, err := uc.reservationRepo.ListForStaffDay(ctx, req.StaffID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list reservations for staff=%d date=%s: %v", req.StaffID, req.Date, err)
		uc.metrics.RecordAvailability(resultError)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	// 9. Отметка доступности: пересечения и lead time
	checker := slots.Checker{
		Date:            req.Date,
		DurationMinutes: duration,
		LeadTimeMinutes: window.LeadTimeMinutes,
		Now:             now,
		Location:        uc.location,
	}
	resp.Slots = checker.Mark(candidates, reservations)

	uc.logger.Info("GetAvailability: generated %d slots for business=%d, staff=%d, date=%s",
		len(resp.Slots), req.BusinessID, req.StaffID, req.Date)
	uc.metrics.RecordAvailability(resultSlots)

	return resp, nil
}

func (uc *UseCase) resolveDuration(ctx context.Context, req *Request, staff *domain.Staff) (int, error) {
	if req.ServiceID == 0 {
		return req.DurationMinutes, nil
	}

	service, err := uc.catalog.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			uc.metrics.RecordAvailability(resultNotFound)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		uc.metrics.RecordAvailability(resultError)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetAvailability: service id=%d is not active", req.ServiceID)
		uc.metrics.RecordAvailability(resultIneligible)
		return 0, ErrServiceInactive
	}

	if !staff.CanPerform(service.ID) {
		uc.logger.Warn("GetAvailability: staff id=%d does not perform service id=%d", staff.ID, service.ID)
		uc.metrics.RecordAvailability(resultIneligible)
		return 0, ErrStaffIneligible
	}

	if err := validateDuration(service.DurationMinutes); err != nil {
		uc.logger.Error("GetAvailability: service id=%d has unusable duration %d", service.ID, service.DurationMinutes)
		uc.metrics.RecordAvailability(resultError)
		return 0, fmt.Errorf("%w: service duration: %v", ErrInternal, err)
	}

	return service.DurationMinutes, nil
}

// loadConfig возвращает конфигурацию бизнеса или значения по умолчанию
func (uc *UseCase) loadConfig(ctx context.Context, businessID int64) *domain.BusinessScheduleConfig {
	cfg, err := uc.configRepo.Get(ctx, businessID)
	switch {
	case errors.Is(err, configRepo.ErrConfigNotFound):
		uc.logger.Info("GetAvailability: using default config for business=%d", businessID)
		return domain.DefaultScheduleConfig(businessID)
	case err != nil:
		uc.logger.Error("GetAvailability: failed to get config for business=%d, using defaults: %v", businessID, err)
		return domain.DefaultScheduleConfig(businessID)
	}
	return cfg
}

type noopMetrics struct{}

func (noopMetrics) RecordAvailability(string) {}

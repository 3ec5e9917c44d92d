package scheduleconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	configRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/scheduleconfig"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalog"
	"github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig/models"
)

// Service сервис конфигурации расписания бизнеса
type Service struct {
	configRepo ConfigRepository
	catalog    CatalogClient
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации расписания
func NewService(
	configRepo ConfigRepository,
	catalog CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		configRepo: configRepo,
		catalog:    catalog,
		txManager:  txManager,
		logger:     logger,
	}
}

// Get возвращает сохраненную конфигурацию или значения по умолчанию.
// Публичный метод: ошибка чтения конфигурации не мешает клиенту увидеть расписание.
func (s *Service) Get(ctx context.Context, businessID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetScheduleConfig: fetching config for business=%d", businessID)

	if businessID <= 0 {
		return nil, fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}

	if _, err := s.getBusiness(ctx, "GetScheduleConfig", businessID); err != nil {
		return nil, err
	}

	cfg, err := s.configRepo.Get(ctx, businessID)
	switch {
	case errors.Is(err, configRepo.ErrConfigNotFound):
		s.logger.Info("GetScheduleConfig: no stored config for business=%d, using defaults", businessID)
		cfg = domain.DefaultScheduleConfig(businessID)
	case err != nil:
		s.logger.Error("GetScheduleConfig: failed to read config for business=%d, using defaults: %v", businessID, err)
		cfg = domain.DefaultScheduleConfig(businessID)
	}

	return models.FromDomainConfig(cfg), nil
}

// Put применяет изменения к конфигурации бизнеса и сохраняет результат.
// При первом сохранении конфигурация создается из значений по умолчанию.
// Доступно только менеджерам бизнеса.
func (s *Service) Put(ctx context.Context, businessID, userID int64, patch *models.PatchRequest) (*models.ConfigResponse, error) {
	s.logger.Info("PutScheduleConfig: updating config for business=%d by user=%d", businessID, userID)

	if businessID <= 0 {
		return nil, fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}
	if patch == nil {
		return nil, fmt.Errorf("%w: request body is required", ErrInvalidInput)
	}

	business, err := s.getBusiness(ctx, "PutScheduleConfig", businessID)
	if err != nil {
		return nil, err
	}
	if !business.IsManager(userID) {
		s.logger.Warn("PutScheduleConfig: user=%d is not a manager of business=%d", userID, businessID)
		return nil, ErrAccessDenied
	}

	var saved *domain.BusinessScheduleConfig
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Конкурентные изменения одного бизнеса применяются по очереди, иначе одно из них теряется
		if err := s.configRepo.LockBusiness(txCtx, businessID); err != nil {
			s.logger.Error("PutScheduleConfig: failed to lock config for business=%d: %v", businessID, err)
			return fmt.Errorf("%w: failed to lock config: %v", ErrInternal, err)
		}

		current, err := s.configRepo.Get(txCtx, businessID)
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			current = domain.DefaultScheduleConfig(businessID)
		} else if err != nil {
			s.logger.Error("PutScheduleConfig: failed to read config for business=%d: %v", businessID, err)
			return fmt.Errorf("%w: failed to read config: %v", ErrInternal, err)
		}

		if err := patch.Apply(current); err != nil {
			s.logger.Warn("PutScheduleConfig: invalid patch for business=%d: %v", businessID, err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := current.Validate(); err != nil {
			s.logger.Warn("PutScheduleConfig: validation failed for business=%d: %v", businessID, err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		saved, err = s.configRepo.Upsert(txCtx, current)
		if err != nil {
			s.logger.Error("PutScheduleConfig: failed to save config for business=%d: %v", businessID, err)
			return fmt.Errorf("%w: failed to save config: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: PutScheduleConfig - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("PutScheduleConfig: successfully saved config for business=%d", businessID)
	return models.FromDomainConfig(saved), nil
}

func (s *Service) getBusiness(ctx context.Context, op string, businessID int64) (*domain.Business, error) {
	business, err := s.catalog.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	return business, nil
}

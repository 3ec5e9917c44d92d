package reservations

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalog"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения бронирований и переходов жизненного цикла
type Service struct {
	reservationRepo ReservationRepository
	catalog         CatalogClient
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	catalog CatalogClient,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		catalog:         catalog,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Доступно клиенту, сделавшему бронирование, и менеджерам бизнеса.
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.getReservation(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkCustomerOrManager(ctx, res, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainReservation(res), nil
}

// GetCustomerReservations получает бронирования клиента, опционально по статусу.
// Клиент видит только свои бронирования.
func (s *Service) GetCustomerReservations(ctx context.Context, req *models.GetCustomerReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetCustomerReservations: fetching reservations of customer=%d by user=%d, status=%v",
		req.CustomerID, req.RequesterID, req.Status)

	if req.RequesterID != req.CustomerID {
		s.logger.Warn("GetCustomerReservations: user=%d requested reservations of customer=%d", req.RequesterID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var status *domain.ReservationStatus
	if req.Status != nil {
		parsed, ok := domain.ParseReservationStatus(*req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		status = &parsed
	}

	list, err := s.reservationRepo.ListByCustomer(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("GetCustomerReservations: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerReservations: fetched %d reservations for customer=%d", len(list), req.CustomerID)
	return models.FromDomainReservationList(list), nil
}

// GetBusinessReservations получает бронирования бизнеса с фильтрацией.
// Доступно только менеджерам бизнеса.
func (s *Service) GetBusinessReservations(ctx context.Context, req *models.GetBusinessReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetBusinessReservations: fetching reservations for business=%d by user=%d", req.BusinessID, req.UserID)

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessReservations: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	list, err := s.reservationRepo.ListByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessReservations: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessReservations: fetched %d reservations for business=%d", len(list), req.BusinessID)
	return models.FromDomainReservationList(list), nil
}

// UpdateStatus переводит бронирование в новый статус по жизненному циклу.
// Доступно только менеджерам бизнеса.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s by user=%d", id, req.Status, req.UserID)

	next, ok := domain.ParseReservationStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	res, err := s.getReservation(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, res.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	return s.transition(ctx, "UpdateStatus", res, next, nil)
}

// Cancel отменяет бронирование.
// Клиент может отменить свое бронирование, менеджер - любое бронирование бизнеса.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, req.UserID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	res, err := s.getReservation(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkCustomerOrManager(ctx, res, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", req.UserID, id)
		return nil, err
	}

	return s.transition(ctx, "Cancel", res, domain.StatusCancelled, req.Reason)
}

// transition применяет переход статуса условным обновлением по ожидаемому текущему статусу
func (s *Service) transition(
	ctx context.Context,
	op string,
	res *domain.Reservation,
	next domain.ReservationStatus,
	reason *string,
) (*models.ReservationResponse, error) {
	previous := res.Status
	if !previous.CanTransitionTo(next) {
		s.logger.Warn("%s: reservation id=%d cannot move from %s to %s", op, res.ID, previous, next)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, next)
	}

	var err error
	if next == domain.StatusCancelled {
		err = s.reservationRepo.Cancel(ctx, res.ID, previous, reason)
	} else {
		err = s.reservationRepo.UpdateStatus(ctx, res.ID, previous, next)
	}
	if err != nil {
		if errors.Is(err, reservationRepo.ErrStatusChanged) {
			s.logger.Warn("%s: reservation id=%d changed concurrently, expected status=%s", op, res.ID, previous)
			return nil, ErrStatusChanged
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, res.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	updated, err := s.getReservation(ctx, op, res.ID)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ReservationStatusChanged(ctx, updated, previous); err != nil {
		s.logger.Warn("%s: failed to notify about reservation id=%d: %v", op, res.ID, err)
	}

	s.logger.Info("%s: reservation id=%d moved from %s to %s", op, res.ID, previous, next)
	return models.FromDomainReservation(updated), nil
}

func (s *Service) getReservation(ctx context.Context, op string, id int64) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: reservationId must be positive", ErrInvalidInput)
	}

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}

// checkCustomerOrManager пропускает владельца бронирования и менеджеров бизнеса
func (s *Service) checkCustomerOrManager(ctx context.Context, res *domain.Reservation, userID int64) error {
	if res.Customer.UserID == userID {
		return nil
	}
	return s.checkManagerAccess(ctx, res.BusinessID, userID)
}

// checkManagerAccess проверяет, что пользователь является менеджером бизнеса
func (s *Service) checkManagerAccess(ctx context.Context, businessID, userID int64) error {
	business, err := s.catalog.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			s.logger.Warn("checkManagerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

package catalog

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// Business ответ каталога о бизнесе
type Business struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ManagerIDs []int64 `json:"managerIds"`
	IsActive   bool    `json:"isActive"`
}

// Service ответ каталога об услуге
type Service struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceMinorUnits int64  `json:"priceMinorUnits"`
	IsActive        bool   `json:"isActive"`
}

// Staff ответ каталога о сотруднике
type Staff struct {
	ID         int64   `json:"id"`
	BusinessID int64   `json:"businessId"`
	Name       string  `json:"name"`
	ServiceIDs []int64 `json:"serviceIds"`
}

func (b *Business) toDomain() *domain.Business {
	return &domain.Business{
		ID:         b.ID,
		Name:       b.Name,
		ManagerIDs: b.ManagerIDs,
		IsActive:   b.IsActive,
	}
}

func (s *Service) toDomain() *domain.Service {
	return &domain.Service{
		ID:              s.ID,
		BusinessID:      s.BusinessID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		PriceMinorUnits: s.PriceMinorUnits,
		IsActive:        s.IsActive,
	}
}

func (s *Staff) toDomain() *domain.Staff {
	return &domain.Staff{
		ID:         s.ID,
		BusinessID: s.BusinessID,
		Name:       s.Name,
		ServiceIDs: s.ServiceIDs,
	}
}

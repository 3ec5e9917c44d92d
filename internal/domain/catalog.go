package domain

// Business владелец расписания и бронирований
type Business struct {
	ID         int64
	Name       string
	ManagerIDs []int64
	IsActive   bool
}

// IsManager returns true if the user manages the business
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Service услуга бизнеса
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	PriceMinorUnits int64
	IsActive        bool
}

// Staff сотрудник бизнеса и набор услуг, которые он оказывает
type Staff struct {
	ID         int64
	BusinessID int64
	Name       string
	ServiceIDs []int64
}

// CanPerform returns true if the staff member is eligible for the service
func (s *Staff) CanPerform(serviceID int64) bool {
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	configRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/scheduleconfig"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalog"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const (
	businessID = int64(1)
	staffID    = int64(2)
	serviceID  = int64(3)
)

type fakeReservations struct {
	list  []*domain.Reservation
	err   error
	calls int
}

func (f *fakeReservations) ListForStaffDay(_ context.Context, _ int64, _ types.Date) ([]*domain.Reservation, error) {
	f.calls++
	return f.list, f.err
}

type fakeConfigs struct {
	cfg *domain.BusinessScheduleConfig
	err error
}

func (f *fakeConfigs) Get(_ context.Context, _ int64) (*domain.BusinessScheduleConfig, error) {
	if f.cfg == nil && f.err == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.cfg, f.err
}

type fakeCatalog struct {
	service  *domain.Service
	staff    *domain.Staff
	staffErr error
}

func (f *fakeCatalog) GetService(_ context.Context, _, id int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, catalogClient.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeCatalog) GetStaff(_ context.Context, _, _ int64) (*domain.Staff, error) {
	if f.staffErr != nil {
		return nil, f.staffErr
	}
	return f.staff, nil
}

type countingMetrics map[string]int

func (m countingMetrics) RecordAvailability(result string) { m[result]++ }

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

type fixture struct {
	uc           *UseCase
	reservations *fakeReservations
	configs      *fakeConfigs
	catalog      *fakeCatalog
	metrics      countingMetrics
}

// Понедельник 2024-03-04, сейчас воскресенье 2024-03-03 12:00 UTC
func newFixture() *fixture {
	f := &fixture{
		reservations: &fakeReservations{},
		configs:      &fakeConfigs{},
		catalog: &fakeCatalog{
			service: &domain.Service{ID: serviceID, BusinessID: businessID, Name: "Haircut", DurationMinutes: 60, IsActive: true},
			staff:   &domain.Staff{ID: staffID, BusinessID: businessID, ServiceIDs: []int64{serviceID}},
		},
		metrics: countingMetrics{},
	}
	f.uc = NewUseCase(f.reservations, f.configs, f.catalog, f.metrics, time.UTC, logger.NewNop())
	f.uc.timeProvider = fixedTime(time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC))
	return f
}

func request(date string) *Request {
	return &Request{BusinessID: businessID, StaffID: staffID, ServiceID: serviceID, Date: types.MustDate(date)}
}

func times(slots []domain.AvailableSlot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.StartTime.String())
	}
	return result
}

func TestExecute_EmptyDayHasEightSlots(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, times(resp.Slots))
	for _, s := range resp.Slots {
		assert.True(t, s.Available, s.StartTime.String())
	}
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 1, f.metrics[resultSlots])
}

func TestExecute_ConfirmedReservationBlocksItsSlot(t *testing.T) {
	f := newFixture()
	f.reservations.list = []*domain.Reservation{{
		StaffID:   staffID,
		Date:      types.MustDate("2024-03-04"),
		StartTime: types.MustTimeString("10:00"),
		EndTime:   types.MustTimeString("11:00"),
		Status:    domain.StatusConfirmed,
	}}

	resp, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)

	require.Len(t, resp.Slots, 8)
	for _, s := range resp.Slots {
		assert.Equal(t, s.StartTime.String() != "10:00", s.Available, s.StartTime.String())
	}
}

func TestExecute_CancelledReservationDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.reservations.list = []*domain.Reservation{{
		StartTime: types.MustTimeString("10:00"),
		EndTime:   types.MustTimeString("11:00"),
		Status:    domain.StatusCancelled,
	}}

	resp, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)

	for _, s := range resp.Slots {
		assert.True(t, s.Available)
	}
}

func TestExecute_BlackoutAndDisabledDaysAreEmpty(t *testing.T) {
	f := newFixture()
	cfg := domain.DefaultScheduleConfig(businessID)
	cfg.BlackoutDates[types.MustDate("2024-03-04")] = struct{}{}
	f.configs.cfg = cfg
	f.reservations.list = []*domain.Reservation{{StartTime: types.MustTimeString("10:00"), DurationMinutes: 60, Status: domain.StatusConfirmed}}

	blackout, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)
	assert.Empty(t, blackout.Slots)
	assert.NotNil(t, blackout.Slots)

	saturday, err := f.uc.Execute(context.Background(), request("2024-03-09"))
	require.NoError(t, err)
	assert.Empty(t, saturday.Slots)

	assert.Zero(t, f.reservations.calls)
	assert.Equal(t, 2, f.metrics[resultClosed])
}

func TestExecute_PastAndBeyondHorizonAreEmpty(t *testing.T) {
	f := newFixture()
	cfg := domain.DefaultScheduleConfig(businessID)
	cfg.AdvanceBookingDays = 7
	f.configs.cfg = cfg

	past, err := f.uc.Execute(context.Background(), request("2024-03-01"))
	require.NoError(t, err)
	assert.Empty(t, past.Slots)

	far, err := f.uc.Execute(context.Background(), request("2024-03-12"))
	require.NoError(t, err)
	assert.Empty(t, far.Slots)

	edge, err := f.uc.Execute(context.Background(), request("2024-03-08"))
	require.NoError(t, err)
	assert.NotEmpty(t, edge.Slots)
}

func TestExecute_LeadTimeOnlyToday(t *testing.T) {
	f := newFixture()
	cfg := domain.DefaultScheduleConfig(businessID)
	cfg.LeadTimeMinutes = 60
	f.configs.cfg = cfg
	f.uc.timeProvider = fixedTime(time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC))

	today, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)
	assert.False(t, today.Slots[0].Available, "09:00 today with now=08:30 and lead 60")
	assert.True(t, today.Slots[1].Available, "10:00 today")

	f.uc.timeProvider = fixedTime(time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC))
	tomorrow, err := f.uc.Execute(context.Background(), request("2024-03-05"))
	require.NoError(t, err)
	assert.True(t, tomorrow.Slots[0].Available, "09:00 tomorrow")
}

func TestExecute_DecoupledGrid(t *testing.T) {
	f := newFixture()
	cfg := domain.DefaultScheduleConfig(businessID)
	cfg.SlotIntervalMinutes = 30
	cfg.DateOverrides[types.MustDate("2024-03-04")] = domain.DaySchedule{
		Enabled: true,
		Open:    types.MustTimeString("09:00"),
		Close:   types.MustTimeString("11:00"),
	}
	f.configs.cfg = cfg

	resp, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, times(resp.Slots))
}

func TestExecute_ExplicitDuration(t *testing.T) {
	f := newFixture()
	req := &Request{BusinessID: businessID, StaffID: staffID, DurationMinutes: 90, Date: types.MustDate("2024-03-04")}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 09:00 + 90 * k, последний слот заканчивается не позже 17:00
	assert.Equal(t, []string{"09:00", "10:30", "12:00", "13:30", "15:00"}, times(resp.Slots))
}

func TestExecute_ConfigFailureFallsBackToDefaults(t *testing.T) {
	f := newFixture()
	f.configs.err = errors.New("connection refused")

	resp, err := f.uc.Execute(context.Background(), request("2024-03-04"))

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 8)
}

func TestExecute_Errors(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *fixture, req *Request)
		kind  domain.ErrorKind
	}{
		{"missing date", func(_ *fixture, req *Request) { req.Date = types.Date{} }, domain.KindValidation},
		{"no duration", func(_ *fixture, req *Request) { req.ServiceID = 0 }, domain.KindValidation},
		{"duration too short", func(_ *fixture, req *Request) { req.ServiceID = 0; req.DurationMinutes = 1 }, domain.KindValidation},
		{"unknown staff", func(f *fixture, _ *Request) { f.catalog.staffErr = catalogClient.ErrStaffNotFound }, domain.KindNotFound},
		{"unknown service", func(_ *fixture, req *Request) { req.ServiceID = 99 }, domain.KindNotFound},
		{"ineligible staff", func(f *fixture, _ *Request) { f.catalog.staff.ServiceIDs = nil }, domain.KindIneligible},
		{"inactive service", func(f *fixture, _ *Request) { f.catalog.service.IsActive = false }, domain.KindIneligible},
		{"repository failure", func(f *fixture, _ *Request) { f.reservations.err = errors.New("timeout") }, domain.KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			req := request("2024-03-04")
			tc.setup(f, req)

			_, err := f.uc.Execute(context.Background(), req)

			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), request("2024-03-04"))
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

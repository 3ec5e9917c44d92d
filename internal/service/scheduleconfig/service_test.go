package scheduleconfig

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	configRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/scheduleconfig"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalog"
	"github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Get(ctx context.Context, businessID int64) (*domain.BusinessScheduleConfig, error) {
	args := m.Called(ctx, businessID)
	cfg, _ := args.Get(0).(*domain.BusinessScheduleConfig)
	return cfg, args.Error(1)
}

func (m *mockRepo) LockBusiness(ctx context.Context, businessID int64) error {
	return m.Called(ctx, businessID).Error(0)
}

func (m *mockRepo) Upsert(ctx context.Context, cfg *domain.BusinessScheduleConfig) (*domain.BusinessScheduleConfig, error) {
	args := m.Called(ctx, cfg)
	if fn, ok := args.Get(0).(func(context.Context, *domain.BusinessScheduleConfig) *domain.BusinessScheduleConfig); ok {
		return fn(ctx, cfg), args.Error(1)
	}
	saved, _ := args.Get(0).(*domain.BusinessScheduleConfig)
	return saved, args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	args := m.Called(ctx, businessID)
	b, _ := args.Get(0).(*domain.Business)
	return b, args.Error(1)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const (
	businessID = int64(1)
	managerID  = int64(42)
)

func newService(t *testing.T) (*Service, *mockRepo, *mockCatalog) {
	t.Helper()
	repo := &mockRepo{}
	catalog := &mockCatalog{}
	t.Cleanup(func() {
		repo.AssertExpectations(t)
		catalog.AssertExpectations(t)
	})
	return NewService(repo, catalog, inlineTx{}, logger.NewNop()), repo, catalog
}

func business() *domain.Business {
	return &domain.Business{ID: businessID, Name: "Salon", ManagerIDs: []int64{managerID}, IsActive: true}
}

func TestGet_DefaultsWhenNotStored(t *testing.T) {
	svc, repo, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	repo.On("Get", mock.Anything, businessID).Return(nil, configRepo.ErrConfigNotFound)

	resp, err := svc.Get(context.Background(), businessID)
	require.NoError(t, err)

	assert.True(t, resp.IsDefault)
	assert.Equal(t, models.DayResponse{Enabled: true, Open: "09:00", Close: "17:00"}, resp.Days["monday"])
	assert.False(t, resp.Days["sunday"].Enabled)
	assert.Empty(t, resp.BlackoutDates)
	assert.Nil(t, resp.UpdatedAt)
}

func TestGet_FallsBackOnReadFailure(t *testing.T) {
	svc, repo, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	repo.On("Get", mock.Anything, businessID).Return(nil, errors.New("connection refused"))

	resp, err := svc.Get(context.Background(), businessID)

	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
}

func TestGet_StoredConfig(t *testing.T) {
	svc, repo, catalog := newService(t)
	stored := domain.DefaultScheduleConfig(businessID)
	stored.IsDefault = false
	stored.LeadTimeMinutes = 30
	stored.BlackoutDates[types.MustDate("2024-12-31")] = struct{}{}
	stored.BlackoutDates[types.MustDate("2024-12-25")] = struct{}{}
	stored.UpdatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	repo.On("Get", mock.Anything, businessID).Return(stored, nil)

	resp, err := svc.Get(context.Background(), businessID)
	require.NoError(t, err)

	assert.False(t, resp.IsDefault)
	assert.Equal(t, 30, resp.LeadTimeMinutes)
	assert.Equal(t, []string{"2024-12-25", "2024-12-31"}, resp.BlackoutDates)
	require.NotNil(t, resp.UpdatedAt)
}

func TestGet_BusinessNotFound(t *testing.T) {
	svc, _, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(nil, catalogClient.ErrBusinessNotFound)

	_, err := svc.Get(context.Background(), businessID)

	assert.ErrorIs(t, err, ErrBusinessNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPut_RequiresManager(t *testing.T) {
	svc, _, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)

	_, err := svc.Put(context.Background(), businessID, 7, &models.PatchRequest{LeadTimeMinutes: ptr.Ptr(60)})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestPut_CreatesFromDefaults(t *testing.T) {
	svc, repo, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	repo.On("LockBusiness", mock.Anything, businessID).Return(nil)
	repo.On("Get", mock.Anything, businessID).Return(nil, configRepo.ErrConfigNotFound)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(cfg *domain.BusinessScheduleConfig) bool {
		return cfg.LeadTimeMinutes == 60 &&
			cfg.SlotIntervalMinutes == 30 &&
			cfg.Days[time.Saturday].Enabled &&
			cfg.Days[time.Saturday].Close.String() == "14:00" &&
			cfg.Days[time.Monday].Close.String() == "17:00" &&
			cfg.IsBlackout(types.MustDate("2024-12-31"))
	})).Return(func(_ context.Context, cfg *domain.BusinessScheduleConfig) *domain.BusinessScheduleConfig {
		cfg.IsDefault = false
		return cfg
	}, nil)

	patch := &models.PatchRequest{
		SlotIntervalMinutes: ptr.Ptr(30),
		LeadTimeMinutes:     ptr.Ptr(60),
		Days: map[string]models.DayRequest{
			"Saturday": {Enabled: ptr.Ptr(true), Open: ptr.Ptr("10:00"), Close: ptr.Ptr("14:00")},
		},
		BlackoutDates: &[]string{"2024-12-31"},
	}

	resp, err := svc.Put(context.Background(), businessID, managerID, patch)
	require.NoError(t, err)

	assert.False(t, resp.IsDefault)
	assert.Equal(t, models.DayResponse{Enabled: true, Open: "10:00", Close: "14:00"}, resp.Days["saturday"])
	assert.Equal(t, []string{"2024-12-31"}, resp.BlackoutDates)
}

func TestPut_RejectsOpenAfterClose(t *testing.T) {
	svc, repo, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	repo.On("LockBusiness", mock.Anything, businessID).Return(nil)
	repo.On("Get", mock.Anything, businessID).Return(domain.DefaultScheduleConfig(businessID), nil)

	patch := &models.PatchRequest{
		Days: map[string]models.DayRequest{"monday": {Open: ptr.Ptr("18:00")}},
	}

	_, err := svc.Put(context.Background(), businessID, managerID, patch)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPut_RejectsBadValues(t *testing.T) {
	cases := map[string]*models.PatchRequest{
		"unknown weekday":   {Days: map[string]models.DayRequest{"someday": {Enabled: ptr.Ptr(true)}}},
		"bad time":          {Days: map[string]models.DayRequest{"monday": {Open: ptr.Ptr("9:00")}}},
		"interval too long": {SlotIntervalMinutes: ptr.Ptr(1000)},
		"negative lead":     {LeadTimeMinutes: ptr.Ptr(-1)},
		"bad blackout":      {BlackoutDates: &[]string{"31.12.2024"}},
	}

	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			svc, repo, catalog := newService(t)
			catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
			repo.On("LockBusiness", mock.Anything, businessID).Return(nil)
	repo.On("Get", mock.Anything, businessID).Return(nil, configRepo.ErrConfigNotFound)

			_, err := svc.Put(context.Background(), businessID, managerID, patch)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPut_SurfacesReadFailure(t *testing.T) {
	svc, repo, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	repo.On("LockBusiness", mock.Anything, businessID).Return(nil)
	repo.On("Get", mock.Anything, businessID).Return(nil, errors.New("connection refused"))

	_, err := svc.Put(context.Background(), businessID, managerID, &models.PatchRequest{})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestPut_LockFailureStopsBeforeRead(t *testing.T) {
	svc, repo, catalog := newService(t)
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	repo.On("LockBusiness", mock.Anything, businessID).Return(errors.New("connection reset"))

	_, err := svc.Put(context.Background(), businessID, managerID, &models.PatchRequest{LeadTimeMinutes: ptr.Ptr(15)})

	assert.ErrorIs(t, err, ErrInternal)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

type txStateKey struct{}

type txState struct{ locked bool }

// lockingTx снимает блокировку бизнеса при завершении транзакции
type lockingTx struct{ store *lockingStore }

func (tx lockingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	state := &txState{}
	err := fn(context.WithValue(ctx, txStateKey{}, state))
	if state.locked {
		tx.store.lock.Unlock()
	}
	return err
}

// lockingStore хранит конфигурацию в памяти, LockBusiness держит блокировку до конца транзакции
type lockingStore struct {
	lock sync.Mutex
	mu   sync.Mutex
	cfg  *domain.BusinessScheduleConfig
}

func (s *lockingStore) LockBusiness(ctx context.Context, _ int64) error {
	s.lock.Lock()
	ctx.Value(txStateKey{}).(*txState).locked = true
	return nil
}

func (s *lockingStore) Get(_ context.Context, _ int64) (*domain.BusinessScheduleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	copied := *s.cfg
	return &copied, nil
}

func (s *lockingStore) Upsert(_ context.Context, cfg *domain.BusinessScheduleConfig) (*domain.BusinessScheduleConfig, error) {
	// задержка между чтением и записью
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cfg
	copied.IsDefault = false
	s.cfg = &copied
	return cfg, nil
}

func TestPut_ConcurrentPatchesKeepBothChanges(t *testing.T) {
	store := &lockingStore{}
	catalog := &mockCatalog{}
	catalog.On("GetBusiness", mock.Anything, businessID).Return(business(), nil)
	svc := NewService(store, catalog, lockingTx{store: store}, logger.NewNop())

	patches := []*models.PatchRequest{
		{LeadTimeMinutes: ptr.Ptr(45)},
		{AdvanceBookingDays: ptr.Ptr(14)},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(patches))
	for i, patch := range patches {
		wg.Add(1)
		go func(i int, patch *models.PatchRequest) {
			defer wg.Done()
			_, errs[i] = svc.Put(context.Background(), businessID, managerID, patch)
		}(i, patch)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	cfg, err := store.Get(context.Background(), businessID)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.LeadTimeMinutes)
	assert.Equal(t, 14, cfg.AdvanceBookingDays)
}

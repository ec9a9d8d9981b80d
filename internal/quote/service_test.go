package quote

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/internal/catalog"
	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ========================================
// TEST DOUBLES
// ========================================

type staticSettings struct {
	mu       sync.Mutex
	settings fare.PricingSettings
}

func (s *staticSettings) Current(ctx context.Context) fare.PricingSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *staticSettings) set(settings fare.PricingSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetPackage(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Package), args.Error(1)
}

func (m *mockCatalog) GetVehicle(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vehicle), args.Error(1)
}

type memoryStore struct {
	mu        sync.Mutex
	quotes    map[uuid.UUID]Quote
	ttls      map[uuid.UUID]time.Duration
	confirmed map[uuid.UUID]bool
	err       error

	// getBarrier, when set, holds every Get until all expected readers arrive
	getBarrier *sync.WaitGroup
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		quotes:    map[uuid.UUID]Quote{},
		ttls:      map[uuid.UUID]time.Duration{},
		confirmed: map[uuid.UUID]bool{},
	}
}

func (s *memoryStore) Save(ctx context.Context, q *Quote, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.quotes[q.ID] = *q
	s.ttls[q.ID] = ttl
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	if s.getBarrier != nil {
		s.getBarrier.Done()
		s.getBarrier.Wait()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (s *memoryStore) MarkConfirmed(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirmed[id] {
		return false, nil
	}
	s.confirmed[id] = true
	return true, nil
}

// ========================================
// FIXTURES
// ========================================

var (
	airportID = uuid.MustParse("6f1f7a5e-3d53-4b8c-9f0e-1a2b3c4d5e6f")
	sedanID   = uuid.MustParse("0d9c8b7a-6f5e-4d3c-2b1a-0f9e8d7c6b5a")
	pickup    = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
)

const fortyFiveMiles = 45 * fare.MetersPerMile

func floatPtr(v float64) *float64 { return &v }

func scenarioSettings() fare.PricingSettings {
	s := fare.DefaultSettings()
	s.PerMileFeeEnabled = false
	return s
}

type fixture struct {
	svc      *Service
	catalog  *mockCatalog
	store    *memoryStore
	settings *staticSettings
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		catalog:  new(mockCatalog),
		store:    newMemoryStore(),
		settings: &staticSettings{settings: scenarioSettings()},
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.settings, f.catalog, f.store, 30*time.Minute)
	f.svc.now = func() time.Time { return f.clock }

	f.catalog.On("GetPackage", mock.Anything, airportID).
		Return(&catalog.Package{ID: airportID, Name: "Airport Transfer", BasePrice: 250}, nil).Maybe()
	f.catalog.On("GetVehicle", mock.Anything, sedanID).
		Return(&catalog.Vehicle{ID: sedanID, Name: "Executive Sedan", PricePerHour: 95}, nil).Maybe()
	return f
}

func airportRequest() QuoteRequest {
	return QuoteRequest{
		PackageID:      &airportID,
		DistanceMeters: fortyFiveMiles,
		Stops:          []StopRequest{{Location: "Hotel"}, {Location: "Office"}},
		CarSeats:       1,
		PickupTime:     pickup,
	}
}

// ========================================
// COMPUTE
// ========================================

func TestService_Compute(t *testing.T) {
	f := newFixture()

	b, err := f.svc.Compute(context.Background(), ComputeRequest{QuoteRequest: airportRequest()})
	require.NoError(t, err)

	assert.Equal(t, 250.0, b.BasePrice)
	assert.Equal(t, 49.0, b.DistanceFee)
	assert.Equal(t, 50.0, b.StopFees)
	assert.Equal(t, 15.0, b.SeatFees)
	assert.Equal(t, 364.0, b.Total)
}

func TestService_Compute_InlineSettings(t *testing.T) {
	f := newFixture()

	req := ComputeRequest{
		QuoteRequest: airportRequest(),
		Settings:     &fare.SettingsDocument{StopPrice: floatPtr(40), PerMileFeeEnabled: new(bool)},
	}
	b, err := f.svc.Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 80.0, b.StopFees)
	assert.Equal(t, 394.0, b.Total)

	req.Settings = &fare.SettingsDocument{DistanceTiers: &[]fare.DistanceTier{{MinDistance: 5, Fee: 10}}}
	_, err = f.svc.Compute(context.Background(), req)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Details, "distanceTiers")
}

func TestService_Compute_PackageWinsOverVehicle(t *testing.T) {
	f := newFixture()

	req := airportRequest()
	req.VehicleID = &sedanID
	req.Hours = floatPtr(4)

	b, err := f.svc.Compute(context.Background(), ComputeRequest{QuoteRequest: req})
	require.NoError(t, err)
	assert.Equal(t, 250.0, b.BasePrice)
}

func TestService_Compute_HourlyVehicle(t *testing.T) {
	f := newFixture()

	b, err := f.svc.Compute(context.Background(), ComputeRequest{QuoteRequest: QuoteRequest{
		VehicleID:  &sedanID,
		Hours:      floatPtr(3),
		PickupTime: pickup,
	}})
	require.NoError(t, err)
	assert.Equal(t, 285.0, b.BasePrice)
}

func TestService_Compute_RequestValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   QuoteRequest
		field string
	}{
		{
			name:  "no package or vehicle",
			req:   QuoteRequest{DistanceMeters: 1000},
			field: "package_id",
		},
		{
			name:  "negative distance",
			req:   QuoteRequest{PackageID: &airportID, DistanceMeters: -1},
			field: "distance_meters",
		},
		{
			name:  "unknown gratuity type",
			req:   QuoteRequest{PackageID: &airportID, Gratuity: GratuityRequest{Type: "bitcoin"}},
			field: "gratuity.type",
		},
		{
			name:  "percentage over 100",
			req:   QuoteRequest{PackageID: &airportID, Gratuity: GratuityRequest{Type: "percentage", Percentage: floatPtr(150)}},
			field: "gratuity.percentage",
		},
		{
			name:  "negative stop price",
			req:   QuoteRequest{PackageID: &airportID, Stops: []StopRequest{{Location: "A", Price: floatPtr(-3)}}},
			field: "stops[0].price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.Compute(context.Background(), ComputeRequest{QuoteRequest: tt.req})

			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Contains(t, appErr.Details, tt.field)
		})
	}
}

func TestService_Compute_UnknownPackage(t *testing.T) {
	f := newFixture()
	missing := uuid.New()
	f.catalog.On("GetPackage", mock.Anything, missing).
		Return(nil, common.NewNotFoundError("package not found", catalog.ErrNotFound))

	_, err := f.svc.Compute(context.Background(), ComputeRequest{QuoteRequest: QuoteRequest{PackageID: &missing}})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestService_Compute_BrokenRuleIsSkipped(t *testing.T) {
	f := newFixture()
	s := scenarioSettings()
	s.FeeRules = []fare.FeeRule{
		{Name: "broken", Condition: "bookingDetails.passengerCount > 2", Fee: 50},
		{Name: "child seats", Condition: "bookingDetails.carSeats > 0", Fee: 5},
	}
	f.settings.set(s)

	b, err := f.svc.Compute(context.Background(), ComputeRequest{QuoteRequest: airportRequest()})
	require.NoError(t, err)

	assert.Equal(t, 5.0, b.RuleFees)
	require.Len(t, b.SkippedRules, 1)
	assert.Equal(t, "broken", b.SkippedRules[0].Name)
}

// ========================================
// QUOTES
// ========================================

func TestService_CreateAndGetQuote(t *testing.T) {
	f := newFixture()

	req := airportRequest()
	req.Gratuity = GratuityRequest{Type: "percentage", Percentage: floatPtr(20)}

	q, err := f.svc.CreateQuote(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, q.ID)
	assert.Equal(t, 364.0, q.Breakdown.Subtotal)
	assert.Equal(t, 72.8, q.Breakdown.Gratuity.Amount)
	assert.Equal(t, 436.8, q.Breakdown.Total)
	assert.Equal(t, f.clock.Add(30*time.Minute), q.ExpiresAt)
	assert.Equal(t, 30*time.Minute, f.store.ttls[q.ID])

	got, err := f.svc.GetQuote(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Breakdown, got.Breakdown)
}

func TestService_CreateQuote_StoreFailure(t *testing.T) {
	f := newFixture()
	f.store.err = errors.New("redis down")

	_, err := f.svc.CreateQuote(context.Background(), airportRequest())

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestService_GetQuote_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetQuote(context.Background(), uuid.New())

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestService_ConfirmQuote_Matches(t *testing.T) {
	f := newFixture()
	q, err := f.svc.CreateQuote(context.Background(), airportRequest())
	require.NoError(t, err)

	f.clock = f.clock.Add(10 * time.Minute)
	resp, err := f.svc.ConfirmQuote(context.Background(), q.ID)
	require.NoError(t, err)

	assert.True(t, resp.Matches)
	assert.Equal(t, 364.0, resp.ChargedTotal)
	assert.Equal(t, resp.Quoted, resp.Charged)
	assert.False(t, resp.SettingsChanged)
	assert.Equal(t, 20*time.Minute, f.store.ttls[q.ID], "confirmed quote keeps its original expiry")

	_, err = f.svc.ConfirmQuote(context.Background(), q.ID)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestService_ConfirmQuote_SettingsChanged(t *testing.T) {
	f := newFixture()
	q, err := f.svc.CreateQuote(context.Background(), airportRequest())
	require.NoError(t, err)
	assert.Equal(t, 25.0, q.Settings.StopPrice)

	changed := scenarioSettings()
	changed.StopPrice = 30
	f.settings.set(changed)

	resp, err := f.svc.ConfirmQuote(context.Background(), q.ID)
	require.NoError(t, err)

	assert.True(t, resp.Matches)
	assert.Equal(t, 364.0, resp.Quoted.Total)
	assert.Equal(t, 364.0, resp.ChargedTotal, "charged from the settings captured at quote time")
	assert.Equal(t, 374.0, resp.CurrentTotal)
	assert.True(t, resp.SettingsChanged)
}

func TestService_ConfirmQuote_ConcurrentConfirmsChargeOnce(t *testing.T) {
	f := newFixture()
	q, err := f.svc.CreateQuote(context.Background(), airportRequest())
	require.NoError(t, err)

	const callers = 2
	f.store.getBarrier = &sync.WaitGroup{}
	f.store.getBarrier.Add(callers)

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ConfirmQuote(context.Background(), q.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, conflicts int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		if appErr.Code == http.StatusConflict {
			conflicts++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)
}

func TestService_ConfirmQuote_Expired(t *testing.T) {
	f := newFixture()
	q, err := f.svc.CreateQuote(context.Background(), airportRequest())
	require.NoError(t, err)

	f.clock = f.clock.Add(31 * time.Minute)
	_, err = f.svc.ConfirmQuote(context.Background(), q.ID)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.False(t, f.store.confirmed[q.ID])
}

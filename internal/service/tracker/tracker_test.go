package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	"github.com/google/uuid"
)

/*=================Fakes==================================*/

type fakeDriverRepo struct {
	drivers   map[uuid.UUID]*models.Driver
	available []models.Driver
}

func (f *fakeDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if d, ok := f.drivers[id]; ok {
		return d, nil
	}
	return nil, types.ErrDriverNotFound
}

func (f *fakeDriverRepo) ListAvailable(ctx context.Context) ([]models.Driver, error) {
	return f.available, nil
}

func (f *fakeDriverRepo) ListActive(ctx context.Context) ([]models.Driver, error) {
	return f.available, nil
}

func (f *fakeDriverRepo) UpdatePosition(ctx context.Context, id uuid.UUID, coord models.GeoCoordinate, at time.Time) error {
	if _, ok := f.drivers[id]; !ok {
		return types.ErrDriverNotFound
	}
	f.drivers[id].Position = &coord
	return nil
}

func (f *fakeDriverRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if _, ok := f.drivers[id]; !ok {
		return types.ErrDriverNotFound
	}
	f.drivers[id].IsAvailable = available
	return nil
}

type fakeOrderRepo struct {
	orders     map[uuid.UUID]*models.Order
	delivering []models.Order
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, types.ErrOrderNotFound
}

func (f *fakeOrderRepo) ListActive(ctx context.Context) ([]models.Order, error) {
	return f.delivering, nil
}

func (f *fakeOrderRepo) ListDeliveringByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Order, error) {
	return f.delivering, nil
}

type fakeHotspotRepo struct {
	hotspots []models.Hotspot
}

func (f *fakeHotspotRepo) ListActive(ctx context.Context) ([]models.Hotspot, error) {
	return f.hotspots, nil
}

type fakeStoreRepo struct {
	stores map[uuid.UUID]*models.Store
	open   []models.Store
}

func (f *fakeStoreRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if s, ok := f.stores[id]; ok {
		return s, nil
	}
	return nil, types.ErrStoreNotFound
}

func (f *fakeStoreRepo) ListOpen(ctx context.Context) ([]models.Store, error) {
	return f.open, nil
}

type fakeHistoryRepo struct {
	appended []models.Fix
	fixes    []models.RouteFix
}

func (f *fakeHistoryRepo) AppendFix(ctx context.Context, driverID uuid.UUID, fix models.Fix, recordedAt time.Time) error {
	f.appended = append(f.appended, fix)
	return nil
}

func (f *fakeHistoryRepo) FixesForDay(ctx context.Context, driverID uuid.UUID, day time.Time) ([]models.RouteFix, error) {
	return f.fixes, nil
}

type fakePositions struct {
	saved  int
	denied int
}

func (f *fakePositions) SaveFix(ctx context.Context, driverID uuid.UUID, fix models.Fix, recordedAt time.Time) error {
	f.saved++
	return nil
}

func (f *fakePositions) MarkDenied(ctx context.Context, driverID uuid.UUID) error {
	f.denied++
	return nil
}

type fakePublisher struct {
	driverSnapshots int
	orderSnapshots  int
	hotspotSnaps    int
	events          []models.ProximityEvent
}

func (f *fakePublisher) PublishDriverSnapshot(ctx context.Context, msg models.DriverSnapshot) error {
	f.driverSnapshots++
	return nil
}

func (f *fakePublisher) PublishOrderSnapshot(ctx context.Context, msg models.OrderSnapshot) error {
	f.orderSnapshots++
	return nil
}

func (f *fakePublisher) PublishHotspotSnapshot(ctx context.Context, msg models.HotspotSnapshot) error {
	f.hotspotSnaps++
	return nil
}

func (f *fakePublisher) PublishProximityEvent(ctx context.Context, msg models.ProximityEvent) error {
	f.events = append(f.events, msg)
	return nil
}

type fakeResolver struct {
	result *models.RouteResult
}

func (f *fakeResolver) Resolve(ctx context.Context, origin, dest models.GeoCoordinate) *models.RouteResult {
	return f.result
}

type fakeETA struct {
	result *models.ETAResult
	err    error
}

func (f *fakeETA) Estimate(ctx context.Context, order *models.Order, route *models.RouteResult) (*models.ETAResult, error) {
	return f.result, f.err
}

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

/*=================Helpers================================*/

type deps struct {
	drivers   *fakeDriverRepo
	orders    *fakeOrderRepo
	hotspots  *fakeHotspotRepo
	stores    *fakeStoreRepo
	history   *fakeHistoryRepo
	positions *fakePositions
	publisher *fakePublisher
	resolver  *fakeResolver
	eta       *fakeETA
}

func newTestService(d deps) *Service {
	if d.drivers == nil {
		d.drivers = &fakeDriverRepo{drivers: map[uuid.UUID]*models.Driver{}}
	}
	if d.orders == nil {
		d.orders = &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{}}
	}
	if d.hotspots == nil {
		d.hotspots = &fakeHotspotRepo{}
	}
	if d.stores == nil {
		d.stores = &fakeStoreRepo{stores: map[uuid.UUID]*models.Store{}}
	}
	if d.history == nil {
		d.history = &fakeHistoryRepo{}
	}
	if d.positions == nil {
		d.positions = &fakePositions{}
	}
	if d.publisher == nil {
		d.publisher = &fakePublisher{}
	}
	if d.resolver == nil {
		d.resolver = &fakeResolver{}
	}
	if d.eta == nil {
		d.eta = &fakeETA{}
	}

	return New(
		d.drivers, d.orders, d.hotspots, d.stores, d.history,
		d.positions, d.publisher, d.resolver, d.eta,
		&fakeTxManager{},
		Config{ServiceName: "test", ArrivalRadiusM: 500, HotspotCooldown: 30 * time.Minute, NearbyRadiusKm: 10},
		logger.InitLogger("test", logger.LevelError),
	)
}

/*=================Tests==================================*/

func TestIngestFix(t *testing.T) {
	driverID := uuid.New()
	d := deps{
		drivers:   &fakeDriverRepo{drivers: map[uuid.UUID]*models.Driver{driverID: {ID: driverID}}},
		history:   &fakeHistoryRepo{},
		positions: &fakePositions{},
		publisher: &fakePublisher{},
	}
	svc := newTestService(d)

	msg := models.DriverFixMessage{
		Type:     "location_update",
		DriverID: driverID,
		Fix:      models.Fix{Coordinate: models.GeoCoordinate{Latitude: 43.24, Longitude: 76.89}},
	}

	if err := svc.IngestFix(context.Background(), msg); err != nil {
		t.Fatalf("IngestFix() error = %v", err)
	}

	if len(d.history.appended) != 1 {
		t.Errorf("history appends = %d, want 1", len(d.history.appended))
	}
	if d.positions.saved != 1 {
		t.Errorf("live store saves = %d, want 1", d.positions.saved)
	}
	if d.publisher.driverSnapshots != 1 {
		t.Errorf("driver snapshots published = %d, want 1", d.publisher.driverSnapshots)
	}
	if d.drivers.drivers[driverID].Position == nil {
		t.Error("driver position not updated")
	}
}

func TestIngestFix_InvalidCoordinate(t *testing.T) {
	svc := newTestService(deps{})

	msg := models.DriverFixMessage{
		DriverID: uuid.New(),
		Fix:      models.Fix{Coordinate: models.GeoCoordinate{Latitude: 91, Longitude: 0}},
	}

	if err := svc.IngestFix(context.Background(), msg); !errors.Is(err, types.ErrInvalidCoordinate) {
		t.Errorf("IngestFix() error = %v, want ErrInvalidCoordinate", err)
	}
}

func TestIngestFix_ArrivalEventFiresOnce(t *testing.T) {
	driverID := uuid.New()
	orderID := uuid.New()
	dest := models.GeoCoordinate{Latitude: 43.2400, Longitude: 76.8900}

	d := deps{
		drivers: &fakeDriverRepo{drivers: map[uuid.UUID]*models.Driver{driverID: {ID: driverID}}},
		orders: &fakeOrderRepo{
			orders: map[uuid.UUID]*models.Order{},
			delivering: []models.Order{{
				ID:                 orderID,
				Status:             types.OrderDelivering,
				DeliveryCoordinate: &dest,
			}},
		},
		publisher: &fakePublisher{},
	}
	svc := newTestService(d)

	// ~100 m from the destination, inside the 500 m fence
	near := models.GeoCoordinate{Latitude: 43.2409, Longitude: 76.8900}
	msg := models.DriverFixMessage{DriverID: driverID, Fix: models.Fix{Coordinate: near}}

	if err := svc.IngestFix(context.Background(), msg); err != nil {
		t.Fatalf("first IngestFix() error = %v", err)
	}
	if err := svc.IngestFix(context.Background(), msg); err != nil {
		t.Fatalf("second IngestFix() error = %v", err)
	}

	arrivals := 0
	for _, ev := range d.publisher.events {
		if ev.Kind == types.MarkerOrder && ev.TargetID == orderID {
			arrivals++
		}
	}
	if arrivals != 1 {
		t.Errorf("arrival events = %d, want exactly 1", arrivals)
	}
}

func TestIngestFix_HotspotCooldown(t *testing.T) {
	driverID := uuid.New()
	hotspotID := uuid.New()
	center := models.GeoCoordinate{Latitude: 43.2400, Longitude: 76.8900}

	d := deps{
		drivers: &fakeDriverRepo{drivers: map[uuid.UUID]*models.Driver{driverID: {ID: driverID}}},
		hotspots: &fakeHotspotRepo{hotspots: []models.Hotspot{{
			ID:           hotspotID,
			Center:       center,
			RadiusMeters: 1000,
			DemandLevel:  types.DemandHigh,
			Active:       true,
		}}},
		publisher: &fakePublisher{},
	}
	svc := newTestService(d)

	msg := models.DriverFixMessage{DriverID: driverID, Fix: models.Fix{Coordinate: center}}

	if err := svc.IngestFix(context.Background(), msg); err != nil {
		t.Fatalf("first IngestFix() error = %v", err)
	}
	if err := svc.IngestFix(context.Background(), msg); err != nil {
		t.Fatalf("second IngestFix() error = %v", err)
	}

	entries := 0
	for _, ev := range d.publisher.events {
		if ev.Kind == types.MarkerHotspot && ev.TargetID == hotspotID {
			entries++
		}
	}
	if entries != 1 {
		t.Errorf("hotspot events within cooldown = %d, want 1", entries)
	}
}

func TestDailyRoute(t *testing.T) {
	driverID := uuid.New()
	d := deps{
		drivers: &fakeDriverRepo{drivers: map[uuid.UUID]*models.Driver{driverID: {ID: driverID}}},
		history: &fakeHistoryRepo{fixes: []models.RouteFix{
			{Coordinate: models.GeoCoordinate{Latitude: 43.2400, Longitude: 76.8900}},
			{Coordinate: models.GeoCoordinate{Latitude: 43.2500, Longitude: 76.9000}},
			{Coordinate: models.GeoCoordinate{Latitude: 43.2600, Longitude: 76.9100}},
		}},
	}
	svc := newTestService(d)

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	route, err := svc.DailyRoute(context.Background(), driverID, day)
	if err != nil {
		t.Fatalf("DailyRoute() error = %v", err)
	}

	if route.Date != "2026-08-29" {
		t.Errorf("Date = %s, want 2026-08-29", route.Date)
	}
	if len(route.Fixes) != 3 {
		t.Errorf("fixes = %d, want 3", len(route.Fixes))
	}
	if route.TotalDistanceKm <= 0 {
		t.Errorf("TotalDistanceKm = %f, want positive", route.TotalDistanceKm)
	}
}

func TestDailyRoute_NoFixes(t *testing.T) {
	driverID := uuid.New()
	d := deps{
		drivers: &fakeDriverRepo{drivers: map[uuid.UUID]*models.Driver{driverID: {ID: driverID}}},
		history: &fakeHistoryRepo{},
	}
	svc := newTestService(d)

	if _, err := svc.DailyRoute(context.Background(), driverID, time.Now()); !errors.Is(err, types.ErrRouteNotFound) {
		t.Errorf("DailyRoute() error = %v, want ErrRouteNotFound", err)
	}
}

func TestNearbyStores_WindowGrowsWithDistance(t *testing.T) {
	point := models.GeoCoordinate{Latitude: 43.2400, Longitude: 76.8900}
	d := deps{
		stores: &fakeStoreRepo{
			stores: map[uuid.UUID]*models.Store{},
			open: []models.Store{
				{Name: "close", Coordinate: models.GeoCoordinate{Latitude: 43.2450, Longitude: 76.8950}},
				{Name: "farther", Coordinate: models.GeoCoordinate{Latitude: 43.30, Longitude: 76.95}},
			},
		},
	}
	svc := newTestService(d)

	stores, err := svc.NearbyStores(context.Background(), point, 20)
	if err != nil {
		t.Fatalf("NearbyStores() error = %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("stores = %d, want 2", len(stores))
	}
	if stores[0].Name != "close" {
		t.Errorf("first store = %s, want close", stores[0].Name)
	}

	for _, st := range stores {
		if st.EstimatedDelivery.MinMinutes < windowPrepMinutes {
			t.Errorf("%s: MinMinutes = %d, below prep floor", st.Name, st.EstimatedDelivery.MinMinutes)
		}
		if st.EstimatedDelivery.MaxMinutes < st.EstimatedDelivery.MinMinutes {
			t.Errorf("%s: window inverted: %+v", st.Name, st.EstimatedDelivery)
		}
	}
	if stores[1].EstimatedDelivery.MaxMinutes <= stores[0].EstimatedDelivery.MaxMinutes {
		t.Error("farther store should have the wider window")
	}
}

func TestCandidateDriver(t *testing.T) {
	orderID := uuid.New()
	storeID := uuid.New()
	nearID := uuid.New()
	farID := uuid.New()

	storeCoord := models.GeoCoordinate{Latitude: 43.2400, Longitude: 76.8900}
	d := deps{
		orders: &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{
			orderID: {ID: orderID, StoreID: storeID, Items: []models.OrderItem{{ProductID: "x", Quantity: 1}}},
		}},
		stores: &fakeStoreRepo{stores: map[uuid.UUID]*models.Store{
			storeID: {ID: storeID, Coordinate: storeCoord},
		}},
		drivers: &fakeDriverRepo{
			drivers: map[uuid.UUID]*models.Driver{},
			available: []models.Driver{
				{ID: farID, IsAvailable: true, Position: &models.GeoCoordinate{Latitude: 43.30, Longitude: 76.95}},
				{ID: nearID, IsAvailable: true, Position: &models.GeoCoordinate{Latitude: 43.2410, Longitude: 76.8910}},
			},
		},
	}
	svc := newTestService(d)

	best, err := svc.CandidateDriver(context.Background(), orderID)
	if err != nil {
		t.Fatalf("CandidateDriver() error = %v", err)
	}
	if best.ID != nearID {
		t.Errorf("CandidateDriver() = %s, want the nearest driver %s", best.ID, nearID)
	}
}

func TestCandidateDriver_NoneAvailable(t *testing.T) {
	orderID := uuid.New()
	storeID := uuid.New()
	d := deps{
		orders: &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{
			orderID: {ID: orderID, StoreID: storeID},
		}},
		stores: &fakeStoreRepo{stores: map[uuid.UUID]*models.Store{
			storeID: {ID: storeID},
		}},
	}
	svc := newTestService(d)

	if _, err := svc.CandidateDriver(context.Background(), orderID); !errors.Is(err, types.ErrDriverNotFound) {
		t.Errorf("CandidateDriver() error = %v, want ErrDriverNotFound", err)
	}
}

func TestOrderETA(t *testing.T) {
	orderID := uuid.New()
	storeID := uuid.New()
	dest := models.GeoCoordinate{Latitude: 43.25, Longitude: 76.91}

	want := &models.ETAResult{TotalMinutes: 51}
	d := deps{
		orders: &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{
			orderID: {
				ID:                 orderID,
				StoreID:            storeID,
				DeliveryCoordinate: &dest,
				Items:              []models.OrderItem{{ProductID: "x", Quantity: 1}},
			},
		}},
		stores: &fakeStoreRepo{stores: map[uuid.UUID]*models.Store{
			storeID: {ID: storeID, Coordinate: models.GeoCoordinate{Latitude: 43.24, Longitude: 76.89}},
		}},
		eta: &fakeETA{result: want},
	}
	svc := newTestService(d)

	got, err := svc.OrderETA(context.Background(), orderID)
	if err != nil {
		t.Fatalf("OrderETA() error = %v", err)
	}
	if got != want {
		t.Errorf("OrderETA() = %v, want %v", got, want)
	}
}

func TestOrderETA_MissingDeliveryCoordinate(t *testing.T) {
	orderID := uuid.New()
	d := deps{
		orders: &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{
			orderID: {ID: orderID},
		}},
	}
	svc := newTestService(d)

	if _, err := svc.OrderETA(context.Background(), orderID); !errors.Is(err, types.ErrMalformedOrder) {
		t.Errorf("OrderETA() error = %v, want ErrMalformedOrder", err)
	}
}

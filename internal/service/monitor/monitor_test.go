package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	"github.com/google/uuid"
)

/*=================Fakes==================================*/

type fakeStoreRepo struct {
	stores []models.Store
}

func (f *fakeStoreRepo) ListOpen(ctx context.Context) ([]models.Store, error) {
	return f.stores, nil
}

// gateResolver answers per destination. A destination registered with a
// gate blocks until the gate is closed, which lets tests race a slow
// route fetch against a newer selection.
type gateResolver struct {
	mu     sync.Mutex
	routes map[models.GeoCoordinate]*models.RouteResult
	gates  map[models.GeoCoordinate]chan struct{}
}

func newGateResolver() *gateResolver {
	return &gateResolver{
		routes: map[models.GeoCoordinate]*models.RouteResult{},
		gates:  map[models.GeoCoordinate]chan struct{}{},
	}
}

func (f *gateResolver) put(dest models.GeoCoordinate, route *models.RouteResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[dest] = route
}

func (f *gateResolver) gate(dest models.GeoCoordinate) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[dest] = g
	return g
}

func (f *gateResolver) Resolve(ctx context.Context, origin, dest models.GeoCoordinate) *models.RouteResult {
	f.mu.Lock()
	g := f.gates[dest]
	route := f.routes[dest]
	f.mu.Unlock()

	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return nil
		}
	}
	return route
}

type nopSink struct{}

func (nopSink) Broadcast(msg any) {}

/*=================Fixture================================*/

func startService(t *testing.T, resolver RouteResolver, stores []models.Store) (*Service, context.Context) {
	t.Helper()
	svc := New(resolver, &fakeStoreRepo{stores: stores}, nopSink{}, "test",
		logger.InitLogger("test", logger.LevelError))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go svc.Run(ctx)
	return svc, ctx
}

func waitFor(t *testing.T, svc *Service, cond func(models.Scene) bool) models.Scene {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		scene := svc.Scene()
		if cond(scene) {
			return scene
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached, last scene: %+v", svc.Scene())
	return models.Scene{}
}

func markerCount(scene models.Scene, kind types.MarkerKind) int {
	n := 0
	for _, m := range scene.Markers {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

func testStore() models.Store {
	return models.Store{
		ID:         uuid.New(),
		Name:       "central kitchen",
		Coordinate: models.GeoCoordinate{Latitude: 43.2400, Longitude: 76.8900},
		IsOpen:     true,
	}
}

func testDriver() models.Driver {
	return models.Driver{
		ID:          uuid.New(),
		Name:        "courier",
		IsAvailable: true,
		Position:    &models.GeoCoordinate{Latitude: 43.2500, Longitude: 76.9000},
	}
}

/*=================Tests==================================*/

func TestSnapshotReplacesCollection(t *testing.T) {
	svc, ctx := startService(t, newGateResolver(), nil)

	a, b := testDriver(), testDriver()
	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{a, b}}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, svc, func(s models.Scene) bool { return markerCount(s, types.MarkerDriver) == 2 })

	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{a}}); err != nil {
		t.Fatal(err)
	}
	scene := waitFor(t, svc, func(s models.Scene) bool { return markerCount(s, types.MarkerDriver) == 1 })

	if scene.Markers[0].Kind == types.MarkerDriver && scene.Markers[0].ID != a.ID {
		t.Errorf("surviving driver = %s, want %s", scene.Markers[0].ID, a.ID)
	}
}

func TestAutoFollowViewport(t *testing.T) {
	store := testStore()
	driver := testDriver()
	dest := models.GeoCoordinate{Latitude: 43.2600, Longitude: 76.9100}
	order := models.Order{
		ID:                 uuid.New(),
		StoreID:            store.ID,
		Status:             types.OrderDelivering,
		DeliveryCoordinate: &dest,
	}

	svc, ctx := startService(t, newGateResolver(), []models.Store{store})
	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{driver}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.ApplyOrderSnapshot(ctx, models.OrderSnapshot{Orders: []models.Order{order}}); err != nil {
		t.Fatal(err)
	}

	scene := waitFor(t, svc, func(s models.Scene) bool { return len(s.Viewport.Fit) == 3 })

	if !scene.Viewport.Follow {
		t.Error("unfocused scene must auto-follow")
	}
	want := map[models.GeoCoordinate]bool{store.Coordinate: true, *driver.Position: true, dest: true}
	for _, c := range scene.Viewport.Fit {
		if !want[c] {
			t.Errorf("unexpected fit coordinate %+v", c)
		}
	}
}

func TestFocusOrder_FallbackThenResolvedRoute(t *testing.T) {
	store := testStore()
	driver := testDriver()
	dest := models.GeoCoordinate{Latitude: 43.2600, Longitude: 76.9100}
	order := models.Order{
		ID:                 uuid.New(),
		StoreID:            store.ID,
		Status:             types.OrderDelivering,
		DeliveryCoordinate: &dest,
		AssignedDriverID:   &driver.ID,
	}

	resolver := newGateResolver()
	gate := resolver.gate(dest)
	resolved := &models.RouteResult{
		Points: []models.GeoCoordinate{*driver.Position, {Latitude: 43.2550, Longitude: 76.9050}, dest},
	}
	resolver.put(dest, resolved)

	svc, ctx := startService(t, resolver, []models.Store{store})
	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{driver}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.ApplyOrderSnapshot(ctx, models.OrderSnapshot{Orders: []models.Order{order}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Focus(ctx, types.MarkerOrder, order.ID); err != nil {
		t.Fatal(err)
	}

	// resolver is still blocked: the dashed straight line renders first
	scene := waitFor(t, svc, func(s models.Scene) bool { return s.Focus != nil && len(s.Polylines) > 0 })
	line := scene.Polylines[len(scene.Polylines)-1]
	if len(line.DashPattern) == 0 {
		t.Error("in-flight focus must render the dashed fallback")
	}
	if line.Color != models.ColorToCustomer {
		t.Errorf("delivering leg color = %s, want %s", line.Color, models.ColorToCustomer)
	}
	if line.Points[0] != *driver.Position || line.Points[1] != dest {
		t.Errorf("fallback endpoints = %+v", line.Points)
	}
	if scene.Viewport.Follow {
		t.Error("focused scene must not auto-follow")
	}

	close(gate)
	scene = waitFor(t, svc, func(s models.Scene) bool {
		l := s.Polylines[len(s.Polylines)-1]
		return len(l.DashPattern) == 0
	})
	line = scene.Polylines[len(scene.Polylines)-1]
	if len(line.Points) != 3 {
		t.Errorf("resolved route points = %d, want 3", len(line.Points))
	}
}

func TestFocusDriver_ReadyOrderRoutesToStore(t *testing.T) {
	store := testStore()
	driver := testDriver()
	dest := models.GeoCoordinate{Latitude: 43.2600, Longitude: 76.9100}
	order := models.Order{
		ID:                 uuid.New(),
		StoreID:            store.ID,
		Status:             types.OrderReady,
		DeliveryCoordinate: &dest,
		AssignedDriverID:   &driver.ID,
	}

	svc, ctx := startService(t, newGateResolver(), []models.Store{store})
	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{driver}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.ApplyOrderSnapshot(ctx, models.OrderSnapshot{Orders: []models.Order{order}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Focus(ctx, types.MarkerDriver, driver.ID); err != nil {
		t.Fatal(err)
	}

	scene := waitFor(t, svc, func(s models.Scene) bool { return s.Focus != nil && len(s.Polylines) > 0 })
	line := scene.Polylines[len(scene.Polylines)-1]
	if line.Color != models.ColorToStore {
		t.Errorf("pickup leg color = %s, want %s", line.Color, models.ColorToStore)
	}
	if line.Points[len(line.Points)-1] != store.Coordinate {
		t.Errorf("pickup leg must end at the store, got %+v", line.Points)
	}
}

func TestFocusDriver_NoOrderIsMarkerOnly(t *testing.T) {
	driver := testDriver()

	svc, ctx := startService(t, newGateResolver(), nil)
	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{driver}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Focus(ctx, types.MarkerDriver, driver.ID); err != nil {
		t.Fatal(err)
	}

	scene := waitFor(t, svc, func(s models.Scene) bool { return s.Focus != nil })
	if len(scene.Polylines) != 0 {
		t.Errorf("driver without an order must not get a route, got %d polylines", len(scene.Polylines))
	}
	if len(scene.Viewport.Fit) != 1 || scene.Viewport.Fit[0] != *driver.Position {
		t.Errorf("viewport should pin the driver, got %+v", scene.Viewport.Fit)
	}
}

func TestFocus_RejectsNonFocusableKinds(t *testing.T) {
	svc, ctx := startService(t, newGateResolver(), nil)
	if err := svc.Focus(ctx, types.MarkerHotspot, uuid.New()); err != types.ErrInvalidFocusKind {
		t.Errorf("Focus(hotspot) error = %v, want ErrInvalidFocusKind", err)
	}
}

func TestSelectionInvalidation(t *testing.T) {
	store := testStore()
	driver := testDriver()
	destA := models.GeoCoordinate{Latitude: 43.2600, Longitude: 76.9100}
	destB := models.GeoCoordinate{Latitude: 43.2700, Longitude: 76.9200}
	orderA := models.Order{
		ID: uuid.New(), StoreID: store.ID,
		Status: types.OrderDelivering, DeliveryCoordinate: &destA, AssignedDriverID: &driver.ID,
	}
	orderB := models.Order{
		ID: uuid.New(), StoreID: store.ID,
		Status: types.OrderDelivering, DeliveryCoordinate: &destB,
	}

	resolver := newGateResolver()
	gateA := resolver.gate(destA)
	routeA := &models.RouteResult{Points: []models.GeoCoordinate{{Latitude: 1}, {Latitude: 2}}}
	routeB := &models.RouteResult{Points: []models.GeoCoordinate{{Latitude: 3}, {Latitude: 4}}}
	resolver.put(destA, routeA)
	resolver.put(destB, routeB)

	svc, ctx := startService(t, resolver, []models.Store{store})
	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{driver}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.ApplyOrderSnapshot(ctx, models.OrderSnapshot{Orders: []models.Order{orderA, orderB}}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Focus(ctx, types.MarkerOrder, orderA.ID); err != nil {
		t.Fatal(err)
	}
	waitFor(t, svc, func(s models.Scene) bool {
		return s.Focus != nil && s.Focus.ID == orderA.ID
	})

	// B selected while A's fetch is still in flight
	if err := svc.Focus(ctx, types.MarkerOrder, orderB.ID); err != nil {
		t.Fatal(err)
	}
	waitFor(t, svc, func(s models.Scene) bool {
		if s.Focus == nil || s.Focus.ID != orderB.ID || len(s.Polylines) == 0 {
			return false
		}
		l := s.Polylines[len(s.Polylines)-1]
		return len(l.DashPattern) == 0 && l.Points[0] == routeB.Points[0]
	})

	// the slow A result arrives late and must be discarded
	close(gateA)
	time.Sleep(50 * time.Millisecond)

	scene := svc.Scene()
	line := scene.Polylines[len(scene.Polylines)-1]
	if line.Points[0] == routeA.Points[0] {
		t.Error("stale route for the previous selection overwrote the current one")
	}
	if scene.Focus == nil || scene.Focus.ID != orderB.ID {
		t.Errorf("focus = %+v, want order B", scene.Focus)
	}
}

func TestUnfocusRestoresFollow(t *testing.T) {
	driver := testDriver()

	svc, ctx := startService(t, newGateResolver(), nil)
	if err := svc.ApplyDriverSnapshot(ctx, models.DriverSnapshot{Drivers: []models.Driver{driver}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Focus(ctx, types.MarkerDriver, driver.ID); err != nil {
		t.Fatal(err)
	}
	waitFor(t, svc, func(s models.Scene) bool { return s.Focus != nil })

	if err := svc.Unfocus(ctx); err != nil {
		t.Fatal(err)
	}
	scene := waitFor(t, svc, func(s models.Scene) bool { return s.Focus == nil })
	if !scene.Viewport.Follow {
		t.Error("deselecting must restore auto-follow")
	}
}

func TestPlannedLinesForNonFocusedOrders(t *testing.T) {
	store := testStore()
	destA := models.GeoCoordinate{Latitude: 43.2600, Longitude: 76.9100}
	destB := models.GeoCoordinate{Latitude: 43.2700, Longitude: 76.9200}
	orderA := models.Order{ID: uuid.New(), StoreID: store.ID, Status: types.OrderDelivering, DeliveryCoordinate: &destA}
	orderB := models.Order{ID: uuid.New(), StoreID: store.ID, Status: types.OrderDelivering, DeliveryCoordinate: &destB}

	svc, ctx := startService(t, newGateResolver(), []models.Store{store})
	if err := svc.ApplyOrderSnapshot(ctx, models.OrderSnapshot{Orders: []models.Order{orderA, orderB}}); err != nil {
		t.Fatal(err)
	}

	scene := waitFor(t, svc, func(s models.Scene) bool { return len(s.Polylines) == 2 })
	for _, line := range scene.Polylines {
		if len(line.DashPattern) == 0 {
			t.Error("planned overlays must be dashed")
		}
		if line.Opacity >= 1 {
			t.Error("planned overlays must be faint")
		}
		if line.Points[0] != store.Coordinate {
			t.Errorf("planned line must start at the store, got %+v", line.Points[0])
		}
	}
}

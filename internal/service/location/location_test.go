package location

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

type fakePositions struct {
	fix models.Fix
	err error
}

func (f *fakePositions) LatestFix(ctx context.Context, driverID uuid.UUID) (models.Fix, time.Time, error) {
	if f.err != nil {
		return models.Fix{}, time.Time{}, f.err
	}
	return f.fix, time.Now(), nil
}

type fakeGeocoder struct {
	address string
	coord   models.GeoCoordinate
	err     error
}

func (f *fakeGeocoder) GetAddress(ctx context.Context, coord models.GeoCoordinate) (string, error) {
	return f.address, f.err
}

func (f *fakeGeocoder) GetLocation(ctx context.Context, address string) (models.GeoCoordinate, error) {
	if f.err != nil {
		return models.GeoCoordinate{}, f.err
	}
	return f.coord, nil
}

type fakeCache struct {
	stored  map[string]string
	address string
	hit     bool
}

func (f *fakeCache) Get(ctx context.Context, coord models.GeoCoordinate) (string, bool) {
	return f.address, f.hit
}

func (f *fakeCache) Put(ctx context.Context, coord models.GeoCoordinate, address string) error {
	if f.stored == nil {
		f.stored = make(map[string]string)
	}
	f.stored[address] = address
	return nil
}

type fakeGazetteer struct {
	coord models.GeoCoordinate
	err   error
}

func (f *fakeGazetteer) Lookup(ctx context.Context, name string) (models.GeoCoordinate, error) {
	if f.err != nil {
		return models.GeoCoordinate{}, f.err
	}
	return f.coord, nil
}

type fakeMatrix struct {
	meters int
	err    error
}

func (f *fakeMatrix) RoadDistanceMeters(ctx context.Context, origin, dest models.GeoCoordinate) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.meters, nil
}

func newTestService(positions PositionStore, geocoder GeoCoder, cache GeocodeCache, gazetteer Gazetteer, matrix DistanceMatrix) *Service {
	return New(positions, geocoder, cache, gazetteer, matrix, 15*time.Second, logger.InitLogger("test", logger.LevelError))
}

func TestCurrentPosition(t *testing.T) {
	driverID := uuid.New()
	coord := models.GeoCoordinate{Latitude: 43.24, Longitude: 76.89}

	tests := []struct {
		name      string
		positions *fakePositions
		want      models.GeoCoordinate
		wantErr   error
	}{
		{
			name:      "fresh fix",
			positions: &fakePositions{fix: models.Fix{Coordinate: coord}},
			want:      coord,
		},
		{
			name:      "permission denied",
			positions: &fakePositions{err: types.ErrPermissionDenied},
			wantErr:   types.ErrPermissionDenied,
		},
		{
			name:      "never reported",
			positions: &fakePositions{err: types.ErrDeviceUnavailable},
			wantErr:   types.ErrDeviceUnavailable,
		},
		{
			name:      "lookup timed out",
			positions: &fakePositions{err: types.ErrLocationTimeout},
			wantErr:   types.ErrLocationTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.positions, &fakeGeocoder{}, &fakeCache{}, &fakeGazetteer{}, &fakeMatrix{})

			got, err := svc.CurrentPosition(context.Background(), driverID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CurrentPosition() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CurrentPosition() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CurrentPosition() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReverseGeocode_CacheHit(t *testing.T) {
	svc := newTestService(
		&fakePositions{},
		&fakeGeocoder{err: errors.New("provider must not be called")},
		&fakeCache{address: "Abay Ave 1", hit: true},
		&fakeGazetteer{},
		&fakeMatrix{},
	)

	got := svc.ReverseGeocode(context.Background(), models.GeoCoordinate{Latitude: 43.24, Longitude: 76.89})
	if got != "Abay Ave 1" {
		t.Errorf("ReverseGeocode() = %q, want cached address", got)
	}
}

func TestReverseGeocode_ProviderFailureYieldsEmpty(t *testing.T) {
	svc := newTestService(
		&fakePositions{},
		&fakeGeocoder{err: errors.New("provider down")},
		&fakeCache{},
		&fakeGazetteer{},
		&fakeMatrix{},
	)

	if got := svc.ReverseGeocode(context.Background(), models.GeoCoordinate{}); got != "" {
		t.Errorf("ReverseGeocode() = %q, want empty on provider failure", got)
	}
}

func TestForwardGeocode_FallsBackToGazetteer(t *testing.T) {
	want := models.GeoCoordinate{Latitude: 43.25, Longitude: 76.91}
	svc := newTestService(
		&fakePositions{},
		&fakeGeocoder{err: errors.New("provider down")},
		&fakeCache{},
		&fakeGazetteer{coord: want},
		&fakeMatrix{},
	)

	got := svc.ForwardGeocode(context.Background(), "Green Market")
	if got == nil || *got != want {
		t.Errorf("ForwardGeocode() = %v, want %+v", got, want)
	}
}

func TestForwardGeocode_NilWhenBothFail(t *testing.T) {
	svc := newTestService(
		&fakePositions{},
		&fakeGeocoder{err: errors.New("provider down")},
		&fakeCache{},
		&fakeGazetteer{err: types.ErrNotFound},
		&fakeMatrix{},
	)

	if got := svc.ForwardGeocode(context.Background(), "nowhere"); got != nil {
		t.Errorf("ForwardGeocode() = %v, want nil", got)
	}
}

func TestRoadDistanceKm_FallbackNeverErrors(t *testing.T) {
	origin := models.GeoCoordinate{Latitude: 43.238949, Longitude: 76.889709}
	dest := models.GeoCoordinate{Latitude: 43.25654, Longitude: 76.92848}

	t.Run("provider distance", func(t *testing.T) {
		svc := newTestService(&fakePositions{}, &fakeGeocoder{}, &fakeCache{}, &fakeGazetteer{}, &fakeMatrix{meters: 4200})
		if got := svc.RoadDistanceKm(context.Background(), origin, dest); got != 4.2 {
			t.Errorf("RoadDistanceKm() = %f, want 4.2", got)
		}
	})

	t.Run("provider failure falls back to great-circle", func(t *testing.T) {
		svc := newTestService(&fakePositions{}, &fakeGeocoder{}, &fakeCache{}, &fakeGazetteer{}, &fakeMatrix{err: errors.New("matrix down")})
		got := svc.RoadDistanceKm(context.Background(), origin, dest)
		if got <= 0 {
			t.Errorf("RoadDistanceKm() = %f, want positive fallback distance", got)
		}
	})
}

func TestNearby(t *testing.T) {
	point := models.GeoCoordinate{Latitude: 43.238949, Longitude: 76.889709}
	stores := []models.Store{
		{Name: "far", Coordinate: models.GeoCoordinate{Latitude: 44.5, Longitude: 78.0}},
		{Name: "near", Coordinate: models.GeoCoordinate{Latitude: 43.24, Longitude: 76.90}},
		{Name: "mid", Coordinate: models.GeoCoordinate{Latitude: 43.30, Longitude: 76.95}},
	}

	ranked := Nearby(point, 10, stores, func(s models.Store) models.GeoCoordinate { return s.Coordinate })

	if len(ranked) != 2 {
		t.Fatalf("Nearby() returned %d stores, want 2 inside radius", len(ranked))
	}
	if ranked[0].Item.Name != "near" || ranked[1].Item.Name != "mid" {
		t.Errorf("Nearby() order = [%s %s], want [near mid]", ranked[0].Item.Name, ranked[1].Item.Name)
	}
	if ranked[0].DistanceKm > ranked[1].DistanceKm {
		t.Errorf("Nearby() not sorted ascending: %f > %f", ranked[0].DistanceKm, ranked[1].DistanceKm)
	}
}

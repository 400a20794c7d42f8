package geo

import (
	"math"
	"testing"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name   string
		a      models.GeoCoordinate
		b      models.GeoCoordinate
		wantKm float64
	}{
		{
			name:   "same point",
			a:      models.GeoCoordinate{Latitude: 43.238949, Longitude: 76.889709},
			b:      models.GeoCoordinate{Latitude: 43.238949, Longitude: 76.889709},
			wantKm: 0,
		},
		{
			name:   "short hop rounds to one decimal",
			a:      models.GeoCoordinate{Latitude: 43.238949, Longitude: 76.889709},
			b:      models.GeoCoordinate{Latitude: 43.25654, Longitude: 76.92848},
			wantKm: 3.7,
		},
		{
			name:   "new york to los angeles",
			a:      models.GeoCoordinate{Latitude: 40.7128, Longitude: -74.0060},
			b:      models.GeoCoordinate{Latitude: 34.0522, Longitude: -118.2437},
			wantKm: 3935.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > 1.0 {
				t.Errorf("DistanceKm() = %f, want %f", got, tt.wantKm)
			}
			// rounding contract: at most one decimal place
			if got*10 != math.Round(got*10) {
				t.Errorf("DistanceKm() = %f, not rounded to one decimal", got)
			}
		})
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	a := models.GeoCoordinate{Latitude: 25.0, Longitude: 121.0}
	b := models.GeoCoordinate{Latitude: 26.0, Longitude: 122.0}
	if d1, d2 := DistanceKm(a, b), DistanceKm(b, a); d1 != d2 {
		t.Errorf("distance is not symmetric: %f vs %f", d1, d2)
	}
}

func TestToRadians(t *testing.T) {
	if got := ToRadians(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("ToRadians(180) = %f, want pi", got)
	}
	if got := ToRadians(0); got != 0 {
		t.Errorf("ToRadians(0) = %f, want 0", got)
	}
}

func TestBounds(t *testing.T) {
	points := []models.GeoCoordinate{
		{Latitude: 43.25, Longitude: 76.95},
		{Latitude: 43.20, Longitude: 76.85},
		{Latitude: 43.30, Longitude: 76.90},
	}

	sw, ne, ok := Bounds(points)
	if !ok {
		t.Fatal("Bounds() ok = false for non-empty input")
	}
	if sw.Latitude != 43.20 || sw.Longitude != 76.85 {
		t.Errorf("sw = %+v", sw)
	}
	if ne.Latitude != 43.30 || ne.Longitude != 76.95 {
		t.Errorf("ne = %+v", ne)
	}
}

func TestBounds_Empty(t *testing.T) {
	if _, _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) ok = true, want false")
	}
}

func TestSortByDistance(t *testing.T) {
	type item struct {
		id   string
		dist float64
	}
	items := []item{
		{id: "c", dist: 5.0},
		{id: "a", dist: 1.0},
		{id: "b", dist: 3.0},
	}

	SortByDistance(items, func(i item) float64 { return i.dist })

	if items[0].id != "a" || items[1].id != "b" || items[2].id != "c" {
		t.Errorf("unexpected sort order: %v", items)
	}
}

func TestSortByDistance_Empty(t *testing.T) {
	var empty []models.StoreWithDistance
	SortByDistance(empty, func(s models.StoreWithDistance) float64 { return s.DistanceKm })
}

package geo

import (
	"math"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
)

const (
	earthRadiusKm = 6371.0
	earthRadiusM  = 6371000.0
)

// ToRadians converts decimal degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DistanceKm returns the great-circle distance between two points using
// the haversine formula, rounded to one decimal.
func DistanceKm(a, b models.GeoCoordinate) float64 {
	return math.Round(rawDistanceKm(a, b)*10) / 10
}

// DistanceMeters returns the unrounded great-circle distance in metres,
// for geofence checks where tenth-of-a-km rounding is too coarse.
func DistanceMeters(a, b models.GeoCoordinate) float64 {
	return rawDistanceKm(a, b) * 1000
}

func rawDistanceKm(a, b models.GeoCoordinate) float64 {
	dLat := ToRadians(b.Latitude - a.Latitude)
	dLng := ToRadians(b.Longitude - a.Longitude)

	rLat1 := ToRadians(a.Latitude)
	rLat2 := ToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Bounds returns the south-west and north-east corners of the smallest
// box containing all points. ok is false for an empty input.
func Bounds(points []models.GeoCoordinate) (sw, ne models.GeoCoordinate, ok bool) {
	if len(points) == 0 {
		return models.GeoCoordinate{}, models.GeoCoordinate{}, false
	}

	sw = points[0]
	ne = points[0]
	for _, p := range points[1:] {
		sw.Latitude = math.Min(sw.Latitude, p.Latitude)
		sw.Longitude = math.Min(sw.Longitude, p.Longitude)
		ne.Latitude = math.Max(ne.Latitude, p.Latitude)
		ne.Longitude = math.Max(ne.Longitude, p.Longitude)
	}
	return sw, ne, true
}

// Midpoint returns the arithmetic midpoint of two coordinates. Fine for
// city-scale spans; not a geodesic midpoint.
func Midpoint(a, b models.GeoCoordinate) models.GeoCoordinate {
	return models.GeoCoordinate{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}

// SortByDistance performs an insertion sort (fine for small N) on any
// slice where each element exposes a distance via the accessor function.
func SortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}

package googlemaps

import (
	"fmt"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
)

// DecodePolyline decodes the standard encoded-polyline format: each
// coordinate delta is zigzag-signed, split into 5-bit groups offset by
// 63, with 0x20 marking continuation. Deltas are cumulative, so points
// must be decoded strictly in order. An empty input yields an empty
// slice.
func DecodePolyline(encoded string) ([]models.GeoCoordinate, error) {
	points := make([]models.GeoCoordinate, 0, len(encoded)/4)

	var lat, lng int64
	i := 0
	for i < len(encoded) {
		dLat, next, err := decodeSignedValue(encoded, i)
		if err != nil {
			return nil, err
		}
		lat += dLat
		i = next

		dLng, next, err := decodeSignedValue(encoded, i)
		if err != nil {
			return nil, err
		}
		lng += dLng
		i = next

		points = append(points, models.GeoCoordinate{
			Latitude:  float64(lat) / 1e5,
			Longitude: float64(lng) / 1e5,
		})
	}

	return points, nil
}

// decodeSignedValue reads one zigzag-encoded varint starting at index i
// and returns the decoded delta plus the index of the next value.
func decodeSignedValue(encoded string, i int) (int64, int, error) {
	var result int64
	var shift uint

	for {
		if i >= len(encoded) {
			return 0, i, fmt.Errorf("polyline truncated at index %d", i)
		}

		chunk := int64(encoded[i]) - 63
		if chunk < 0 {
			return 0, i, fmt.Errorf("invalid polyline character %q at index %d", encoded[i], i)
		}
		i++

		result |= (chunk & 0x1f) << shift
		shift += 5

		if chunk&0x20 == 0 {
			break
		}
	}

	// zigzag: LSB carries the sign
	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

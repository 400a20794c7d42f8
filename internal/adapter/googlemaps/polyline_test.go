package googlemaps

import (
	"math"
	"testing"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
)

func TestDecodePolyline(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    []models.GeoCoordinate
	}{
		{
			name:    "empty input",
			encoded: "",
			want:    []models.GeoCoordinate{},
		},
		{
			// reference example from the encoding description
			name:    "three points with cumulative deltas",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			want: []models.GeoCoordinate{
				{Latitude: 38.5, Longitude: -120.2},
				{Latitude: 40.7, Longitude: -120.95},
				{Latitude: 43.252, Longitude: -126.453},
			},
		},
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			want: []models.GeoCoordinate{
				{Latitude: 38.5, Longitude: -120.2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePolyline(tt.encoded)
			if err != nil {
				t.Fatalf("DecodePolyline() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodePolyline() returned %d points, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i].Latitude-tt.want[i].Latitude) > 1e-9 ||
					math.Abs(got[i].Longitude-tt.want[i].Longitude) > 1e-9 {
					t.Errorf("point %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodePolyline_Deterministic(t *testing.T) {
	const encoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	first, err := DecodePolyline(encoded)
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	second, err := DecodePolyline(encoded)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("point %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDecodePolyline_Truncated(t *testing.T) {
	if _, err := DecodePolyline("_p~iF"); err == nil {
		t.Error("DecodePolyline() with truncated input: expected error, got nil")
	}
}

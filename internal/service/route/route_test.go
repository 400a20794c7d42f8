package route

import (
	"context"
	"errors"
	"testing"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
)

type fakeProvider struct {
	result  *models.RouteResult
	err     error
	calls   int
	failOdd bool
}

func (f *fakeProvider) Directions(ctx context.Context, origin, dest models.GeoCoordinate) (*models.RouteResult, error) {
	f.calls++
	if f.failOdd && f.calls%2 == 1 {
		return nil, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestService(provider DirectionsProvider) *Service {
	return New(provider, "test", logger.InitLogger("test", logger.LevelError))
}

func TestResolve(t *testing.T) {
	origin := models.GeoCoordinate{Latitude: 43.23, Longitude: 76.88}
	dest := models.GeoCoordinate{Latitude: 43.26, Longitude: 76.93}

	t.Run("provider success", func(t *testing.T) {
		want := &models.RouteResult{DistanceMeters: 4200, DurationSeconds: 600}
		svc := newTestService(&fakeProvider{result: want})

		if got := svc.Resolve(context.Background(), origin, dest); got != want {
			t.Errorf("Resolve() = %v, want %v", got, want)
		}
	})

	t.Run("provider non-OK yields nil not error", func(t *testing.T) {
		svc := newTestService(&fakeProvider{result: nil})
		if got := svc.Resolve(context.Background(), origin, dest); got != nil {
			t.Errorf("Resolve() = %v, want nil", got)
		}
	})

	t.Run("transport failure yields nil not panic", func(t *testing.T) {
		svc := newTestService(&fakeProvider{err: errors.New("network down")})
		if got := svc.Resolve(context.Background(), origin, dest); got != nil {
			t.Errorf("Resolve() = %v, want nil", got)
		}
	})
}

func TestBatchResolve_PreservesOrderAndLength(t *testing.T) {
	pairs := []models.RoutePair{
		{Origin: models.GeoCoordinate{Latitude: 1}, Destination: models.GeoCoordinate{Latitude: 2}},
		{Origin: models.GeoCoordinate{Latitude: 3}, Destination: models.GeoCoordinate{Latitude: 4}},
		{Origin: models.GeoCoordinate{Latitude: 5}, Destination: models.GeoCoordinate{Latitude: 6}},
	}

	// first and third calls fail, second succeeds
	svc := newTestService(&fakeProvider{
		result:  &models.RouteResult{DistanceMeters: 1000},
		failOdd: true,
	})

	results := svc.BatchResolve(context.Background(), pairs)

	if len(results) != len(pairs) {
		t.Fatalf("BatchResolve() returned %d results, want %d", len(results), len(pairs))
	}
	if results[0] != nil {
		t.Error("results[0] should be nil for a failed call")
	}
	if results[1] == nil {
		t.Error("results[1] should be non-nil for a successful call")
	}
	if results[2] != nil {
		t.Error("results[2] should be nil for a failed call")
	}
}

func TestDecodePolyline_EmptyAndInvalid(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	if got := svc.DecodePolyline(""); len(got) != 0 {
		t.Errorf("DecodePolyline(\"\") = %v, want empty", got)
	}
	if got := svc.DecodePolyline("_p~iF"); len(got) != 0 {
		t.Errorf("DecodePolyline(truncated) = %v, want empty", got)
	}
}

func TestLoadTest(t *testing.T) {
	svc := newTestService(&fakeProvider{
		result:  &models.RouteResult{DistanceMeters: 1000},
		failOdd: true,
	})

	report := svc.LoadTest(context.Background(), 4,
		models.GeoCoordinate{Latitude: 43.23, Longitude: 76.88},
		models.GeoCoordinate{Latitude: 43.26, Longitude: 76.93},
	)

	if report.Requests != 4 {
		t.Errorf("Requests = %d, want 4", report.Requests)
	}
	if report.Successful != 2 || report.Failed != 2 {
		t.Errorf("Successful/Failed = %d/%d, want 2/2", report.Successful, report.Failed)
	}
	if report.SuccessRate != 0.5 || report.FailureRate != 0.5 {
		t.Errorf("rates = %f/%f, want 0.5/0.5", report.SuccessRate, report.FailureRate)
	}
}

func TestLoadTest_ZeroRequests(t *testing.T) {
	svc := newTestService(&fakeProvider{})
	report := svc.LoadTest(context.Background(), 0, models.GeoCoordinate{}, models.GeoCoordinate{})
	if report.Requests != 0 || report.Successful != 0 || report.Failed != 0 {
		t.Errorf("unexpected report for zero requests: %+v", report)
	}
}

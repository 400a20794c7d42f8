package route

import (
	"context"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
)

// LoadTest issues n synthetic resolutions against the provider and
// reports latency and success ratios. Capacity planning helper, not
// part of the request path.
func (s *Service) LoadTest(ctx context.Context, n int, origin, dest models.GeoCoordinate) models.LoadTestReport {
	ctx = wrap.WithAction(ctx, "route_load_test")

	report := models.LoadTestReport{Requests: n}
	if n <= 0 {
		return report
	}

	var total time.Duration
	for range n {
		start := time.Now()
		result := s.Resolve(ctx, origin, dest)
		total += time.Since(start)

		if result != nil {
			report.Successful++
		} else {
			report.Failed++
		}
	}

	report.AverageLatency = total / time.Duration(n)
	report.SuccessRate = float64(report.Successful) / float64(n)
	report.FailureRate = float64(report.Failed) / float64(n)

	s.l.Info(ctx, "load test finished",
		"requests", report.Requests,
		"successful", report.Successful,
		"failed", report.Failed,
		"avg_latency", report.AverageLatency.String(),
	)
	return report
}

package route

import (
	"context"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/adapter/googlemaps"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
)

/*=================Directions Provider====================*/

type DirectionsProvider interface {
	Directions(ctx context.Context, origin, dest models.GeoCoordinate) (*models.RouteResult, error)
}

// Service resolves detailed road paths. A provider failure is degraded
// state, not an error: Resolve returns nil and callers fall back to a
// straight-line rendering.
type Service struct {
	provider DirectionsProvider
	service  string
	l        logger.Logger
}

func New(provider DirectionsProvider, service string, l logger.Logger) *Service {
	return &Service{
		provider: provider,
		service:  service,
		l:        l,
	}
}

// Resolve requests one route. Returns nil on provider non-OK status,
// zero routes, or transport failure; never an error the caller must
// branch on.
func (s *Service) Resolve(ctx context.Context, origin, dest models.GeoCoordinate) *models.RouteResult {
	ctx = wrap.WithAction(ctx, "resolve_route")

	start := time.Now()
	result, err := s.provider.Directions(ctx, origin, dest)
	metrics.RecordRouteResolution(s.service, "directions", err, time.Since(start))

	if err != nil {
		s.l.Warn(wrap.WithAction(wrap.ErrorCtx(ctx, err), types.ActionProviderFallback),
			"directions provider failed, no detailed path", "err", err.Error())
		return nil
	}
	return result
}

// DecodePolyline decodes an encoded overview polyline. An undecodable
// string yields an empty slice, mirroring Resolve's degraded contract.
func (s *Service) DecodePolyline(encoded string) []models.GeoCoordinate {
	points, err := googlemaps.DecodePolyline(encoded)
	if err != nil {
		s.l.Warn(wrap.WithAction(context.Background(), "decode_polyline"),
			"failed to decode polyline", "err", err.Error())
		return []models.GeoCoordinate{}
	}
	return points
}

// BatchResolve resolves every pair sequentially, preserving input order
// and length. Individual failures become nil entries, never an abort.
func (s *Service) BatchResolve(ctx context.Context, pairs []models.RoutePair) []*models.RouteResult {
	results := make([]*models.RouteResult, len(pairs))
	for i, pair := range pairs {
		results[i] = s.Resolve(ctx, pair.Origin, pair.Destination)
	}
	return results
}

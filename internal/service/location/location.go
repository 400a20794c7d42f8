package location

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/internal/service/geo"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
)

// Service is the geocoding and proximity gateway. Provider failures
// degrade to local fallbacks wherever one exists; only the device
// position path surfaces the documented error taxonomy.
type Service struct {
	positions PositionStore
	geocoder  GeoCoder
	cache     GeocodeCache
	gazetteer Gazetteer
	matrix    DistanceMatrix

	locationTimeout time.Duration

	l logger.Logger
}

func New(positions PositionStore, geocoder GeoCoder, cache GeocodeCache, gazetteer Gazetteer, matrix DistanceMatrix, locationTimeout time.Duration, l logger.Logger) *Service {
	if locationTimeout <= 0 {
		locationTimeout = 15 * time.Second
	}
	return &Service{
		positions:       positions,
		geocoder:        geocoder,
		cache:           cache,
		gazetteer:       gazetteer,
		matrix:          matrix,
		locationTimeout: locationTimeout,
		l:               l,
	}
}

// CurrentPosition resolves the courier's freshest fix. The lookup is
// bounded by the configured ceiling; expiry maps to ErrLocationTimeout.
func (s *Service) CurrentPosition(ctx context.Context, driverID uuid.UUID) (models.GeoCoordinate, error) {
	const op = "location.Service.CurrentPosition"
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, driverID.String()), "current_position")

	ctx, cancel := context.WithTimeout(ctx, s.locationTimeout)
	defer cancel()

	fix, _, err := s.positions.LatestFix(ctx, driverID)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrPermissionDenied),
			errors.Is(err, types.ErrDeviceUnavailable),
			errors.Is(err, types.ErrLocationTimeout):
			return models.GeoCoordinate{}, err
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return models.GeoCoordinate{}, types.ErrLocationTimeout
		default:
			return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
	}

	return fix.Coordinate, nil
}

// ReverseGeocode resolves a coordinate to an address, cache first.
// Returns "" when the provider fails; callers render without an address.
func (s *Service) ReverseGeocode(ctx context.Context, coord models.GeoCoordinate) string {
	ctx = wrap.WithAction(ctx, "reverse_geocode")

	if address, ok := s.cache.Get(ctx, coord); ok {
		return address
	}

	address, err := s.geocoder.GetAddress(ctx, coord)
	if err != nil {
		s.l.Warn(wrap.ErrorCtx(ctx, err), "reverse geocode failed", "err", err.Error())
		return ""
	}

	if err := s.cache.Put(ctx, coord, address); err != nil {
		s.l.Warn(ctx, "failed to cache geocode result", "err", err.Error())
	}
	return address
}

// ForwardGeocode resolves an address to a coordinate: external provider
// first, local gazetteer second, nil when both fail.
func (s *Service) ForwardGeocode(ctx context.Context, address string) *models.GeoCoordinate {
	ctx = wrap.WithAction(ctx, "forward_geocode")

	coord, err := s.geocoder.GetLocation(ctx, address)
	if err == nil {
		return &coord
	}
	s.l.Warn(wrap.ErrorCtx(ctx, err), "forward geocode provider failed, trying gazetteer", "err", err.Error())

	ctx = wrap.WithAction(ctx, types.ActionProviderFallback)
	coord, err = s.gazetteer.Lookup(ctx, address)
	if err != nil {
		s.l.Warn(ctx, "gazetteer lookup failed", "address", address, "err", err.Error())
		return nil
	}
	return &coord
}

// RoadDistanceKm returns the driving distance between two points. On
// any provider failure it silently falls back to the great-circle
// distance: this path never errors.
func (s *Service) RoadDistanceKm(ctx context.Context, origin, dest models.GeoCoordinate) float64 {
	ctx = wrap.WithAction(ctx, "road_distance")

	meters, err := s.matrix.RoadDistanceMeters(ctx, origin, dest)
	if err != nil {
		s.l.Debug(wrap.WithAction(ctx, types.ActionProviderFallback),
			"distance matrix failed, using great-circle distance", "err", err.Error())
		return geo.DistanceKm(origin, dest)
	}

	return math.Round(float64(meters)/1000*10) / 10
}

// Nearby filters candidates to those within radiusKm of point and
// sorts them ascending by distance. O(n) scan; candidate sets are
// store-scale.
func Nearby[T any](point models.GeoCoordinate, radiusKm float64, candidates []T, coordOf func(T) models.GeoCoordinate) []models.Ranked[T] {
	result := make([]models.Ranked[T], 0, len(candidates))
	for _, c := range candidates {
		d := geo.DistanceKm(point, coordOf(c))
		if d <= radiusKm {
			result = append(result, models.Ranked[T]{Item: c, DistanceKm: d})
		}
	}

	geo.SortByDistance(result, func(r models.Ranked[T]) float64 { return r.DistanceKm })
	return result
}

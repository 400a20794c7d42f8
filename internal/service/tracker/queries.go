package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/internal/service/geo"
	"github.com/acucaradas/delivery-tracking-system/internal/service/location"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
)

// Nearby-store delivery window: prep floor plus a per-km spread.
const (
	windowPrepMinutes = 15
	windowMinPerKm    = 3
	windowMaxPerKm    = 5
)

// DailyRoute returns a driver's fix trail for one calendar day with the
// summed trail distance, for historical playback.
func (s *Service) DailyRoute(ctx context.Context, driverID uuid.UUID, day time.Time) (*models.DailyRoute, error) {
	const op = "tracker.Service.DailyRoute"
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, driverID.String()), "daily_route")

	if _, err := s.repos.driver.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	fixes, err := s.repos.history.FixesForDay(ctx, driverID, day)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if len(fixes) == 0 {
		return nil, types.ErrRouteNotFound
	}

	var meters float64
	for i := 1; i < len(fixes); i++ {
		meters += geo.DistanceMeters(fixes[i-1].Coordinate, fixes[i].Coordinate)
	}

	return &models.DailyRoute{
		DriverID:        driverID,
		Date:            day.UTC().Format("2006-01-02"),
		Fixes:           fixes,
		TotalDistanceKm: math.Round(meters/1000*10) / 10,
	}, nil
}

// NearbyStores ranks open stores by distance from the query point and
// attaches the coarse delivery window shown before checkout.
func (s *Service) NearbyStores(ctx context.Context, point models.GeoCoordinate, radiusKm float64) ([]models.StoreWithDistance, error) {
	const op = "tracker.Service.NearbyStores"
	ctx = wrap.WithAction(ctx, "nearby_stores")

	if !point.Valid() {
		return nil, types.ErrInvalidCoordinate
	}
	if radiusKm <= 0 {
		radiusKm = s.nearbyKm
	}

	stores, err := s.repos.store.ListOpen(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	ranked := location.Nearby(point, radiusKm, stores, func(st models.Store) models.GeoCoordinate {
		return st.Coordinate
	})

	result := make([]models.StoreWithDistance, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, models.StoreWithDistance{
			Store:             r.Item,
			DistanceKm:        r.DistanceKm,
			EstimatedDelivery: deliveryWindow(r.DistanceKm),
		})
	}
	return result, nil
}

func deliveryWindow(distanceKm float64) models.DeliveryWindow {
	return models.DeliveryWindow{
		MinMinutes: windowPrepMinutes + int(math.Ceil(distanceKm*windowMinPerKm)),
		MaxMinutes: windowPrepMinutes + int(math.Ceil(distanceKm*windowMaxPerKm)),
	}
}

// CandidateDriver suggests the available driver closest to the order's
// store, for the external assignment collaborator.
func (s *Service) CandidateDriver(ctx context.Context, orderID uuid.UUID) (*models.DriverWithDistance, error) {
	const op = "tracker.Service.CandidateDriver"
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "candidate_driver")

	order, err := s.repos.order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	store, err := s.repos.store.GetByID(ctx, order.StoreID)
	if err != nil {
		return nil, err
	}

	drivers, err := s.repos.driver.ListAvailable(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	var best *models.DriverWithDistance
	for _, driver := range drivers {
		if driver.Position == nil {
			continue
		}
		d := geo.DistanceKm(store.Coordinate, *driver.Position)
		if best == nil || d < best.DistanceKm {
			best = &models.DriverWithDistance{Driver: driver, DistanceKm: d}
		}
	}
	if best == nil {
		return nil, types.ErrDriverNotFound
	}
	return best, nil
}

// OrderETA computes the arrival estimate for an order: route from the
// assigned driver's position (or the store when unassigned) to the
// delivery point, fed through the heuristic engine. A missing route
// degrades inside the engine; only a malformed order errors.
func (s *Service) OrderETA(ctx context.Context, orderID uuid.UUID) (*models.ETAResult, error) {
	const op = "tracker.Service.OrderETA"
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "order_eta")

	order, err := s.repos.order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.DeliveryCoordinate == nil {
		return nil, types.ErrMalformedOrder
	}

	store, err := s.repos.store.GetByID(ctx, order.StoreID)
	if err != nil {
		return nil, err
	}

	origin := store.Coordinate
	if order.AssignedDriverID != nil {
		if driver, err := s.repos.driver.GetByID(ctx, *order.AssignedDriverID); err == nil && driver.Position != nil {
			origin = *driver.Position
		}
	}

	route := s.routes.Resolve(ctx, origin, *order.DeliveryCoordinate)

	result, err := s.eta.Estimate(ctx, order, route)
	if err != nil {
		return nil, err
	}
	return result, nil
}

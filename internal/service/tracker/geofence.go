package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/internal/service/geo"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
)

// geofence tracks which proximity events were already emitted:
// arriving fires once per order, hotspot entry is rate-limited per
// driver-hotspot pair.
type geofence struct {
	arrivalRadiusM  float64
	hotspotCooldown time.Duration

	mu           sync.Mutex
	arrivedOrder map[uuid.UUID]struct{}
	hotspotSeen  map[string]time.Time
}

func newGeofence(arrivalRadiusM float64, hotspotCooldown time.Duration) *geofence {
	if arrivalRadiusM <= 0 {
		arrivalRadiusM = 500
	}
	if hotspotCooldown <= 0 {
		hotspotCooldown = 30 * time.Minute
	}
	return &geofence{
		arrivalRadiusM:  arrivalRadiusM,
		hotspotCooldown: hotspotCooldown,
		arrivedOrder:    make(map[uuid.UUID]struct{}),
		hotspotSeen:     make(map[string]time.Time),
	}
}

// shouldEmitArrival claims the one-shot arrival event for an order.
func (g *geofence) shouldEmitArrival(orderID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, done := g.arrivedOrder[orderID]; done {
		return false
	}
	g.arrivedOrder[orderID] = struct{}{}
	return true
}

// shouldEmitHotspot claims a hotspot-entry event unless one fired for
// this driver-hotspot pair within the cooldown.
func (g *geofence) shouldEmitHotspot(driverID, hotspotID uuid.UUID, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := fmt.Sprintf("%s|%s", driverID, hotspotID)
	if last, ok := g.hotspotSeen[key]; ok && now.Sub(last) < g.hotspotCooldown {
		return false
	}
	g.hotspotSeen[key] = now
	return true
}

// checkGeofences runs both proximity checks for an accepted fix.
// Failures are logged, never returned: a missed event must not reject
// the fix that triggered it.
func (s *Service) checkGeofences(ctx context.Context, driverID uuid.UUID, coord models.GeoCoordinate, now time.Time) {
	ctx = wrap.WithAction(ctx, "check_geofences")

	orders, err := s.repos.order.ListDeliveringByDriver(ctx, driverID)
	if err != nil {
		s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to load delivering orders for geofence check", "err", err.Error())
	}
	for _, order := range orders {
		if order.DeliveryCoordinate == nil {
			continue
		}

		dist := geo.DistanceMeters(coord, *order.DeliveryCoordinate)
		if dist > s.geofence.arrivalRadiusM || !s.geofence.shouldEmitArrival(order.ID) {
			continue
		}

		event := models.ProximityEvent{
			Type:       models.MsgTypeProximityEvent,
			Kind:       types.MarkerOrder,
			DriverID:   driverID,
			TargetID:   order.ID,
			DistanceM:  dist,
			Message:    "courier arriving",
			OccurredAt: now,
		}
		if err := s.publisher.PublishProximityEvent(ctx, event); err != nil {
			s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish arrival event", err)
		}
	}

	hotspots, err := s.repos.hotspot.ListActive(ctx)
	if err != nil {
		s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to load hotspots for geofence check", "err", err.Error())
		return
	}
	for _, hotspot := range hotspots {
		dist := geo.DistanceMeters(coord, hotspot.Center)
		if dist > hotspot.RadiusMeters || !s.geofence.shouldEmitHotspot(driverID, hotspot.ID, now) {
			continue
		}

		event := models.ProximityEvent{
			Type:       models.MsgTypeProximityEvent,
			Kind:       types.MarkerHotspot,
			DriverID:   driverID,
			TargetID:   hotspot.ID,
			DistanceM:  dist,
			Demand:     hotspot.DemandLevel,
			Message:    hotspot.Message,
			OccurredAt: now,
		}
		if err := s.publisher.PublishProximityEvent(ctx, event); err != nil {
			s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish hotspot event", err)
		}
	}
}

package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
	"github.com/google/uuid"
)

type RouteResolver interface {
	Resolve(ctx context.Context, origin, dest models.GeoCoordinate) *models.RouteResult
}

type StoreRepo interface {
	ListOpen(ctx context.Context) ([]models.Store, error)
}

// SceneSink receives every rebuilt console frame. Backed by the
// websocket hub in production.
type SceneSink interface {
	Broadcast(msg any)
}

/*
Service is the console-side aggregator. Three snapshot collections
(drivers, active orders, hotspots) arrive over the fleet exchange,
operator commands arrive over HTTP, and focused route results arrive
from the directions resolver. All of them funnel into one event loop
goroutine that owns every piece of mutable state, so no locks guard the
collections or the selection. The only shared value is the latest
rendered scene, kept behind a small mutex for the HTTP snapshot
endpoint.
*/
type Service struct {
	resolver RouteResolver
	stores   StoreRepo
	sink     SceneSink

	driverCh  chan []models.Driver
	orderCh   chan []models.Order
	hotspotCh chan []models.Hotspot
	commandCh chan command
	routeCh   chan routeOutcome

	// loop-owned state, touched only from Run
	state      fleetState
	focus      *models.FocusRef
	route      *models.RouteResult
	generation uint64

	mu    sync.RWMutex
	scene models.Scene

	serviceName string
	l           logger.Logger
}

type fleetState struct {
	drivers  []models.Driver
	orders   []models.Order
	hotspots []models.Hotspot
	stores   []models.Store
}

type commandKind int

const (
	cmdFocus commandKind = iota
	cmdUnfocus
)

type command struct {
	kind commandKind
	ref  models.FocusRef
}

// routeOutcome is one finished focused-route fetch. The generation is
// the selection epoch active when the fetch started; the loop discards
// outcomes whose generation no longer matches.
type routeOutcome struct {
	generation uint64
	route      *models.RouteResult
}

func New(resolver RouteResolver, stores StoreRepo, sink SceneSink, serviceName string, l logger.Logger) *Service {
	return &Service{
		resolver:    resolver,
		stores:      stores,
		sink:        sink,
		driverCh:    make(chan []models.Driver, 1),
		orderCh:     make(chan []models.Order, 1),
		hotspotCh:   make(chan []models.Hotspot, 1),
		commandCh:   make(chan command, 8),
		routeCh:     make(chan routeOutcome, 8),
		serviceName: serviceName,
		l:           l,
	}
}

// Run is the serializing event loop. It blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	const op = "monitor.Service.Run"

	stores, err := s.stores.ListOpen(ctx)
	if err != nil {
		// the map can come up without store pins; snapshots still flow
		s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to load stores, starting with none", "err", err.Error())
	}
	s.state.stores = stores

	s.rebuild(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())

		case drivers := <-s.driverCh:
			s.state.drivers = drivers
			s.rebuild(ctx, "driver_snapshot")

		case orders := <-s.orderCh:
			s.state.orders = orders
			s.rebuild(ctx, "order_snapshot")

		case hotspots := <-s.hotspotCh:
			s.state.hotspots = hotspots
			s.rebuild(ctx, "hotspot_snapshot")

		case cmd := <-s.commandCh:
			s.handleCommand(ctx, cmd)

		case out := <-s.routeCh:
			if out.generation != s.generation {
				metrics.StaleRouteDropsTotal.WithLabelValues(s.serviceName).Inc()
				s.l.Debug(wrap.WithAction(ctx, types.ActionStaleRouteDropped),
					"discarding route result for a superseded selection",
					"generation", out.generation, "current", s.generation)
				continue
			}
			s.route = out.route
			s.rebuild(ctx, "route_result")
		}
	}
}

func (s *Service) handleCommand(ctx context.Context, cmd command) {
	switch cmd.kind {
	case cmdFocus:
		// re-entrant: refocusing the same entity bumps the generation
		// and recomputes, it never no-ops
		s.focus = &models.FocusRef{Kind: cmd.ref.Kind, ID: cmd.ref.ID}
		s.generation++
		s.route = nil

		if intent, ok := s.routingIntent(); ok {
			s.fetchRoute(ctx, intent)
		}
		s.rebuild(ctx, "focus")

	case cmdUnfocus:
		s.focus = nil
		s.generation++
		s.route = nil
		s.rebuild(ctx, "unfocus")
	}
}

// fetchRoute resolves the focused route off the loop goroutine. The
// dashed fallback renders immediately; the solid path replaces it when
// (and if) the resolver answers for a still-current generation.
func (s *Service) fetchRoute(ctx context.Context, intent routingIntent) {
	gen := s.generation
	go func() {
		route := s.resolver.Resolve(ctx, intent.Start, intent.End)
		select {
		case s.routeCh <- routeOutcome{generation: gen, route: route}:
		case <-ctx.Done():
		}
	}()
}

func (s *Service) rebuild(ctx context.Context, trigger string) {
	scene := s.buildScene(time.Now())

	s.mu.Lock()
	s.scene = scene
	s.mu.Unlock()

	metrics.SceneRebuildsTotal.WithLabelValues(s.serviceName, trigger).Inc()
	s.l.Debug(wrap.WithAction(ctx, types.ActionSceneRebuilt), "scene rebuilt",
		"trigger", trigger,
		"markers", len(scene.Markers),
		"polylines", len(scene.Polylines))

	if s.sink != nil {
		s.sink.Broadcast(models.SceneUpdateDTO{Type: models.MsgTypeScene, Scene: scene})
	}
}

/*=================Inbound================================*/

// ApplyDriverSnapshot replaces the driver collection. Wired as the
// fleet exchange consumer callback.
func (s *Service) ApplyDriverSnapshot(ctx context.Context, msg models.DriverSnapshot) error {
	return send(ctx, s.driverCh, msg.Drivers)
}

func (s *Service) ApplyOrderSnapshot(ctx context.Context, msg models.OrderSnapshot) error {
	return send(ctx, s.orderCh, msg.Orders)
}

func (s *Service) ApplyHotspotSnapshot(ctx context.Context, msg models.HotspotSnapshot) error {
	return send(ctx, s.hotspotCh, msg.Hotspots)
}

// Focus selects a driver or order on the console map.
func (s *Service) Focus(ctx context.Context, kind types.MarkerKind, id uuid.UUID) error {
	if kind != types.MarkerDriver && kind != types.MarkerOrder {
		return types.ErrInvalidFocusKind
	}
	return send(ctx, s.commandCh, command{kind: cmdFocus, ref: models.FocusRef{Kind: kind, ID: id}})
}

// Unfocus clears the selection and restores auto-follow.
func (s *Service) Unfocus(ctx context.Context) error {
	return send(ctx, s.commandCh, command{kind: cmdUnfocus})
}

// Scene returns the most recently rendered console frame.
func (s *Service) Scene() models.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene
}

func send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
	"github.com/acucaradas/delivery-tracking-system/pkg/trm"
	"github.com/google/uuid"
)

/*
Service owns the tracking side of the system: accepting courier fixes,
keeping the live position stores consistent, publishing full-collection
fleet snapshots, and answering the store/driver/order queries built on
top of them.
*/
type Service struct {
	repos     repos
	positions PositionStore
	publisher FleetPublisher
	routes    RouteResolver
	eta       ETAEngine
	geofence  *geofence
	trm       trm.TxManager

	serviceName string
	nearbyKm    float64
	l           logger.Logger
}

type repos struct {
	driver  DriverRepo
	order   OrderRepo
	hotspot HotspotRepo
	store   StoreRepo
	history HistoryRepo
}

type Config struct {
	ServiceName     string
	ArrivalRadiusM  float64
	HotspotCooldown time.Duration
	NearbyRadiusKm  float64
}

func New(
	driverRepo DriverRepo,
	orderRepo OrderRepo,
	hotspotRepo HotspotRepo,
	storeRepo StoreRepo,
	historyRepo HistoryRepo,
	positions PositionStore,
	publisher FleetPublisher,
	routes RouteResolver,
	eta ETAEngine,
	txm trm.TxManager,
	cfg Config,
	l logger.Logger,
) *Service {
	return &Service{
		repos: repos{
			driver:  driverRepo,
			order:   orderRepo,
			hotspot: hotspotRepo,
			store:   storeRepo,
			history: historyRepo,
		},
		positions:   positions,
		publisher:   publisher,
		routes:      routes,
		eta:         eta,
		geofence:    newGeofence(cfg.ArrivalRadiusM, cfg.HotspotCooldown),
		trm:         txm,
		serviceName: cfg.ServiceName,
		nearbyKm:    cfg.NearbyRadiusKm,
		l:           l,
	}
}

// IngestFix accepts a single position report: persists it atomically
// (latest position + history), refreshes the live store, runs geofence
// checks, and republishes the driver snapshot.
func (s *Service) IngestFix(ctx context.Context, msg models.DriverFixMessage) error {
	const op = "tracker.Service.IngestFix"
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, msg.DriverID.String()), "ingest_fix")

	if !msg.Coordinate.Valid() {
		metrics.DriverFixesIngested.WithLabelValues(s.serviceName, "rejected").Inc()
		return types.ErrInvalidCoordinate
	}

	now := time.Now()

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repos.driver.UpdatePosition(ctx, msg.DriverID, msg.Coordinate, now); err != nil {
			return err
		}
		return s.repos.history.AppendFix(ctx, msg.DriverID, msg.Fix, now)
	})
	if err != nil {
		metrics.DriverFixesIngested.WithLabelValues(s.serviceName, "error").Inc()
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if err := s.positions.SaveFix(ctx, msg.DriverID, msg.Fix, now); err != nil {
		// live store is best effort; postgres already holds the fix
		s.l.Warn(wrap.ErrorCtx(ctx, err), "failed to refresh live position", "err", err.Error())
	}

	metrics.DriverFixesIngested.WithLabelValues(s.serviceName, "accepted").Inc()

	s.checkGeofences(ctx, msg.DriverID, msg.Coordinate, now)

	if err := s.publishDriverSnapshot(ctx); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish driver snapshot", err)
	}
	return nil
}

// ReportPermissionDenied records that a courier device refused the
// location permission, so position reads surface ErrPermissionDenied.
func (s *Service) ReportPermissionDenied(ctx context.Context, driverID uuid.UUID) error {
	const op = "tracker.Service.ReportPermissionDenied"
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, driverID.String()), "report_permission_denied")

	if err := s.positions.MarkDenied(ctx, driverID); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// SetAvailability flips the driver's availability toggle.
func (s *Service) SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error {
	const op = "tracker.Service.SetAvailability"
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, driverID.String()), "set_availability")

	if err := s.repos.driver.SetAvailability(ctx, driverID, available); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if err := s.publishDriverSnapshot(ctx); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish driver snapshot", err)
	}
	return nil
}

// PublishSnapshots pushes all three full collections to the fleet
// exchange. Called on a timer and after writes; consumers always
// replace, so republishing is idempotent.
func (s *Service) PublishSnapshots(ctx context.Context) error {
	const op = "tracker.Service.PublishSnapshots"

	if err := s.publishDriverSnapshot(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	orders, err := s.repos.order.ListActive(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	metrics.ActiveOrdersGauge.WithLabelValues(s.serviceName).Set(float64(len(orders)))
	if err := s.publisher.PublishOrderSnapshot(ctx, models.OrderSnapshot{
		Type:        models.MsgTypeOrderSnapshot,
		Orders:      orders,
		GeneratedAt: time.Now(),
	}); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	hotspots, err := s.repos.hotspot.ListActive(ctx)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if err := s.publisher.PublishHotspotSnapshot(ctx, models.HotspotSnapshot{
		Type:        models.MsgTypeHotspotSnapshot,
		Hotspots:    hotspots,
		GeneratedAt: time.Now(),
	}); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}

func (s *Service) publishDriverSnapshot(ctx context.Context) error {
	drivers, err := s.repos.driver.ListActive(ctx)
	if err != nil {
		return err
	}

	online := 0
	for _, d := range drivers {
		if d.IsAvailable {
			online++
		}
	}
	metrics.DriversOnlineGauge.WithLabelValues(s.serviceName).Set(float64(online))

	return s.publisher.PublishDriverSnapshot(ctx, models.DriverSnapshot{
		Type:        models.MsgTypeDriverSnapshot,
		Drivers:     drivers,
		GeneratedAt: time.Now(),
	})
}

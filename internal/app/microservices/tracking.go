package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acucaradas/delivery-tracking-system/config"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/googlemaps"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/http/server"
	wshandler "github.com/acucaradas/delivery-tracking-system/internal/adapter/http/ws"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/locationiq"
	repo "github.com/acucaradas/delivery-tracking-system/internal/adapter/postgres"
	broker "github.com/acucaradas/delivery-tracking-system/internal/adapter/rabbit"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/redisstore"
	"github.com/acucaradas/delivery-tracking-system/internal/service/auth"
	"github.com/acucaradas/delivery-tracking-system/internal/service/eta"
	"github.com/acucaradas/delivery-tracking-system/internal/service/location"
	"github.com/acucaradas/delivery-tracking-system/internal/service/route"
	"github.com/acucaradas/delivery-tracking-system/internal/service/tracker"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	"github.com/acucaradas/delivery-tracking-system/pkg/postgres"
	"github.com/acucaradas/delivery-tracking-system/pkg/rabbit"
	"github.com/acucaradas/delivery-tracking-system/pkg/redis"
	"github.com/acucaradas/delivery-tracking-system/pkg/trm"
	ws "github.com/acucaradas/delivery-tracking-system/pkg/wsHub"
)

// TrackingService is the ingest side: courier fixes in, snapshots and
// proximity events out, plus the driver/order/store query API.
type TrackingService struct {
	postgresDB *postgres.PostgreDB
	redisDB    *redis.Client
	rabbitMQ   *rabbit.RabbitMQ
	httpServer *server.API
	tracker    *tracker.Service

	snapshotInterval time.Duration
	cfg              config.Config
	log              logger.Logger
}

func NewTracking(ctx context.Context, cfg config.Config, log logger.Logger) (*TrackingService, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	redisDB, err := redis.New(ctx, cfg.Redis, redis.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Error(ctx, "Failed to setup redis", err)
		return nil, err
	}

	rabbitMQ, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "Failed to setup rabbitmq", err)
		return nil, err
	}

	fleet := broker.NewFleetBroker(rabbitMQ, string(cfg.Mode), log)
	if err := fleet.Setup(ctx); err != nil {
		log.Error(ctx, "Failed to declare fleet exchange", err)
		return nil, err
	}

	// repositories
	driverRepo := repo.NewDriverRepo(postgresDB.Pool)
	orderRepo := repo.NewOrderRepo(postgresDB.Pool)
	hotspotRepo := repo.NewHotspotRepo(postgresDB.Pool)
	storeRepo := repo.NewStoreRepo(postgresDB.Pool)
	historyRepo := repo.NewHistoryRepo(postgresDB.Pool)
	gazetteerRepo := repo.NewGazetteerRepo(postgresDB.Pool)
	txManager := trm.New(postgresDB.Pool)

	// live stores and providers
	positions := redisstore.NewPositionStore(redisDB, cfg.Redis.FixTTL)
	geocodeCache := redisstore.NewGeocodeCache(redisDB, cfg.Redis.GeocodeTTL)
	geocoder := locationiq.New(cfg.Providers.LocationIQAPIKey, cfg.Providers.LocationIQBaseURL, cfg.Providers.RequestTimeout)
	directions := googlemaps.NewDirections(cfg.Providers.DirectionsAPIKey, cfg.Providers.DirectionsBaseURL, cfg.Providers.RequestTimeout)
	matrix := googlemaps.NewMatrix(cfg.Providers.DirectionsAPIKey, cfg.Providers.MatrixBaseURL, cfg.Providers.RequestTimeout)

	// domain services
	locationService := location.New(positions, geocoder, geocodeCache, gazetteerRepo, matrix, cfg.Tracking.LocationTimeout, log)
	routeService := route.New(directions, string(cfg.Mode), log)
	etaEngine := eta.New(string(cfg.Mode), log)

	trackerService := tracker.New(
		driverRepo, orderRepo, hotspotRepo, storeRepo, historyRepo,
		positions, fleet, routeService, etaEngine, txManager,
		tracker.Config{
			ServiceName:     string(cfg.Mode),
			ArrivalRadiusM:  cfg.Tracking.ArrivalRadiusM,
			HotspotCooldown: cfg.Tracking.HotspotCooldown,
			NearbyRadiusKm:  cfg.Tracking.NearbyRadiusKm,
		},
		log,
	)

	authService := auth.NewTokenService(cfg.Auth.JWTSecret, log)
	hub := ws.NewConnHub(log)
	driverSocket := wshandler.NewDriverSocket(hub, trackerService, string(cfg.Mode), log)

	httpServer, err := server.New(cfg, server.Deps{
		Tracker:  trackerService,
		Location: locationService,
		Orders:   trackerService,
		Stores:   trackerService,
		Geocoder: locationService,
		Auth:     authService,
		DriverWS: driverSocket,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return &TrackingService{
		postgresDB:       postgresDB,
		redisDB:          redisDB,
		rabbitMQ:         rabbitMQ,
		httpServer:       httpServer,
		tracker:          trackerService,
		snapshotInterval: cfg.Tracking.SnapshotInterval,
		cfg:              cfg,
		log:              log,
	}, nil
}

func (s *TrackingService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	go s.publishLoop(ctx)

	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "tracking service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "tracking service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

// publishLoop republishes full fleet snapshots on a timer. Writes also
// publish eagerly; the timer covers consumers that joined late or
// dropped a message.
func (s *TrackingService) publishLoop(ctx context.Context) {
	interval := s.snapshotInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.tracker.PublishSnapshots(ctx); err != nil {
				s.log.Warn(ctx, "periodic snapshot publish failed", "err", err.Error())
			}
		}
	}
}

func (s *TrackingService) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.rabbitMQ != nil {
		if err := s.rabbitMQ.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq connection", "error", err.Error())
		}
	}

	if s.redisDB != nil {
		if err := s.redisDB.Close(); err != nil {
			s.log.Warn(ctx, "Failed to close redis connection", "error", err.Error())
		}
	}

	if s.postgresDB != nil && s.postgresDB.Pool != nil {
		s.postgresDB.Pool.Close()
	}
}

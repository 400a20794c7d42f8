package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/acucaradas/delivery-tracking-system/config"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/googlemaps"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/http/server"
	wshandler "github.com/acucaradas/delivery-tracking-system/internal/adapter/http/ws"
	repo "github.com/acucaradas/delivery-tracking-system/internal/adapter/postgres"
	broker "github.com/acucaradas/delivery-tracking-system/internal/adapter/rabbit"
	"github.com/acucaradas/delivery-tracking-system/internal/service/auth"
	"github.com/acucaradas/delivery-tracking-system/internal/service/monitor"
	"github.com/acucaradas/delivery-tracking-system/internal/service/route"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	"github.com/acucaradas/delivery-tracking-system/pkg/postgres"
	"github.com/acucaradas/delivery-tracking-system/pkg/rabbit"
	ws "github.com/acucaradas/delivery-tracking-system/pkg/wsHub"
)

// MonitorService is the console side: it consumes fleet snapshots,
// runs the scene aggregator, and serves the operator map.
type MonitorService struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	fleet      *broker.FleetBroker
	httpServer *server.API
	monitor    *monitor.Service

	cfg config.Config
	log logger.Logger
}

func NewMonitor(ctx context.Context, cfg config.Config, log logger.Logger) (*MonitorService, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
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

	storeRepo := repo.NewStoreRepo(postgresDB.Pool)
	directions := googlemaps.NewDirections(cfg.Providers.DirectionsAPIKey, cfg.Providers.DirectionsBaseURL, cfg.Providers.RequestTimeout)
	routeService := route.New(directions, string(cfg.Mode), log)

	hub := ws.NewConnHub(log)
	monitorService := monitor.New(routeService, storeRepo, hub, string(cfg.Mode), log)

	authService := auth.NewTokenService(cfg.Auth.JWTSecret, log)
	consoleSocket := wshandler.NewConsoleSocket(hub, monitorService, string(cfg.Mode), log)

	httpServer, err := server.New(cfg, server.Deps{
		Monitor:   monitorService,
		Auth:      authService,
		ConsoleWS: consoleSocket,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return &MonitorService{
		postgresDB: postgresDB,
		rabbitMQ:   rabbitMQ,
		fleet:      fleet,
		httpServer: httpServer,
		monitor:    monitorService,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *MonitorService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		if err := s.monitor.Run(ctx); err != nil && ctx.Err() == nil {
			errCh <- err
		}
	}()

	go s.consume(ctx, errCh, func() error {
		return s.fleet.ConsumeDriverSnapshots(ctx, s.monitor.ApplyDriverSnapshot)
	})
	go s.consume(ctx, errCh, func() error {
		return s.fleet.ConsumeOrderSnapshots(ctx, s.monitor.ApplyOrderSnapshot)
	})
	go s.consume(ctx, errCh, func() error {
		return s.fleet.ConsumeHotspotSnapshots(ctx, s.monitor.ApplyHotspotSnapshot)
	})

	s.httpServer.Run(ctx, errCh)

	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "monitor service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "monitor service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (s *MonitorService) consume(ctx context.Context, errCh chan<- error, fn func() error) {
	if err := fn(); err != nil && ctx.Err() == nil {
		errCh <- err
	}
}

func (s *MonitorService) close(ctx context.Context) {
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

	if s.postgresDB != nil && s.postgresDB.Pool != nil {
		s.postgresDB.Pool.Close()
	}
}

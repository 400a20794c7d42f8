package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/acucaradas/delivery-tracking-system/config"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/http/handler"
	"github.com/acucaradas/delivery-tracking-system/internal/adapter/http/middleware"
	wshandler "github.com/acucaradas/delivery-tracking-system/internal/adapter/http/ws"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

// handlers carries the route set for whichever mode the process runs
// in; unused slots stay nil.
type handlers struct {
	health  *handler.Health
	driver  *handler.Driver
	order   *handler.Order
	store   *handler.Store
	console *handler.Console

	driverWS  *wshandler.DriverSocket
	consoleWS *wshandler.ConsoleSocket
}

type Deps struct {
	Tracker  handler.TrackerService
	Location handler.LocationService
	Orders   handler.OrderQueries
	Stores   handler.StoreQueries
	Geocoder handler.Geocoder
	Monitor  handler.MonitorService
	Auth     middleware.AuthService

	DriverWS  *wshandler.DriverSocket
	ConsoleWS *wshandler.ConsoleSocket
}

func New(cfg config.Config, deps Deps, log logger.Logger) (*API, error) {
	if deps.Auth == nil {
		return nil, errors.New("auth service is required")
	}

	var addr string
	routes := &handlers{
		health: handler.NewHealth(string(cfg.Mode), log),
	}

	switch cfg.Mode {
	case types.TrackingService:
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.TrackingService)
		routes.driver = handler.NewDriver(deps.Tracker, deps.Location, log)
		routes.order = handler.NewOrder(deps.Orders, log)
		routes.store = handler.NewStore(deps.Stores, deps.Geocoder, log)
		routes.driverWS = deps.DriverWS
	case types.MonitorService:
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.MonitorService)
		routes.console = handler.NewConsole(deps.Monitor, log)
		routes.consoleWS = deps.ConsoleWS
	default:
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	api := &API{
		mode:   cfg.Mode,
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(deps.Auth, log),
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr, "mode", string(a.mode))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies the shared middleware chain to the mux
func (a *API) withMiddleware() http.Handler {
	chain := a.m.Metrics(string(a.mode))(a.mux)
	chain = a.m.Logging(chain)
	chain = a.m.Auth(chain)
	chain = a.m.RequestID(chain)
	return a.m.Recover(chain)
}

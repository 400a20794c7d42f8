package server

import (
	"context"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System health
	a.mux.HandleFunc("/health", a.routes.health.HealthCheck)

	a.setupSwaggerRoutes()
	a.mux.Handle("/metrics", promhttp.Handler())

	switch a.mode {
	case types.TrackingService:
		a.setupTrackingRoutes()
	case types.MonitorService:
		a.setupMonitorRoutes()
	}
}

// setupTrackingRoutes setups routes for the courier tracking service
func (a *API) setupTrackingRoutes() {
	a.mux.Handle("POST /drivers/{id}/fixes", a.m.RequireRoles(a.routes.driver.IngestFix, types.RoleDriver))                       // One-shot position report
	a.mux.Handle("POST /drivers/{id}/availability", a.m.RequireRoles(a.routes.driver.SetAvailability, types.RoleDriver))          // Availability toggle
	a.mux.Handle("POST /drivers/{id}/location-denied", a.m.RequireRoles(a.routes.driver.ReportPermissionDenied, types.RoleDriver)) // Device refused location access
	a.mux.Handle("GET /drivers/{id}/position", a.m.RequireRoles(a.routes.driver.CurrentPosition, types.RoleOperator, types.RoleAdmin))
	a.mux.Handle("GET /drivers/{id}/route", a.m.RequireRoles(a.routes.driver.DailyRoute, types.RoleOperator, types.RoleAdmin)) // Historical playback

	a.mux.HandleFunc("GET /orders/{id}/eta", a.routes.order.ETA) // Consumed by order-status and notification collaborators
	a.mux.Handle("GET /orders/{id}/candidate-driver", a.m.RequireRoles(a.routes.order.CandidateDriver, types.RoleOperator, types.RoleAdmin))

	a.mux.HandleFunc("GET /stores/nearby", a.routes.store.Nearby) // Public storefront ranking

	a.mux.HandleFunc("GET /ws/drivers/{id}", a.routes.driverWS.Serve) // Streaming fix ingest
}

// setupMonitorRoutes setups routes for the operator console service
func (a *API) setupMonitorRoutes() {
	a.mux.Handle("POST /console/focus", a.m.RequireRoles(a.routes.console.Focus, types.RoleOperator, types.RoleAdmin))
	a.mux.Handle("POST /console/unfocus", a.m.RequireRoles(a.routes.console.Unfocus, types.RoleOperator, types.RoleAdmin))
	a.mux.Handle("GET /console/scene", a.m.RequireRoles(a.routes.console.Scene, types.RoleOperator, types.RoleAdmin))

	a.mux.HandleFunc("GET /ws/console", a.routes.consoleWS.Serve) // Live scene push
}

// setupSwaggerRoutes configures the Swagger UI endpoint for the mode
func (a *API) setupSwaggerRoutes() {
	var instanceName string

	switch a.mode {
	case types.TrackingService:
		instanceName = "tracking"
	case types.MonitorService:
		instanceName = "monitor"
	default:
		a.log.Warn(wrap.WithAction(context.Background(), "setup_swagger_routes"), "unknown service mode for swagger setup", "mode", a.mode)
		return
	}

	swaggerURL := httpSwagger.InstanceName(instanceName)
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

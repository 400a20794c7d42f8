package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	ActiveOrdersGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "active_orders_total",
			Help: "Current number of active delivery orders",
		},
		[]string{"service"},
	)

	DriversOnlineGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drivers_online_total",
			Help: "Current number of available drivers",
		},
		[]string{"service"},
	)

	DriverFixesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "driver_fixes_ingested_total",
			Help: "Total number of driver location fixes ingested",
		},
		[]string{"service", "status"},
	)

	RouteResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_resolutions_total",
			Help: "Total number of route provider resolutions",
		},
		[]string{"service", "provider", "status"},
	)

	RouteResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "route_resolution_duration_seconds",
			Help:    "Route provider resolution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "provider"},
	)

	ETAFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eta_fallbacks_total",
			Help: "Total number of ETA computations that fell back to the default delivery estimate",
		},
		[]string{"service"},
	)

	SceneRebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scene_rebuilds_total",
			Help: "Total number of console scene rebuilds, by trigger",
		},
		[]string{"service", "trigger"},
	)

	StaleRouteDropsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_route_drops_total",
			Help: "Total number of focused route results discarded because the selection changed",
		},
		[]string{"service"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueriesTotal.WithLabelValues(service, operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRouteResolution records a route provider call outcome
func RecordRouteResolution(service, provider string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RouteResolutionsTotal.WithLabelValues(service, provider, status).Inc()
	RouteResolutionDuration.WithLabelValues(service, provider).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(service, queue, status).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesConsumed.WithLabelValues(service, queue, status).Inc()
}

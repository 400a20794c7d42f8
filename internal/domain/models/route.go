package models

import (
	"time"

	"github.com/google/uuid"
)

// RouteResult is a resolved road path between two points. Produced fresh
// per request and never persisted; the monitor holds at most one focused
// route in memory at a time.
type RouteResult struct {
	Points          []GeoCoordinate `json:"points"`
	DistanceMeters  int             `json:"distance_meters"`
	DurationSeconds int             `json:"duration_seconds"`
}

// RoutePair is one origin/destination request in a batch.
type RoutePair struct {
	Origin      GeoCoordinate `json:"origin"`
	Destination GeoCoordinate `json:"destination"`
}

// RouteFix is a single historical position sample of a courier.
type RouteFix struct {
	Coordinate GeoCoordinate `json:"coordinate"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// DailyRoute is the read-only historical track of one courier for one
// calendar day, used for playback.
type DailyRoute struct {
	DriverID        uuid.UUID  `json:"driver_id"`
	Date            string     `json:"date"` // YYYY-MM-DD
	Fixes           []RouteFix `json:"fixes"`
	TotalDistanceKm float64    `json:"total_distance_km"`
}

// LoadTestReport summarizes a synthetic batch run against the directions
// provider. Capacity-planning tool, not part of the request path.
type LoadTestReport struct {
	Requests       int           `json:"requests"`
	Successful     int           `json:"successful"`
	Failed         int           `json:"failed"`
	SuccessRate    float64       `json:"success_rate"`
	FailureRate    float64       `json:"failure_rate"`
	AverageLatency time.Duration `json:"average_latency"`
}

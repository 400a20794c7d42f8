package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
)

// Hotspot is a geofenced zone with elevated unmet delivery demand.
// Read-only for this subsystem; toggled active/inactive externally.
type Hotspot struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Center       GeoCoordinate     `json:"center"`
	RadiusMeters float64           `json:"radius_meters"`
	DemandLevel  types.DemandLevel `json:"demand_level"`
	Active       bool              `json:"active"`
	Message      string            `json:"message,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

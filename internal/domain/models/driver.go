package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
)

type Driver struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	VehicleKind       types.VehicleKind `json:"vehicle_kind"`
	IsAvailable       bool              `json:"is_available"`
	Position          *GeoCoordinate    `json:"position,omitempty"` // nil until the first fix arrives
	PositionUpdatedAt time.Time         `json:"position_updated_at,omitzero"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// DriverFixMessage carries one position report from a courier device
// into the tracking service.
type DriverFixMessage struct {
	Type     string    `json:"type"` // "location_update"
	DriverID uuid.UUID `json:"driver_id"`

	Fix
}

// DriverWithDistance is a driver annotated with the distance to a
// reference point (store or customer), used by candidate ranking.
type DriverWithDistance struct {
	Driver
	DistanceKm float64 `json:"distance_km"`
}

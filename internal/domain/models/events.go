package models

import (
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/google/uuid"
)

// Message types carried over the fleet topic exchange and the console
// websocket.
const (
	MsgTypeLocationUpdate  = "location_update"
	MsgTypeDriverSnapshot  = "driver_snapshot"
	MsgTypeOrderSnapshot   = "order_snapshot"
	MsgTypeHotspotSnapshot = "hotspot_snapshot"
	MsgTypeScene           = "scene"
	MsgTypeProximityEvent  = "proximity_event"
)

// DriverSnapshot carries the full live driver collection. Consumers
// replace their previous state with the payload, never merge.
type DriverSnapshot struct {
	Type        string    `json:"type"`
	Drivers     []Driver  `json:"drivers"`
	GeneratedAt time.Time `json:"generated_at"`
}

// OrderSnapshot carries every active order.
type OrderSnapshot struct {
	Type        string    `json:"type"`
	Orders      []Order   `json:"orders"`
	GeneratedAt time.Time `json:"generated_at"`
}

// HotspotSnapshot carries every active hotspot.
type HotspotSnapshot struct {
	Type        string    `json:"type"`
	Hotspots    []Hotspot `json:"hotspots"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ProximityEvent is emitted when a driver crosses a geofence boundary:
// closing within the arrival radius of a delivery point, or entering a
// demand hotspot.
type ProximityEvent struct {
	Type       string            `json:"type"`
	Kind       types.MarkerKind  `json:"kind"`
	DriverID   uuid.UUID         `json:"driver_id"`
	TargetID   uuid.UUID         `json:"target_id"`
	DistanceM  float64           `json:"distance_m"`
	Demand     types.DemandLevel `json:"demand,omitempty"`
	Message    string            `json:"message,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// SceneUpdateDTO is the websocket frame pushed to the operator console.
type SceneUpdateDTO struct {
	Type  string `json:"type"`
	Scene Scene  `json:"scene"`
}

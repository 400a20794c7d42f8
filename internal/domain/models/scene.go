package models

import (
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/google/uuid"
)

// Marker colors and the route leg palette used by the console map.
const (
	ColorStore      = "#FF9800"
	ColorDriver     = "#3F51B5"
	ColorOrder      = "#9C27B0"
	ColorHotspot    = "#F44336"
	ColorToCustomer = "#4CAF50"
	ColorToStore    = "#2196F3"
)

// Marker is a single point of interest on the console map.
type Marker struct {
	Kind       types.MarkerKind `json:"kind"`
	ID         uuid.UUID        `json:"id"`
	Coordinate GeoCoordinate    `json:"coordinate"`
	Color      string           `json:"color"`
	Label      string           `json:"label,omitempty"`
}

// ScenePolyline is a rendered route overlay. DashPattern is empty for
// solid lines.
type ScenePolyline struct {
	Points      []GeoCoordinate `json:"points"`
	Color       string          `json:"color"`
	Width       int             `json:"width"`
	DashPattern []int           `json:"dash_pattern,omitempty"`
	Opacity     float64         `json:"opacity"`
}

// FocusRef identifies the entity the operator is focused on, if any.
type FocusRef struct {
	Kind types.MarkerKind `json:"kind"`
	ID   uuid.UUID        `json:"id"`
}

// Viewport is the set of coordinates the console should fit on screen.
// When Follow is true the console keeps the camera on the coordinates;
// a focused scene pins the camera instead.
type Viewport struct {
	Fit    []GeoCoordinate `json:"fit"`
	Follow bool            `json:"follow"`
}

// Scene is a full console frame: every marker and polyline to draw,
// replacing whatever the console rendered before.
type Scene struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Markers     []Marker        `json:"markers"`
	Polylines   []ScenePolyline `json:"polylines"`
	Viewport    Viewport        `json:"viewport"`
	Focus       *FocusRef       `json:"focus,omitempty"`
}

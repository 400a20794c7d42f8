package types

import "errors"

var (
	ErrDriverNotFound  = errors.New("driver not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrHotspotNotFound = errors.New("hotspot not found")
	ErrStoreNotFound   = errors.New("store not found")
	ErrRouteNotFound   = errors.New("daily route not found")

	// Device location failures, per the documented taxonomy.
	// PermissionDenied is recoverable by re-prompting the courier,
	// the other two mean no fix can be produced right now.
	ErrPermissionDenied  = errors.New("location permission denied")
	ErrDeviceUnavailable = errors.New("device location unavailable")
	ErrLocationTimeout   = errors.New("device location timed out")

	ErrMalformedOrder    = errors.New("order has no items")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrNoRouteIntent     = errors.New("selection has no routing intent")
	ErrInvalidFocusKind  = errors.New("only drivers and orders can be focused")

	ErrNotFound            = errors.New("requested item not found")
	ErrDatabaseUnavailable = errors.New("database unavailable")
)

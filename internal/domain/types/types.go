package types

type ServiceMode string

// Tracking Service - Ingests courier fixes, resolves routes and ETAs, publishes fleet snapshots
// Monitor Service - Aggregates live fleet state and serves the operator console
const (
	TrackingService ServiceMode = "tracking-service"
	MonitorService  ServiceMode = "monitor-service"
)

// Enum for order lifecycle states. Transitions are driven by the external
// order-management component; this subsystem only reads them.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderPreparing  OrderStatus = "preparing"
	OrderReady      OrderStatus = "ready"
	OrderDelivering OrderStatus = "delivering"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
		OrderDelivering, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

// Active reports whether an order in this state belongs on the live map.
func (s OrderStatus) Active() bool {
	return s == OrderDelivering || s == OrderReady
}

// Enum for courier vehicle kinds
type VehicleKind string

const (
	VehicleMotorcycle VehicleKind = "motorcycle"
	VehicleBicycle    VehicleKind = "bicycle"
	VehicleCar        VehicleKind = "car"
)

// Enum for hotspot demand levels
type DemandLevel string

const (
	DemandLow      DemandLevel = "low"
	DemandMedium   DemandLevel = "medium"
	DemandHigh     DemandLevel = "high"
	DemandCritical DemandLevel = "critical"
)

func (d DemandLevel) Valid() bool {
	switch d {
	case DemandLow, DemandMedium, DemandHigh, DemandCritical:
		return true
	default:
		return false
	}
}

// Enum for console user roles
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleOperator  UserRole = "OPERATOR"
	RoleDriver    UserRole = "DRIVER"
	RoleAnonymous UserRole = "ANONYMOUS"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleDriver:
		return true
	}
	return false
}

// Enum for map marker kinds
type MarkerKind string

const (
	MarkerStore   MarkerKind = "store"
	MarkerDriver  MarkerKind = "driver"
	MarkerOrder   MarkerKind = "order"
	MarkerHotspot MarkerKind = "hotspot"
)

// Enum for the direction of the focused route leg.
// Toward the customer renders green, toward the store (pickup) renders blue.
type LegDirection string

const (
	LegToCustomer LegDirection = "to_customer"
	LegToStore    LegDirection = "to_store"
)

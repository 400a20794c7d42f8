package tracker

import (
	"context"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/google/uuid"
)

/*=================Repositories===========================*/

type DriverRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	ListAvailable(ctx context.Context) ([]models.Driver, error)
	ListActive(ctx context.Context) ([]models.Driver, error)
	UpdatePosition(ctx context.Context, id uuid.UUID, coord models.GeoCoordinate, at time.Time) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type OrderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListActive(ctx context.Context) ([]models.Order, error)
	ListDeliveringByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Order, error)
}

type HotspotRepo interface {
	ListActive(ctx context.Context) ([]models.Hotspot, error)
}

type StoreRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListOpen(ctx context.Context) ([]models.Store, error)
}

type HistoryRepo interface {
	AppendFix(ctx context.Context, driverID uuid.UUID, fix models.Fix, recordedAt time.Time) error
	FixesForDay(ctx context.Context, driverID uuid.UUID, day time.Time) ([]models.RouteFix, error)
}

/*=================Position Store=========================*/

type PositionStore interface {
	SaveFix(ctx context.Context, driverID uuid.UUID, fix models.Fix, recordedAt time.Time) error
	MarkDenied(ctx context.Context, driverID uuid.UUID) error
}

/*=================Fleet Publisher========================*/

type FleetPublisher interface {
	PublishDriverSnapshot(ctx context.Context, msg models.DriverSnapshot) error
	PublishOrderSnapshot(ctx context.Context, msg models.OrderSnapshot) error
	PublishHotspotSnapshot(ctx context.Context, msg models.HotspotSnapshot) error
	PublishProximityEvent(ctx context.Context, msg models.ProximityEvent) error
}

/*=================Route Resolution=======================*/

type RouteResolver interface {
	Resolve(ctx context.Context, origin, dest models.GeoCoordinate) *models.RouteResult
}

/*=================ETA Engine=============================*/

type ETAEngine interface {
	Estimate(ctx context.Context, order *models.Order, route *models.RouteResult) (*models.ETAResult, error)
}

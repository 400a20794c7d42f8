package location

import (
	"context"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/google/uuid"
)

/*=================Position Store=========================*/

type PositionStore interface {
	LatestFix(ctx context.Context, driverID uuid.UUID) (models.Fix, time.Time, error)
}

/*=================External Geocoder======================*/

type GeoCoder interface {
	GetAddress(ctx context.Context, coord models.GeoCoordinate) (string, error)
	GetLocation(ctx context.Context, address string) (models.GeoCoordinate, error)
}

/*=================Geocode Cache==========================*/

type GeocodeCache interface {
	Get(ctx context.Context, coord models.GeoCoordinate) (string, bool)
	Put(ctx context.Context, coord models.GeoCoordinate, address string) error
}

/*=================Local Gazetteer========================*/

type Gazetteer interface {
	Lookup(ctx context.Context, name string) (models.GeoCoordinate, error)
}

/*=================Distance Matrix========================*/

type DistanceMatrix interface {
	RoadDistanceMeters(ctx context.Context, origin, dest models.GeoCoordinate) (int, error)
}

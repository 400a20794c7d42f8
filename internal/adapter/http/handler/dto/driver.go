package dto

import (
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/validator"
	"github.com/google/uuid"
)

// DriverFixRequest is one position report over the HTTP ingest path.
// The websocket path carries the same payload as models.DriverFixMessage.
type DriverFixRequest struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters,omitempty"`
	SpeedKmh       float64 `json:"speed_kmh,omitempty"`
	HeadingDegrees float64 `json:"heading_degrees,omitempty"`
}

func (r *DriverFixRequest) Validate(v *validator.Validator) {
	v.Check(r.Latitude >= -90 && r.Latitude <= 90, "latitude", "must be between -90 and 90")
	v.Check(r.Longitude >= -180 && r.Longitude <= 180, "longitude", "must be between -180 and 180")
	v.Check(r.AccuracyMeters >= 0, "accuracy_meters", "must not be negative")
	v.Check(r.SpeedKmh >= 0, "speed_kmh", "must not be negative")
	v.Check(r.HeadingDegrees >= 0 && r.HeadingDegrees < 360, "heading_degrees", "must be in [0, 360)")
}

func (r *DriverFixRequest) ToMessage(driverID uuid.UUID) models.DriverFixMessage {
	return models.DriverFixMessage{
		Type:     models.MsgTypeLocationUpdate,
		DriverID: driverID,
		Fix: models.Fix{
			Coordinate:     models.GeoCoordinate{Latitude: r.Latitude, Longitude: r.Longitude},
			AccuracyMeters: r.AccuracyMeters,
			SpeedKmh:       r.SpeedKmh,
			HeadingDegrees: r.HeadingDegrees,
		},
	}
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

func (r *AvailabilityRequest) Validate(v *validator.Validator) {
	v.Check(r.IsAvailable != nil, "is_available", "must be provided")
}

// PositionResponse is the live position of one courier, with a reverse
// geocoded address when one could be resolved.
type PositionResponse struct {
	DriverID   uuid.UUID            `json:"driver_id"`
	Coordinate models.GeoCoordinate `json:"coordinate"`
	Address    string               `json:"address,omitempty"`
}

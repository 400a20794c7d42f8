package dto

import (
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/validator"
	"github.com/google/uuid"
)

// FixMessage is one position report over the courier websocket.
type FixMessage struct {
	Type           string  `json:"type"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters,omitempty"`
	SpeedKmh       float64 `json:"speed_kmh,omitempty"`
	HeadingDegrees float64 `json:"heading_degrees,omitempty"`
}

func (m *FixMessage) Validate(v *validator.Validator) {
	v.Check(m.Type == models.MsgTypeLocationUpdate, "type", "must be 'location_update'")
	v.Check(m.Latitude >= -90 && m.Latitude <= 90, "latitude", "must be between -90 and 90")
	v.Check(m.Longitude >= -180 && m.Longitude <= 180, "longitude", "must be between -180 and 180")
}

func (m *FixMessage) ToMessage(driverID uuid.UUID) models.DriverFixMessage {
	return models.DriverFixMessage{
		Type:     models.MsgTypeLocationUpdate,
		DriverID: driverID,
		Fix: models.Fix{
			Coordinate:     models.GeoCoordinate{Latitude: m.Latitude, Longitude: m.Longitude},
			AccuracyMeters: m.AccuracyMeters,
			SpeedKmh:       m.SpeedKmh,
			HeadingDegrees: m.HeadingDegrees,
		},
	}
}

package models

// GeoCoordinate is an immutable geographic point in decimal degrees.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the WGS84 envelope.
func (c GeoCoordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Ranked pairs a candidate with its distance from a query point, for
// nearby filtering and sorting.
type Ranked[T any] struct {
	Item       T       `json:"item"`
	DistanceKm float64 `json:"distance_km"`
}

// Fix is a single device position report received from a courier app.
type Fix struct {
	Coordinate     GeoCoordinate `json:"coordinate"`
	AccuracyMeters float64       `json:"accuracy_meters,omitempty"`
	SpeedKmh       float64       `json:"speed_kmh,omitempty"`
	HeadingDegrees float64       `json:"heading_degrees,omitempty"`
}

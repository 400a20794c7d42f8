package models

import (
	"github.com/google/uuid"
)

// Store is a pickup/service point in the directory.
type Store struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Address    string        `json:"address"`
	Coordinate GeoCoordinate `json:"coordinate"`
	IsOpen     bool          `json:"is_open"`
}

// StoreWithDistance is a store annotated with the distance from the
// query point and a coarse delivery window, for nearby ranking.
type StoreWithDistance struct {
	Store
	DistanceKm        float64        `json:"distance_km"`
	EstimatedDelivery DeliveryWindow `json:"estimated_delivery"`
}

package models

import "time"

// ETAResult is a derived, stateless arrival estimate. Recomputed on
// demand, never cached across orders.
type ETAResult struct {
	PreparationMinutes int       `json:"preparation_minutes"`
	DeliveryMinutes    int       `json:"delivery_minutes"`
	BufferMinutes      int       `json:"buffer_minutes"`
	TotalMinutes       int       `json:"total_minutes"`
	EstimatedArrival   time.Time `json:"estimated_arrival"`
}

// DeliveryWindow is the coarse min/max delivery estimate attached to
// nearby-store listings, before an order exists.
type DeliveryWindow struct {
	MinMinutes int `json:"min_minutes"`
	MaxMinutes int `json:"max_minutes"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
)

type Order struct {
	ID                 uuid.UUID         `json:"id"`
	StoreID            uuid.UUID         `json:"store_id"`
	Status             types.OrderStatus `json:"status"`
	DeliveryCoordinate *GeoCoordinate    `json:"delivery_coordinate,omitempty"`
	AssignedDriverID   *uuid.UUID        `json:"assigned_driver_id,omitempty"`
	Items              []OrderItem       `json:"items"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UniqueItemCount returns the number of distinct products on the order.
func (o *Order) UniqueItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the summed quantity across all order lines.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

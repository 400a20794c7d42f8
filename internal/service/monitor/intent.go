package monitor

import (
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/google/uuid"
)

// routingIntent is the origin/destination pair the focused route should
// cover, plus the leg color: green when the leg heads to the customer,
// blue when it heads to the store for pickup.
type routingIntent struct {
	Start models.GeoCoordinate
	End   models.GeoCoordinate
	Color string
}

// routingIntent derives the focused route endpoints from the current
// selection and collections. ok is false when the selection yields no
// route (unknown entity, driver without an order, missing coordinates):
// the console then shows a marker-only focus.
func (s *Service) routingIntent() (routingIntent, bool) {
	if s.focus == nil {
		return routingIntent{}, false
	}

	switch s.focus.Kind {
	case types.MarkerDriver:
		return s.driverIntent(s.focus.ID)
	case types.MarkerOrder:
		return s.orderIntent(s.focus.ID)
	default:
		return routingIntent{}, false
	}
}

func (s *Service) driverIntent(driverID uuid.UUID) (routingIntent, bool) {
	driver := s.findDriver(driverID)
	if driver == nil || driver.Position == nil {
		return routingIntent{}, false
	}

	order := s.findOrderByDriver(driverID)
	if order == nil {
		return routingIntent{}, false
	}

	end, color, ok := s.legEnd(order)
	if !ok {
		return routingIntent{}, false
	}
	return routingIntent{Start: *driver.Position, End: end, Color: color}, true
}

func (s *Service) orderIntent(orderID uuid.UUID) (routingIntent, bool) {
	order := s.findOrder(orderID)
	if order == nil {
		return routingIntent{}, false
	}

	start, ok := s.legStart(order)
	if !ok {
		return routingIntent{}, false
	}
	end, color, ok := s.legEnd(order)
	if !ok || start == end {
		return routingIntent{}, false
	}
	return routingIntent{Start: start, End: end, Color: color}, true
}

// legStart is the assigned driver's position when one exists, otherwise
// the order's store.
func (s *Service) legStart(order *models.Order) (models.GeoCoordinate, bool) {
	if order.AssignedDriverID != nil {
		if d := s.findDriver(*order.AssignedDriverID); d != nil && d.Position != nil {
			return *d.Position, true
		}
	}
	if st := s.findStore(order.StoreID); st != nil {
		return st.Coordinate, true
	}
	return models.GeoCoordinate{}, false
}

// legEnd follows the status rule: a delivering order heads to the
// customer, a ready order means the courier is heading to the store.
func (s *Service) legEnd(order *models.Order) (models.GeoCoordinate, string, bool) {
	switch order.Status {
	case types.OrderDelivering:
		if order.DeliveryCoordinate == nil {
			return models.GeoCoordinate{}, "", false
		}
		return *order.DeliveryCoordinate, models.ColorToCustomer, true
	case types.OrderReady:
		if st := s.findStore(order.StoreID); st != nil {
			return st.Coordinate, models.ColorToStore, true
		}
	}
	return models.GeoCoordinate{}, "", false
}

func (s *Service) findDriver(id uuid.UUID) *models.Driver {
	for i := range s.state.drivers {
		if s.state.drivers[i].ID == id {
			return &s.state.drivers[i]
		}
	}
	return nil
}

func (s *Service) findOrder(id uuid.UUID) *models.Order {
	for i := range s.state.orders {
		if s.state.orders[i].ID == id {
			return &s.state.orders[i]
		}
	}
	return nil
}

func (s *Service) findOrderByDriver(driverID uuid.UUID) *models.Order {
	for i := range s.state.orders {
		o := &s.state.orders[i]
		if o.AssignedDriverID != nil && *o.AssignedDriverID == driverID && o.Status.Active() {
			return o
		}
	}
	return nil
}

func (s *Service) findStore(id uuid.UUID) *models.Store {
	for i := range s.state.stores {
		if s.state.stores[i].ID == id {
			return &s.state.stores[i]
		}
	}
	return nil
}

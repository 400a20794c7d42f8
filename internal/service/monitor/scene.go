package monitor

import (
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
)

// Polyline styling. The focused route is the loud one; planned-route
// overlays stay faint so the operator keeps peripheral awareness.
const (
	focusedRouteWidth   = 6
	plannedRouteWidth   = 2
	focusedRouteOpacity = 1.0
	fallbackOpacity     = 0.9
	plannedRouteOpacity = 0.35
)

var (
	fallbackDash = []int{8, 8}
	plannedDash  = []int{4, 6}
)

// buildScene derives one full console frame from the loop-owned state.
// Pure with respect to the inputs: it reads collections and selection,
// mutates nothing.
func (s *Service) buildScene(now time.Time) models.Scene {
	scene := models.Scene{
		GeneratedAt: now,
		Markers:     s.buildMarkers(),
		Focus:       s.focus,
	}

	intent, hasIntent := s.routingIntent()

	for i := range s.state.orders {
		o := &s.state.orders[i]
		if s.focus != nil && s.focus.Kind == types.MarkerOrder && s.focus.ID == o.ID {
			continue
		}
		if line, ok := s.plannedLine(o); ok {
			scene.Polylines = append(scene.Polylines, line)
		}
	}

	if hasIntent {
		scene.Polylines = append(scene.Polylines, s.focusedLine(intent))
	}

	scene.Viewport = s.buildViewport(intent, hasIntent)
	return scene
}

func (s *Service) buildMarkers() []models.Marker {
	markers := make([]models.Marker, 0,
		len(s.state.stores)+len(s.state.drivers)+len(s.state.orders)+len(s.state.hotspots))

	for _, st := range s.state.stores {
		markers = append(markers, models.Marker{
			Kind:       types.MarkerStore,
			ID:         st.ID,
			Coordinate: st.Coordinate,
			Color:      models.ColorStore,
			Label:      st.Name,
		})
	}
	for _, d := range s.state.drivers {
		if d.Position == nil {
			continue
		}
		markers = append(markers, models.Marker{
			Kind:       types.MarkerDriver,
			ID:         d.ID,
			Coordinate: *d.Position,
			Color:      models.ColorDriver,
			Label:      d.Name,
		})
	}
	for _, o := range s.state.orders {
		if o.DeliveryCoordinate == nil {
			continue
		}
		markers = append(markers, models.Marker{
			Kind:       types.MarkerOrder,
			ID:         o.ID,
			Coordinate: *o.DeliveryCoordinate,
			Color:      models.ColorOrder,
			Label:      string(o.Status),
		})
	}
	for _, h := range s.state.hotspots {
		if !h.Active {
			continue
		}
		markers = append(markers, models.Marker{
			Kind:       types.MarkerHotspot,
			ID:         h.ID,
			Coordinate: h.Center,
			Color:      models.ColorHotspot,
			Label:      string(h.DemandLevel),
		})
	}
	return markers
}

// plannedLine is the faint dashed store-to-destination overlay every
// active order carries regardless of selection.
func (s *Service) plannedLine(o *models.Order) (models.ScenePolyline, bool) {
	if o.DeliveryCoordinate == nil {
		return models.ScenePolyline{}, false
	}
	st := s.findStore(o.StoreID)
	if st == nil {
		return models.ScenePolyline{}, false
	}
	return models.ScenePolyline{
		Points:      []models.GeoCoordinate{st.Coordinate, *o.DeliveryCoordinate},
		Color:       models.ColorOrder,
		Width:       plannedRouteWidth,
		DashPattern: plannedDash,
		Opacity:     plannedRouteOpacity,
	}, true
}

// focusedLine renders the resolved path when one exists, or the dashed
// straight line between the same endpoints when it does not. The
// fallback keeps the console coherent while a fetch is in flight or
// after the directions provider declined.
func (s *Service) focusedLine(intent routingIntent) models.ScenePolyline {
	if s.route != nil && len(s.route.Points) >= 2 {
		return models.ScenePolyline{
			Points:  s.route.Points,
			Color:   intent.Color,
			Width:   focusedRouteWidth,
			Opacity: focusedRouteOpacity,
		}
	}
	return models.ScenePolyline{
		Points:      []models.GeoCoordinate{intent.Start, intent.End},
		Color:       intent.Color,
		Width:       focusedRouteWidth,
		DashPattern: fallbackDash,
		Opacity:     fallbackOpacity,
	}
}

// buildViewport fits everything when following, or pins the focused
// route (or the focused entity alone) when an operator has selected
// something.
func (s *Service) buildViewport(intent routingIntent, hasIntent bool) models.Viewport {
	if s.focus == nil {
		return models.Viewport{Fit: s.followFit(), Follow: true}
	}
	if hasIntent {
		return models.Viewport{Fit: []models.GeoCoordinate{intent.Start, intent.End}}
	}
	if coord, ok := s.focusCoordinate(); ok {
		return models.Viewport{Fit: []models.GeoCoordinate{coord}}
	}
	return models.Viewport{Fit: s.followFit()}
}

func (s *Service) followFit() []models.GeoCoordinate {
	fit := make([]models.GeoCoordinate, 0,
		len(s.state.stores)+len(s.state.drivers)+len(s.state.orders))

	for _, st := range s.state.stores {
		fit = append(fit, st.Coordinate)
	}
	for _, d := range s.state.drivers {
		if d.Position != nil {
			fit = append(fit, *d.Position)
		}
	}
	for _, o := range s.state.orders {
		if o.DeliveryCoordinate != nil {
			fit = append(fit, *o.DeliveryCoordinate)
		}
	}
	return fit
}

func (s *Service) focusCoordinate() (models.GeoCoordinate, bool) {
	switch s.focus.Kind {
	case types.MarkerDriver:
		if d := s.findDriver(s.focus.ID); d != nil && d.Position != nil {
			return *d.Position, true
		}
	case types.MarkerOrder:
		if o := s.findOrder(s.focus.ID); o != nil && o.DeliveryCoordinate != nil {
			return *o.DeliveryCoordinate, true
		}
	}
	return models.GeoCoordinate{}, false
}

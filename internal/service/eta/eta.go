package eta

import (
	"context"
	"math"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
)

const (
	basePreparationMinutes = 15
	minutesPerUniqueItem   = 5
	minutesPerExtraItem    = 2
	bulkQuantityThreshold  = 5
	maxPreparationMinutes  = 90

	peakMultiplier    = 1.6
	offPeakMultiplier = 1.2

	defaultDeliveryMinutes = 20
	bufferMinutes          = 5
)

// Engine is the ETA heuristic calculator. One long-lived instance is
// constructed at wiring time and shared; it holds no per-order state.
type Engine struct {
	service string
	now     func() time.Time
	l       logger.Logger
}

func New(service string, l logger.Logger) *Engine {
	return &Engine{
		service: service,
		now:     time.Now,
		l:       l,
	}
}

// Estimate computes the arrival estimate for an order. route may be nil
// (no resolved path); that degrades to the default delivery time, it is
// never an error. A malformed order (zero items) is an error: callers
// must treat it as "ETA unknown".
func (e *Engine) Estimate(ctx context.Context, order *models.Order, route *models.RouteResult) (*models.ETAResult, error) {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, order.ID.String()), "estimate_eta")

	if order.UniqueItemCount() == 0 {
		e.l.Warn(ctx, "order with no items reached the eta engine")
		return nil, types.ErrMalformedOrder
	}

	now := e.now()

	prep := preparationMinutes(order)
	mult := trafficMultiplier(now.Hour())

	var delivery int
	if route != nil && route.DurationSeconds > 0 {
		delivery = int(math.Ceil(float64(route.DurationSeconds) / 60 * mult))
	} else {
		delivery = defaultDeliveryMinutes
		metrics.ETAFallbacksTotal.WithLabelValues(e.service).Inc()
		e.l.Debug(wrap.WithAction(ctx, types.ActionProviderFallback),
			"no resolved route, using default delivery time",
			"default_minutes", defaultDeliveryMinutes,
		)
	}

	total := prep + delivery + bufferMinutes

	return &models.ETAResult{
		PreparationMinutes: prep,
		DeliveryMinutes:    delivery,
		BufferMinutes:      bufferMinutes,
		TotalMinutes:       total,
		EstimatedArrival:   now.Add(time.Duration(total) * time.Minute),
	}, nil
}

func preparationMinutes(order *models.Order) int {
	prep := basePreparationMinutes +
		order.UniqueItemCount()*minutesPerUniqueItem +
		max(0, order.TotalQuantity()-bulkQuantityThreshold)*minutesPerExtraItem

	return min(prep, maxPreparationMinutes)
}

// trafficMultiplier reads the clock hour per call, never cached: an
// estimate straddling the peak boundary must use the current hour.
func trafficMultiplier(hour int) float64 {
	if (hour >= 11 && hour <= 14) || (hour >= 18 && hour <= 21) {
		return peakMultiplier
	}
	return offPeakMultiplier
}

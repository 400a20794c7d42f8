package eta

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	"github.com/google/uuid"
)

func newTestEngine(at time.Time) *Engine {
	engine := New("test", logger.InitLogger("test", logger.LevelError))
	engine.now = func() time.Time { return at }
	return engine
}

func orderWith(unique, totalQty int) *models.Order {
	items := make([]models.OrderItem, 0, unique)
	remaining := totalQty
	for i := 0; i < unique; i++ {
		qty := 1
		if i == unique-1 {
			qty = remaining
		}
		remaining -= qty
		items = append(items, models.OrderItem{ProductID: string(rune('a' + i)), Quantity: qty})
	}
	return &models.Order{ID: uuid.New(), Status: types.OrderDelivering, Items: items}
}

func TestEstimate_PeakWithRoute(t *testing.T) {
	// 12:00 is a lunch-peak hour: multiplier 1.6
	noon := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(noon)

	order := orderWith(3, 4)
	route := &models.RouteResult{DurationSeconds: 600}

	result, err := engine.Estimate(context.Background(), order, route)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	if result.PreparationMinutes != 30 {
		t.Errorf("PreparationMinutes = %d, want 30", result.PreparationMinutes)
	}
	if result.DeliveryMinutes != 16 {
		t.Errorf("DeliveryMinutes = %d, want 16 (ceil(10*1.6))", result.DeliveryMinutes)
	}
	if result.TotalMinutes != 51 {
		t.Errorf("TotalMinutes = %d, want 51", result.TotalMinutes)
	}
	wantArrival := noon.Add(51 * time.Minute)
	if !result.EstimatedArrival.Equal(wantArrival) {
		t.Errorf("EstimatedArrival = %v, want %v", result.EstimatedArrival, wantArrival)
	}
}

func TestEstimate_NoRouteUsesDefault(t *testing.T) {
	noon := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(noon)

	result, err := engine.Estimate(context.Background(), orderWith(3, 4), nil)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	if result.DeliveryMinutes != 20 {
		t.Errorf("DeliveryMinutes = %d, want default 20", result.DeliveryMinutes)
	}
	if result.TotalMinutes != 55 {
		t.Errorf("TotalMinutes = %d, want 55 (30+20+5)", result.TotalMinutes)
	}
}

func TestEstimate_OffPeakMultiplier(t *testing.T) {
	// 09:00 is off-peak: multiplier 1.2
	morning := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	engine := newTestEngine(morning)

	result, err := engine.Estimate(context.Background(), orderWith(1, 1), &models.RouteResult{DurationSeconds: 600})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	if result.DeliveryMinutes != 12 {
		t.Errorf("DeliveryMinutes = %d, want 12 (ceil(10*1.2))", result.DeliveryMinutes)
	}
}

func TestEstimate_PreparationClamp(t *testing.T) {
	engine := newTestEngine(time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	// 20 unique items, quantity 40: raw prep 15+100+70 clamps to 90
	result, err := engine.Estimate(context.Background(), orderWith(20, 40), nil)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if result.PreparationMinutes != 90 {
		t.Errorf("PreparationMinutes = %d, want clamp at 90", result.PreparationMinutes)
	}
}

func TestEstimate_MonotonicInQuantity(t *testing.T) {
	engine := newTestEngine(time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	previous := 0
	for qty := 1; qty <= 50; qty++ {
		result, err := engine.Estimate(context.Background(), orderWith(1, qty), nil)
		if err != nil {
			t.Fatalf("Estimate() error = %v at qty %d", err, qty)
		}
		if result.PreparationMinutes < previous {
			t.Fatalf("preparation decreased from %d to %d at qty %d", previous, result.PreparationMinutes, qty)
		}
		previous = result.PreparationMinutes
	}
}

func TestEstimate_MalformedOrder(t *testing.T) {
	engine := newTestEngine(time.Now())

	order := &models.Order{ID: uuid.New(), Status: types.OrderDelivering}
	if _, err := engine.Estimate(context.Background(), order, nil); !errors.Is(err, types.ErrMalformedOrder) {
		t.Errorf("Estimate() error = %v, want ErrMalformedOrder", err)
	}
}

func TestTrafficMultiplier_Boundaries(t *testing.T) {
	tests := []struct {
		hour int
		want float64
	}{
		{10, 1.2},
		{11, 1.6},
		{14, 1.6},
		{15, 1.2},
		{17, 1.2},
		{18, 1.6},
		{21, 1.6},
		{22, 1.2},
	}

	for _, tt := range tests {
		if got := trafficMultiplier(tt.hour); got != tt.want {
			t.Errorf("trafficMultiplier(%d) = %f, want %f", tt.hour, got, tt.want)
		}
	}
}

package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
	"github.com/acucaradas/delivery-tracking-system/pkg/rabbit"
)

const (
	ExchangeFleetTopic = "fleet_topic"

	QueueDriverSnapshots  = "fleet_driver_snapshots"
	QueueOrderSnapshots   = "fleet_order_snapshots"
	QueueHotspotSnapshots = "fleet_hotspot_snapshots"
	QueueProximityEvents  = "fleet_proximity_events"

	KeyDriverSnapshot  = "fleet.snapshot.drivers"
	KeyOrderSnapshot   = "fleet.snapshot.orders"
	KeyHotspotSnapshot = "fleet.snapshot.hotspots"
	KeyProximityEvent  = "fleet.event.proximity"
)

// FleetBroker publishes and consumes fleet state over the fleet topic
// exchange. Every snapshot message carries a FULL collection; consumers
// replace their state instead of merging.
type FleetBroker struct {
	client  *rabbit.RabbitMQ
	service string
	l       logger.Logger
}

func NewFleetBroker(client *rabbit.RabbitMQ, service string, l logger.Logger) *FleetBroker {
	return &FleetBroker{
		client:  client,
		service: service,
		l:       l,
	}
}

// Setup declares the exchange, the queues, and their bindings.
func (r *FleetBroker) Setup(ctx context.Context) error {
	const op = "FleetBroker.Setup"

	if err := r.client.Channel.ExchangeDeclare(ExchangeFleetTopic, "topic", true, false, false, false, nil); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to declare exchange: %w", op, err))
	}

	bindings := map[string]string{
		QueueDriverSnapshots:  KeyDriverSnapshot,
		QueueOrderSnapshots:   KeyOrderSnapshot,
		QueueHotspotSnapshots: KeyHotspotSnapshot,
		QueueProximityEvents:  KeyProximityEvent,
	}

	for queue, key := range bindings {
		if _, err := r.client.Channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return wrap.Error(ctx, fmt.Errorf("%s: failed to declare queue %s: %w", op, queue, err))
		}
		if err := r.client.Channel.QueueBind(queue, key, ExchangeFleetTopic, false, nil); err != nil {
			return wrap.Error(ctx, fmt.Errorf("%s: failed to bind queue %s: %w", op, queue, err))
		}
	}

	return nil
}

func (r *FleetBroker) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		Timestamp:     time.Now(),
		CorrelationId: wrap.GetRequestID(ctx),
	}

	err = retry(5, time.Second*2,
		func() error {
			return r.client.Channel.PublishWithContext(
				ctx,
				ExchangeFleetTopic,
				routingKey,
				false,
				false,
				pub,
			)
		})

	metrics.RecordRabbitMQPublish(r.service, routingKey, err)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (r *FleetBroker) PublishDriverSnapshot(ctx context.Context, msg models.DriverSnapshot) error {
	ctx = wrap.WithAction(ctx, types.ActionSnapshotPublished)
	if err := r.publish(ctx, KeyDriverSnapshot, msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

func (r *FleetBroker) PublishOrderSnapshot(ctx context.Context, msg models.OrderSnapshot) error {
	ctx = wrap.WithAction(ctx, types.ActionSnapshotPublished)
	if err := r.publish(ctx, KeyOrderSnapshot, msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

func (r *FleetBroker) PublishHotspotSnapshot(ctx context.Context, msg models.HotspotSnapshot) error {
	ctx = wrap.WithAction(ctx, types.ActionSnapshotPublished)
	if err := r.publish(ctx, KeyHotspotSnapshot, msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

func (r *FleetBroker) PublishProximityEvent(ctx context.Context, msg models.ProximityEvent) error {
	ctx = wrap.WithAction(ctx, "publish_proximity_event")
	ctx = wrap.WithDriverID(ctx, msg.DriverID.String())
	if err := r.publish(ctx, KeyProximityEvent, msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

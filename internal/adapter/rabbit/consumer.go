package rabbit

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
)

type (
	DriverSnapshotHandler  func(ctx context.Context, msg models.DriverSnapshot) error
	OrderSnapshotHandler   func(ctx context.Context, msg models.OrderSnapshot) error
	HotspotSnapshotHandler func(ctx context.Context, msg models.HotspotSnapshot) error
)

// ConsumeDriverSnapshots blocks, feeding each driver snapshot to fn.
// It reconnects on channel loss and returns when ctx is done.
func (r *FleetBroker) ConsumeDriverSnapshots(ctx context.Context, fn DriverSnapshotHandler) error {
	return consumeLoop(ctx, r, QueueDriverSnapshots, fn)
}

func (r *FleetBroker) ConsumeOrderSnapshots(ctx context.Context, fn OrderSnapshotHandler) error {
	return consumeLoop(ctx, r, QueueOrderSnapshots, fn)
}

func (r *FleetBroker) ConsumeHotspotSnapshots(ctx context.Context, fn HotspotSnapshotHandler) error {
	return consumeLoop(ctx, r, QueueHotspotSnapshots, fn)
}

// consumeLoop is the shared consumer skeleton: ensure connection,
// subscribe, decode, hand off, reconnect on failure.
func consumeLoop[T any](ctx context.Context, r *FleetBroker, queue string, fn func(context.Context, T) error) error {
	const op = "FleetBroker.consumeLoop"

	for {
		if ctx.Err() != nil {
			r.l.Debug(ctx, "consumer stopped by context", "queue", queue)
			return nil
		}

		if err := r.client.EnsureConnection(ctx); err != nil {
			r.l.Error(ctx, "ensure connection failed", err, "op", op, "queue", queue)
			time.Sleep(2 * time.Second)
			continue
		}

		msgs, err := r.client.Channel.Consume(queue, "", false, false, false, false, nil)
		if err != nil {
			r.l.Error(ctx, "consume failed", err, "op", op, "queue", queue)
			time.Sleep(2 * time.Second)
			continue
		}

		r.l.Info(ctx, "start consuming", "queue", queue)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				r.l.Info(ctx, "consumer shutting down", "op", op, "queue", queue)
				return nil

			case msg, ok := <-msgs:
				if !ok {
					r.l.Warn(ctx, "message channel closed, reconnecting...", "op", op, "queue", queue)
					time.Sleep(2 * time.Second)
					break consumeLoop
				}

				handleDelivery(ctx, r, queue, msg, fn)
			}
		}
	}
}

func handleDelivery[T any](ctx context.Context, r *FleetBroker, queue string, msg amqp.Delivery, fn func(context.Context, T) error) {
	var payload T
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		r.l.Error(ctx, "decode failed", err, "queue", queue)
		metrics.RecordRabbitMQConsume(r.service, queue, err)
		_ = msg.Nack(false, false)
		return
	}

	ctxx := wrap.WithAction(wrap.WithRequestID(ctx, msg.CorrelationId), types.ActionSnapshotConsumed)

	err := fn(ctxx, payload)
	metrics.RecordRabbitMQConsume(r.service, queue, err)
	if err != nil {
		r.l.Error(ctxx, "failed to handle message", err, "queue", queue)
		_ = msg.Nack(false, isRecoverableError(err))
		return
	}

	_ = msg.Ack(false)
}

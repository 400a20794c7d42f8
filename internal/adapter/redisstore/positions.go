package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	rds "github.com/acucaradas/delivery-tracking-system/pkg/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PositionStore keeps the freshest fix per driver in Redis, with a TTL
// so stale fixes age out instead of being served as live positions.
type PositionStore struct {
	client *rds.Client
	fixTTL time.Duration
}

func NewPositionStore(client *rds.Client, fixTTL time.Duration) *PositionStore {
	return &PositionStore{
		client: client,
		fixTTL: fixTTL,
	}
}

type storedFix struct {
	Fix        models.Fix `json:"fix"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// deniedMarker is stored instead of a fix when the driver device
// reported that location permission was refused.
const deniedMarker = "denied"

func positionKey(driverID uuid.UUID) string {
	return fmt.Sprintf("driver:position:%s", driverID)
}

// SaveFix stores the latest fix for a driver, replacing any denied marker.
func (s *PositionStore) SaveFix(ctx context.Context, driverID uuid.UUID, fix models.Fix, recordedAt time.Time) error {
	const op = "PositionStore.SaveFix"

	payload, err := json.Marshal(storedFix{Fix: fix, RecordedAt: recordedAt})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, positionKey(driverID), payload, s.fixTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkDenied records that the driver device refused location permission.
func (s *PositionStore) MarkDenied(ctx context.Context, driverID uuid.UUID) error {
	const op = "PositionStore.MarkDenied"

	if err := s.client.Set(ctx, positionKey(driverID), deniedMarker, s.fixTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LatestFix returns the freshest stored fix for a driver.
// Mapped errors: ErrPermissionDenied for a denied marker,
// ErrDeviceUnavailable when no fix was ever recorded (or it aged out),
// ErrLocationTimeout when ctx expired while reading.
func (s *PositionStore) LatestFix(ctx context.Context, driverID uuid.UUID) (models.Fix, time.Time, error) {
	const op = "PositionStore.LatestFix"

	raw, err := s.client.Get(ctx, positionKey(driverID)).Result()
	switch {
	case err == redis.Nil:
		return models.Fix{}, time.Time{}, types.ErrDeviceUnavailable
	case ctx.Err() != nil:
		return models.Fix{}, time.Time{}, types.ErrLocationTimeout
	case err != nil:
		return models.Fix{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	if raw == deniedMarker {
		return models.Fix{}, time.Time{}, types.ErrPermissionDenied
	}

	var stored storedFix
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return models.Fix{}, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return stored.Fix, stored.RecordedAt, nil
}

package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	rds "github.com/acucaradas/delivery-tracking-system/pkg/redis"
	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"
)

// geohashPrecision 7 gives ~150 m cells, fine-grained enough that one
// cached address per cell stays truthful for display purposes.
const geohashPrecision = 7

// GeocodeCache caches reverse-geocode results keyed by geohash cell, so
// nearby lookups reuse the provider answer instead of repeating calls.
type GeocodeCache struct {
	client *rds.Client
	ttl    time.Duration
}

func NewGeocodeCache(client *rds.Client, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(coord models.GeoCoordinate) string {
	cell := geohash.EncodeWithPrecision(coord.Latitude, coord.Longitude, geohashPrecision)
	return fmt.Sprintf("geocode:reverse:%s", cell)
}

// Get returns the cached address for the coordinate's cell, or ("", false).
func (c *GeocodeCache) Get(ctx context.Context, coord models.GeoCoordinate) (string, bool) {
	address, err := c.client.Get(ctx, cacheKey(coord)).Result()
	if err == redis.Nil || err != nil {
		return "", false
	}
	return address, true
}

// Put stores the resolved address for the coordinate's cell.
func (c *GeocodeCache) Put(ctx context.Context, coord models.GeoCoordinate, address string) error {
	const op = "GeocodeCache.Put"

	if err := c.client.Set(ctx, cacheKey(coord), address, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

type Config interface {
	Addr() string
}

// Options carry the optional connection settings.
type Options struct {
	Password string
	DB       int
}

func New(ctx context.Context, config Config, opts Options) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr(),
		Password: opts.Password,
		DB:       opts.DB,
	})

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{Client: client}, nil
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/configparser"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Log       LogConfig
		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		Redis     RedisConfig
		Providers ProvidersConfig
		Services  ServicesConfig
		Auth      Auth
		Tracking  TrackingConfig
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"DEBUG"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"delivery_user"`
		Password string `env:"DATABASE_PASSWORD" default:"delivery_pass"`
		Database string `env:"DATABASE_DATABASE" default:"delivery_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	RedisConfig struct {
		Host     string `env:"REDIS_HOST" default:"localhost"`
		Port     string `env:"REDIS_PORT" default:"6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`

		// FixTTL bounds how long a stored driver fix counts as fresh.
		FixTTL time.Duration `env:"REDIS_FIX_TTL" default:"2m"`
		// GeocodeTTL bounds cached reverse-geocode results.
		GeocodeTTL time.Duration `env:"REDIS_GEOCODE_TTL" default:"24h"`
	}

	ProvidersConfig struct {
		DirectionsAPIKey  string        `env:"PROVIDERS_DIRECTIONS_API_KEY"`
		DirectionsBaseURL string        `env:"PROVIDERS_DIRECTIONS_BASE_URL" default:"https://maps.googleapis.com/maps/api/directions/json"`
		MatrixBaseURL     string        `env:"PROVIDERS_MATRIX_BASE_URL" default:"https://maps.googleapis.com/maps/api/distancematrix/json"`
		LocationIQAPIKey  string        `env:"PROVIDERS_LOCATIONIQ_API_KEY"`
		LocationIQBaseURL string        `env:"PROVIDERS_LOCATIONIQ_BASE_URL" default:"https://us1.locationiq.com/v1"`
		RequestTimeout    time.Duration `env:"PROVIDERS_REQUEST_TIMEOUT" default:"10s"`
	}

	ServicesConfig struct {
		TrackingService string `env:"SERVICES_TRACKING_SERVICE" default:"3000"`
		MonitorService  string `env:"SERVICES_MONITOR_SERVICE" default:"3001"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	TrackingConfig struct {
		// LocationTimeout caps how long a live position lookup may wait.
		LocationTimeout time.Duration `env:"TRACKING_LOCATION_TIMEOUT" default:"15s"`
		// ArrivalRadiusM is the geofence radius around a delivery point.
		ArrivalRadiusM float64 `env:"TRACKING_ARRIVAL_RADIUS_M" default:"500"`
		// HotspotCooldown suppresses repeated hotspot alerts per driver.
		HotspotCooldown time.Duration `env:"TRACKING_HOTSPOT_COOLDOWN" default:"30m"`
		// NearbyRadiusKm bounds the nearby-store search.
		NearbyRadiusKm float64 `env:"TRACKING_NEARBY_RADIUS_KM" default:"10"`
		// SnapshotInterval paces the periodic full-collection publish.
		SnapshotInterval time.Duration `env:"TRACKING_SNAPSHOT_INTERVAL" default:"10s"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) PoolSettings() (int32, int32) {
	return c.MaxConns, c.MinConns
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)

	return nil
}

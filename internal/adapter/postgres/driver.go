package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{
		db: db,
	}
}

func (r *DriverRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	const op = "DriverRepo.GetByID"
	query := `
		SELECT id, name, vehicle_kind, is_available,
		       latitude, longitude, position_updated_at,
		       created_at, updated_at
		FROM drivers
		WHERE id = $1`

	driver, err := scanDriver(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDriverNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return driver, nil
}

// ListAvailable returns available drivers that have reported a position.
func (r *DriverRepo) ListAvailable(ctx context.Context) ([]models.Driver, error) {
	const op = "DriverRepo.ListAvailable"
	query := `
		SELECT id, name, vehicle_kind, is_available,
		       latitude, longitude, position_updated_at,
		       created_at, updated_at
		FROM drivers
		WHERE is_available = TRUE AND latitude IS NOT NULL
		ORDER BY position_updated_at DESC`

	return r.list(ctx, op, query)
}

// ListActive returns every driver with a known position, for the live map.
func (r *DriverRepo) ListActive(ctx context.Context) ([]models.Driver, error) {
	const op = "DriverRepo.ListActive"
	query := `
		SELECT id, name, vehicle_kind, is_available,
		       latitude, longitude, position_updated_at,
		       created_at, updated_at
		FROM drivers
		WHERE latitude IS NOT NULL
		ORDER BY position_updated_at DESC`

	return r.list(ctx, op, query)
}

func (r *DriverRepo) list(ctx context.Context, op, query string) ([]models.Driver, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		drivers = append(drivers, *driver)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return drivers, nil
}

// UpdatePosition stores the newest accepted fix on the driver row.
func (r *DriverRepo) UpdatePosition(ctx context.Context, id uuid.UUID, coord models.GeoCoordinate, at time.Time) error {
	const op = "DriverRepo.UpdatePosition"
	query := `
		UPDATE drivers
		SET latitude = $2, longitude = $3, position_updated_at = $4, updated_at = now()
		WHERE id = $1`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, id, coord.Latitude, coord.Longitude, at)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	const op = "DriverRepo.SetAvailability"
	query := `
		UPDATE drivers
		SET is_available = $2, updated_at = now()
		WHERE id = $1`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, id, available)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var (
		driver    models.Driver
		lat, lng  *float64
		updatedAt *time.Time
	)

	if err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.VehicleKind,
		&driver.IsAvailable,
		&lat,
		&lng,
		&updatedAt,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		driver.Position = &models.GeoCoordinate{Latitude: *lat, Longitude: *lng}
	}
	if updatedAt != nil {
		driver.PositionUpdatedAt = *updatedAt
	}
	return &driver, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HotspotRepo struct {
	db *pgxpool.Pool
}

func NewHotspotRepo(db *pgxpool.Pool) *HotspotRepo {
	return &HotspotRepo{
		db: db,
	}
}

func (r *HotspotRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Hotspot, error) {
	const op = "HotspotRepo.GetByID"
	query := `
		SELECT id, name, center_latitude, center_longitude, radius_meters,
		       demand_level, active, message, updated_at
		FROM hotspots
		WHERE id = $1`

	hotspot, err := scanHotspot(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrHotspotNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return hotspot, nil
}

// ListActive returns every hotspot currently flagged active.
func (r *HotspotRepo) ListActive(ctx context.Context) ([]models.Hotspot, error) {
	const op = "HotspotRepo.ListActive"
	query := `
		SELECT id, name, center_latitude, center_longitude, radius_meters,
		       demand_level, active, message, updated_at
		FROM hotspots
		WHERE active = TRUE
		ORDER BY updated_at DESC`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var hotspots []models.Hotspot
	for rows.Next() {
		hotspot, err := scanHotspot(rows)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		hotspots = append(hotspots, *hotspot)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return hotspots, nil
}

func scanHotspot(row pgx.Row) (*models.Hotspot, error) {
	var hotspot models.Hotspot
	if err := row.Scan(
		&hotspot.ID,
		&hotspot.Name,
		&hotspot.Center.Latitude,
		&hotspot.Center.Longitude,
		&hotspot.RadiusMeters,
		&hotspot.DemandLevel,
		&hotspot.Active,
		&hotspot.Message,
		&hotspot.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &hotspot, nil
}

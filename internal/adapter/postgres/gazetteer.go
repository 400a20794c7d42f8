package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GazetteerRepo is the low-precision local place index used as the
// forward-geocoding fallback when the external provider is down.
type GazetteerRepo struct {
	db *pgxpool.Pool
}

func NewGazetteerRepo(db *pgxpool.Pool) *GazetteerRepo {
	return &GazetteerRepo{
		db: db,
	}
}

// Lookup resolves a free-form place name to its stored coordinate.
// Matching is case-insensitive on the indexed name.
func (r *GazetteerRepo) Lookup(ctx context.Context, name string) (models.GeoCoordinate, error) {
	const op = "GazetteerRepo.Lookup"
	query := `
		SELECT latitude, longitude
		FROM gazetteer
		WHERE lower(name) = lower($1)
		LIMIT 1`

	var coord models.GeoCoordinate
	if err := TxorDB(ctx, r.db).QueryRow(ctx, query, name).Scan(&coord.Latitude, &coord.Longitude); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.GeoCoordinate{}, types.ErrNotFound
		}
		return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return coord, nil
}

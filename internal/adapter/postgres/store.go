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

type StoreRepo struct {
	db *pgxpool.Pool
}

func NewStoreRepo(db *pgxpool.Pool) *StoreRepo {
	return &StoreRepo{
		db: db,
	}
}

func (r *StoreRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	const op = "StoreRepo.GetByID"
	query := `
		SELECT id, name, address, latitude, longitude, is_open
		FROM stores
		WHERE id = $1`

	var store models.Store
	if err := TxorDB(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&store.ID,
		&store.Name,
		&store.Address,
		&store.Coordinate.Latitude,
		&store.Coordinate.Longitude,
		&store.IsOpen,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrStoreNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return &store, nil
}

// ListOpen returns every open store; the nearby ranking filters and
// sorts in memory since the directory is store-scale, not city-scale.
func (r *StoreRepo) ListOpen(ctx context.Context) ([]models.Store, error) {
	const op = "StoreRepo.ListOpen"
	query := `
		SELECT id, name, address, latitude, longitude, is_open
		FROM stores
		WHERE is_open = TRUE
		ORDER BY name`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var store models.Store
		if err := rows.Scan(
			&store.ID,
			&store.Name,
			&store.Address,
			&store.Coordinate.Latitude,
			&store.Coordinate.Longitude,
			&store.IsOpen,
		); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return stores, nil
}

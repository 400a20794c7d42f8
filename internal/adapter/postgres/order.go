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

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{
		db: db,
	}
}

func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	const op = "OrderRepo.GetByID"
	query := `
		SELECT id, store_id, status, delivery_latitude, delivery_longitude,
		       assigned_driver_id, created_at, updated_at
		FROM orders
		WHERE id = $1`

	order, err := scanOrder(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrOrderNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if err := r.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return order, nil
}

// ListActive returns orders in the delivering or ready state, items
// included, for the live map and snapshot publishing.
func (r *OrderRepo) ListActive(ctx context.Context) ([]models.Order, error) {
	const op = "OrderRepo.ListActive"
	query := `
		SELECT id, store_id, status, delivery_latitude, delivery_longitude,
		       assigned_driver_id, created_at, updated_at
		FROM orders
		WHERE status = ANY($1)
		ORDER BY created_at`

	statuses := []string{types.OrderDelivering.String(), types.OrderReady.String()}

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, statuses)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, *order)
	}
	return result, nil
}

// ListDeliveringByDriver returns the driver's in-flight orders, for
// geofenced arrival checks.
func (r *OrderRepo) ListDeliveringByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Order, error) {
	const op = "OrderRepo.ListDeliveringByDriver"
	query := `
		SELECT id, store_id, status, delivery_latitude, delivery_longitude,
		       assigned_driver_id, created_at, updated_at
		FROM orders
		WHERE assigned_driver_id = $1 AND status = $2`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, driverID, types.OrderDelivering)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return orders, nil
}

func (r *OrderRepo) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
		byID[order.ID] = order
	}

	query := `
		SELECT order_id, product_id, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, product_id`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    models.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity); err != nil {
			return err
		}
		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order    models.Order
		lat, lng *float64
	)

	if err := row.Scan(
		&order.ID,
		&order.StoreID,
		&order.Status,
		&lat,
		&lng,
		&order.AssignedDriverID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		order.DeliveryCoordinate = &models.GeoCoordinate{Latitude: *lat, Longitude: *lng}
	}
	return &order, nil
}

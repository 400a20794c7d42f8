package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepo is the append-only driver position log backing daily
// route playback.
type HistoryRepo struct {
	db *pgxpool.Pool
}

func NewHistoryRepo(db *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{
		db: db,
	}
}

func (r *HistoryRepo) AppendFix(ctx context.Context, driverID uuid.UUID, fix models.Fix, recordedAt time.Time) error {
	const op = "HistoryRepo.AppendFix"
	query := `
		INSERT INTO driver_fixes(driver_id, latitude, longitude, accuracy_meters, speed_kmh, heading_degrees, recorded_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		driverID,
		fix.Coordinate.Latitude,
		fix.Coordinate.Longitude,
		fix.AccuracyMeters,
		fix.SpeedKmh,
		fix.HeadingDegrees,
		recordedAt,
	); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// FixesForDay returns a driver's fixes for one calendar day (UTC),
// ordered by time, for route playback.
func (r *HistoryRepo) FixesForDay(ctx context.Context, driverID uuid.UUID, day time.Time) ([]models.RouteFix, error) {
	const op = "HistoryRepo.FixesForDay"
	query := `
		SELECT latitude, longitude, recorded_at
		FROM driver_fixes
		WHERE driver_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, driverID, dayStart, dayEnd)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var fixes []models.RouteFix
	for rows.Next() {
		var fix models.RouteFix
		if err := rows.Scan(
			&fix.Coordinate.Latitude,
			&fix.Coordinate.Longitude,
			&fix.RecordedAt,
		); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		fixes = append(fixes, fix)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return fixes, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// HolidayRepository handles holiday database operations
type HolidayRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHolidayRepository creates a new holiday repository
func NewHolidayRepository(db *sql.DB, logger *zap.Logger) *HolidayRepository {
	return &HolidayRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a holiday record
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	query := `
		INSERT INTO holidays (date, name, is_tet_period, is_tet_holiday)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		holiday.Date.Format(dateFormat),
		holiday.Name,
		holiday.IsTetPeriod,
		holiday.IsTetHoliday,
	)
	if err != nil {
		r.logger.Error("Failed to create holiday", zap.Error(err))
		return fmt.Errorf("failed to create holiday: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	holiday.ID = id
	return nil
}

// ListInRange retrieves holidays whose date falls within [from, to], dates
// given as "YYYY-MM-DD"
func (r *HolidayRepository) ListInRange(ctx context.Context, from, to string) ([]models.Holiday, error) {
	query := `
		SELECT id, date, name, is_tet_period, is_tet_holiday
		FROM holidays
		WHERE date >= ? AND date <= ?
		ORDER BY date
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		r.logger.Error("Failed to list holidays", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []models.Holiday
	for rows.Next() {
		var holiday models.Holiday
		var date string

		if err := rows.Scan(&holiday.ID, &date, &holiday.Name, &holiday.IsTetPeriod, &holiday.IsTetHoliday); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}

		if holiday.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("invalid date for holiday %d: %w", holiday.ID, err)
		}

		holidays = append(holidays, holiday)
	}

	return holidays, rows.Err()
}

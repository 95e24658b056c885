package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// ScheduleRepository handles shift schedule database operations
type ScheduleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *sql.DB, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a shift schedule for a contract
func (r *ScheduleRepository) Create(ctx context.Context, sched *models.ShiftSchedule) error {
	query := `
		INSERT INTO shift_schedules (contract_id, name, start_time, end_time)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		sched.ContractID,
		sched.Name,
		sched.StartTime.String(),
		sched.EndTime.String(),
	)
	if err != nil {
		r.logger.Error("Failed to create shift schedule", zap.Error(err))
		return fmt.Errorf("failed to create shift schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	sched.ID = id
	return nil
}

// ListByContract retrieves all shift schedules for a contract
func (r *ScheduleRepository) ListByContract(ctx context.Context, contractID int64) ([]models.ShiftSchedule, error) {
	query := `
		SELECT id, contract_id, name, start_time, end_time
		FROM shift_schedules
		WHERE contract_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, contractID)
	if err != nil {
		r.logger.Error("Failed to list shift schedules", zap.Int64("contract_id", contractID), zap.Error(err))
		return nil, fmt.Errorf("failed to list shift schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.ShiftSchedule
	for rows.Next() {
		var sched models.ShiftSchedule
		var startTime, endTime string

		if err := rows.Scan(&sched.ID, &sched.ContractID, &sched.Name, &startTime, &endTime); err != nil {
			return nil, fmt.Errorf("failed to scan shift schedule: %w", err)
		}

		if sched.StartTime, err = models.ParseTimeOfDay(startTime); err != nil {
			return nil, fmt.Errorf("invalid start time for schedule %d: %w", sched.ID, err)
		}
		if sched.EndTime, err = models.ParseTimeOfDay(endTime); err != nil {
			return nil, fmt.Errorf("invalid end time for schedule %d: %w", sched.ID, err)
		}

		schedules = append(schedules, sched)
	}

	return schedules, rows.Err()
}

// GetByID retrieves a shift schedule by id. Returns nil when not found.
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.ShiftSchedule, error) {
	query := `
		SELECT id, contract_id, name, start_time, end_time
		FROM shift_schedules
		WHERE id = ?
	`

	var sched models.ShiftSchedule
	var startTime, endTime string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sched.ID, &sched.ContractID, &sched.Name, &startTime, &endTime,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get shift schedule", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get shift schedule: %w", err)
	}

	if sched.StartTime, err = models.ParseTimeOfDay(startTime); err != nil {
		return nil, fmt.Errorf("invalid start time for schedule %d: %w", id, err)
	}
	if sched.EndTime, err = models.ParseTimeOfDay(endTime); err != nil {
		return nil, fmt.Errorf("invalid end time for schedule %d: %w", id, err)
	}

	return &sched, nil
}

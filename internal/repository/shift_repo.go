package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// ShiftRepository handles dated shift database operations
type ShiftRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *sql.DB, logger *zap.Logger) *ShiftRepository {
	return &ShiftRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a shift record
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	query := `
		INSERT INTO shifts (contract_id, schedule_id, guard_id, date, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		shift.ContractID,
		shift.ScheduleID,
		shift.GuardID,
		shift.Date.Format(dateFormat),
		shift.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create shift", zap.Error(err))
		return fmt.Errorf("failed to create shift: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	shift.ID = id
	return nil
}

// ListByContract retrieves shifts for a contract within [from, to]
func (r *ShiftRepository) ListByContract(ctx context.Context, contractID int64, from, to time.Time) ([]*models.Shift, error) {
	query := `
		SELECT id, contract_id, schedule_id, guard_id, date, status, created_at, updated_at
		FROM shifts
		WHERE contract_id = ? AND date >= ? AND date <= ?
		ORDER BY date, id
	`

	rows, err := r.db.QueryContext(ctx, query, contractID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		r.logger.Error("Failed to list shifts", zap.Int64("contract_id", contractID), zap.Error(err))
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	return scanShifts(rows)
}

// ListByGuardTx retrieves a guard's shifts with the given status within
// [from, to], inside the caller's transaction
func (r *ShiftRepository) ListByGuardTx(tx *sql.Tx, guardID int64, from, to time.Time, status string) ([]*models.Shift, error) {
	query := `
		SELECT id, contract_id, schedule_id, guard_id, date, status, created_at, updated_at
		FROM shifts
		WHERE guard_id = ? AND date >= ? AND date <= ? AND status = ?
		ORDER BY date, id
	`

	rows, err := tx.Query(query, guardID, from.Format(dateFormat), to.Format(dateFormat), status)
	if err != nil {
		r.logger.Error("Failed to list guard shifts", zap.Int64("guard_id", guardID), zap.Error(err))
		return nil, fmt.Errorf("failed to list guard shifts: %w", err)
	}
	defer rows.Close()

	return scanShifts(rows)
}

// AssignGuard sets the guard on a scheduled shift
func (r *ShiftRepository) AssignGuard(ctx context.Context, shiftID, guardID int64) error {
	query := `
		UPDATE shifts
		SET guard_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, guardID, shiftID)
	if err != nil {
		r.logger.Error("Failed to assign guard", zap.Int64("shift_id", shiftID), zap.Error(err))
		return fmt.Errorf("failed to assign guard: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shift %d not found", shiftID)
	}
	return nil
}

// UpdateStatus changes a shift's status
func (r *ShiftRepository) UpdateStatus(ctx context.Context, shiftID int64, status string) error {
	query := `
		UPDATE shifts
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, shiftID)
	if err != nil {
		r.logger.Error("Failed to update shift status", zap.Int64("shift_id", shiftID), zap.Error(err))
		return fmt.Errorf("failed to update shift status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shift %d not found", shiftID)
	}
	return nil
}

// CancelTx marks a shift cancelled inside the caller's transaction
func (r *ShiftRepository) CancelTx(tx *sql.Tx, shiftID int64) error {
	query := `
		UPDATE shifts
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := tx.Exec(query, models.ShiftStatusCancelled, shiftID); err != nil {
		r.logger.Error("Failed to cancel shift", zap.Int64("shift_id", shiftID), zap.Error(err))
		return fmt.Errorf("failed to cancel shift: %w", err)
	}
	return nil
}

func scanShifts(rows *sql.Rows) ([]*models.Shift, error) {
	var shifts []*models.Shift
	for rows.Next() {
		var shift models.Shift
		var guardID sql.NullInt64
		var date string

		if err := rows.Scan(
			&shift.ID,
			&shift.ContractID,
			&shift.ScheduleID,
			&guardID,
			&date,
			&shift.Status,
			&shift.CreatedAt,
			&shift.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}

		if guardID.Valid {
			shift.GuardID = &guardID.Int64
		}

		parsed, err := time.Parse(dateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("invalid date for shift %d: %w", shift.ID, err)
		}
		shift.Date = parsed

		shifts = append(shifts, &shift)
	}
	return shifts, rows.Err()
}

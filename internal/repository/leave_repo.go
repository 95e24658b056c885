package repository

import (
	"database/sql"
	"fmt"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// LeaveRepository handles leave-cancellation audit rows
type LeaveRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLeaveRepository creates a new leave repository
func NewLeaveRepository(db *sql.DB, logger *zap.Logger) *LeaveRepository {
	return &LeaveRepository{
		db:     db,
		logger: logger,
	}
}

// CreateCancellationTx writes one audit row inside the caller's transaction
func (r *LeaveRepository) CreateCancellationTx(tx *sql.Tx, lc *models.LeaveCancellation) error {
	query := `
		INSERT INTO leave_cancellations (shift_id, guard_id, reason)
		VALUES (?, ?, ?)
	`

	result, err := tx.Exec(query, lc.ShiftID, lc.GuardID, lc.Reason)
	if err != nil {
		r.logger.Error("Failed to create leave cancellation", zap.Error(err))
		return fmt.Errorf("failed to create leave cancellation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lc.ID = id
	return nil
}

// CountByGuard returns how many cancellation rows exist for a guard
func (r *LeaveRepository) CountByGuard(guardID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM leave_cancellations WHERE guard_id = ?", guardID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count leave cancellations: %w", err)
	}
	return count, nil
}

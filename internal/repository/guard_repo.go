package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// GuardRepository handles guard database operations
type GuardRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGuardRepository creates a new guard repository
func NewGuardRepository(db *sql.DB, logger *zap.Logger) *GuardRepository {
	return &GuardRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a guard record
func (r *GuardRepository) Create(ctx context.Context, guard *models.Guard) error {
	query := `
		INSERT INTO guards (full_name, email, phone, pending_leave_days)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		guard.FullName,
		guard.Email,
		guard.Phone,
		guard.PendingLeaveDays,
	)
	if err != nil {
		r.logger.Error("Failed to create guard", zap.Error(err))
		return fmt.Errorf("failed to create guard: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	guard.ID = id
	return nil
}

// GetByID retrieves a guard by id. Returns nil when not found.
func (r *GuardRepository) GetByID(ctx context.Context, id int64) (*models.Guard, error) {
	query := `
		SELECT id, full_name, email, phone, pending_leave_days, created_at
		FROM guards
		WHERE id = ?
	`

	var guard models.Guard
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&guard.ID,
		&guard.FullName,
		&guard.Email,
		&guard.Phone,
		&guard.PendingLeaveDays,
		&guard.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get guard", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get guard: %w", err)
	}

	return &guard, nil
}

// DecrementPendingLeaveTx reduces a guard's pending-leave counter inside the
// caller's transaction, clamped at zero
func (r *GuardRepository) DecrementPendingLeaveTx(tx *sql.Tx, guardID int64, days int) error {
	query := `
		UPDATE guards
		SET pending_leave_days = MAX(pending_leave_days - ?, 0)
		WHERE id = ?
	`

	result, err := tx.Exec(query, days, guardID)
	if err != nil {
		r.logger.Error("Failed to decrement pending leave", zap.Int64("guard_id", guardID), zap.Error(err))
		return fmt.Errorf("failed to decrement pending leave: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("guard %d not found", guardID)
	}
	return nil
}

// Package repository contains the sqlite data access layer.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

const dateFormat = "2006-01-02"

// ContractRepository handles contract database operations
type ContractRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *sql.DB, logger *zap.Logger) *ContractRepository {
	return &ContractRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new contract record
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (contract_number, customer_id, start_date, end_date, status, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		contract.ContractNumber,
		contract.CustomerID,
		contract.StartDate.Format(dateFormat),
		contract.EndDate.Format(dateFormat),
		contract.Status,
		contract.Notes,
	)
	if err != nil {
		r.logger.Error("Failed to create contract", zap.Error(err))
		return fmt.Errorf("failed to create contract: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	contract.ID = id
	return nil
}

// GetByID retrieves a non-deleted contract by id. Returns nil when not found.
func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*models.Contract, error) {
	query := `
		SELECT id, contract_number, customer_id, start_date, end_date, status, notes,
			created_at, updated_at
		FROM contracts
		WHERE id = ? AND deleted_at IS NULL
	`

	var contract models.Contract
	var startDate, endDate string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contract.ID,
		&contract.ContractNumber,
		&contract.CustomerID,
		&startDate,
		&endDate,
		&contract.Status,
		&contract.Notes,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get contract", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if contract.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
		return nil, fmt.Errorf("invalid start date for contract %d: %w", id, err)
	}
	if contract.EndDate, err = time.Parse(dateFormat, endDate); err != nil {
		return nil, fmt.Errorf("invalid end date for contract %d: %w", id, err)
	}

	return &contract, nil
}

// List retrieves non-deleted contracts, newest first, optionally filtered by status
func (r *ContractRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Contract, error) {
	query := `
		SELECT id, contract_number, customer_id, start_date, end_date, status, notes,
			created_at, updated_at
		FROM contracts
		WHERE deleted_at IS NULL AND (? = '' OR status = ?)
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, status, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list contracts", zap.Error(err))
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*models.Contract
	for rows.Next() {
		var contract models.Contract
		var startDate, endDate string

		if err := rows.Scan(
			&contract.ID,
			&contract.ContractNumber,
			&contract.CustomerID,
			&startDate,
			&endDate,
			&contract.Status,
			&contract.Notes,
			&contract.CreatedAt,
			&contract.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}

		if contract.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
			return nil, fmt.Errorf("invalid start date for contract %d: %w", contract.ID, err)
		}
		if contract.EndDate, err = time.Parse(dateFormat, endDate); err != nil {
			return nil, fmt.Errorf("invalid end date for contract %d: %w", contract.ID, err)
		}

		contracts = append(contracts, &contract)
	}

	return contracts, rows.Err()
}

// Update rewrites the mutable contract fields
func (r *ContractRepository) Update(ctx context.Context, contract *models.Contract) error {
	query := `
		UPDATE contracts
		SET contract_number = ?, customer_id = ?, start_date = ?, end_date = ?,
			status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		contract.ContractNumber,
		contract.CustomerID,
		contract.StartDate.Format(dateFormat),
		contract.EndDate.Format(dateFormat),
		contract.Status,
		contract.Notes,
		contract.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update contract", zap.Int64("id", contract.ID), zap.Error(err))
		return fmt.Errorf("failed to update contract: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("contract %d not found", contract.ID)
	}
	return nil
}

// SoftDelete marks a contract deleted without removing its rows
func (r *ContractRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE contracts
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete contract", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("contract %d not found", id)
	}
	return nil
}

// MarkExpired flips every active contract whose end date has passed to
// expired and returns how many were flipped. Used by the daily expiry sweep.
func (r *ContractRepository) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE contracts
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE deleted_at IS NULL AND status = ? AND end_date < ?
	`

	result, err := r.db.ExecContext(ctx, query,
		models.ContractStatusExpired,
		models.ContractStatusActive,
		asOf.Format(dateFormat),
	)
	if err != nil {
		r.logger.Error("Failed to mark expired contracts", zap.Error(err))
		return 0, fmt.Errorf("failed to mark expired contracts: %w", err)
	}

	return result.RowsAffected()
}

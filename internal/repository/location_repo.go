package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// LocationRepository handles contract location database operations
type LocationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sql.DB, logger *zap.Logger) *LocationRepository {
	return &LocationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a location requirement for a contract
func (r *LocationRepository) Create(ctx context.Context, loc *models.ContractLocation) error {
	query := `
		INSERT INTO contract_locations (contract_id, name, guards_required)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, loc.ContractID, loc.Name, loc.GuardsRequired)
	if err != nil {
		r.logger.Error("Failed to create contract location", zap.Error(err))
		return fmt.Errorf("failed to create contract location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	loc.ID = id
	return nil
}

// ListByContract retrieves all location requirements for a contract
func (r *LocationRepository) ListByContract(ctx context.Context, contractID int64) ([]models.ContractLocation, error) {
	query := `
		SELECT id, contract_id, name, guards_required
		FROM contract_locations
		WHERE contract_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, contractID)
	if err != nil {
		r.logger.Error("Failed to list contract locations", zap.Int64("contract_id", contractID), zap.Error(err))
		return nil, fmt.Errorf("failed to list contract locations: %w", err)
	}
	defer rows.Close()

	var locations []models.ContractLocation
	for rows.Next() {
		var loc models.ContractLocation
		if err := rows.Scan(&loc.ID, &loc.ContractID, &loc.Name, &loc.GuardsRequired); err != nil {
			return nil, fmt.Errorf("failed to scan contract location: %w", err)
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

// DeleteByContract removes every location requirement for a contract
func (r *LocationRepository) DeleteByContract(ctx context.Context, contractID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM contract_locations WHERE contract_id = ?", contractID); err != nil {
		r.logger.Error("Failed to delete contract locations", zap.Int64("contract_id", contractID), zap.Error(err))
		return fmt.Errorf("failed to delete contract locations: %w", err)
	}
	return nil
}

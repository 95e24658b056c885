package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// CustomerRepository handles customer database operations
type CustomerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new customer record
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, tax_id, address, email)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.TaxID,
		customer.Address,
		customer.Email,
	)
	if err != nil {
		r.logger.Error("Failed to create customer", zap.Error(err))
		return fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	customer.ID = id
	return nil
}

// GetByID retrieves a customer by id. Returns nil when not found.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `
		SELECT id, name, tax_id, address, email, created_at
		FROM customers
		WHERE id = ?
	`

	var customer models.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.TaxID,
		&customer.Address,
		&customer.Email,
		&customer.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get customer", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}

// Package contract implements the Contracts API: lifecycle CRUD, document
// validation and template filling.
package contract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anphu-security/guardops/internal/document"
	"github.com/anphu-security/guardops/internal/domain/event"
	"github.com/anphu-security/guardops/internal/models"
	"github.com/anphu-security/guardops/internal/repository"
	"github.com/anphu-security/guardops/internal/storage"
	"github.com/anphu-security/guardops/internal/validation"
	"go.uber.org/zap"
)

// Service orchestrates contract operations over the repositories
type Service struct {
	contracts    *repository.ContractRepository
	customers    *repository.CustomerRepository
	locations    *repository.LocationRepository
	schedules    *repository.ScheduleRepository
	validator    *validation.Validator
	docs         *storage.DocumentStore
	dispatcher   *event.Dispatcher
	templatesDir string
	logger       *zap.Logger
}

// NewService creates the contract service
func NewService(
	contracts *repository.ContractRepository,
	customers *repository.CustomerRepository,
	locations *repository.LocationRepository,
	schedules *repository.ScheduleRepository,
	validator *validation.Validator,
	docs *storage.DocumentStore,
	dispatcher *event.Dispatcher,
	templatesDir string,
	logger *zap.Logger,
) *Service {
	return &Service{
		contracts:    contracts,
		customers:    customers,
		locations:    locations,
		schedules:    schedules,
		validator:    validator,
		docs:         docs,
		dispatcher:   dispatcher,
		templatesDir: templatesDir,
		logger:       logger,
	}
}

// CreateInput carries the fields for a new contract
type CreateInput struct {
	ContractNumber string    `json:"contract_number"`
	CustomerID     int64     `json:"customer_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Notes          string    `json:"notes"`
}

// Create stores a new draft contract
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Contract, error) {
	if strings.TrimSpace(in.ContractNumber) == "" {
		return nil, fmt.Errorf("contract number is required")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("end date must not precede start date")
	}

	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d not found", in.CustomerID)
	}

	contract := &models.Contract{
		ContractNumber: strings.TrimSpace(in.ContractNumber),
		CustomerID:     in.CustomerID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Status:         models.ContractStatusDraft,
		Notes:          in.Notes,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("Contract created",
		zap.Int64("id", contract.ID),
		zap.String("contract_number", contract.ContractNumber))
	return contract, nil
}

// Get returns a contract or an error when it does not exist
func (s *Service) Get(ctx context.Context, id int64) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("contract %d not found", id)
	}
	return contract, nil
}

// List returns a page of contracts
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*models.Contract, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.contracts.List(ctx, status, limit, offset)
}

// UpdateInput carries the mutable contract fields
type UpdateInput struct {
	ContractNumber string    `json:"contract_number"`
	CustomerID     int64     `json:"customer_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
}

var validStatuses = map[string]bool{
	models.ContractStatusDraft:      true,
	models.ContractStatusActive:     true,
	models.ContractStatusExpired:    true,
	models.ContractStatusTerminated: true,
}

// Update rewrites a contract
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*models.Contract, error) {
	contract, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Status != "" && !validStatuses[in.Status] {
		return nil, fmt.Errorf("invalid contract status %q", in.Status)
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("end date must not precede start date")
	}

	contract.ContractNumber = strings.TrimSpace(in.ContractNumber)
	contract.CustomerID = in.CustomerID
	contract.StartDate = in.StartDate
	contract.EndDate = in.EndDate
	if in.Status != "" {
		contract.Status = in.Status
	}
	contract.Notes = in.Notes

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// Delete soft-deletes a contract
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.contracts.SoftDelete(ctx, id)
}

// AddLocation attaches a location requirement to a contract
func (s *Service) AddLocation(ctx context.Context, contractID int64, name string, guardsRequired int) (*models.ContractLocation, error) {
	if _, err := s.Get(ctx, contractID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("location name is required")
	}
	if guardsRequired < 0 {
		return nil, fmt.Errorf("guards required must not be negative")
	}

	loc := &models.ContractLocation{
		ContractID:     contractID,
		Name:           strings.TrimSpace(name),
		GuardsRequired: guardsRequired,
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// AddSchedule attaches a shift schedule to a contract
func (s *Service) AddSchedule(ctx context.Context, contractID int64, name string, start, end models.TimeOfDay) (*models.ShiftSchedule, error) {
	if _, err := s.Get(ctx, contractID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("schedule name is required")
	}

	sched := &models.ShiftSchedule{
		ContractID: contractID,
		Name:       strings.TrimSpace(name),
		StartTime:  start,
		EndTime:    end,
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// ValidateDocument runs the document validator against a contract, archives
// the uploaded file, and publishes a contract.validated event on success.
// Validator failures come back inside the result, not as an error.
func (s *Service) ValidateDocument(ctx context.Context, contractID int64, doc io.Reader, filename string) (*models.ValidationResult, error) {
	var buf bytes.Buffer
	if doc != nil {
		if _, err := io.Copy(&buf, doc); err != nil {
			return nil, fmt.Errorf("failed to read uploaded document: %w", err)
		}
	}

	var reader io.Reader
	if doc != nil {
		reader = bytes.NewReader(buf.Bytes())
	}

	result := s.validator.Validate(ctx, contractID, reader, filename)
	if !result.Success {
		return result, nil
	}

	if _, err := s.docs.Save(contractID, filename, bytes.NewReader(buf.Bytes())); err != nil {
		// The summary is already computed; archiving is best effort
		s.logger.Warn("Failed to archive validated document",
			zap.Int64("contract_id", contractID),
			zap.Error(err))
	}

	contract, err := s.contracts.GetByID(ctx, contractID)
	if err == nil && contract != nil {
		s.dispatcher.DispatchAsync(context.WithoutCancel(ctx), event.New(event.TypeContractValidated, map[string]interface{}{
			"contract_id":      contract.ID,
			"contract_number":  contract.ContractNumber,
			"match_percentage": result.Summary.MatchPercentage,
			"differences":      len(result.Summary.Differences),
		}))
	}

	return result, nil
}

// FillTemplate renders a named .docx template with the contract's data
func (s *Service) FillTemplate(ctx context.Context, contractID int64, templateName string, out io.Writer) error {
	contract, err := s.Get(ctx, contractID)
	if err != nil {
		return err
	}

	customer, err := s.customers.GetByID(ctx, contract.CustomerID)
	if err != nil {
		return err
	}

	templateName = filepath.Base(templateName)
	if filepath.Ext(templateName) != ".docx" {
		return fmt.Errorf("template must be a .docx file")
	}

	f, err := os.Open(filepath.Join(s.templatesDir, templateName))
	if err != nil {
		return fmt.Errorf("failed to open template %s: %w", templateName, err)
	}
	defer f.Close()

	replacements := map[string]string{
		"contract_number": contract.ContractNumber,
		"start_date":      contract.StartDate.Format("02/01/2006"),
		"end_date":        contract.EndDate.Format("02/01/2006"),
		"notes":           contract.Notes,
	}
	if customer != nil {
		replacements["customer_name"] = customer.Name
		replacements["customer_address"] = customer.Address
		replacements["customer_tax_id"] = customer.TaxID
	}

	if err := document.FillTemplate(f, replacements, out); err != nil {
		return err
	}

	s.logger.Info("Contract template filled",
		zap.Int64("contract_id", contractID),
		zap.String("template", templateName))
	return nil
}

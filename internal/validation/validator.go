package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anphu-security/guardops/internal/document"
	"github.com/anphu-security/guardops/internal/extract"
	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// RecordStore is the read-side lookup surface the validator needs. All
// methods honour context cancellation at the database call.
type RecordStore interface {
	GetContract(ctx context.Context, id int64) (*models.Contract, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	ListLocations(ctx context.Context, contractID int64) ([]models.ContractLocation, error)
	ListSchedules(ctx context.Context, contractID int64) ([]models.ShiftSchedule, error)
	ListHolidaysInRange(ctx context.Context, from, to string) ([]models.Holiday, error)
}

// Validator runs one full document validation: stored snapshot + uploaded
// bytes in, summary out. It holds no state across calls.
type Validator struct {
	store     RecordStore
	extractor *extract.Extractor
	logger    *zap.Logger
}

// NewValidator creates a validator over the given record store
func NewValidator(store RecordStore, extractor *extract.Extractor, logger *zap.Logger) *Validator {
	return &Validator{
		store:     store,
		extractor: extractor,
		logger:    logger,
	}
}

// Validate compares the uploaded contract document against the stored record.
// Every failure comes back as a result value; no error or panic crosses this
// boundary. A low match percentage is a successful outcome.
func (v *Validator) Validate(ctx context.Context, contractID int64, doc io.Reader, filename string) (result *models.ValidationResult) {
	defer func() {
		if p := recover(); p != nil {
			v.logger.Error("Validation panicked", zap.Int64("contract_id", contractID), zap.Any("panic", p))
			result = failure(models.ValidationErrInternal, fmt.Sprintf("validation failed: %v", p))
		}
	}()

	if doc == nil || strings.TrimSpace(filename) == "" {
		return failure(models.ValidationErrInvalidInput, "a document file and filename are required")
	}

	contract, err := v.store.GetContract(ctx, contractID)
	if err != nil {
		return failure(models.ValidationErrInternal, fmt.Sprintf("failed to load contract: %v", err))
	}
	if contract == nil {
		return failure(models.ValidationErrNotFound, fmt.Sprintf("contract %d not found", contractID))
	}

	text, err := document.ExtractText(doc, filename)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedFormat) {
			return failure(models.ValidationErrUnsupportedFormat, err.Error())
		}
		v.logger.Warn("Document text extraction failed",
			zap.Int64("contract_id", contractID),
			zap.String("filename", filename),
			zap.Error(err))
		return failure(models.ValidationErrExtractionFailed, fmt.Sprintf("could not read document: %v", err))
	}
	if strings.TrimSpace(text) == "" {
		return failure(models.ValidationErrEmptyDocument, "document contains no usable text")
	}

	info := v.extractor.Extract(text)

	summary, err := v.compare(ctx, contract, info)
	if err != nil {
		return failure(models.ValidationErrInternal, fmt.Sprintf("validation failed: %v", err))
	}

	v.logger.Info("Contract document validated",
		zap.Int64("contract_id", contractID),
		zap.Float64("match_percentage", summary.MatchPercentage),
		zap.Int("differences", len(summary.Differences)))

	return &models.ValidationResult{Success: true, Summary: summary}
}

// compare loads the remaining record snapshot and runs all section
// comparators. Each comparison returns its own counted result; the aggregator
// folds them so no shared counters cross section boundaries.
func (v *Validator) compare(ctx context.Context, contract *models.Contract, info *models.ExtractedContractInfo) (*models.ValidationSummary, error) {
	var customer *models.Customer
	if contract.CustomerID != 0 {
		c, err := v.store.GetCustomer(ctx, contract.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load customer: %w", err)
		}
		customer = c
	}

	locations, err := v.store.ListLocations(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}

	schedules, err := v.store.ListSchedules(ctx, contract.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift schedules: %w", err)
	}

	holidays, err := v.store.ListHolidaysInRange(ctx,
		contract.StartDate.Format("2006-01-02"),
		contract.EndDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	results := []SectionResult{
		CompareContractInfo(contract, customer, info),
		CompareLocations(locations, info.Locations),
		CompareShiftSchedules(schedules, info.ShiftWindows),
		CompareHolidays(holidays, info.Holidays),
		// Working conditions have no extraction rules yet; the section is
		// reported with zero fields so the summary shape stays stable.
		{Section: models.SectionComparison{Section: models.SectionWorkingConditions}},
	}

	return Aggregate(results), nil
}

func failure(code, message string) *models.ValidationResult {
	return &models.ValidationResult{
		Success:   false,
		ErrorCode: code,
		Error:     message,
	}
}

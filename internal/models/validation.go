package models

import "time"

// Difference kinds
const (
	DiffMismatch = "mismatch"
	DiffMissing  = "missing"
	DiffExtra    = "extra"
)

// Difference severities. Plain strings on the wire; the aggregator carries
// its own rank for sorting.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Section names used in comparison reports
const (
	SectionContractInfo      = "Contract Info"
	SectionLocations         = "Locations"
	SectionShiftSchedules    = "Shift Schedules"
	SectionPublicHolidays    = "Public Holidays"
	SectionWorkingConditions = "Working Conditions"
)

// ExtractedLocation is a guarded site recovered from document text
type ExtractedLocation struct {
	Name           string `json:"name"`
	GuardsRequired int    `json:"guards_required"`
}

// ExtractedShiftWindow is a shift time range recovered from document text
type ExtractedShiftWindow struct {
	Name      string    `json:"name"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
}

// ExtractedHoliday is a public holiday recovered from document text
type ExtractedHoliday struct {
	Date         time.Time `json:"date"`
	Name         string    `json:"name"`
	IsTetPeriod  bool      `json:"is_tet_period"`
	IsTetHoliday bool      `json:"is_tet_holiday"`
}

// ExtractedContractInfo holds all fields recovered from one document.
// Extraction is best effort: absent fields stay nil/empty and never abort a run.
type ExtractedContractInfo struct {
	ContractNumber *string                `json:"contract_number,omitempty"`
	StartDate      *time.Time             `json:"start_date,omitempty"`
	EndDate        *time.Time             `json:"end_date,omitempty"`
	CustomerName   *string                `json:"customer_name,omitempty"`
	Locations      []ExtractedLocation    `json:"locations,omitempty"`
	ShiftWindows   []ExtractedShiftWindow `json:"shift_windows,omitempty"`
	Holidays       []ExtractedHoliday     `json:"holidays,omitempty"`
}

// FieldComparison is one compared data point between the stored record and the
// extracted document text
type FieldComparison struct {
	Field          string `json:"field"`
	StoredValue    string `json:"stored_value"`
	ExtractedValue string `json:"extracted_value"`
	IsMatch        bool   `json:"is_match"`
	Details        string `json:"details,omitempty"`
}

// ValidationDifference is a reportable discrepancy of kind mismatch/missing/extra
type ValidationDifference struct {
	Category       string `json:"category"`
	Field          string `json:"field"`
	Type           string `json:"type"`
	StoredValue    string `json:"stored_value,omitempty"`
	ExtractedValue string `json:"extracted_value,omitempty"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
}

// SectionComparison aggregates the field comparisons of one logical section
type SectionComparison struct {
	Section         string            `json:"section"`
	MatchPercentage float64           `json:"match_percentage"`
	TotalFields     int               `json:"total_fields"`
	MatchedFields   int               `json:"matched_fields"`
	Fields          []FieldComparison `json:"fields,omitempty"`
}

// ValidationSummary is the top-level outcome of one document validation run
type ValidationSummary struct {
	MatchPercentage    float64                `json:"match_percentage"`
	TotalFieldsChecked int                    `json:"total_fields_checked"`
	MatchedFields      int                    `json:"matched_fields"`
	MismatchedFields   int                    `json:"mismatched_fields"`
	MissingFields      int                    `json:"missing_fields"`
	ExtraFields        int                    `json:"extra_fields"`
	Sections           []SectionComparison    `json:"sections"`
	Differences        []ValidationDifference `json:"differences"`
}

// Validation error codes
const (
	ValidationErrNotFound          = "not_found"
	ValidationErrInvalidInput      = "invalid_input"
	ValidationErrUnsupportedFormat = "unsupported_format"
	ValidationErrExtractionFailed  = "extraction_failed"
	ValidationErrEmptyDocument     = "empty_document"
	ValidationErrInternal          = "validation_error"
)

// ValidationResult is what the validator hands back to its caller. Either a
// populated summary (Success true) or an error code and message; a low match
// percentage is still a successful result.
type ValidationResult struct {
	Success   bool               `json:"success"`
	ErrorCode string             `json:"error_code,omitempty"`
	Error     string             `json:"error,omitempty"`
	Summary   *ValidationSummary `json:"summary,omitempty"`
}

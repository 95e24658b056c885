package models

import "time"

// Contract statuses
const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusExpired    = "expired"
	ContractStatusTerminated = "terminated"
)

// Contract represents a guarding service agreement with a customer
type Contract struct {
	ID             int64      `json:"id"`
	ContractNumber string     `json:"contract_number"`
	CustomerID     int64      `json:"customer_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// Customer represents the counterparty (Bên A) of a contract
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Address   string    `json:"address,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContractLocation is a guarded site with its required guard headcount
type ContractLocation struct {
	ID             int64  `json:"id"`
	ContractID     int64  `json:"contract_id"`
	Name           string `json:"name"`
	GuardsRequired int    `json:"guards_required"`
}

// ShiftSchedule is a named recurring time-of-day window scoped to a contract
type ShiftSchedule struct {
	ID         int64     `json:"id"`
	ContractID int64     `json:"contract_id"`
	Name       string    `json:"name"`
	StartTime  TimeOfDay `json:"start_time"`
	EndTime    TimeOfDay `json:"end_time"`
}

// Holiday is a calendar date observed as a public holiday
type Holiday struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	Name         string    `json:"name"`
	IsTetPeriod  bool      `json:"is_tet_period"`
	IsTetHoliday bool      `json:"is_tet_holiday"`
}

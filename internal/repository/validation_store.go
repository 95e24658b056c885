package repository

import (
	"context"

	"github.com/anphu-security/guardops/internal/models"
)

// ValidationStore bundles the read-side lookups the document validator needs
// into one snapshot surface. It satisfies validation.RecordStore.
type ValidationStore struct {
	contracts *ContractRepository
	customers *CustomerRepository
	locations *LocationRepository
	schedules *ScheduleRepository
	holidays  *HolidayRepository
}

// NewValidationStore creates the validator's record store over the repositories
func NewValidationStore(
	contracts *ContractRepository,
	customers *CustomerRepository,
	locations *LocationRepository,
	schedules *ScheduleRepository,
	holidays *HolidayRepository,
) *ValidationStore {
	return &ValidationStore{
		contracts: contracts,
		customers: customers,
		locations: locations,
		schedules: schedules,
		holidays:  holidays,
	}
}

// GetContract returns a non-deleted contract or nil
func (s *ValidationStore) GetContract(ctx context.Context, id int64) (*models.Contract, error) {
	return s.contracts.GetByID(ctx, id)
}

// GetCustomer returns the counterparty or nil
func (s *ValidationStore) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// ListLocations returns the contract's location requirements
func (s *ValidationStore) ListLocations(ctx context.Context, contractID int64) ([]models.ContractLocation, error) {
	return s.locations.ListByContract(ctx, contractID)
}

// ListSchedules returns the contract's shift schedules
func (s *ValidationStore) ListSchedules(ctx context.Context, contractID int64) ([]models.ShiftSchedule, error) {
	return s.schedules.ListByContract(ctx, contractID)
}

// ListHolidaysInRange returns holidays within [from, to]
func (s *ValidationStore) ListHolidaysInRange(ctx context.Context, from, to string) ([]models.Holiday, error) {
	return s.holidays.ListInRange(ctx, from, to)
}

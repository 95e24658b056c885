// Package shift implements the Shifts API: dated shift CRUD, roster
// generation and the bulk leave-cancellation workflow.
package shift

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/anphu-security/guardops/internal/domain/event"
	"github.com/anphu-security/guardops/internal/export"
	"github.com/anphu-security/guardops/internal/models"
	"github.com/anphu-security/guardops/internal/repository"
	"github.com/anphu-security/guardops/pkg/database"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Service orchestrates shift operations
type Service struct {
	db         *database.DB
	contracts  *repository.ContractRepository
	schedules  *repository.ScheduleRepository
	shifts     *repository.ShiftRepository
	guards     *repository.GuardRepository
	leaves     *repository.LeaveRepository
	roster     *export.RosterExporter
	dispatcher *event.Dispatcher
	logger     *zap.Logger
}

// NewService creates the shift service
func NewService(
	db *database.DB,
	contracts *repository.ContractRepository,
	schedules *repository.ScheduleRepository,
	shifts *repository.ShiftRepository,
	guards *repository.GuardRepository,
	leaves *repository.LeaveRepository,
	roster *export.RosterExporter,
	dispatcher *event.Dispatcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:         db,
		contracts:  contracts,
		schedules:  schedules,
		shifts:     shifts,
		guards:     guards,
		leaves:     leaves,
		roster:     roster,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Create stores one dated shift for a contract schedule
func (s *Service) Create(ctx context.Context, contractID, scheduleID int64, date time.Time) (*models.Shift, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("contract %d not found", contractID)
	}

	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched == nil || sched.ContractID != contractID {
		return nil, fmt.Errorf("schedule %d does not belong to contract %d", scheduleID, contractID)
	}

	shift := &models.Shift{
		ContractID: contractID,
		ScheduleID: scheduleID,
		Date:       date,
		Status:     models.ShiftStatusScheduled,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// GenerateFromSchedules creates one shift per schedule per day in [from, to]
// and returns how many were created
func (s *Service) GenerateFromSchedules(ctx context.Context, contractID int64, from, to time.Time) (int, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return 0, err
	}
	if contract == nil {
		return 0, fmt.Errorf("contract %d not found", contractID)
	}
	if to.Before(from) {
		return 0, fmt.Errorf("invalid date range")
	}

	schedules, err := s.schedules.ListByContract(ctx, contractID)
	if err != nil {
		return 0, err
	}
	if len(schedules) == 0 {
		return 0, fmt.Errorf("contract %d has no shift schedules", contractID)
	}

	created := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		for _, sched := range schedules {
			shift := &models.Shift{
				ContractID: contractID,
				ScheduleID: sched.ID,
				Date:       d,
				Status:     models.ShiftStatusScheduled,
			}
			if err := s.shifts.Create(ctx, shift); err != nil {
				return created, err
			}
			created++
		}
	}

	s.logger.Info("Shifts generated from schedules",
		zap.Int64("contract_id", contractID),
		zap.Int("created", created))
	return created, nil
}

// List returns a contract's shifts within [from, to]
func (s *Service) List(ctx context.Context, contractID int64, from, to time.Time) ([]*models.Shift, error) {
	return s.shifts.ListByContract(ctx, contractID, from, to)
}

// AssignGuard puts a guard on a shift
func (s *Service) AssignGuard(ctx context.Context, shiftID, guardID int64) error {
	guard, err := s.guards.GetByID(ctx, guardID)
	if err != nil {
		return err
	}
	if guard == nil {
		return fmt.Errorf("guard %d not found", guardID)
	}
	return s.shifts.AssignGuard(ctx, shiftID, guardID)
}

// UpdateStatus changes a shift's status
func (s *Service) UpdateStatus(ctx context.Context, shiftID int64, status string) error {
	switch status {
	case models.ShiftStatusScheduled, models.ShiftStatusCompleted,
		models.ShiftStatusCancelled, models.ShiftStatusLeaveRequested:
	default:
		return fmt.Errorf("invalid shift status %q", status)
	}
	return s.shifts.UpdateStatus(ctx, shiftID, status)
}

// ExportRoster builds an xlsx roster for a contract's shifts in [from, to]
func (s *Service) ExportRoster(ctx context.Context, contractID int64, from, to time.Time) (*excelize.File, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("contract %d not found", contractID)
	}

	schedules, err := s.schedules.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shifts.ListByContract(ctx, contractID, from, to)
	if err != nil {
		return nil, err
	}

	guards := make(map[int64]*models.Guard)
	for _, shift := range shifts {
		if shift.GuardID == nil {
			continue
		}
		if _, seen := guards[*shift.GuardID]; seen {
			continue
		}
		guard, err := s.guards.GetByID(ctx, *shift.GuardID)
		if err != nil {
			return nil, err
		}
		if guard != nil {
			guards[*shift.GuardID] = guard
		}
	}

	return s.roster.BuildRoster(contract, schedules, shifts, guards)
}

// BulkCancelInput describes one bulk cancellation run
type BulkCancelInput struct {
	GuardID int64
	From    time.Time
	To      time.Time
	Reason  string
}

// BulkCancelResult reports what the run changed
type BulkCancelResult struct {
	CancelledShifts int     `json:"cancelled_shifts"`
	ShiftIDs        []int64 `json:"shift_ids"`
}

// BulkCancel cancels every scheduled shift of a guard in [from, to] inside one
// transaction: each shift is marked cancelled and audited, and the guard's
// pending-leave counter is decremented by the number of affected days. The
// notification fan-out happens after commit and never fails the call.
func (s *Service) BulkCancel(ctx context.Context, in BulkCancelInput) (*BulkCancelResult, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("a cancellation reason is required")
	}
	if in.To.Before(in.From) {
		return nil, fmt.Errorf("invalid date range")
	}

	guard, err := s.guards.GetByID(ctx, in.GuardID)
	if err != nil {
		return nil, err
	}
	if guard == nil {
		return nil, fmt.Errorf("guard %d not found", in.GuardID)
	}

	result := &BulkCancelResult{}
	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		shifts, err := s.shifts.ListByGuardTx(tx, in.GuardID, in.From, in.To, models.ShiftStatusScheduled)
		if err != nil {
			return err
		}
		if len(shifts) == 0 {
			return fmt.Errorf("guard %d has no scheduled shifts in range", in.GuardID)
		}

		days := make(map[string]bool)
		for _, shift := range shifts {
			if err := s.shifts.CancelTx(tx, shift.ID); err != nil {
				return err
			}
			if err := s.leaves.CreateCancellationTx(tx, &models.LeaveCancellation{
				ShiftID: shift.ID,
				GuardID: in.GuardID,
				Reason:  in.Reason,
			}); err != nil {
				return err
			}
			days[shift.Date.Format("2006-01-02")] = true
			result.ShiftIDs = append(result.ShiftIDs, shift.ID)
		}
		result.CancelledShifts = len(shifts)

		return s.guards.DecrementPendingLeaveTx(tx, in.GuardID, len(days))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bulk shift cancellation committed",
		zap.Int64("guard_id", in.GuardID),
		zap.Int("cancelled", result.CancelledShifts))

	s.dispatcher.DispatchAsync(context.WithoutCancel(ctx), event.New(event.TypeShiftBulkCancelled, map[string]interface{}{
		"guard_id":    guard.ID,
		"guard_name":  guard.FullName,
		"guard_email": guard.Email,
		"cancelled":   result.CancelledShifts,
		"from":        in.From.Format("02/01/2006"),
		"to":          in.To.Format("02/01/2006"),
		"reason":      in.Reason,
	}))

	return result, nil
}

package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/anphu-security/guardops/internal/mediator"
)

// Request names routed through the mediator
const (
	CmdCreate       = "shift.create"
	CmdGenerate     = "shift.generate"
	QueryList       = "shift.list"
	CmdAssignGuard  = "shift.assign_guard"
	CmdUpdateStatus = "shift.update_status"
	CmdBulkCancel   = "shift.bulk_cancel"
	QueryRoster     = "shift.export_roster"
)

// CreateCommand creates one dated shift
type CreateCommand struct {
	ContractID int64
	ScheduleID int64
	Date       time.Time
}

func (CreateCommand) Name() string { return CmdCreate }

// GenerateCommand creates shifts for every schedule over a date range
type GenerateCommand struct {
	ContractID int64
	From       time.Time
	To         time.Time
}

func (GenerateCommand) Name() string { return CmdGenerate }

// ListQuery lists a contract's shifts in a date range
type ListQuery struct {
	ContractID int64
	From       time.Time
	To         time.Time
}

func (ListQuery) Name() string { return QueryList }

// AssignGuardCommand assigns a guard to a shift
type AssignGuardCommand struct {
	ShiftID int64
	GuardID int64
}

func (AssignGuardCommand) Name() string { return CmdAssignGuard }

// UpdateStatusCommand changes a shift's status
type UpdateStatusCommand struct {
	ShiftID int64
	Status  string
}

func (UpdateStatusCommand) Name() string { return CmdUpdateStatus }

// RosterQuery builds the xlsx roster for a contract's date range
type RosterQuery struct {
	ContractID int64
	From       time.Time
	To         time.Time
}

func (RosterQuery) Name() string { return QueryRoster }

// BulkCancelCommand runs the bulk leave-cancellation workflow
type BulkCancelCommand struct {
	Input BulkCancelInput
}

func (BulkCancelCommand) Name() string { return CmdBulkCancel }

// RegisterHandlers wires every shift command and query into the mediator
func RegisterHandlers(m *mediator.Mediator, svc *Service) {
	m.Register(CmdCreate, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(CreateCommand)
		return svc.Create(ctx, cmd.ContractID, cmd.ScheduleID, cmd.Date)
	})

	m.Register(CmdGenerate, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(GenerateCommand)
		created, err := svc.GenerateFromSchedules(ctx, cmd.ContractID, cmd.From, cmd.To)
		if err != nil {
			return nil, err
		}
		return map[string]int{"created": created}, nil
	})

	m.Register(QueryList, func(ctx context.Context, req mediator.Request) (any, error) {
		q := req.(ListQuery)
		return svc.List(ctx, q.ContractID, q.From, q.To)
	})

	m.Register(CmdAssignGuard, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(AssignGuardCommand)
		if err := svc.AssignGuard(ctx, cmd.ShiftID, cmd.GuardID); err != nil {
			return nil, err
		}
		return fmt.Sprintf("guard %d assigned to shift %d", cmd.GuardID, cmd.ShiftID), nil
	})

	m.Register(CmdUpdateStatus, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(UpdateStatusCommand)
		if err := svc.UpdateStatus(ctx, cmd.ShiftID, cmd.Status); err != nil {
			return nil, err
		}
		return fmt.Sprintf("shift %d set to %s", cmd.ShiftID, cmd.Status), nil
	})

	m.Register(CmdBulkCancel, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(BulkCancelCommand)
		return svc.BulkCancel(ctx, cmd.Input)
	})

	m.Register(QueryRoster, func(ctx context.Context, req mediator.Request) (any, error) {
		q := req.(RosterQuery)
		return svc.ExportRoster(ctx, q.ContractID, q.From, q.To)
	})
}

package contract

import (
	"context"
	"fmt"
	"io"

	"github.com/anphu-security/guardops/internal/mediator"
	"github.com/anphu-security/guardops/internal/models"
)

// Request names routed through the mediator
const (
	CmdCreate      = "contract.create"
	QueryGet       = "contract.get"
	QueryList      = "contract.list"
	CmdUpdate      = "contract.update"
	CmdDelete      = "contract.delete"
	CmdAddLocation = "contract.add_location"
	CmdAddSchedule = "contract.add_schedule"
	CmdValidate    = "contract.validate"
	CmdFill        = "contract.fill_template"
)

// CreateCommand creates a contract
type CreateCommand struct {
	Input CreateInput
}

func (CreateCommand) Name() string { return CmdCreate }

// GetQuery fetches one contract
type GetQuery struct {
	ID int64
}

func (GetQuery) Name() string { return QueryGet }

// ListQuery pages through contracts
type ListQuery struct {
	Status string
	Limit  int
	Offset int
}

func (ListQuery) Name() string { return QueryList }

// UpdateCommand rewrites a contract
type UpdateCommand struct {
	ID    int64
	Input UpdateInput
}

func (UpdateCommand) Name() string { return CmdUpdate }

// DeleteCommand soft-deletes a contract
type DeleteCommand struct {
	ID int64
}

func (DeleteCommand) Name() string { return CmdDelete }

// AddLocationCommand attaches a location requirement
type AddLocationCommand struct {
	ContractID     int64
	LocationName   string
	GuardsRequired int
}

func (AddLocationCommand) Name() string { return CmdAddLocation }

// AddScheduleCommand attaches a shift schedule
type AddScheduleCommand struct {
	ContractID int64
	Schedule   string
	StartTime  models.TimeOfDay
	EndTime    models.TimeOfDay
}

func (AddScheduleCommand) Name() string { return CmdAddSchedule }

// ValidateCommand validates an uploaded document against a contract
type ValidateCommand struct {
	ContractID int64
	Document   io.Reader
	Filename   string
}

func (ValidateCommand) Name() string { return CmdValidate }

// FillTemplateCommand renders a .docx template with contract data into Out
type FillTemplateCommand struct {
	ContractID   int64
	TemplateName string
	Out          io.Writer
}

func (FillTemplateCommand) Name() string { return CmdFill }

// RegisterHandlers wires every contract command and query into the mediator
func RegisterHandlers(m *mediator.Mediator, svc *Service) {
	m.Register(CmdCreate, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(CreateCommand)
		return svc.Create(ctx, cmd.Input)
	})

	m.Register(QueryGet, func(ctx context.Context, req mediator.Request) (any, error) {
		q := req.(GetQuery)
		return svc.Get(ctx, q.ID)
	})

	m.Register(QueryList, func(ctx context.Context, req mediator.Request) (any, error) {
		q := req.(ListQuery)
		return svc.List(ctx, q.Status, q.Limit, q.Offset)
	})

	m.Register(CmdUpdate, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(UpdateCommand)
		return svc.Update(ctx, cmd.ID, cmd.Input)
	})

	m.Register(CmdDelete, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(DeleteCommand)
		if err := svc.Delete(ctx, cmd.ID); err != nil {
			return nil, err
		}
		return fmt.Sprintf("contract %d deleted", cmd.ID), nil
	})

	m.Register(CmdAddLocation, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(AddLocationCommand)
		return svc.AddLocation(ctx, cmd.ContractID, cmd.LocationName, cmd.GuardsRequired)
	})

	m.Register(CmdAddSchedule, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(AddScheduleCommand)
		return svc.AddSchedule(ctx, cmd.ContractID, cmd.Schedule, cmd.StartTime, cmd.EndTime)
	})

	m.Register(CmdValidate, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(ValidateCommand)
		return svc.ValidateDocument(ctx, cmd.ContractID, cmd.Document, cmd.Filename)
	})

	m.Register(CmdFill, func(ctx context.Context, req mediator.Request) (any, error) {
		cmd := req.(FillTemplateCommand)
		if err := svc.FillTemplate(ctx, cmd.ContractID, cmd.TemplateName, cmd.Out); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

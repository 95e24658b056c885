// Package export builds spreadsheet exports for operations staff.
package export

import (
	"fmt"

	"github.com/anphu-security/guardops/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// RosterExporter renders a contract's dated shifts as an xlsx workbook
type RosterExporter struct {
	logger *zap.Logger
}

// NewRosterExporter creates a new roster exporter
func NewRosterExporter(logger *zap.Logger) *RosterExporter {
	return &RosterExporter{logger: logger}
}

const rosterSheet = "Roster"

// BuildRoster produces the workbook. guards maps guard id to record for name
// lookup; unassigned shifts render with an empty guard cell.
func (e *RosterExporter) BuildRoster(
	contract *models.Contract,
	schedules []models.ShiftSchedule,
	shifts []*models.Shift,
	guards map[int64]*models.Guard,
) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create roster sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	scheduleByID := make(map[int64]models.ShiftSchedule, len(schedules))
	for _, s := range schedules {
		scheduleByID[s.ID] = s
	}

	title := fmt.Sprintf("Shift roster - contract %s", contract.ContractNumber)
	if err := f.SetCellValue(rosterSheet, "A1", title); err != nil {
		return nil, fmt.Errorf("failed to write roster title: %w", err)
	}

	headers := []string{"Date", "Shift", "Time", "Guard", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(rosterSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write roster header: %w", err)
		}
	}

	row := 4
	for _, shift := range shifts {
		scheduleName := ""
		timeRange := ""
		if sched, ok := scheduleByID[shift.ScheduleID]; ok {
			scheduleName = sched.Name
			timeRange = fmt.Sprintf("%s - %s", sched.StartTime, sched.EndTime)
		}

		guardName := ""
		if shift.GuardID != nil {
			if g, ok := guards[*shift.GuardID]; ok {
				guardName = g.FullName
			}
		}

		values := []interface{}{
			shift.Date.Format("02/01/2006"),
			scheduleName,
			timeRange,
			guardName,
			shift.Status,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(rosterSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write roster row: %w", err)
			}
		}
		row++
	}

	e.logger.Info("Roster workbook built",
		zap.Int64("contract_id", contract.ID),
		zap.Int("shifts", len(shifts)))

	return f, nil
}

package shift

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anphu-security/guardops/internal/domain/event"
	"github.com/anphu-security/guardops/internal/export"
	"github.com/anphu-security/guardops/internal/models"
	"github.com/anphu-security/guardops/internal/repository"
	"github.com/anphu-security/guardops/pkg/database"
)

type serviceFixture struct {
	svc    *Service
	db     *database.DB
	guards *repository.GuardRepository
	shifts *repository.ShiftRepository
	leaves *repository.LeaveRepository

	contractID int64
	scheduleID int64
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.RunMigrations(filepath.Join("..", "..", "migrations")))

	contracts := repository.NewContractRepository(db.DB, logger)
	customers := repository.NewCustomerRepository(db.DB, logger)
	schedules := repository.NewScheduleRepository(db.DB, logger)
	shifts := repository.NewShiftRepository(db.DB, logger)
	guards := repository.NewGuardRepository(db.DB, logger)
	leaves := repository.NewLeaveRepository(db.DB, logger)

	dispatcher := event.NewDispatcher(logger)
	t.Cleanup(func() { dispatcher.Close() })

	svc := NewService(db, contracts, schedules, shifts, guards, leaves,
		export.NewRosterExporter(logger), dispatcher, logger)

	ctx := context.Background()

	customer := &models.Customer{Name: "Công ty TNHH Sao Mai"}
	require.NoError(t, customers.Create(ctx, customer))

	contract := &models.Contract{
		ContractNumber: "05/HĐBV/2025",
		CustomerID:     customer.ID,
		StartDate:      time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		Status:         models.ContractStatusActive,
	}
	require.NoError(t, contracts.Create(ctx, contract))

	sched := &models.ShiftSchedule{
		ContractID: contract.ID,
		Name:       "Ca sáng",
		StartTime:  models.TimeOfDay{Hour: 6},
		EndTime:    models.TimeOfDay{Hour: 14},
	}
	require.NoError(t, schedules.Create(ctx, sched))

	return &serviceFixture{
		svc:        svc,
		db:         db,
		guards:     guards,
		shifts:     shifts,
		leaves:     leaves,
		contractID: contract.ID,
		scheduleID: sched.ID,
	}
}

func (f *serviceFixture) seedGuard(t *testing.T, pendingLeave int) *models.Guard {
	t.Helper()
	guard := &models.Guard{
		FullName:         "Nguyễn Văn An",
		Email:            "an.nguyen@anphu.vn",
		PendingLeaveDays: pendingLeave,
	}
	require.NoError(t, f.guards.Create(context.Background(), guard))
	return guard
}

// seedAssignedShifts creates one scheduled shift per day in [from, to]
// assigned to the guard, and returns their ids.
func (f *serviceFixture) seedAssignedShifts(t *testing.T, guardID int64, from, to time.Time) []int64 {
	t.Helper()
	ctx := context.Background()

	var ids []int64
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		shift, err := f.svc.Create(ctx, f.contractID, f.scheduleID, d)
		require.NoError(t, err)
		require.NoError(t, f.svc.AssignGuard(ctx, shift.ID, guardID))
		ids = append(ids, shift.ID)
	}
	return ids
}

func TestService_Create(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	shift, err := f.svc.Create(ctx, f.contractID, f.scheduleID, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, models.ShiftStatusScheduled, shift.Status)
	assert.Nil(t, shift.GuardID)

	t.Run("unknown contract", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 9999, f.scheduleID, time.Now())
		assert.ErrorContains(t, err, "contract 9999 not found")
	})

	t.Run("schedule from another contract", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.contractID, 9999, time.Now())
		assert.ErrorContains(t, err, "does not belong to contract")
	})
}

func TestService_GenerateFromSchedules(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

	created, err := f.svc.GenerateFromSchedules(ctx, f.contractID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 7, created)

	shifts, err := f.svc.List(ctx, f.contractID, from, to)
	require.NoError(t, err)
	require.Len(t, shifts, 7)
	assert.True(t, shifts[0].Date.Equal(from))
	assert.True(t, shifts[6].Date.Equal(to))

	t.Run("reversed range", func(t *testing.T) {
		_, err := f.svc.GenerateFromSchedules(ctx, f.contractID, to, from)
		assert.ErrorContains(t, err, "invalid date range")
	})
}

func TestService_UpdateStatus(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	shift, err := f.svc.Create(ctx, f.contractID, f.scheduleID, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(ctx, shift.ID, models.ShiftStatusCompleted))

	shifts, err := f.svc.List(ctx, f.contractID, shift.Date, shift.Date)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, models.ShiftStatusCompleted, shifts[0].Status)

	assert.ErrorContains(t, f.svc.UpdateStatus(ctx, shift.ID, "on-holiday"), "invalid shift status")
}

func TestService_BulkCancel(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	guard := f.seedGuard(t, 5)
	from := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.May, 7, 0, 0, 0, 0, time.UTC)
	ids := f.seedAssignedShifts(t, guard.ID, from, to)

	// A shift outside the range must stay untouched.
	outside, err := f.svc.Create(ctx, f.contractID, f.scheduleID, to.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.NoError(t, f.svc.AssignGuard(ctx, outside.ID, guard.ID))

	result, err := f.svc.BulkCancel(ctx, BulkCancelInput{
		GuardID: guard.ID,
		From:    from,
		To:      to,
		Reason:  "nghỉ phép năm",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.CancelledShifts)
	assert.Equal(t, ids, result.ShiftIDs)

	shifts, err := f.svc.List(ctx, f.contractID, from, to)
	require.NoError(t, err)
	for _, s := range shifts {
		assert.Equal(t, models.ShiftStatusCancelled, s.Status)
	}

	remaining, err := f.svc.List(ctx, f.contractID, outside.Date, outside.Date)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, models.ShiftStatusScheduled, remaining[0].Status)

	count, err := f.leaves.CountByGuard(guard.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	updated, err := f.guards.GetByID(ctx, guard.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.PendingLeaveDays)
}

func TestService_BulkCancel_PendingLeaveClampedAtZero(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	guard := f.seedGuard(t, 1)
	from := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC)
	f.seedAssignedShifts(t, guard.ID, from, to)

	_, err := f.svc.BulkCancel(ctx, BulkCancelInput{
		GuardID: guard.ID,
		From:    from,
		To:      to,
		Reason:  "việc gia đình",
	})
	require.NoError(t, err)

	updated, err := f.guards.GetByID(ctx, guard.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.PendingLeaveDays)
}

func TestService_BulkCancel_Validation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	guard := f.seedGuard(t, 3)

	day := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	t.Run("blank reason", func(t *testing.T) {
		_, err := f.svc.BulkCancel(ctx, BulkCancelInput{GuardID: guard.ID, From: day, To: day, Reason: "  "})
		assert.ErrorContains(t, err, "reason is required")
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := f.svc.BulkCancel(ctx, BulkCancelInput{
			GuardID: guard.ID, From: day, To: day.AddDate(0, 0, -1), Reason: "nghỉ phép",
		})
		assert.ErrorContains(t, err, "invalid date range")
	})

	t.Run("unknown guard", func(t *testing.T) {
		_, err := f.svc.BulkCancel(ctx, BulkCancelInput{GuardID: 9999, From: day, To: day, Reason: "nghỉ phép"})
		assert.ErrorContains(t, err, "guard 9999 not found")
	})
}

func TestService_BulkCancel_NoShiftsRollsBack(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	guard := f.seedGuard(t, 4)
	day := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)

	// Shift exists but is already completed, so nothing matches scheduled.
	shift, err := f.svc.Create(ctx, f.contractID, f.scheduleID, day)
	require.NoError(t, err)
	require.NoError(t, f.svc.AssignGuard(ctx, shift.ID, guard.ID))
	require.NoError(t, f.svc.UpdateStatus(ctx, shift.ID, models.ShiftStatusCompleted))

	_, err = f.svc.BulkCancel(ctx, BulkCancelInput{GuardID: guard.ID, From: day, To: day, Reason: "nghỉ phép"})
	assert.ErrorContains(t, err, "no scheduled shifts in range")

	count, err := f.leaves.CountByGuard(guard.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	updated, err := f.guards.GetByID(ctx, guard.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.PendingLeaveDays)
}

func TestService_ExportRoster(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	guard := f.seedGuard(t, 0)
	from := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC)
	f.seedAssignedShifts(t, guard.ID, from, to)

	file, err := f.svc.ExportRoster(ctx, f.contractID, from, to)
	require.NoError(t, err)
	require.NotNil(t, file)
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	t.Run("unknown contract", func(t *testing.T) {
		_, err := f.svc.ExportRoster(ctx, 9999, from, to)
		assert.ErrorContains(t, err, "contract 9999 not found")
	})
}

package models

import "time"

// Shift statuses
const (
	ShiftStatusScheduled      = "scheduled"
	ShiftStatusCompleted      = "completed"
	ShiftStatusCancelled      = "cancelled"
	ShiftStatusLeaveRequested = "leave_requested"
)

// Guard is a field employee assignable to shifts
type Guard struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	PendingLeaveDays int       `json:"pending_leave_days"`
	CreatedAt        time.Time `json:"created_at"`
}

// Shift is a dated work assignment generated from a contract's shift schedule
type Shift struct {
	ID         int64     `json:"id"`
	ContractID int64     `json:"contract_id"`
	ScheduleID int64     `json:"schedule_id"`
	GuardID    *int64    `json:"guard_id,omitempty"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LeaveCancellation is an audit row written for each shift cancelled in a bulk
// leave-cancellation run
type LeaveCancellation struct {
	ID        int64     `json:"id"`
	ShiftID   int64     `json:"shift_id"`
	GuardID   int64     `json:"guard_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

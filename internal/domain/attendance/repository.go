package attendance

import (
	"context"
	"time"
)

// DraftFields is the non-transition mutation: free-text updates that may run
// concurrently with state transitions but never against a terminal record.
type DraftFields struct {
	Tasks   string
	Wip     string
	Pending string
	Issues  string
}

// AttendanceRepository defines data access for attendance records. Mutating
// methods are conditional on the caller's observed status so that concurrent
// transitions on the same record serialize instead of overwriting each other.
type AttendanceRepository interface {
	// Create inserts a new session. A unique index on (employee_id, date)
	// backs the one-open-session-per-day guarantee under races.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetOpenByEmployee returns the employee's non-terminal session, or nil.
	GetOpenByEmployee(ctx context.Context, employeeID string) (*Attendance, error)

	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// UpdateIfStatus writes the record only if its stored status still equals
	// expected (compare-and-set). Returns ErrStateChanged when the row was
	// transitioned by a concurrent actor.
	UpdateIfStatus(ctx context.Context, attendance Attendance, expected Status) error

	// UpdateDraftIfOpen updates draft fields only while the record is
	// non-terminal. Returns ErrSessionClosed otherwise.
	UpdateDraftIfOpen(ctx context.Context, id string, draft DraftFields) error

	// UpdateTimes rewrites check-in/check-out after an approved correction.
	UpdateTimes(ctx context.Context, id string, checkIn time.Time, checkOut *time.Time, workingHours *float64) error

	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Attendance, int64, error)

	ListByDate(ctx context.Context, date time.Time, status *Status) ([]Attendance, error)

	// ListOpenBefore returns non-terminal sessions whose working day is
	// strictly before the given day. Used by the auto-close sweeper.
	ListOpenBefore(ctx context.Context, day time.Time) ([]Attendance, error)

	ListRange(ctx context.Context, start time.Time, end time.Time) ([]Attendance, error)
}

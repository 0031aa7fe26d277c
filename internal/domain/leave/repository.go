package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequest, error)

	// UpdateStatusIfPending reviews a request only while it is still PENDING
	// (compare-and-set). Returns ErrLeaveAlreadyProcessed when another
	// reviewer got there first.
	UpdateStatusIfPending(ctx context.Context, id string, status LeaveRequestStatus, reviewedBy string, reviewedAt time.Time) error

	// SumApprovedDays totals the day spans of APPROVED requests of the given
	// type overlapping [periodStart, periodEnd]. The ledger is derived from
	// this on every read, never stored.
	SumApprovedDays(ctx context.Context, employeeID string, leaveType LeaveType, periodStart time.Time, periodEnd time.Time) (int, error)
}

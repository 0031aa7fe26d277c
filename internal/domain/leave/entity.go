package leave

import "time"

// LeaveType is the fixed set of leave categories. Each has a configured
// yearly allotment.
type LeaveType string

const (
	LeaveTypeCasual LeaveType = "Casual"
	LeaveTypeSick   LeaveType = "Sick"
	LeaveTypePaid   LeaveType = "Paid"
	LeaveTypeUnpaid LeaveType = "Unpaid"
)

func LeaveTypes() []LeaveType {
	return []LeaveType{LeaveTypeCasual, LeaveTypeSick, LeaveTypePaid, LeaveTypeUnpaid}
}

type LeaveRequestStatus string

const (
	LeaveStatusPending  LeaveRequestStatus = "PENDING"
	LeaveStatusApproved LeaveRequestStatus = "APPROVED"
	LeaveStatusRejected LeaveRequestStatus = "REJECTED"
)

// LeaveRequest entity. The balance ledger only moves when a request
// transitions to APPROVED; creation and rejection have no balance effect.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType

	StartDate time.Time
	EndDate   time.Time

	Reason string
	Status LeaveRequestStatus

	ReviewedBy *string
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// Days is the inclusive calendar-day span of the request.
func (r LeaveRequest) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

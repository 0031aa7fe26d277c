package correction

import "time"

type CorrectionStatus string

const (
	CorrectionStatusPending  CorrectionStatus = "PENDING"
	CorrectionStatusApproved CorrectionStatus = "APPROVED"
	CorrectionStatusRejected CorrectionStatus = "REJECTED"
)

// CorrectionRequest is an append-only request to retroactively edit an
// attendance record's check-in/check-out. Approval applies the edit; the
// request itself is never deleted.
type CorrectionRequest struct {
	ID         string
	EmployeeID string
	Date       time.Time // working day of the target record

	RequestedCheckIn  *time.Time
	RequestedCheckOut *time.Time
	Reason            string

	Status     CorrectionStatus
	ReviewedBy *string
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

package leave

import (
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE DTOs
// ========================================

type ApplyLeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	types := []string{
		string(LeaveTypeCasual), string(LeaveTypeSick),
		string(LeaveTypePaid), string(LeaveTypeUnpaid),
	}
	if !validator.IsInSlice(r.Type, types) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of Casual, Sick, Paid, Unpaid",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateLeaveStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Status, []string{string(LeaveStatusApproved), string(LeaveStatusRejected)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be APPROVED or REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveFilter struct {
	Status *string
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && *f.Status != "" {
		valid := []string{
			string(LeaveStatusPending), string(LeaveStatusApproved), string(LeaveStatusRejected),
		}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of PENDING, APPROVED, REJECTED",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveResponse struct {
	ID           string             `json:"id"`
	EmployeeID   string             `json:"employee_id"`
	EmployeeName *string            `json:"employee_name,omitempty"`
	Type         LeaveType          `json:"type"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Days         int                `json:"days"`
	Reason       string             `json:"reason"`
	Status       LeaveRequestStatus `json:"status"`
	ReviewedBy   *string            `json:"reviewed_by,omitempty"`
	ReviewedAt   *string            `json:"reviewed_at,omitempty"`
	CreatedAt    string             `json:"created_at"`
}

// UpdateLeaveStatusResponse carries the remaining balance after an approval.
// BalanceWarning is set when the approval drove the balance negative under the
// soft-cap policy.
type UpdateLeaveStatusResponse struct {
	Leave          LeaveResponse `json:"leave"`
	BalanceAfter   *int          `json:"balance_after,omitempty"`
	BalanceWarning *string       `json:"balance_warning,omitempty"`
}

type BalanceResponse struct {
	Type      LeaveType `json:"type"`
	Allotment int       `json:"allotment"`
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
}

// MapToResponse converts a LeaveRequest entity to LeaveResponse
func MapToResponse(req LeaveRequest) LeaveResponse {
	var reviewedAt *string
	if req.ReviewedAt != nil {
		formatted := req.ReviewedAt.Format(time.RFC3339)
		reviewedAt = &formatted
	}

	return LeaveResponse{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Type:         req.Type,
		StartDate:    req.StartDate.Format("2006-01-02"),
		EndDate:      req.EndDate.Format("2006-01-02"),
		Days:         req.Days(),
		Reason:       req.Reason,
		Status:       req.Status,
		ReviewedBy:   req.ReviewedBy,
		ReviewedAt:   reviewedAt,
		CreatedAt:    req.CreatedAt.Format(time.RFC3339),
	}
}

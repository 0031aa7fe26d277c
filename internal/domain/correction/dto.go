package correction

import (
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/pkg/validator"
)

type SubmitCorrectionRequest struct {
	Date              string  `json:"date"`
	RequestedCheckIn  *string `json:"requested_check_in,omitempty"`
	RequestedCheckOut *string `json:"requested_check_out,omitempty"`
	Reason            string  `json:"reason"`
}

func (r *SubmitCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.RequestedCheckIn == nil && r.RequestedCheckOut == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_check_in",
			Message: "at least one of requested_check_in or requested_check_out is required",
		})
	}

	if r.RequestedCheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.RequestedCheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_check_in",
				Message: "requested_check_in must be an ISO8601 timestamp",
			})
		}
	}

	if r.RequestedCheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.RequestedCheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_check_out",
				Message: "requested_check_out must be an ISO8601 timestamp",
			})
		}
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

type UpdateCorrectionStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateCorrectionStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Status, []string{string(CorrectionStatusApproved), string(CorrectionStatusRejected)}) {
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

type CorrectionFilter struct {
	Status *string
}

func (f *CorrectionFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && *f.Status != "" {
		valid := []string{
			string(CorrectionStatusPending), string(CorrectionStatusApproved), string(CorrectionStatusRejected),
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

type CorrectionResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	EmployeeName      *string          `json:"employee_name,omitempty"`
	Date              string           `json:"date"`
	RequestedCheckIn  *string          `json:"requested_check_in,omitempty"`
	RequestedCheckOut *string          `json:"requested_check_out,omitempty"`
	Reason            string           `json:"reason"`
	Status            CorrectionStatus `json:"status"`
	ReviewedBy        *string          `json:"reviewed_by,omitempty"`
	ReviewedAt        *string          `json:"reviewed_at,omitempty"`
	CreatedAt         string           `json:"created_at"`
}

// MapToResponse converts a CorrectionRequest entity to CorrectionResponse
func MapToResponse(req CorrectionRequest) CorrectionResponse {
	formatTime := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		formatted := t.Format(time.RFC3339)
		return &formatted
	}

	return CorrectionResponse{
		ID:                req.ID,
		EmployeeID:        req.EmployeeID,
		EmployeeName:      req.EmployeeName,
		Date:              req.Date.Format("2006-01-02"),
		RequestedCheckIn:  formatTime(req.RequestedCheckIn),
		RequestedCheckOut: formatTime(req.RequestedCheckOut),
		Reason:            req.Reason,
		Status:            req.Status,
		ReviewedBy:        req.ReviewedBy,
		ReviewedAt:        formatTime(req.ReviewedAt),
		CreatedAt:         req.CreatedAt.Format(time.RFC3339),
	}
}

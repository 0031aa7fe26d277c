package attendance

import (
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type SaveDraftRequest struct {
	Tasks   string `json:"tasks"`
	Wip     string `json:"wip"`
	Pending string `json:"pending"`
	Issues  string `json:"issues"`
}

type CheckOutRequest struct {
	Tasks   string `json:"tasks"`
	Wip     string `json:"wip"`
	Pending string `json:"pending"`
	Issues  string `json:"issues"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Tasks) {
		errs = append(errs, validator.ValidationError{
			Field:   "tasks",
			Message: "tasks is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Report converts the payload into the entity's report snapshot.
func (r *CheckOutRequest) Report() ReportFields {
	return ReportFields{
		Tasks:   r.Tasks,
		Wip:     r.Wip,
		Pending: r.Pending,
		Issues:  r.Issues,
	}
}

type HistoryFilter struct {
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TeamFilter struct {
	Date   *string
	Status *string
}

func (f *TeamFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != nil && *f.Date != "" {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Status != nil && *f.Status != "" {
		valid := []string{
			string(StatusActive), string(StatusPaused),
			string(StatusCompleted), string(StatusAutoClosed),
		}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of ACTIVE, PAUSED, COMPLETED, AUTO_CLOSED",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BreakIntervalResponse struct {
	PauseStart string  `json:"pause_start"`
	ResumeEnd  *string `json:"resume_end,omitempty"`
}

type AttendanceResponse struct {
	ID              string                  `json:"id"`
	EmployeeID      string                  `json:"employee_id"`
	EmployeeName    *string                 `json:"employee_name,omitempty"`
	Date            string                  `json:"date"`
	CheckIn         string                  `json:"check_in"`
	CheckOut        *string                 `json:"check_out,omitempty"`
	Status          Status                  `json:"status"`
	BreakIntervals  []BreakIntervalResponse `json:"break_intervals"`
	TotalBreakHours float64                 `json:"total_break_hours"`
	WorkingHours    *float64                `json:"working_hours,omitempty"`
	IsLate          bool                    `json:"is_late"`
	DraftTasks      string                  `json:"draft_tasks"`
	DraftWip        string                  `json:"draft_wip"`
	DraftPending    string                  `json:"draft_pending"`
	DraftIssues     string                  `json:"draft_issues"`
	ReportTasks     string                  `json:"report_tasks"`
	ReportWip       string                  `json:"report_wip"`
	ReportPending   string                  `json:"report_pending"`
	ReportIssues    string                  `json:"report_issues"`
}

// SessionResponse carries the record together with the authoritative server
// time. The client computes offset = server_time - local_time_at_receipt once
// per fetch and renders its live counter from (local_now + offset); it never
// reports locally computed elapsed time back.
type SessionResponse struct {
	ServerTime string             `json:"server_time"`
	Attendance AttendanceResponse `json:"attendance"`
}

// TodayResponse is SessionResponse with an optional record: attendance is
// null before the first check-in of the day.
type TodayResponse struct {
	ServerTime string              `json:"server_time"`
	Attendance *AttendanceResponse `json:"attendance,omitempty"`
}

type TeamResponse struct {
	ServerTime  string               `json:"server_time"`
	Date        string               `json:"date"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// MapToResponse converts an Attendance entity to AttendanceResponse. The live
// break total is evaluated against the authoritative now.
func MapToResponse(att Attendance, now time.Time) AttendanceResponse {
	intervals := make([]BreakIntervalResponse, 0, len(att.BreakIntervals))
	for _, interval := range att.BreakIntervals {
		item := BreakIntervalResponse{
			PauseStart: interval.PauseStart.Format(time.RFC3339),
		}
		if interval.ResumeEnd != nil {
			end := interval.ResumeEnd.Format(time.RFC3339)
			item.ResumeEnd = &end
		}
		intervals = append(intervals, item)
	}

	var checkOut *string
	if att.CheckOut != nil {
		formatted := att.CheckOut.Format(time.RFC3339)
		checkOut = &formatted
	}

	breakUntil := now
	if att.CheckOut != nil {
		breakUntil = *att.CheckOut
	}

	return AttendanceResponse{
		ID:              att.ID,
		EmployeeID:      att.EmployeeID,
		EmployeeName:    att.EmployeeName,
		Date:            att.Date.Format("2006-01-02"),
		CheckIn:         att.CheckIn.Format(time.RFC3339),
		CheckOut:        checkOut,
		Status:          att.Status,
		BreakIntervals:  intervals,
		TotalBreakHours: att.TotalBreakHours(breakUntil),
		WorkingHours:    att.WorkingHours,
		IsLate:          att.IsLate,
		DraftTasks:      att.DraftTasks,
		DraftWip:        att.DraftWip,
		DraftPending:    att.DraftPending,
		DraftIssues:     att.DraftIssues,
		ReportTasks:     att.ReportTasks,
		ReportWip:       att.ReportWip,
		ReportPending:   att.ReportPending,
		ReportIssues:    att.ReportIssues,
	}
}

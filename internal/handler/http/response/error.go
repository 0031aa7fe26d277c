package response

import (
	"errors"
	"net/http"

	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/correction"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/employee"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/leave"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/user"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		NotFound(w, "No open session, check in first")
	case errors.Is(err, attendance.ErrSessionNotActive):
		Conflict(w, "Session is not active")
	case errors.Is(err, attendance.ErrSessionNotPaused):
		Conflict(w, "Session is not paused")
	case errors.Is(err, attendance.ErrSessionClosed):
		Conflict(w, "Session is already closed")
	case errors.Is(err, attendance.ErrStateChanged):
		Conflict(w, "Session was changed by another request, refresh and retry")
	case errors.Is(err, attendance.ErrReportTasksRequired):
		ValidationError(w, map[string]string{"tasks": "tasks is required"})
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrInvalidLeaveType):
		BadRequest(w, "Invalid leave type", nil)

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrCorrectionAlreadyProcessed):
		Conflict(w, "Correction request already processed")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

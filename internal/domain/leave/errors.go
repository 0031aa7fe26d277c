package leave

import "errors"

// Leave domain errors
var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed = errors.New("leave request has already been approved or rejected")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")
	ErrInvalidLeaveType      = errors.New("invalid leave type")
)

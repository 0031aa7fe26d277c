package attendance

import "errors"

// Attendance domain errors
var (
	// Transition errors
	ErrAlreadyCheckedIn    = errors.New("a session is already open for today")
	ErrNotCheckedIn        = errors.New("you have not checked in yet")
	ErrSessionNotActive    = errors.New("session is not active")
	ErrSessionNotPaused    = errors.New("session is not paused")
	ErrSessionClosed       = errors.New("session is already closed")
	ErrReportTasksRequired = errors.New("report tasks must not be empty")

	// ErrStateChanged is returned when a conditional update loses a race:
	// another actor committed a transition first.
	ErrStateChanged = errors.New("session was modified concurrently")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

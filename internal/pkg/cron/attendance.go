package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
)

// AttendanceJobs contains attendance-related cron jobs
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	clock          clock.Clock
	policy         attendance.ShiftPolicy
	sweepInterval  time.Duration
	copyDraft      bool
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	clk clock.Clock,
	policy attendance.ShiftPolicy,
	sweepInterval time.Duration,
	copyDraft bool,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		clock:          clk,
		policy:         policy,
		sweepInterval:  sweepInterval,
		copyDraft:      copyDraft,
	}
}

// RegisterJobs registers all attendance-related cron jobs
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_sessions", j.sweepInterval, j.AutoCloseStaleSessions)
}

// AutoCloseStaleSessions force-closes sessions left open past the end of their
// working day. Each record is closed at its own day-end cutoff, not at sweep
// time, so a sweep that runs late never inflates working hours. The sweep is
// idempotent: already-closed records are simply not selected, and a record
// transitioned concurrently is skipped via the conditional write.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	today := j.policy.DayOf(j.clock.Now())

	staleSessions, err := j.attendanceRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list stale sessions: %w", err)
	}

	if len(staleSessions) == 0 {
		return nil
	}

	closedCount := 0
	for _, session := range staleSessions {
		cutoff := j.policy.DayEndOf(session.Date)
		expected := session.Status

		if err := session.AutoClose(cutoff, j.copyDraft); err != nil {
			slog.Error("Cron: Failed to auto-close attendance",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}

		if err := j.attendanceRepo.UpdateIfStatus(ctx, session, expected); err != nil {
			if errors.Is(err, attendance.ErrStateChanged) {
				// The employee checked out between the list and the write.
				slog.Info("Cron: Skipping attendance closed concurrently",
					"attendance_id", session.ID)
				continue
			}
			slog.Error("Cron: Failed to auto-close attendance",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}

		closedCount++
	}

	slog.Info("Cron: Auto-closed stale attendances", "count", closedCount)
	return nil
}

package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
)

func sweepPolicy() attendance.ShiftPolicy {
	return attendance.ShiftPolicy{
		Location: time.UTC,
		Start:    9 * time.Hour,
		Grace:    10 * time.Minute,
		DayEnd:   23*time.Hour + 59*time.Minute + 59*time.Second,
	}
}

type sweepRepo struct {
	attendance.AttendanceRepository
	records map[string]attendance.Attendance
}

func newSweepRepo() *sweepRepo {
	return &sweepRepo{records: make(map[string]attendance.Attendance)}
}

func (f *sweepRepo) ListOpenBefore(_ context.Context, day time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range f.records {
		if att.Date.Before(day) && !att.Status.Terminal() {
			result = append(result, att)
		}
	}
	return result, nil
}

func (f *sweepRepo) UpdateIfStatus(_ context.Context, att attendance.Attendance, expected attendance.Status) error {
	stored, ok := f.records[att.ID]
	if !ok || stored.Status != expected {
		return attendance.ErrStateChanged
	}
	f.records[att.ID] = att
	return nil
}

func TestSweepClosesStaleSessionsAtTheirOwnDayEnd(t *testing.T) {
	policy := sweepPolicy()
	repo := newSweepRepo()

	// Session opened yesterday and never checked out.
	checkIn := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	stale := attendance.New("att-1", "emp-1", checkIn, policy)
	stale.DraftTasks = "half-finished migration"
	repo.records["att-1"] = stale

	// Session opened today stays untouched.
	today := attendance.New("att-2", "emp-2", time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), policy)
	repo.records["att-2"] = today

	// Sweep runs well past midnight; the cutoff must still be yesterday's
	// day end, not the sweep time.
	sweepTime := time.Date(2026, 3, 9, 3, 30, 0, 0, time.UTC)
	jobs := NewAttendanceJobs(repo, clock.Fixed(sweepTime), policy, time.Hour, true)

	require.NoError(t, jobs.AutoCloseStaleSessions(context.Background()))

	closed := repo.records["att-1"]
	assert.Equal(t, attendance.StatusAutoClosed, closed.Status)
	require.NotNil(t, closed.CheckOut)
	assert.Equal(t, policy.DayEndOf(stale.Date), *closed.CheckOut)
	assert.Equal(t, "half-finished migration", closed.ReportTasks)

	assert.Equal(t, attendance.StatusActive, repo.records["att-2"].Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	policy := sweepPolicy()
	repo := newSweepRepo()

	checkIn := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	repo.records["att-1"] = attendance.New("att-1", "emp-1", checkIn, policy)

	sweepTime := time.Date(2026, 3, 9, 1, 0, 0, 0, time.UTC)
	jobs := NewAttendanceJobs(repo, clock.Fixed(sweepTime), policy, time.Hour, false)

	require.NoError(t, jobs.AutoCloseStaleSessions(context.Background()))
	first := repo.records["att-1"]

	require.NoError(t, jobs.AutoCloseStaleSessions(context.Background()))
	assert.Equal(t, first, repo.records["att-1"], "second sweep must not touch the record")
}

func TestSweepClosesPausedSessions(t *testing.T) {
	policy := sweepPolicy()
	repo := newSweepRepo()

	checkIn := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	session := attendance.New("att-1", "emp-1", checkIn, policy)
	require.NoError(t, session.Pause(time.Date(2026, 3, 8, 16, 0, 0, 0, time.UTC)))
	repo.records["att-1"] = session

	sweepTime := time.Date(2026, 3, 9, 1, 0, 0, 0, time.UTC)
	jobs := NewAttendanceJobs(repo, clock.Fixed(sweepTime), policy, time.Hour, false)

	require.NoError(t, jobs.AutoCloseStaleSessions(context.Background()))

	closed := repo.records["att-1"]
	assert.Equal(t, attendance.StatusAutoClosed, closed.Status)
	require.Len(t, closed.BreakIntervals, 1)
	require.NotNil(t, closed.BreakIntervals[0].ResumeEnd, "open break must be closed at the cutoff")
	assert.Equal(t, policy.DayEndOf(session.Date), *closed.BreakIntervals[0].ResumeEnd)
}

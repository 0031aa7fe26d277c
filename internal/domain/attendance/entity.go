package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusPaused     Status = "PAUSED"
	StatusCompleted  Status = "COMPLETED"
	StatusAutoClosed Status = "AUTO_CLOSED"
)

// Terminal reports whether the session is permanently closed to further
// state transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAutoClosed
}

// BreakInterval records one contiguous pause period. ResumeEnd is nil while
// the pause is still running.
type BreakInterval struct {
	PauseStart time.Time  `json:"pause_start"`
	ResumeEnd  *time.Time `json:"resume_end,omitempty"`
}

// BreakIntervals is stored as JSONB on the attendance row.
type BreakIntervals []BreakInterval

// Value implements driver.Valuer for database storage
func (b BreakIntervals) Value() (driver.Value, error) {
	if b == nil {
		return json.Marshal(BreakIntervals{})
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for database retrieval
func (b *BreakIntervals) Scan(value interface{}) error {
	if value == nil {
		*b = BreakIntervals{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan BreakIntervals: invalid type")
	}

	return json.Unmarshal(bytes, b)
}

// openIndex returns the index of the open interval, or -1. The state machine
// guarantees at most one interval is open at a time.
func (b BreakIntervals) openIndex() int {
	for i := range b {
		if b[i].ResumeEnd == nil {
			return i
		}
	}
	return -1
}

// TotalHours is the accumulated break time in decimal hours: the sum of all
// closed intervals plus, if a pause is running, its duration up to now. It is
// always recomputed from the intervals, never kept as a running counter.
func (b BreakIntervals) TotalHours(now time.Time) float64 {
	var total time.Duration
	for _, interval := range b {
		end := now
		if interval.ResumeEnd != nil {
			end = *interval.ResumeEnd
		}
		if d := end.Sub(interval.PauseStart); d > 0 {
			total += d
		}
	}
	return total.Hours()
}

// ReportFields is the end-of-day report submitted at checkout.
type ReportFields struct {
	Tasks   string
	Wip     string
	Pending string
	Issues  string
}

// Attendance is one employee's working session for one calendar day.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time // working day (local midnight), not a timestamp
	CheckIn    time.Time
	CheckOut   *time.Time
	Status     Status

	BreakIntervals BreakIntervals
	WorkingHours   *float64 // set only on transition to a terminal status
	IsLate         bool

	// Draft fields are free text, mutable while the session is open.
	DraftTasks   string
	DraftWip     string
	DraftPending string
	DraftIssues  string

	// Report fields are an immutable snapshot taken at checkout or auto-close.
	ReportTasks   string
	ReportWip     string
	ReportPending string
	ReportIssues  string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// ShiftPolicy describes the configured working day: its timezone, when it
// starts, the lateness grace period, and the end-of-day cutoff used by the
// auto-close sweeper.
type ShiftPolicy struct {
	Location *time.Location
	Start    time.Duration // offset from local midnight
	Grace    time.Duration
	DayEnd   time.Duration // offset from local midnight
}

// DayOf truncates an authoritative timestamp to the working day it falls on.
func (p ShiftPolicy) DayOf(t time.Time) time.Time {
	local := t.In(p.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location)
}

// DayEndOf returns the auto-close cutoff for the given working day.
func (p ShiftPolicy) DayEndOf(day time.Time) time.Time {
	return day.Add(p.DayEnd)
}

// IsLate compares a check-in against shift start plus grace on that day.
func (p ShiftPolicy) IsLate(checkIn time.Time) bool {
	day := p.DayOf(checkIn)
	return checkIn.After(day.Add(p.Start + p.Grace))
}

// New creates a fresh ACTIVE session. IsLate is fixed here and never
// recomputed.
func New(id string, employeeID string, now time.Time, policy ShiftPolicy) Attendance {
	return Attendance{
		ID:             id,
		EmployeeID:     employeeID,
		Date:           policy.DayOf(now),
		CheckIn:        now,
		Status:         StatusActive,
		BreakIntervals: BreakIntervals{},
		IsLate:         policy.IsLate(now),
	}
}

// Pause opens a new break interval. Legal only from ACTIVE.
func (a *Attendance) Pause(now time.Time) error {
	if a.Status.Terminal() {
		return ErrSessionClosed
	}
	if a.Status != StatusActive {
		return ErrSessionNotActive
	}
	a.BreakIntervals = append(a.BreakIntervals, BreakInterval{PauseStart: now})
	a.Status = StatusPaused
	return nil
}

// Resume closes the open break interval. Legal only from PAUSED.
func (a *Attendance) Resume(now time.Time) error {
	if a.Status.Terminal() {
		return ErrSessionClosed
	}
	if a.Status != StatusPaused {
		return ErrSessionNotPaused
	}
	a.closeOpenBreak(now)
	a.Status = StatusActive
	return nil
}

// Checkout completes the session. The report tasks field is required here,
// independent of any client-side validation.
func (a *Attendance) Checkout(now time.Time, report ReportFields) error {
	if a.Status.Terminal() {
		return ErrSessionClosed
	}
	if report.Tasks == "" {
		return ErrReportTasksRequired
	}
	a.closeOpenBreak(now)
	a.close(now, report)
	a.Status = StatusCompleted
	return nil
}

// AutoClose force-completes a forgotten session at the given cutoff, which is
// the end of the session's own working day rather than the sweep time, so
// hours never inflate across midnight.
func (a *Attendance) AutoClose(cutoff time.Time, copyDraft bool) error {
	if a.Status.Terminal() {
		return ErrSessionClosed
	}
	a.closeOpenBreak(cutoff)
	report := ReportFields{}
	if copyDraft {
		report = ReportFields{
			Tasks:   a.DraftTasks,
			Wip:     a.DraftWip,
			Pending: a.DraftPending,
			Issues:  a.DraftIssues,
		}
	}
	a.close(cutoff, report)
	a.Status = StatusAutoClosed
	return nil
}

// TotalBreakHours is the live break total as of now.
func (a *Attendance) TotalBreakHours(now time.Time) float64 {
	return a.BreakIntervals.TotalHours(now)
}

func (a *Attendance) closeOpenBreak(at time.Time) {
	if i := a.BreakIntervals.openIndex(); i >= 0 {
		end := at
		if end.Before(a.BreakIntervals[i].PauseStart) {
			end = a.BreakIntervals[i].PauseStart
		}
		a.BreakIntervals[i].ResumeEnd = &end
	}
}

func (a *Attendance) close(at time.Time, report ReportFields) {
	out := at
	a.CheckOut = &out

	hours := out.Sub(a.CheckIn).Hours() - a.BreakIntervals.TotalHours(at)
	if hours < 0 {
		hours = 0
	}
	a.WorkingHours = &hours

	a.ReportTasks = report.Tasks
	a.ReportWip = report.Wip
	a.ReportPending = report.Pending
	a.ReportIssues = report.Issues
}

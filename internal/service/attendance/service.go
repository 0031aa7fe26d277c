package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	clock  clock.Clock
	policy attendance.ShiftPolicy
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	clk clock.Clock,
	policy attendance.ShiftPolicy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		clock:                clk,
		policy:               policy,
	}
}

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	now := a.clock.Now()
	day := a.policy.DayOf(now)

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayResponse{
		ServerTime: now.Format(time.RFC3339),
	}
	if record != nil {
		mapped := attendance.MapToResponse(*record, now)
		resp.Attendance = &mapped
	}

	return resp, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.SessionResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := a.clock.Now()
	day := a.policy.DayOf(now)

	// One session per employee per working day, closed or not. The unique
	// index on (employee_id, date) enforces the same rule under races.
	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.SessionResponse{}, attendance.ErrAlreadyCheckedIn
	}

	record := attendance.New(uuid.New().String(), employeeID, now, a.policy)

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return attendance.SessionResponse{
		ServerTime: now.Format(time.RFC3339),
		Attendance: attendance.MapToResponse(created, now),
	}, nil
}

// Pause implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Pause(ctx context.Context) (attendance.SessionResponse, error) {
	return a.transition(ctx, func(record *attendance.Attendance, now time.Time) error {
		return record.Pause(now)
	})
}

// Resume implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Resume(ctx context.Context) (attendance.SessionResponse, error) {
	return a.transition(ctx, func(record *attendance.Attendance, now time.Time) error {
		return record.Resume(now)
	})
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	return a.transition(ctx, func(record *attendance.Attendance, now time.Time) error {
		return record.Checkout(now, req.Report())
	})
}

// openSession loads the caller's open session. When none is open it
// distinguishes a day with no record at all (not checked in) from a day whose
// record is already closed (conflict).
func (a *AttendanceServiceImpl) openSession(ctx context.Context, employeeID string, now time.Time) (*attendance.Attendance, error) {
	record, err := a.AttendanceRepository.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if record != nil {
		return record, nil
	}

	closed, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, a.policy.DayOf(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if closed != nil {
		return nil, attendance.ErrSessionClosed
	}

	return nil, attendance.ErrNotCheckedIn
}

// transition loads the caller's open session, applies the state change and
// writes it back conditionally on the status it was loaded with. A concurrent
// transition on the same record surfaces as ErrStateChanged instead of a
// silent overwrite.
func (a *AttendanceServiceImpl) transition(ctx context.Context, apply func(*attendance.Attendance, time.Time) error) (attendance.SessionResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := a.clock.Now()

	record, err := a.openSession(ctx, employeeID, now)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	expected := record.Status
	if err := apply(record, now); err != nil {
		return attendance.SessionResponse{}, err
	}

	if err := a.AttendanceRepository.UpdateIfStatus(ctx, *record, expected); err != nil {
		return attendance.SessionResponse{}, err
	}

	return attendance.SessionResponse{
		ServerTime: now.Format(time.RFC3339),
		Attendance: attendance.MapToResponse(*record, now),
	}, nil
}

// SaveDraft implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SaveDraft(ctx context.Context, req attendance.SaveDraftRequest) (attendance.SessionResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := a.clock.Now()

	record, err := a.openSession(ctx, employeeID, now)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	draft := attendance.DraftFields{
		Tasks:   req.Tasks,
		Wip:     req.Wip,
		Pending: req.Pending,
		Issues:  req.Issues,
	}
	if err := a.AttendanceRepository.UpdateDraftIfOpen(ctx, record.ID, draft); err != nil {
		return attendance.SessionResponse{}, err
	}

	record.DraftTasks = draft.Tasks
	record.DraftWip = draft.Wip
	record.DraftPending = draft.Pending
	record.DraftIssues = draft.Issues

	return attendance.SessionResponse{
		ServerTime: now.Format(time.RFC3339),
		Attendance: attendance.MapToResponse(*record, now),
	}, nil
}

// GetMyHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	now := a.clock.Now()

	records, totalCount, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.MapToResponse(record, now))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  totalCount,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(totalCount) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

// GetTeam implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTeam(ctx context.Context, filter attendance.TeamFilter) (attendance.TeamResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.TeamResponse{}, err
	}

	now := a.clock.Now()
	day := a.policy.DayOf(now)

	if filter.Date != nil && *filter.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *filter.Date, a.policy.Location)
		if err != nil {
			return attendance.TeamResponse{}, fmt.Errorf("failed to parse date filter: %w", err)
		}
		day = parsed
	}

	var status *attendance.Status
	if filter.Status != nil && *filter.Status != "" {
		s := attendance.Status(*filter.Status)
		status = &s
	}

	records, err := a.AttendanceRepository.ListByDate(ctx, day, status)
	if err != nil {
		return attendance.TeamResponse{}, fmt.Errorf("failed to list team attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.MapToResponse(record, now))
	}

	return attendance.TeamResponse{
		ServerTime:  now.Format(time.RFC3339),
		Date:        day.Format("2006-01-02"),
		Attendances: responses,
	}, nil
}

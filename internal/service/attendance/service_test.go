package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/user"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/jwt"
)

func testPolicy() attendance.ShiftPolicy {
	return attendance.ShiftPolicy{
		Location: time.UTC,
		Start:    9 * time.Hour,
		Grace:    10 * time.Minute,
		DayEnd:   23*time.Hour + 59*time.Minute + 59*time.Second,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 0, 0, time.UTC)
}

func authedContext(t *testing.T, employeeID string) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret", "1h")
	tokenString, _, err := svc.GenerateAccessToken(employeeID, user.RoleEmployee)
	require.NoError(t, err)
	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// fakeAttendanceRepo is an in-memory AttendanceRepository with the same
// conditional-write semantics as the SQL implementation.
type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance

	// beforeUpdate runs before every conditional write, to simulate a
	// concurrent actor racing the caller.
	beforeUpdate func()
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for _, existing := range f.records {
		if existing.EmployeeID == att.EmployeeID && existing.Date.Equal(att.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	att, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepo) GetOpenByEmployee(_ context.Context, employeeID string) (*attendance.Attendance, error) {
	for _, att := range f.records {
		if att.EmployeeID == employeeID && !att.Status.Terminal() {
			copy := att
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	for _, att := range f.records {
		if att.EmployeeID == employeeID && att.Date.Equal(date) {
			copy := att
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) UpdateIfStatus(_ context.Context, att attendance.Attendance, expected attendance.Status) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	stored, ok := f.records[att.ID]
	if !ok || stored.Status != expected {
		return attendance.ErrStateChanged
	}
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) UpdateDraftIfOpen(_ context.Context, id string, draft attendance.DraftFields) error {
	stored, ok := f.records[id]
	if !ok || stored.Status.Terminal() {
		return attendance.ErrSessionClosed
	}
	stored.DraftTasks = draft.Tasks
	stored.DraftWip = draft.Wip
	stored.DraftPending = draft.Pending
	stored.DraftIssues = draft.Issues
	f.records[id] = stored
	return nil
}

func (f *fakeAttendanceRepo) UpdateTimes(_ context.Context, id string, checkIn time.Time, checkOut *time.Time, workingHours *float64) error {
	stored, ok := f.records[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	stored.CheckIn = checkIn
	stored.CheckOut = checkOut
	stored.WorkingHours = workingHours
	f.records[id] = stored
	return nil
}

func (f *fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID string, _ attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	var result []attendance.Attendance
	for _, att := range f.records {
		if att.EmployeeID == employeeID {
			result = append(result, att)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeAttendanceRepo) ListByDate(_ context.Context, date time.Time, status *attendance.Status) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range f.records {
		if att.Date.Equal(date) && (status == nil || att.Status == *status) {
			result = append(result, att)
		}
	}
	return result, nil
}

func (f *fakeAttendanceRepo) ListOpenBefore(_ context.Context, day time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range f.records {
		if att.Date.Before(day) && !att.Status.Terminal() {
			result = append(result, att)
		}
	}
	return result, nil
}

func (f *fakeAttendanceRepo) ListRange(_ context.Context, start time.Time, end time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range f.records {
		if !att.Date.Before(start) && !att.Date.After(end) {
			result = append(result, att)
		}
	}
	return result, nil
}

func newTestService(repo *fakeAttendanceRepo, now time.Time) attendance.AttendanceService {
	return NewAttendanceService(repo, clock.Fixed(now), testPolicy())
}

func TestCheckInCreatesActiveSession(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, at(9, 5))
	ctx := authedContext(t, "emp-1")

	result, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	assert.Equal(t, at(9, 5).Format(time.RFC3339), result.ServerTime)
	assert.Equal(t, attendance.StatusActive, result.Attendance.Status)
	assert.Equal(t, "emp-1", result.Attendance.EmployeeID)
	assert.False(t, result.Attendance.IsLate)
}

func TestCheckInTwiceSameDayFails(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, at(9, 0))
	ctx := authedContext(t, "emp-1")

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckInAfterCheckOutSameDayFails(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)

	_, err = newTestService(repo, at(17, 0)).CheckOut(ctx, attendance.CheckOutRequest{Tasks: "done"})
	require.NoError(t, err)

	_, err = newTestService(repo, at(18, 0)).CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestPauseWithoutSessionFails(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo(), at(9, 0))

	_, err := svc.Pause(authedContext(t, "emp-1"))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestPauseResumeFlow(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)

	paused, err := newTestService(repo, at(11, 0)).Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPaused, paused.Attendance.Status)

	resumed, err := newTestService(repo, at(11, 30)).Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusActive, resumed.Attendance.Status)
	assert.InDelta(t, 0.5, resumed.Attendance.TotalBreakHours, 1e-9)
}

func TestConcurrentTransitionSurfacesStateChanged(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)

	// Another request pauses the session between this request's read and its
	// conditional write.
	repo.beforeUpdate = func() {
		repo.beforeUpdate = nil
		for id, att := range repo.records {
			require.NoError(t, att.Pause(at(10, 59)))
			repo.records[id] = att
		}
	}

	_, err = newTestService(repo, at(11, 0)).Pause(ctx)
	assert.ErrorIs(t, err, attendance.ErrStateChanged)
}

func TestCheckOutRequiresTasks(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)

	_, err = newTestService(repo, at(17, 0)).CheckOut(ctx, attendance.CheckOutRequest{Wip: "halfway"})
	assert.Error(t, err)

	// The session is untouched.
	open, err := repo.GetOpenByEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, attendance.StatusActive, open.Status)
}

func TestCheckOutComputesHours(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)
	_, err = newTestService(repo, at(11, 0)).Pause(ctx)
	require.NoError(t, err)
	_, err = newTestService(repo, at(11, 30)).Resume(ctx)
	require.NoError(t, err)

	result, err := newTestService(repo, at(18, 0)).CheckOut(ctx, attendance.CheckOutRequest{Tasks: "release"})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusCompleted, result.Attendance.Status)
	require.NotNil(t, result.Attendance.WorkingHours)
	assert.InDelta(t, 8.5, *result.Attendance.WorkingHours, 1e-9)
	assert.InDelta(t, 0.5, result.Attendance.TotalBreakHours, 1e-9)
}

func TestSaveDraftOnOpenSession(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)

	result, err := newTestService(repo, at(14, 0)).SaveDraft(ctx, attendance.SaveDraftRequest{
		Tasks: "import pipeline",
		Wip:   "mapping review",
	})
	require.NoError(t, err)
	assert.Equal(t, "import pipeline", result.Attendance.DraftTasks)
	assert.Equal(t, "mapping review", result.Attendance.DraftWip)
}

func TestSaveDraftAfterCheckOutConflicts(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)
	_, err = newTestService(repo, at(17, 0)).CheckOut(ctx, attendance.CheckOutRequest{Tasks: "done"})
	require.NoError(t, err)

	_, err = newTestService(repo, at(17, 30)).SaveDraft(ctx, attendance.SaveDraftRequest{Tasks: "late edit"})
	assert.ErrorIs(t, err, attendance.ErrSessionClosed)
}

func TestPauseAfterCheckOutConflicts(t *testing.T) {
	repo := newFakeAttendanceRepo()
	ctx := authedContext(t, "emp-1")

	_, err := newTestService(repo, at(9, 0)).CheckIn(ctx)
	require.NoError(t, err)
	_, err = newTestService(repo, at(17, 0)).CheckOut(ctx, attendance.CheckOutRequest{Tasks: "done"})
	require.NoError(t, err)

	_, err = newTestService(repo, at(17, 30)).Pause(ctx)
	assert.ErrorIs(t, err, attendance.ErrSessionClosed)
}

func TestSaveDraftWithoutSessionFails(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo(), at(9, 0))

	_, err := svc.SaveDraft(authedContext(t, "emp-1"), attendance.SaveDraftRequest{Tasks: "x"})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestGetTodayWithoutSession(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo(), at(8, 0))

	result, err := svc.GetToday(authedContext(t, "emp-1"))
	require.NoError(t, err)
	assert.Equal(t, at(8, 0).Format(time.RFC3339), result.ServerTime)
	assert.Nil(t, result.Attendance)
}

func TestGetTeamFiltersByStatus(t *testing.T) {
	repo := newFakeAttendanceRepo()

	_, err := newTestService(repo, at(9, 0)).CheckIn(authedContext(t, "emp-1"))
	require.NoError(t, err)
	_, err = newTestService(repo, at(9, 5)).CheckIn(authedContext(t, "emp-2"))
	require.NoError(t, err)
	_, err = newTestService(repo, at(10, 0)).Pause(authedContext(t, "emp-2"))
	require.NoError(t, err)

	status := string(attendance.StatusPaused)
	result, err := newTestService(repo, at(10, 30)).GetTeam(context.Background(), attendance.TeamFilter{Status: &status})
	require.NoError(t, err)

	require.Len(t, result.Attendances, 1)
	assert.Equal(t, "emp-2", result.Attendances[0].EmployeeID)
	assert.Equal(t, "2026-03-09", result.Date)
}

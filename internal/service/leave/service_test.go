package leave

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workdeskhq/attendance-backend-go/internal/config"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/leave"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/user"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/jwt"
)

func testLeaveConfig() config.LeaveConfig {
	return config.LeaveConfig{
		CasualDays:    12,
		SickDays:      10,
		PaidDays:      15,
		UnpaidDays:    30,
		AllowNegative: true,
	}
}

func authedContext(t *testing.T, employeeID string) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret", "1h")
	tokenString, _, err := svc.GenerateAccessToken(employeeID, user.RoleManager)
	require.NoError(t, err)
	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeLeaveRepo struct {
	requests map[string]leave.LeaveRequest
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (f *fakeLeaveRepo) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (f *fakeLeaveRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, request := range f.requests {
		if request.EmployeeID == employeeID {
			result = append(result, request)
		}
	}
	return result, nil
}

func (f *fakeLeaveRepo) List(_ context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, request := range f.requests {
		if filter.Status == nil || *filter.Status == "" || string(request.Status) == *filter.Status {
			result = append(result, request)
		}
	}
	return result, nil
}

func (f *fakeLeaveRepo) UpdateStatusIfPending(_ context.Context, id string, status leave.LeaveRequestStatus, reviewedBy string, reviewedAt time.Time) error {
	request, ok := f.requests[id]
	if !ok || request.Status != leave.LeaveStatusPending {
		return leave.ErrLeaveAlreadyProcessed
	}
	request.Status = status
	request.ReviewedBy = &reviewedBy
	request.ReviewedAt = &reviewedAt
	f.requests[id] = request
	return nil
}

func (f *fakeLeaveRepo) SumApprovedDays(_ context.Context, employeeID string, leaveType leave.LeaveType, periodStart time.Time, periodEnd time.Time) (int, error) {
	total := 0
	for _, request := range f.requests {
		if request.EmployeeID != employeeID || request.Type != leaveType || request.Status != leave.LeaveStatusApproved {
			continue
		}
		if request.StartDate.After(periodEnd) || request.EndDate.Before(periodStart) {
			continue
		}
		total += request.Days()
	}
	return total, nil
}

var testNow = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeLeaveRepo, cfg config.LeaveConfig) leave.LeaveService {
	return NewLeaveService(repo, clock.Fixed(testNow), cfg)
}

func seedPending(repo *fakeLeaveRepo, id, employeeID string, leaveType leave.LeaveType, start, end string) {
	startDate, _ := time.Parse("2006-01-02", start)
	endDate, _ := time.Parse("2006-01-02", end)
	repo.requests[id] = leave.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		Type:       leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     "family matters",
		Status:     leave.LeaveStatusPending,
	}
}

func TestApplyCreatesPendingRequest(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc := newTestService(repo, testLeaveConfig())

	result, err := svc.Apply(authedContext(t, "emp-1"), leave.ApplyLeaveRequest{
		Type:      "Casual",
		StartDate: "2026-03-16",
		EndDate:   "2026-03-18",
		Reason:    "family matters",
	})
	require.NoError(t, err)

	assert.Equal(t, leave.LeaveStatusPending, result.Status)
	assert.Equal(t, 3, result.Days)
	assert.Equal(t, "emp-1", result.EmployeeID)
}

func TestApplyRejectsInvalidRange(t *testing.T) {
	svc := newTestService(newFakeLeaveRepo(), testLeaveConfig())

	_, err := svc.Apply(authedContext(t, "emp-1"), leave.ApplyLeaveRequest{
		Type:      "Casual",
		StartDate: "2026-03-18",
		EndDate:   "2026-03-16",
		Reason:    "backwards",
	})
	assert.Error(t, err)
}

func TestApplyDoesNotMoveBalance(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc := newTestService(repo, testLeaveConfig())
	ctx := authedContext(t, "emp-1")

	_, err := svc.Apply(ctx, leave.ApplyLeaveRequest{
		Type:      "Casual",
		StartDate: "2026-03-16",
		EndDate:   "2026-03-18",
		Reason:    "family matters",
	})
	require.NoError(t, err)

	balances, err := svc.GetBalances(ctx)
	require.NoError(t, err)
	for _, balance := range balances {
		assert.Equal(t, balance.Allotment, balance.Remaining, "pending request must not consume balance")
	}
}

func TestApproveMovesBalance(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc := newTestService(repo, testLeaveConfig())
	seedPending(repo, "req-1", "emp-1", leave.LeaveTypeCasual, "2026-03-16", "2026-03-18")

	result, err := svc.UpdateStatus(authedContext(t, "mgr-1"), leave.UpdateLeaveStatusRequest{
		ID:     "req-1",
		Status: "APPROVED",
	})
	require.NoError(t, err)

	assert.Equal(t, leave.LeaveStatusApproved, result.Leave.Status)
	require.NotNil(t, result.BalanceAfter)
	assert.Equal(t, 9, *result.BalanceAfter)
	assert.Nil(t, result.BalanceWarning)

	balances, err := svc.GetBalances(authedContext(t, "emp-1"))
	require.NoError(t, err)
	for _, balance := range balances {
		if balance.Type == leave.LeaveTypeCasual {
			assert.Equal(t, 3, balance.Used)
			assert.Equal(t, 9, balance.Remaining)
		}
	}
}

func TestRejectHasNoBalanceEffect(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc := newTestService(repo, testLeaveConfig())
	seedPending(repo, "req-1", "emp-1", leave.LeaveTypeCasual, "2026-03-16", "2026-03-18")

	result, err := svc.UpdateStatus(authedContext(t, "mgr-1"), leave.UpdateLeaveStatusRequest{
		ID:     "req-1",
		Status: "REJECTED",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusRejected, result.Leave.Status)
	assert.Nil(t, result.BalanceAfter)

	balances, err := svc.GetBalances(authedContext(t, "emp-1"))
	require.NoError(t, err)
	for _, balance := range balances {
		assert.Zero(t, balance.Used)
	}
}

func TestApproveTwiceFails(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc := newTestService(repo, testLeaveConfig())
	seedPending(repo, "req-1", "emp-1", leave.LeaveTypeCasual, "2026-03-16", "2026-03-18")

	_, err := svc.UpdateStatus(authedContext(t, "mgr-1"), leave.UpdateLeaveStatusRequest{ID: "req-1", Status: "APPROVED"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(authedContext(t, "mgr-1"), leave.UpdateLeaveStatusRequest{ID: "req-1", Status: "REJECTED"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestOverBudgetApprovalWithSoftCap(t *testing.T) {
	cfg := testLeaveConfig()
	cfg.SickDays = 2
	repo := newFakeLeaveRepo()
	svc := newTestService(repo, cfg)
	seedPending(repo, "req-1", "emp-1", leave.LeaveTypeSick, "2026-03-16", "2026-03-20")

	result, err := svc.UpdateStatus(authedContext(t, "mgr-1"), leave.UpdateLeaveStatusRequest{ID: "req-1", Status: "APPROVED"})
	require.NoError(t, err)

	require.NotNil(t, result.BalanceAfter)
	assert.Equal(t, -3, *result.BalanceAfter)
	require.NotNil(t, result.BalanceWarning)
}

func TestOverBudgetApprovalWithHardCap(t *testing.T) {
	cfg := testLeaveConfig()
	cfg.SickDays = 2
	cfg.AllowNegative = false
	repo := newFakeLeaveRepo()
	svc := newTestService(repo, cfg)
	seedPending(repo, "req-1", "emp-1", leave.LeaveTypeSick, "2026-03-16", "2026-03-20")

	_, err := svc.UpdateStatus(authedContext(t, "mgr-1"), leave.UpdateLeaveStatusRequest{ID: "req-1", Status: "APPROVED"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	// The request is still pending.
	stored, err := repo.GetByID(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusPending, stored.Status)
}

func TestUpdateStatusUnknownRequest(t *testing.T) {
	svc := newTestService(newFakeLeaveRepo(), testLeaveConfig())

	_, err := svc.UpdateStatus(authedContext(t, "mgr-1"), leave.UpdateLeaveStatusRequest{ID: "missing", Status: "APPROVED"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

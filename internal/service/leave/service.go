package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/workdeskhq/attendance-backend-go/internal/config"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/leave"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	clock  clock.Clock
	config config.LeaveConfig
}

func NewLeaveService(
	leaveRepository leave.LeaveRepository,
	clk clock.Clock,
	cfg config.LeaveConfig,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRepository: leaveRepository,
		clock:           clk,
		config:          cfg,
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

func (l *LeaveServiceImpl) allotment(leaveType leave.LeaveType) (int, error) {
	switch leaveType {
	case leave.LeaveTypeCasual:
		return l.config.CasualDays, nil
	case leave.LeaveTypeSick:
		return l.config.SickDays, nil
	case leave.LeaveTypePaid:
		return l.config.PaidDays, nil
	case leave.LeaveTypeUnpaid:
		return l.config.UnpaidDays, nil
	default:
		return 0, leave.ErrInvalidLeaveType
	}
}

// yearBounds returns the accounting period the ledger is summed over: the
// calendar year containing now.
func yearBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Apply implements leave.LeaveService.
func (l *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	request := leave.LeaveRequest{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Type:       leave.LeaveType(req.Type),
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		Status:     leave.LeaveStatusPending,
	}

	created, err := l.LeaveRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return leave.MapToResponse(created), nil
}

// GetMyLeaves implements leave.LeaveService.
func (l *LeaveServiceImpl) GetMyLeaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := l.LeaveRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, leave.MapToResponse(request))
	}

	return responses, nil
}

// GetBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalances(ctx context.Context) ([]leave.BalanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	periodStart, periodEnd := yearBounds(l.clock.Now())

	balances := make([]leave.BalanceResponse, 0, len(leave.LeaveTypes()))
	for _, leaveType := range leave.LeaveTypes() {
		allotment, err := l.allotment(leaveType)
		if err != nil {
			return nil, err
		}

		used, err := l.LeaveRepository.SumApprovedDays(ctx, employeeID, leaveType, periodStart, periodEnd)
		if err != nil {
			return nil, err
		}

		balances = append(balances, leave.BalanceResponse{
			Type:      leaveType,
			Allotment: allotment,
			Used:      used,
			Remaining: allotment - used,
		})
	}

	return balances, nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := l.LeaveRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, leave.MapToResponse(request))
	}

	return responses, nil
}

// UpdateStatus implements leave.LeaveService. The balance check happens here,
// at approval time, against the ledger as it stands now. Under the soft-cap
// policy an over-budget approval goes through with a warning; otherwise it is
// rejected with ErrInsufficientBalance.
func (l *LeaveServiceImpl) UpdateStatus(ctx context.Context, req leave.UpdateLeaveStatusRequest) (leave.UpdateLeaveStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.UpdateLeaveStatusResponse{}, err
	}

	reviewerID, err := employeeIDFromContext(ctx)
	if err != nil {
		return leave.UpdateLeaveStatusResponse{}, err
	}

	now := l.clock.Now()

	request, err := l.LeaveRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.UpdateLeaveStatusResponse{}, err
	}
	if request.Status != leave.LeaveStatusPending {
		return leave.UpdateLeaveStatusResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	status := leave.LeaveRequestStatus(req.Status)

	var balanceAfter *int
	var balanceWarning *string

	if status == leave.LeaveStatusApproved {
		allotment, err := l.allotment(request.Type)
		if err != nil {
			return leave.UpdateLeaveStatusResponse{}, err
		}

		periodStart, periodEnd := yearBounds(now)
		used, err := l.LeaveRepository.SumApprovedDays(ctx, request.EmployeeID, request.Type, periodStart, periodEnd)
		if err != nil {
			return leave.UpdateLeaveStatusResponse{}, err
		}

		remaining := allotment - used - request.Days()
		if remaining < 0 {
			if !l.config.AllowNegative {
				return leave.UpdateLeaveStatusResponse{}, leave.ErrInsufficientBalance
			}
			warning := fmt.Sprintf("approval takes %s balance to %d days", request.Type, remaining)
			balanceWarning = &warning
		}
		balanceAfter = &remaining
	}

	if err := l.LeaveRepository.UpdateStatusIfPending(ctx, req.ID, status, reviewerID, now); err != nil {
		if errors.Is(err, leave.ErrLeaveAlreadyProcessed) {
			return leave.UpdateLeaveStatusResponse{}, leave.ErrLeaveAlreadyProcessed
		}
		return leave.UpdateLeaveStatusResponse{}, err
	}

	request.Status = status
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now

	return leave.UpdateLeaveStatusResponse{
		Leave:          leave.MapToResponse(request),
		BalanceAfter:   balanceAfter,
		BalanceWarning: balanceWarning,
	}, nil
}

package leave

import "context"

type LeaveService interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error)
	GetMyLeaves(ctx context.Context) ([]LeaveResponse, error)
	GetBalances(ctx context.Context) ([]BalanceResponse, error)

	List(ctx context.Context, filter LeaveFilter) ([]LeaveResponse, error)
	UpdateStatus(ctx context.Context, req UpdateLeaveStatusRequest) (UpdateLeaveStatusResponse, error)
}

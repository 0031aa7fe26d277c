package attendance

import "context"

type AttendanceService interface {
	// GetToday returns the caller's record for the current working day, or a
	// null record, always alongside the authoritative server time.
	GetToday(ctx context.Context) (TodayResponse, error)

	CheckIn(ctx context.Context) (SessionResponse, error)
	Pause(ctx context.Context) (SessionResponse, error)
	Resume(ctx context.Context) (SessionResponse, error)
	SaveDraft(ctx context.Context, req SaveDraftRequest) (SessionResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (SessionResponse, error)

	GetMyHistory(ctx context.Context, filter HistoryFilter) (ListAttendanceResponse, error)
	GetTeam(ctx context.Context, filter TeamFilter) (TeamResponse, error)
}

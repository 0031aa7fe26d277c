package analytics

import "context"

type AnalyticsService interface {
	GetDailySummary(ctx context.Context, date string) (DailySummaryResponse, error)
}

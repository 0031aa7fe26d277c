package analytics

import (
	"context"
	"time"
)

type AnalyticsRepository interface {
	// GetDayStats returns present/late counts over all records for the day
	// and the mean working hours over its terminal records (0 if none).
	GetDayStats(ctx context.Context, date time.Time) (DayStats, error)
}

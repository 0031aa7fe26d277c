package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/domain/analytics"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/database"
)

type analyticsRepository struct {
	db *database.DB
}

func NewAnalyticsRepository(db *database.DB) analytics.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// GetDayStats implements analytics.AnalyticsRepository.
// Always computed directly from the attendance rows so the summary can never
// go stale against the record store.
func (a *analyticsRepository) GetDayStats(ctx context.Context, date time.Time) (analytics.DayStats, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			COUNT(DISTINCT employee_id) AS present,
			COUNT(*) FILTER (WHERE is_late) AS late,
			COALESCE(AVG(working_hours) FILTER (WHERE status IN ('COMPLETED', 'AUTO_CLOSED')), 0) AS avg_hours
		FROM attendances
		WHERE date = $1
	`

	var stats analytics.DayStats
	err := q.QueryRow(ctx, query, date).Scan(&stats.Present, &stats.Late, &stats.AvgHours)
	if err != nil {
		return analytics.DayStats{}, fmt.Errorf("failed to get day stats: %w", err)
	}

	return stats, nil
}

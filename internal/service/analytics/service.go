package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/domain/analytics"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/employee"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	analytics.AnalyticsRepository
	employeeRepository employee.EmployeeRepository
	clock              clock.Clock
	policy             attendance.ShiftPolicy
}

func NewAnalyticsService(
	analyticsRepository analytics.AnalyticsRepository,
	employeeRepository employee.EmployeeRepository,
	clk clock.Clock,
	policy attendance.ShiftPolicy,
) analytics.AnalyticsService {
	return &AnalyticsServiceImpl{
		AnalyticsRepository: analyticsRepository,
		employeeRepository:  employeeRepository,
		clock:               clk,
		policy:              policy,
	}
}

// GetDailySummary implements analytics.AnalyticsService. The day stats and the
// headcount are independent reads, so they run concurrently.
func (a *AnalyticsServiceImpl) GetDailySummary(ctx context.Context, date string) (analytics.DailySummaryResponse, error) {
	day := a.policy.DayOf(a.clock.Now())
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, a.policy.Location)
		if err != nil {
			return analytics.DailySummaryResponse{}, fmt.Errorf("failed to parse date: %w", err)
		}
		day = parsed
	}

	var stats analytics.DayStats
	var totalEmployees int

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats, err = a.AnalyticsRepository.GetDayStats(gCtx, day)
		if err != nil {
			return fmt.Errorf("failed to get day stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		totalEmployees, err = a.employeeRepository.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count active employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.DailySummaryResponse{}, err
	}

	absent := totalEmployees - stats.Present
	if absent < 0 {
		absent = 0
	}

	return analytics.DailySummaryResponse{
		Date:           day.Format("2006-01-02"),
		TotalEmployees: totalEmployees,
		Present:        stats.Present,
		Absent:         absent,
		Late:           stats.Late,
		AvgHours:       math.Round(stats.AvgHours*100) / 100,
	}, nil
}

package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/analytics"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/employee"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
)

type fakeAnalyticsRepo struct {
	stats map[string]analytics.DayStats
}

func (f *fakeAnalyticsRepo) GetDayStats(_ context.Context, date time.Time) (analytics.DayStats, error) {
	return f.stats[date.Format("2006-01-02")], nil
}

type fakeEmployeeRepo struct {
	active int
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) CountActive(_ context.Context) (int, error) {
	return f.active, nil
}

func testPolicy() attendance.ShiftPolicy {
	return attendance.ShiftPolicy{
		Location: time.UTC,
		Start:    9 * time.Hour,
		Grace:    10 * time.Minute,
		DayEnd:   23*time.Hour + 59*time.Minute + 59*time.Second,
	}
}

func TestDailySummary(t *testing.T) {
	repo := &fakeAnalyticsRepo{stats: map[string]analytics.DayStats{
		"2026-03-09": {Present: 7, Late: 2, AvgHours: 7.8342},
	}}
	now := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(repo, &fakeEmployeeRepo{active: 10}, clock.Fixed(now), testPolicy())

	result, err := svc.GetDailySummary(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-09", result.Date)
	assert.Equal(t, 10, result.TotalEmployees)
	assert.Equal(t, 7, result.Present)
	assert.Equal(t, 3, result.Absent)
	assert.Equal(t, 2, result.Late)
	assert.InDelta(t, 7.83, result.AvgHours, 1e-9)
}

func TestDailySummaryExplicitDate(t *testing.T) {
	repo := &fakeAnalyticsRepo{stats: map[string]analytics.DayStats{
		"2026-03-06": {Present: 9, Late: 0, AvgHours: 8},
	}}
	now := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(repo, &fakeEmployeeRepo{active: 9}, clock.Fixed(now), testPolicy())

	result, err := svc.GetDailySummary(context.Background(), "2026-03-06")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-06", result.Date)
	assert.Equal(t, 0, result.Absent)
}

func TestDailySummaryNeverNegativeAbsent(t *testing.T) {
	// More distinct attendees than the current active headcount, e.g. after
	// offboarding mid-period.
	repo := &fakeAnalyticsRepo{stats: map[string]analytics.DayStats{
		"2026-03-09": {Present: 5},
	}}
	now := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(repo, &fakeEmployeeRepo{active: 3}, clock.Fixed(now), testPolicy())

	result, err := svc.GetDailySummary(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Absent)
}

func TestDailySummaryBadDate(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, &fakeEmployeeRepo{}, clock.Fixed(time.Now()), testPolicy())

	_, err := svc.GetDailySummary(context.Background(), "not-a-date")
	assert.Error(t, err)
}

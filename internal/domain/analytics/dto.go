package analytics

// DayStats is the raw per-day aggregate read from storage.
type DayStats struct {
	Present  int
	Late     int
	AvgHours float64
}

// DailySummaryResponse is the team-wide view for one day. It is recomputed
// from the attendance store on every query; nothing here is persisted.
type DailySummaryResponse struct {
	Date           string  `json:"date"`
	TotalEmployees int     `json:"total_employees"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	AvgHours       float64 `json:"avg_hours"`
}

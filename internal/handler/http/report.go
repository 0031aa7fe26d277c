package http

import (
	"fmt"
	"net/http"

	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/handler/http/response"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/validator"
	"github.com/workdeskhq/attendance-backend-go/internal/service/export"
)

type ReportHandler interface {
	ExportAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	exportService export.ExportService
	clock         clock.Clock
	policy        attendance.ShiftPolicy
}

func NewReportHandler(exportService export.ExportService, clk clock.Clock, policy attendance.ShiftPolicy) ReportHandler {
	return &reportHandlerImpl{
		exportService: exportService,
		clock:         clk,
		policy:        policy,
	}
}

// ExportAttendance implements ReportHandler. The report covers the inclusive
// range [start_date, end_date]; both default to the current working day.
func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	today := h.policy.DayOf(h.clock.Now())
	start, end := today, today

	if s := r.URL.Query().Get("start_date"); s != "" {
		parsed, ok := validator.IsValidDate(s)
		if !ok {
			response.BadRequest(w, "start_date must be in YYYY-MM-DD format", nil)
			return
		}
		start = parsed
	}
	if e := r.URL.Query().Get("end_date"); e != "" {
		parsed, ok := validator.IsValidDate(e)
		if !ok {
			response.BadRequest(w, "end_date must be in YYYY-MM-DD format", nil)
			return
		}
		end = parsed
	}
	if end.Before(start) {
		response.BadRequest(w, "end_date must not be before start_date", nil)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exportService.WriteAttendanceXLSX(r.Context(), w, start, end); err != nil {
		// Headers are already out; the truncated body is the best signal left.
		response.HandleError(w, err)
		return
	}
}

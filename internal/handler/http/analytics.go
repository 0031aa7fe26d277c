package http

import (
	"net/http"

	"github.com/workdeskhq/attendance-backend-go/internal/domain/analytics"
	"github.com/workdeskhq/attendance-backend-go/internal/handler/http/response"
)

type AnalyticsHandler interface {
	GetDailySummary(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{
		analyticsService: analyticsService,
	}
}

// GetDailySummary implements AnalyticsHandler.
func (h *analyticsHandlerImpl) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDailySummary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

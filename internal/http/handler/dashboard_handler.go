package handler

import (
	"net/http"
	"time"

	"github.com/advcompro/garage-dashboard/internal/report"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	reports *report.Service
	now     func() time.Time
	logger  *zap.Logger
}

func NewDashboardHandler(reports *report.Service, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		reports: reports,
		now:     time.Now,
		logger:  logger,
	}
}

// Summary godoc
// @Summary Dashboard counters
// @Description Totals for the landing page: cars, income, cars in repair against capacity, and available mechanics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardSummary
// @Security SessionToken
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reports.Dashboard(h.now()))
}

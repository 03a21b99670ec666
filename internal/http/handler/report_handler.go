package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/report"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	reports *report.Service
	logger  *zap.Logger
}

func NewReportHandler(reports *report.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// parseReportTime accepts RFC 3339 or a plain date. An empty value is the
// zero time, which makes the interval empty.
func parseReportTime(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339 or YYYY-MM-DD", domain.ErrInvalidInput, name)
}

// Generate godoc
// @Summary Income and brand report
// @Description Aggregates customers registered strictly between start_date and end_date. A missing or empty range returns an empty report.
// @Tags Reports
// @Produce json
// @Param start_date query string false "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param end_date query string false "Range end (RFC 3339 or YYYY-MM-DD)"
// @Param source query string false "Where to compute the report" Enums(local, remote)
// @Success 200 {object} domain.Report
// @Failure 400 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security SessionToken
// @Router /reports [get]
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := parseReportTime("start_date", q.Get("start_date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseReportTime("end_date", q.Get("end_date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := h.reports.Generate(r.Context(), report.Interval{Start: start, End: end}, domain.ReportSource(q.Get("source")))
	if err != nil {
		respondError(w, r, h.logger, err, "Failed to generate report")
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// Cached godoc
// @Summary Last generated report
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.Report
// @Failure 404 {object} domain.APIError
// @Security SessionToken
// @Router /reports/cached [get]
func (h *ReportHandler) Cached(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Cached(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err, "Failed to load cached report")
		return
	}
	if rep == nil {
		respondWithError(w, http.StatusNotFound, "No report has been generated yet")
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"meditrack-system/internal/services/alerts"
	"meditrack-system/internal/services/reports"
)

type ReportHTTPHandler struct {
	reports   *reports.Service
	evaluator *alerts.Evaluator
}

func NewReportHTTPHandler(reportsSvc *reports.Service, evaluator *alerts.Evaluator) *ReportHTTPHandler {
	return &ReportHTTPHandler{reports: reportsSvc, evaluator: evaluator}
}

func (h *ReportHTTPHandler) TopSellingProducts(c *gin.Context) {
	limit := parseIntQuery(c, "limit", reports.DefaultTopSellerLimit)
	top, err := h.reports.TopSellingProducts(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, top)
}

func (h *ReportHTTPHandler) SalesChart(c *gin.Context) {
	days := parseIntQuery(c, "days", reports.DefaultChartDays)
	points, err := h.reports.SalesChart(c.Request.Context(), days)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, points)
}

func (h *ReportHTTPHandler) Dashboard(c *gin.Context) {
	stats, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, stats)
}

func (h *ReportHTTPHandler) StockAlerts(c *gin.Context) {
	opts := alerts.Options{
		LowStockOnly:     c.Query("low_stock_only") == "true",
		ExpiryWindowDays: parseIntQuery(c, "expiry_window_days", 0),
	}
	alertRows, err := h.evaluator.Evaluate(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, alertRows)
}

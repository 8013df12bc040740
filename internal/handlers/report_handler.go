package handlers

import (
	"net/http"

	"mago-agent/internal/reports"
	"mago-agent/internal/sales"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the report datasets and the finance summary. A nil
// report answers 404 so the UI shows its "no data" placeholder; trying
// again is just pressing the button again.
type ReportHandler struct {
	agg   *reports.Aggregator
	sales *sales.Repository
}

func NewReportHandler(agg *reports.Aggregator, salesRepo *sales.Repository) *ReportHandler {
	return &ReportHandler{agg: agg, sales: salesRepo}
}

func respondReport(c *gin.Context, payload any, empty bool) {
	if empty {
		c.JSON(http.StatusNotFound, gin.H{"error": "relatório indisponível"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// --- GET /api/reports/low-stock ---
func (h *ReportHandler) LowStock(c *gin.Context) {
	report := h.agg.LowStock(c.Request.Context())
	respondReport(c, report, report == nil)
}

// --- GET /api/reports/by-status ---
func (h *ReportHandler) SalesByStatus(c *gin.Context) {
	report := h.agg.SalesByStatus(c.Request.Context())
	respondReport(c, report, report == nil)
}

// --- GET /api/reports/period?startDate&endDate ---
func (h *ReportHandler) SalesByPeriod(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Por favor, preencha as datas de início e fim."})
		return
	}
	report := h.agg.SalesByPeriod(c.Request.Context(), startDate, endDate)
	respondReport(c, report, report == nil)
}

// --- GET /api/reports/inventory ---
func (h *ReportHandler) FullInventory(c *gin.Context) {
	report := h.agg.FullInventory(c.Request.Context())
	respondReport(c, report, report == nil)
}

// --- GET /api/reports/procurement ---
func (h *ReportHandler) Procurement(c *gin.Context) {
	report := h.agg.ProcurementSuggestions(c.Request.Context())
	respondReport(c, report, report == nil)
}

// --- GET /api/reports/performance?startDate&endDate ---
func (h *ReportHandler) Performance(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Por favor, preencha as datas de início e fim."})
		return
	}
	report := h.agg.ProductPerformance(c.Request.Context(), startDate, endDate)
	respondReport(c, report, report == nil)
}

// --- GET /api/reports/ranking ---
func (h *ReportHandler) Ranking(c *gin.Context) {
	report := h.agg.SalesRanking(c.Request.Context())
	respondReport(c, report, report == nil)
}

// --- GET /api/reports/overview ---
// The combined dashboard always answers 200: slots that failed are null
// and render as their individual placeholders.
func (h *ReportHandler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.agg.FetchOverview(c.Request.Context()))
}

// --- GET /api/finance/summary ---
func (h *ReportHandler) FinanceSummary(c *gin.Context) {
	salesList, err := h.sales.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao buscar vendas na API."})
		return
	}
	c.JSON(http.StatusOK, sales.Summarize(salesList))
}

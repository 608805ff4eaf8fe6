package handlers

import (
	"net/http"
	"time"

	"goldland-pos/internal/database"
	"goldland-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/reports/sales?from=&to= ---
func GetSalesReport(c *gin.Context) {
	start, end := parseRange(c)
	totals, err := database.GetBillTotals(database.DB, models.BillTypeSales, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// --- GET: /api/reports/purchases?from=&to= ---
func GetPurchaseReport(c *gin.Context) {
	start, end := parseRange(c)
	totals, err := database.GetBillTotals(database.DB, models.BillTypePurchase, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// --- GET: /api/reports/valuation ---
// Total monetary value of on-hand stock at cost, grouped by category.
func GetStockValuation(c *gin.Context) {
	report, err := database.GetStockValuation(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build valuation"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET: /api/reports/dashboard ---
func GetDashboard(c *gin.Context) {
	summary, err := database.GetDashboardSummary(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// parseRange reads from/to query params, defaulting to the last 30 days.
func parseRange(c *gin.Context) (time.Time, time.Time) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			start = t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			end = t.AddDate(0, 0, 1)
		}
	}
	return start, end
}

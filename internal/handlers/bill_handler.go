package handlers

import (
	"net/http"
	"strconv"
	"time"

	"goldland-pos/internal/database"
	"goldland-pos/internal/models"
	"goldland-pos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// --- POST: Create a sales or purchase bill ---
func CreateBill(c *gin.Context) {
	var input services.CreateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	input.Actor = actorFrom(c)
	input.Policy = services.StockPolicyFromEnv()

	bill, err := services.CreateBill(database.DB, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"bill_id":     bill.ID,
		"bill_number": bill.BillNumber,
		"total":       bill.TotalAmount,
		"outstanding": bill.OutstandingAmount,
		"status":      bill.Status,
	})
}

// --- GET: One bill with its lines ---
func GetBill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	var bill models.Bill
	if err := database.DB.Preload("Items").Preload("Items.Item").
		Preload("Customer").Preload("Supplier").
		First(&bill, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// --- GET: List bills, filterable by type/status/date range/number ---
func ListBills(c *gin.Context) {
	q := database.DB.Preload("Customer").Preload("Supplier").Order("bill_date desc")

	if billType := c.Query("type"); billType != "" {
		q = q.Where("bill_type = ?", billType)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if number := c.Query("number"); number != "" {
		q = q.Where("bill_number LIKE ?", "%"+number+"%")
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q = q.Where("bill_date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			q = q.Where("bill_date < ?", t.AddDate(0, 0, 1))
		}
	}

	limit := 100
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	var bills []models.Bill
	if err := q.Limit(limit).Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// --- POST: Cancel a bill and reverse its effects ---
func CancelBill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	bill, err := services.CancelBill(database.DB, uint(id), body.Reason, actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill cancelled", "bill": bill})
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Mode   string          `json:"mode"`
}

// --- POST: Record a payment against a bill ---
func RecordBillPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Mode == "" {
		req.Mode = "Cash"
	}

	bill, err := services.RecordPayment(database.DB, uint(id), req.Amount, req.Mode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"outstanding": bill.OutstandingAmount,
		"status":      bill.Status,
	})
}

// --- GET: Payments posted against a bill ---
func ListBillPayments(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}
	payments, err := services.BillPayments(database.DB, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

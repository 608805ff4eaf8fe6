package handlers

import (
	"net/http"
	"strconv"
	"time"

	"goldland-pos/internal/database"
	"goldland-pos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// --- GET: Current gold rate for a purity (soft NOT_FOUND) ---
func GetGoldRate(c *gin.Context) {
	purity := c.Query("purity")
	if purity == "" {
		purity = "22K"
	}
	asOf := time.Time{}
	if s := c.Query("as_of"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			asOf = t
		}
	}

	rate, err := services.CurrentGoldRate(database.DB, purity, asOf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rate"})
		return
	}
	if rate == nil {
		// Rate unknown is not an error; the billing screen falls back
		// to manual entry.
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "rate": rate})
}

// --- GET: Current diamond rate for a clarity/color/shape triple ---
func GetDiamondRate(c *gin.Context) {
	clarity := c.DefaultQuery("clarity", "VS1")
	color := c.DefaultQuery("color", "G")
	shape := c.DefaultQuery("shape", "Round")

	rate, err := services.CurrentDiamondRate(database.DB, clarity, color, shape, time.Time{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rate"})
		return
	}
	if rate == nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "rate": rate})
}

// --- POST: Enter/update today's gold rate ---
func UpsertGoldRate(c *gin.Context) {
	var input services.UpsertGoldRateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	rate, err := services.UpsertGoldRate(database.DB, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// --- POST: Enter/update a diamond rate ---
func UpsertDiamondRate(c *gin.Context) {
	var input services.UpsertDiamondRateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	rate, err := services.UpsertDiamondRate(database.DB, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// --- GET: Rate history ---
func ListGoldRates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rates, err := services.GoldRateHistory(database.DB, c.Query("purity"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rates"})
		return
	}
	c.JSON(http.StatusOK, rates)
}

func ListDiamondRates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rates, err := services.DiamondRateHistory(database.DB, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rates"})
		return
	}
	c.JSON(http.StatusOK, rates)
}

// --- DELETE: Soft-delete a rate row ---
func DeleteGoldRate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rate ID"})
		return
	}
	if err := services.DeactivateGoldRate(database.DB, uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate deactivated"})
}

func DeleteDiamondRate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rate ID"})
		return
	}
	if err := services.DeactivateDiamondRate(database.DB, uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate deactivated"})
}

// --- GET: Price a weight at the current gold rate ---
// Used by the billing screen to pre-fill unit prices.
func CalculateGoldValue(c *gin.Context) {
	weight, err := decimal.NewFromString(c.Query("weight"))
	if err != nil || weight.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weight"})
		return
	}
	purity := c.DefaultQuery("purity", "22K")
	includeMaking := c.DefaultQuery("include_making", "true") == "true"

	value, found, err := services.GoldValue(database.DB, weight, purity, includeMaking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate value"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": found, "value": value})
}

// --- GET: Price a carat weight at the current diamond rate ---
func CalculateDiamondValue(c *gin.Context) {
	carat, err := decimal.NewFromString(c.Query("carat"))
	if err != nil || carat.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid carat weight"})
		return
	}
	clarity := c.DefaultQuery("clarity", "VS1")
	color := c.DefaultQuery("color", "G")
	shape := c.DefaultQuery("shape", "Round")

	value, found, err := services.DiamondValue(database.DB, carat, clarity, color, shape)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate value"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": found, "value": value})
}

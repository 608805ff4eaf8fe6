package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"goldland-pos/internal/database"
	"goldland-pos/internal/models"
	"goldland-pos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// --- GET: List items (active only unless ?all=true) ---
func ListItems(c *gin.Context) {
	q := database.DB.Preload("Category").Order("name")
	if c.Query("all") != "true" {
		q = q.Where("is_active = ?", true)
	}
	if material := c.Query("material"); material != "" {
		q = q.Where("material = ?", material)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- GET: One item ---
func GetItem(c *gin.Context) {
	var item models.Item
	if err := database.DB.Preload("Category").First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- GET: Barcode lookup for the billing screen ---
func ScanItem(c *gin.Context) {
	var item models.Item
	if err := database.DB.Where("barcode = ? AND is_active = ?", c.Param("barcode"), true).
		First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No item with that barcode"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- POST: Add a new item ---
func AddItem(c *gin.Context) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	item.IsActive = true

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// --- PUT: Partial update of item master data ---
// Stock quantity/weight are NOT updatable here; they belong to the
// stock ledger (see AdjustItemStock).
func UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.Item
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "stock_quantity")
	delete(updateData, "weight_in_gm")

	if err := database.DB.Model(&item).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

// --- DELETE: Soft-delete via the active flag ---
// Items referenced by bills are never physically removed.
func DeactivateItem(c *gin.Context) {
	res := database.DB.Model(&models.Item{}).Where("id = ?", c.Param("id")).Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deactivated"})
}

type adjustStockRequest struct {
	NewQuantity int             `json:"new_quantity"`
	NewWeight   decimal.Decimal `json:"new_weight"`
	Reason      string          `json:"reason" binding:"required"`
}

// --- POST: Manual stock-count correction through the ledger ---
func AdjustItemStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	movement, err := services.AdjustStock(database.DB, services.AdjustStockInput{
		ItemID:      uint(id),
		NewQuantity: req.NewQuantity,
		NewWeight:   req.NewWeight,
		Reason:      req.Reason,
		Actor:       actorFrom(c),
		Policy:      services.StockPolicyFromEnv(),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, movement)
}

// --- GET: Movement audit trail for an item ---
func ListItemMovements(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	movements, err := services.ItemMovements(database.DB, uint(id), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}

// --- GET/POST: Item categories ---
func ListCategories(c *gin.Context) {
	var categories []models.ItemCategory
	if err := database.DB.Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func AddCategory(c *gin.Context) {
	var category models.ItemCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category likely already exists"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// --- UPLOAD: Design/photo reference for an item ---
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	if err := c.SaveUploadedFile(file, filepath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"goldland-pos/internal/database"
	"goldland-pos/internal/models"
	"goldland-pos/internal/services"

	"github.com/gin-gonic/gin"
)

// --- Customers ---

func ListCustomers(c *gin.Context) {
	q := database.DB.Order("name")
	if search := c.Query("search"); search != "" {
		q = q.Where("name LIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func GetCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func AddCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer likely already exists"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func UpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := database.DB.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	// The running balance is maintained by the bill/payment engine only.
	delete(updateData, "outstanding_balance")
	if err := database.DB.Model(&customer).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// --- GET: Bills for one customer ---
func ListCustomerBills(c *gin.Context) {
	var bills []models.Bill
	if err := database.DB.Where("customer_id = ?", c.Param("id")).
		Order("bill_date desc").Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// --- GET: Advance orders for one customer ---
func ListCustomerOrders(c *gin.Context) {
	q := database.DB.Where("customer_id = ?", c.Param("id")).Order("order_date desc")
	if c.Query("include_completed") != "true" {
		q = q.Where("status NOT IN ?", []string{models.OrderStatusDelivered, models.OrderStatusCancelled})
	}
	var orders []models.AdvanceOrder
	if err := q.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// --- POST: Free-standing collection from a customer ---
func RecordCustomerCollection(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
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
	payment, err := services.RecordCollection(database.DB, uint(id), req.Amount, req.Mode, "Collection from customer")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// --- Suppliers ---

func ListSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := database.DB.Order("name").Find(&suppliers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func AddSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Supplier likely already exists"})
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// --- POST: Free-standing disbursement to a supplier ---
func RecordSupplierDisbursement(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
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
	payment, err := services.RecordDisbursement(database.DB, uint(id), req.Amount, req.Mode, "Payment to supplier")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// --- Employees ---

func ListEmployees(c *gin.Context) {
	var employees []models.Employee
	if err := database.DB.Order("name").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

func AddEmployee(c *gin.Context) {
	var employee models.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&employee).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Employee likely already exists"})
		return
	}
	c.JSON(http.StatusCreated, employee)
}

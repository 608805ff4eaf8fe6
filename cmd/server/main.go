package main

import (
	"os"
	"time"

	"goldland-pos/internal/database"
	"goldland-pos/internal/handlers"
	"goldland-pos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, relying on environment")
	}

	database.Connect()
	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/login", handlers.Login)
	r.Static("/uploads", "./uploads")

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Warn("Registration route is OPEN. Disable this in production!")
	} else {
		log.Info("Registration route is disabled")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// STAFF & ADMIN
		api.GET("/items", handlers.ListItems)
		api.GET("/items/:id", handlers.GetItem)
		api.GET("/items/:id/movements", handlers.ListItemMovements)
		api.GET("/items/scan/:barcode", handlers.ScanItem)
		api.GET("/categories", handlers.ListCategories)

		api.POST("/bills", handlers.CreateBill)
		api.GET("/bills", handlers.ListBills)
		api.GET("/bills/:id", handlers.GetBill)
		api.POST("/bills/:id/payments", handlers.RecordBillPayment)
		api.GET("/bills/:id/payments", handlers.ListBillPayments)

		api.POST("/orders", handlers.CreateOrder)
		api.GET("/orders", handlers.ListOrders)
		api.GET("/orders/overdue", handlers.ListOverdueOrders)
		api.GET("/orders/summary", handlers.GetOrdersSummary)
		api.GET("/orders/:id", handlers.GetOrder)
		api.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		api.POST("/orders/:id/payments", handlers.AddOrderPayment)
		api.POST("/orders/:id/deliver", handlers.DeliverOrder)
		api.POST("/orders/:id/cancel", handlers.CancelOrder)

		api.GET("/customers", handlers.ListCustomers)
		api.GET("/customers/:id", handlers.GetCustomer)
		api.POST("/customers", handlers.AddCustomer)
		api.PUT("/customers/:id", handlers.UpdateCustomer)
		api.GET("/customers/:id/bills", handlers.ListCustomerBills)
		api.GET("/customers/:id/orders", handlers.ListCustomerOrders)
		api.POST("/customers/:id/collections", handlers.RecordCustomerCollection)

		api.GET("/suppliers", handlers.ListSuppliers)
		api.POST("/suppliers", handlers.AddSupplier)
		api.POST("/suppliers/:id/payments", handlers.RecordSupplierDisbursement)

		api.GET("/employees", handlers.ListEmployees)

		api.GET("/rates/gold", handlers.GetGoldRate)
		api.GET("/rates/gold/history", handlers.ListGoldRates)
		api.GET("/rates/gold/value", handlers.CalculateGoldValue)
		api.GET("/rates/diamond", handlers.GetDiamondRate)
		api.GET("/rates/diamond/history", handlers.ListDiamondRates)
		api.GET("/rates/diamond/value", handlers.CalculateDiamondValue)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)

			admin.POST("/upload", handlers.UploadImage)
			admin.POST("/items", handlers.AddItem)
			admin.PUT("/items/:id", handlers.UpdateItem)
			admin.DELETE("/items/:id", handlers.DeactivateItem)
			admin.POST("/items/:id/adjustments", handlers.AdjustItemStock)
			admin.POST("/categories", handlers.AddCategory)

			admin.POST("/bills/:id/cancel", handlers.CancelBill)

			admin.DELETE("/orders/:id", handlers.DeleteOrder)

			admin.POST("/employees", handlers.AddEmployee)

			admin.POST("/rates/gold", handlers.UpsertGoldRate)
			admin.DELETE("/rates/gold/:id", handlers.DeleteGoldRate)
			admin.POST("/rates/diamond", handlers.UpsertDiamondRate)
			admin.DELETE("/rates/diamond/:id", handlers.DeleteDiamondRate)

			admin.GET("/reports/sales", handlers.GetSalesReport)
			admin.GET("/reports/purchases", handlers.GetPurchaseReport)
			admin.GET("/reports/valuation", handlers.GetStockValuation)
			admin.GET("/reports/dashboard", handlers.GetDashboard)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("Server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}

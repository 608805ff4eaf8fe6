package database

import (
	"os"
	"time"

	"goldland-pos/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Wait for the DB to come up (docker-compose starts both together)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
			// Surfaces duplicate-key violations as gorm.ErrDuplicatedKey,
			// which the bill/order number generators retry on.
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Warnf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts: ", err)
	}

	log.Info("Successfully connected to MySQL")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema: ", err)
	}
	log.Info("Database schema synced")
}

// Migrate creates/updates all tables. Split out so tests can run it
// against their own handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Supplier{},
		&models.Employee{},
		&models.ItemCategory{},
		&models.Item{},
		&models.Bill{},
		&models.BillItem{},
		&models.StockMovement{},
		&models.Payment{},
		&models.AdvanceOrder{},
		&models.AdvanceOrderItem{},
		&models.GoldRate{},
		&models.DiamondRate{},
	)
}

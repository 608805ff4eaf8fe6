package services

import (
	"testing"

	"goldland-pos/internal/database"
	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full
// schema. MaxOpenConns(1) keeps every query on the same connection,
// since each SQLite :memory: connection is its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	customer := models.Customer{Name: name, Phone: "9800000001"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return &customer
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *models.Supplier {
	t.Helper()
	supplier := models.Supplier{Name: name, Phone: "9800000002"}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return &supplier
}

func seedItem(t *testing.T, db *gorm.DB, name string, qty int, weight, price string) *models.Item {
	t.Helper()
	item := models.Item{
		Name:          name,
		Material:      "Gold",
		Purity:        "22K",
		Price:         dec(t, price),
		StockQuantity: qty,
		WeightInGm:    dec(t, weight),
		IsActive:      true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return &item
}

func reloadItem(t *testing.T, db *gorm.DB, id uint) *models.Item {
	t.Helper()
	var item models.Item
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("reload item %d: %v", id, err)
	}
	return &item
}

func reloadCustomer(t *testing.T, db *gorm.DB, id uint) *models.Customer {
	t.Helper()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		t.Fatalf("reload customer %d: %v", id, err)
	}
	return &customer
}

func wantDec(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got.String(), want.String())
	}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - staff account that can log into the API
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Customer - buying party on sales bills and advance orders
type Customer struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"uniqueIndex;size:100" json:"name"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	Address            string          `json:"address"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	Pincode            string          `json:"pincode"`
	GSTNumber          string          `json:"gst_number"`
	CreditLimit        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"credit_limit"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Supplier - selling party on purchase bills. No balance tracking here.
type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Pincode   string    `json:"pincode"`
	GSTNumber string    `json:"gst_number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Employee - shop staff referenced on bills and orders
type Employee struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"uniqueIndex;size:100" json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Address    string          `json:"address"`
	Position   string          `json:"position"`
	Salary     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"salary"`
	DateJoined *time.Time      `json:"date_joined"`
	Status     string          `gorm:"size:20;default:Active" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ItemCategory - grouping for items (Rings, Chains, Bangles, ...)
type ItemCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item - one sellable/purchasable unit of stock.
// StockQuantity and WeightInGm are mutated ONLY through the stock
// ledger in internal/services; everywhere else they are read as a
// projection of the movement trail.
type Item struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Name             string          `gorm:"size:150" json:"name"`
	CategoryID       *uint           `json:"category_id"`
	Category         *ItemCategory   `json:"category,omitempty"`
	Barcode          *string         `gorm:"uniqueIndex;size:64" json:"barcode"`
	Material         string          `gorm:"size:20" json:"material"` // Gold, Diamond, Silver, Platinum
	Price            decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost_price"`
	MakingChargeRate decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"making_charge_rate"`
	StockQuantity    int             `gorm:"default:0" json:"stock_quantity"`
	WeightInGm       decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"weight_in_gm"`
	Purity           string          `gorm:"size:10" json:"purity"`
	Description      string          `json:"description"`
	ImageURL         string          `json:"image_url"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

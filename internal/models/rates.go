package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	GoldPurities   = []string{"24K", "22K", "21K", "18K", "14K", "916", "875", "750", "585"}
	DiamondClarity = []string{"FL", "IF", "VVS1", "VVS2", "VS1", "VS2", "SI1", "SI2", "I1", "I2", "I3"}
	DiamondColors  = []string{"D", "E", "F", "G", "H", "I", "J", "K", "L", "M"}
	DiamondShapes  = []string{"Round", "Princess", "Cushion", "Oval", "Emerald", "Pear", "Marquise", "Radiant", "Heart", "Asscher"}
)

// GoldRate - operator-entered price per gram for one purity on one day.
// Rows are soft-deleted via IsActive, never removed.
type GoldRate struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	RateDate      time.Time       `gorm:"index" json:"rate_date"`
	Purity        string          `gorm:"size:10;index" json:"purity"`
	RatePerGram   decimal.Decimal `gorm:"type:decimal(12,2)" json:"rate_per_gram"`
	MakingCharges decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"making_charges"`
	Notes         string          `json:"notes"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DiamondRate - price per carat keyed by clarity + color + shape.
type DiamondRate struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	RateDate      time.Time       `gorm:"index" json:"rate_date"`
	Shape         string          `gorm:"size:16" json:"shape"`
	Clarity       string          `gorm:"size:8" json:"clarity"`
	Color         string          `gorm:"size:4" json:"color"`
	CaratFrom     decimal.Decimal `gorm:"type:decimal(6,2);default:0" json:"carat_from"`
	CaratTo       decimal.Decimal `gorm:"type:decimal(6,2);default:10" json:"carat_to"`
	RatePerCarat  decimal.Decimal `gorm:"type:decimal(12,2)" json:"rate_per_carat"`
	Certification string          `gorm:"size:50" json:"certification"`
	Notes         string          `json:"notes"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance order statuses. Delivered and Cancelled are terminal.
const (
	OrderStatusPending    = "Pending"
	OrderStatusInProgress = "In Progress"
	OrderStatusReady      = "Ready"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

var (
	OrderStatuses   = []string{OrderStatusPending, OrderStatusInProgress, OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled}
	OrderPriorities = []string{"Low", "Normal", "High", "Urgent"}
	OrderTypes      = []string{"Custom", "Repair", "Modification", "Special Order", "Bulk Order"}
)

// AdvanceOrder - a custom/booking order with its own advance ledger.
// Never deleted through the normal lifecycle; cancellation is a
// terminal status. DeleteOrder exists for administrative correction.
type AdvanceOrder struct {
	ID                   uint               `gorm:"primaryKey" json:"id"`
	OrderNumber          string             `gorm:"uniqueIndex;size:32" json:"order_number"`
	CustomerID           uint               `gorm:"index" json:"customer_id"`
	Customer             *Customer          `json:"customer,omitempty"`
	EmployeeID           *uint              `json:"employee_id"`
	OrderDate            time.Time          `json:"order_date"`
	ExpectedDeliveryDate *time.Time         `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time         `json:"actual_delivery_date"`
	OrderType            string             `gorm:"size:20" json:"order_type"`
	MaterialType         string             `gorm:"size:20" json:"material_type"`
	EstimatedWeight      decimal.Decimal    `gorm:"type:decimal(10,3);default:0" json:"estimated_weight"`
	EstimatedAmount      decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"estimated_amount"`
	AdvanceAmount        decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"advance_amount"`
	FinalAmount          decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"final_amount"`
	BalanceAmount        decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"balance_amount"`
	GoldRateLocked       decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"gold_rate_locked"`
	DiamondRateLocked    decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"diamond_rate_locked"`
	Specifications       string             `json:"specifications"`
	DesignNotes          string             `json:"design_notes"`
	Status               string             `gorm:"size:16;default:Pending;index" json:"status"`
	Priority             string             `gorm:"size:10;default:Normal" json:"priority"`
	AssignedArtisan      string             `gorm:"size:100" json:"assigned_artisan"`
	Remarks              string             `json:"remarks"`
	BillID               *uint              `json:"bill_id"` // set when converted to a sales bill
	Items                []AdvanceOrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// IsTerminal reports whether the order accepts no further status
// changes or advance payments.
func (o *AdvanceOrder) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// AdvanceOrderItem - one requested piece on an advance order.
type AdvanceOrderItem struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	OrderID               uint            `gorm:"index" json:"order_id"`
	ItemType              string          `gorm:"size:50" json:"item_type"`
	Description           string          `json:"description"`
	MaterialType          string          `gorm:"size:20" json:"material_type"`
	EstimatedWeight       decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"estimated_weight"`
	EstimatedDiamondCarat decimal.Decimal `gorm:"type:decimal(6,2);default:0" json:"estimated_diamond_carat"`
	Purity                string          `gorm:"size:10" json:"purity"`
	EstimatedPrice        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"estimated_price"`
	DesignReference       string          `json:"design_reference"`
	Remarks               string          `json:"remarks"`
}

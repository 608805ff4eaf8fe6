package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill types
const (
	BillTypeSales    = "Sales"
	BillTypePurchase = "Purchase"
)

// Bill statuses
const (
	BillStatusPending   = "Pending"
	BillStatusCompleted = "Completed"
	BillStatusCancelled = "Cancelled"
)

// Stock movement kinds
const (
	MovementIn            = "IN"
	MovementOut           = "OUT"
	MovementAdjustmentIn  = "ADJUSTMENT_IN"
	MovementAdjustmentOut = "ADJUSTMENT_OUT"
)

// Payment types
const (
	PaymentTypeReceipt = "Receipt" // money coming in (from a customer)
	PaymentTypePayment = "Payment" // money going out (to a supplier)
	PaymentTypeAdvance = "Advance" // advance against a custom order
)

// Bill - a sales or purchase transaction header.
// Customer XOR Supplier is set depending on BillType, never both.
type Bill struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	BillNumber        string          `gorm:"uniqueIndex;size:32" json:"bill_number"`
	BillType          string          `gorm:"size:16;index" json:"bill_type"`
	CustomerID        *uint           `json:"customer_id"`
	Customer          *Customer       `json:"customer,omitempty"`
	SupplierID        *uint           `json:"supplier_id"`
	Supplier          *Supplier       `json:"supplier,omitempty"`
	EmployeeID        *uint           `json:"employee_id"`
	BillDate          time.Time       `json:"bill_date"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_amount"`
	TotalWeight       decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"total_weight"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_amount"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax_amount"`
	MakingCharges     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"making_charges"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"paid_amount"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"outstanding_amount"`
	Status            string          `gorm:"size:16;default:Pending;index" json:"status"`
	PaymentMode       string          `gorm:"size:20" json:"payment_mode"`
	Remarks           string          `json:"remarks"`
	Items             []BillItem      `gorm:"foreignKey:BillID" json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BillItem - one line of a bill. Immutable after creation;
// corrections happen via cancellation + re-entry.
type BillItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BillID     uint            `gorm:"index" json:"bill_id"`
	ItemID     uint            `json:"item_id"`
	Item       Item            `json:"item"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2)" json:"line_total"`
	WeightInGm decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"weight_in_gm"`
}

// StockMovement - immutable audit record of one quantity/weight change.
// Append-only: rows are never updated or deleted.
// Invariant: NewQuantity = PrevQuantity + QuantityChange (same for weight).
type StockMovement struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ItemID         uint            `gorm:"index" json:"item_id"`
	Kind           string          `gorm:"size:16" json:"kind"`
	QuantityChange int             `json:"quantity_change"`
	WeightChange   decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"weight_change"`
	PrevQuantity   int             `json:"prev_quantity"`
	NewQuantity    int             `json:"new_quantity"`
	PrevWeight     decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"prev_weight"`
	NewWeight      decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"new_weight"`
	Reason         string          `json:"reason"`
	Actor          string          `gorm:"size:100" json:"actor"`
	BillID         *uint           `gorm:"index" json:"bill_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Payment - a single money movement tied to a bill, an advance order,
// or neither (free-standing collection/disbursement). Append-only.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	PaymentType   string          `gorm:"size:16" json:"payment_type"`
	PaymentDate   time.Time       `json:"payment_date"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	PaymentMode   string          `gorm:"size:20" json:"payment_mode"`
	ReferenceType string          `gorm:"size:20" json:"reference_type"` // 'Bill', 'Advance Order'
	ReferenceID   *uint           `gorm:"index" json:"reference_id"`
	CustomerID    *uint           `gorm:"index" json:"customer_id"`
	SupplierID    *uint           `gorm:"index" json:"supplier_id"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

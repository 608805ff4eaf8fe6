package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"goldland-pos/internal/metrics"
	"goldland-pos/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

// BillLine is one requested line item on a new bill.
type BillLine struct {
	ItemID     uint            `json:"item_id" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	WeightInGm decimal.Decimal `json:"weight_in_gm"`
}

// CreateBillInput carries everything the bill engine needs. Exactly one
// of CustomerID (Sales) / SupplierID (Purchase) must be set.
type CreateBillInput struct {
	BillType      string          `json:"bill_type" binding:"required"`
	CustomerID    *uint           `json:"customer_id"`
	SupplierID    *uint           `json:"supplier_id"`
	EmployeeID    *uint           `json:"employee_id"`
	BillDate      time.Time       `json:"bill_date"`
	Lines         []BillLine      `json:"items" binding:"required"`
	Discount      decimal.Decimal `json:"discount"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	MakingCharges decimal.Decimal `json:"making_charges"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMode   string          `json:"payment_mode"`
	Remarks       string          `json:"remarks"`
	Actor         string          `json:"-"`
	Policy        StockPolicy     `json:"-"`
}

// CreateBill computes totals, persists the bill header and lines,
// mutates stock per line and posts the initial payment - all inside a
// single transaction, so a failure at any step leaves nothing behind.
//
//	subtotal       = sum(quantity * unit_price)
//	after_discount = subtotal - discount + making_charges
//	tax            = after_discount * tax_percent / 100
//	total          = after_discount + tax
//	outstanding    = max(0, total - paid)
func CreateBill(db *gorm.DB, in CreateBillInput) (*models.Bill, error) {
	if err := validateBillInput(&in); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	totalWeight := decimal.Zero
	for _, line := range in.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		totalWeight = totalWeight.Add(line.WeightInGm)
	}
	afterDiscount := subtotal.Sub(in.Discount).Add(in.MakingCharges)
	taxAmount := afterDiscount.Mul(in.TaxPercent).Div(oneHundred).Round(2)
	total := afterDiscount.Add(taxAmount).Round(2)
	outstanding := maxZero(total.Sub(in.PaidAmount))

	status := models.BillStatusPending
	if outstanding.IsZero() {
		status = models.BillStatusCompleted
	}

	billDate := in.BillDate
	if billDate.IsZero() {
		billDate = time.Now()
	}

	isSales := in.BillType == models.BillTypeSales
	prefix := "PB"
	if isSales {
		prefix = "SB"
	}

	bill := models.Bill{
		BillType:          in.BillType,
		CustomerID:        in.CustomerID,
		SupplierID:        in.SupplierID,
		EmployeeID:        in.EmployeeID,
		BillDate:          billDate,
		TotalAmount:       total,
		TotalWeight:       totalWeight,
		DiscountAmount:    in.Discount,
		TaxAmount:         taxAmount,
		MakingCharges:     in.MakingCharges,
		PaidAmount:        in.PaidAmount,
		OutstandingAmount: outstanding,
		Status:            status,
		PaymentMode:       in.PaymentMode,
		Remarks:           in.Remarks,
	}
	for _, line := range in.Lines {
		bill.Items = append(bill.Items, models.BillItem{
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			WeightInGm: line.WeightInGm,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkParty(tx, isSales, in.CustomerID, in.SupplierID); err != nil {
			return err
		}

		if err := createWithNumber(tx, &bill, func(n string) { bill.BillNumber = n }, prefix); err != nil {
			return err
		}

		// Sale decrements stock, purchase increments it.
		for i, line := range in.Lines {
			qtyDelta, weightDelta := line.Quantity, line.WeightInGm
			kind := models.MovementIn
			if isSales {
				qtyDelta = -qtyDelta
				weightDelta = weightDelta.Neg()
				kind = models.MovementOut
			}
			item, err := lockItem(tx, line.ItemID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return fmt.Errorf("line %d: item %d: %w", i+1, line.ItemID, ErrNotFound)
				}
				return err
			}
			if _, err := applyToItem(tx, item, ApplyStockInput{
				ItemID:        line.ItemID,
				QuantityDelta: qtyDelta,
				WeightDelta:   weightDelta,
				Kind:          kind,
				Reason:        fmt.Sprintf("%s bill %s", in.BillType, bill.BillNumber),
				Actor:         in.Actor,
				BillID:        &bill.ID,
				Policy:        in.Policy,
			}); err != nil {
				return err
			}
		}

		// Unpaid sales amounts accrue on the customer. Incremented at
		// the store level so concurrent bills cannot lose an update.
		if isSales && outstanding.IsPositive() {
			if err := tx.Model(&models.Customer{}).
				Where("id = ?", *in.CustomerID).
				UpdateColumn("outstanding_balance", gorm.Expr("outstanding_balance + ?", outstanding)).Error; err != nil {
				return err
			}
		}

		if in.PaidAmount.IsPositive() {
			if err := appendBillPayment(tx, &bill, in.PaidAmount, in.PaymentMode,
				fmt.Sprintf("Payment with bill %s", bill.BillNumber)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BillsCreated.WithLabelValues(in.BillType).Inc()
	log.WithFields(log.Fields{
		"bill_number": bill.BillNumber,
		"bill_type":   in.BillType,
		"total":       total.String(),
		"status":      status,
	}).Info("bill created")
	return &bill, nil
}

// CancelBill reverses the stock and customer-balance effects of a bill
// and marks it Cancelled. Cancellation is sticky: a cancelled bill can
// never be paid or completed again. The reversal replays the bill's
// recorded movements backwards rather than the nominal line quantities,
// so a sale that was clamped puts back exactly what it took out.
func CancelBill(db *gorm.DB, billID uint, reason, actor string) (*models.Bill, error) {
	var bill models.Bill
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bill, billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if bill.Status == models.BillStatusCancelled {
			return ErrBillCancelled
		}

		isSales := bill.BillType == models.BillTypeSales

		// Only the original IN/OUT movements exist at this point;
		// cancellation is rejected above once reversal rows are in.
		var movements []models.StockMovement
		if err := tx.Where("bill_id = ?", bill.ID).Order("id").Find(&movements).Error; err != nil {
			return err
		}
		for _, m := range movements {
			kind := models.MovementIn
			if m.Kind == models.MovementIn {
				kind = models.MovementOut
			}
			item, err := lockItem(tx, m.ItemID)
			if err != nil {
				return err
			}
			if _, err := applyToItem(tx, item, ApplyStockInput{
				ItemID:        m.ItemID,
				QuantityDelta: -m.QuantityChange,
				WeightDelta:   m.WeightChange.Neg(),
				Kind:          kind,
				Reason:        fmt.Sprintf("Cancelled bill %s: %s", bill.BillNumber, reason),
				Actor:         actor,
				BillID:        &bill.ID,
				Policy:        StockPolicyClamp,
			}); err != nil {
				return err
			}
		}

		if isSales && bill.CustomerID != nil && bill.OutstandingAmount.IsPositive() {
			if err := tx.Model(&models.Customer{}).
				Where("id = ?", *bill.CustomerID).
				UpdateColumn("outstanding_balance", gorm.Expr("outstanding_balance - ?", bill.OutstandingAmount)).Error; err != nil {
				return err
			}
		}

		remarks := bill.Remarks
		if reason != "" {
			if remarks != "" {
				remarks += " | "
			}
			remarks += "Cancelled: " + reason
		}
		bill.Status = models.BillStatusCancelled
		bill.Remarks = remarks
		return tx.Model(&bill).Updates(map[string]interface{}{
			"status":  bill.Status,
			"remarks": bill.Remarks,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.BillsCancelled.Inc()
	log.WithField("bill_number", bill.BillNumber).Info("bill cancelled")
	return &bill, nil
}

func validateBillInput(in *CreateBillInput) error {
	switch in.BillType {
	case models.BillTypeSales:
		if in.CustomerID == nil {
			return validationf("customer_id", "required for a sales bill")
		}
		if in.SupplierID != nil {
			return validationf("supplier_id", "must not be set on a sales bill")
		}
	case models.BillTypePurchase:
		if in.SupplierID == nil {
			return validationf("supplier_id", "required for a purchase bill")
		}
		if in.CustomerID != nil {
			return validationf("customer_id", "must not be set on a purchase bill")
		}
	default:
		return validationf("bill_type", "must be %q or %q", models.BillTypeSales, models.BillTypePurchase)
	}
	if len(in.Lines) == 0 {
		return validationf("items", "at least one line item is required")
	}
	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return validationf("items", "line %d: quantity must be positive", i+1)
		}
		if !line.UnitPrice.IsPositive() {
			return validationf("items", "line %d: unit price must be positive", i+1)
		}
		if line.WeightInGm.IsNegative() {
			return validationf("items", "line %d: weight must not be negative", i+1)
		}
	}
	if in.Discount.IsNegative() {
		return validationf("discount", "must not be negative")
	}
	if in.TaxPercent.IsNegative() {
		return validationf("tax_percent", "must not be negative")
	}
	if in.MakingCharges.IsNegative() {
		return validationf("making_charges", "must not be negative")
	}
	if in.PaidAmount.IsNegative() {
		return validationf("paid_amount", "must not be negative")
	}
	if in.Policy == "" {
		in.Policy = StockPolicyClamp
	}
	return nil
}

func checkParty(tx *gorm.DB, isSales bool, customerID, supplierID *uint) error {
	if isSales {
		var customer models.Customer
		if err := tx.First(&customer, *customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("customer %d: %w", *customerID, ErrNotFound)
			}
			return err
		}
		return nil
	}
	var supplier models.Supplier
	if err := tx.First(&supplier, *supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("supplier %d: %w", *supplierID, ErrNotFound)
		}
		return err
	}
	return nil
}

// newDocNumber builds a human-facing document number like
// SB-20260828-9F31AC. The suffix is random; uniqueness is enforced by
// the DB index, with createWithNumber retrying on collision.
func newDocNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), suffix)
}

// createWithNumber inserts record, regenerating the document number on
// a duplicate-key collision. Two retries; the suffix space makes a
// third collision vanishingly unlikely.
func createWithNumber(tx *gorm.DB, record interface{}, setNumber func(string), prefix string) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		setNumber(newDocNumber(prefix))
		err = tx.Create(record).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

package services

import (
	"errors"
	"fmt"
	"time"

	"goldland-pos/internal/metrics"
	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordPayment posts a payment against a bill: paid is incremented,
// outstanding recomputed with a floor of zero (overpayment is allowed
// and simply settles the bill) and the status derived from the new
// balance. One Payment row is appended per call.
func RecordPayment(db *gorm.DB, billID uint, amount decimal.Decimal, mode string) (*models.Bill, error) {
	if !amount.IsPositive() {
		return nil, validationf("amount", "must be positive")
	}

	var bill models.Bill
	err := db.Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&bill, billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if bill.Status == models.BillStatusCancelled {
			return ErrBillCancelled
		}

		prevOutstanding := bill.OutstandingAmount
		bill.PaidAmount = bill.PaidAmount.Add(amount)
		bill.OutstandingAmount = maxZero(bill.TotalAmount.Sub(bill.PaidAmount))
		if bill.OutstandingAmount.IsZero() {
			bill.Status = models.BillStatusCompleted
		}

		if err := tx.Model(&bill).Updates(map[string]interface{}{
			"paid_amount":        bill.PaidAmount,
			"outstanding_amount": bill.OutstandingAmount,
			"status":             bill.Status,
		}).Error; err != nil {
			return err
		}

		// Keep the customer's running balance in step with the bill.
		settled := prevOutstanding.Sub(bill.OutstandingAmount)
		if bill.BillType == models.BillTypeSales && bill.CustomerID != nil && settled.IsPositive() {
			if err := tx.Model(&models.Customer{}).
				Where("id = ?", *bill.CustomerID).
				UpdateColumn("outstanding_balance", gorm.Expr("outstanding_balance - ?", settled)).Error; err != nil {
				return err
			}
		}

		return appendBillPayment(tx, &bill, amount, mode,
			fmt.Sprintf("Payment against bill %s", bill.BillNumber))
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"bill_number": bill.BillNumber,
		"amount":      amount.String(),
		"outstanding": bill.OutstandingAmount.String(),
	}).Info("payment recorded")
	return &bill, nil
}

// RecordCollection records a free-standing receipt from a customer not
// tied to any bill and reduces their outstanding balance.
func RecordCollection(db *gorm.DB, customerID uint, amount decimal.Decimal, mode, description string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, validationf("amount", "must be positive")
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&customer).
			UpdateColumn("outstanding_balance", gorm.Expr("outstanding_balance - ?", amount)).Error; err != nil {
			return err
		}
		payment = models.Payment{
			PaymentType: models.PaymentTypeReceipt,
			PaymentDate: time.Now(),
			Amount:      amount,
			PaymentMode: mode,
			CustomerID:  &customer.ID,
			Description: description,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues(models.PaymentTypeReceipt).Inc()
	return &payment, nil
}

// RecordDisbursement records a free-standing payment out to a supplier.
func RecordDisbursement(db *gorm.DB, supplierID uint, amount decimal.Decimal, mode, description string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, validationf("amount", "must be positive")
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, supplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		payment = models.Payment{
			PaymentType: models.PaymentTypePayment,
			PaymentDate: time.Now(),
			Amount:      amount,
			PaymentMode: mode,
			SupplierID:  &supplier.ID,
			Description: description,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues(models.PaymentTypePayment).Inc()
	return &payment, nil
}

// BillPayments lists the payments posted against one bill.
func BillPayments(db *gorm.DB, billID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.Where("reference_type = ? AND reference_id = ?", "Bill", billID).
		Order("id").
		Find(&payments).Error
	return payments, err
}

// appendBillPayment writes the Payment row for money moved against a
// bill, inside the caller's transaction.
func appendBillPayment(tx *gorm.DB, bill *models.Bill, amount decimal.Decimal, mode, description string) error {
	paymentType := models.PaymentTypePayment
	if bill.BillType == models.BillTypeSales {
		paymentType = models.PaymentTypeReceipt
	}
	payment := models.Payment{
		PaymentType:   paymentType,
		PaymentDate:   time.Now(),
		Amount:        amount,
		PaymentMode:   mode,
		ReferenceType: "Bill",
		ReferenceID:   &bill.ID,
		CustomerID:    bill.CustomerID,
		SupplierID:    bill.SupplierID,
		Description:   description,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return err
	}
	metrics.PaymentsRecorded.WithLabelValues(paymentType).Inc()
	return nil
}

package services

import (
	"errors"
	"testing"

	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedUnpaidBill(t *testing.T, db *gorm.DB, customerID uint, itemID uint) *models.Bill {
	t.Helper()
	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customerID,
		Lines:      []BillLine{{ItemID: itemID, Quantity: 2, UnitPrice: dec(t, "1000")}},
	})
	if err != nil {
		t.Fatalf("seed bill: %v", err)
	}
	return bill
}

func TestRecordPaymentPartialThenSettle(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Asha")
	item := seedItem(t, db, "Ring", 10, "40.000", "1000.00")
	bill := seedUnpaidBill(t, db, customer.ID, item.ID)

	wantDec(t, "initial outstanding", bill.OutstandingAmount, dec(t, "2000"))
	wantDec(t, "initial balance", reloadCustomer(t, db, customer.ID).OutstandingBalance, dec(t, "2000"))

	bill1, err := RecordPayment(db, bill.ID, dec(t, "700"), "Cash")
	if err != nil {
		t.Fatalf("RecordPayment 1: %v", err)
	}
	wantDec(t, "outstanding after partial", bill1.OutstandingAmount, dec(t, "1300"))
	if bill1.Status != models.BillStatusPending {
		t.Errorf("status = %q, want %q", bill1.Status, models.BillStatusPending)
	}
	wantDec(t, "balance after partial", reloadCustomer(t, db, customer.ID).OutstandingBalance, dec(t, "1300"))

	// Overpay: outstanding clamps at zero and only the settled portion
	// comes off the customer balance.
	bill2, err := RecordPayment(db, bill.ID, dec(t, "2000"), "UPI")
	if err != nil {
		t.Fatalf("RecordPayment 2: %v", err)
	}
	wantDec(t, "outstanding after overpay", bill2.OutstandingAmount, decimal.Zero)
	if bill2.Status != models.BillStatusCompleted {
		t.Errorf("status = %q, want %q", bill2.Status, models.BillStatusCompleted)
	}
	wantDec(t, "balance after overpay", reloadCustomer(t, db, customer.ID).OutstandingBalance, decimal.Zero)

	payments, err := BillPayments(db, bill.ID)
	if err != nil {
		t.Fatalf("BillPayments: %v", err)
	}
	if len(payments) != 2 {
		t.Errorf("payments = %d, want 2", len(payments))
	}
}

func TestRecordPaymentGuards(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Binod")
	item := seedItem(t, db, "Chain", 10, "60.000", "1000.00")
	bill := seedUnpaidBill(t, db, customer.ID, item.ID)

	if _, err := RecordPayment(db, bill.ID, decimal.Zero, "Cash"); !IsValidation(err) {
		t.Errorf("zero amount err = %v, want ValidationError", err)
	}
	if _, err := RecordPayment(db, 98765, dec(t, "100"), "Cash"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown bill err = %v, want ErrNotFound", err)
	}

	if _, err := CancelBill(db, bill.ID, "changed mind", "tester"); err != nil {
		t.Fatalf("CancelBill: %v", err)
	}
	if _, err := RecordPayment(db, bill.ID, dec(t, "100"), "Cash"); !errors.Is(err, ErrBillCancelled) {
		t.Errorf("cancelled bill err = %v, want ErrBillCancelled", err)
	}
}

func TestRecordCollection(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Chitra")
	db.Model(customer).Update("outstanding_balance", dec(t, "5000"))

	payment, err := RecordCollection(db, customer.ID, dec(t, "1500"), "Cash", "On account")
	if err != nil {
		t.Fatalf("RecordCollection: %v", err)
	}
	if payment.PaymentType != models.PaymentTypeReceipt {
		t.Errorf("type = %q, want %q", payment.PaymentType, models.PaymentTypeReceipt)
	}
	if payment.CustomerID == nil || *payment.CustomerID != customer.ID {
		t.Error("payment not linked to customer")
	}
	wantDec(t, "balance", reloadCustomer(t, db, customer.ID).OutstandingBalance, dec(t, "3500"))

	if _, err := RecordCollection(db, 31337, dec(t, "10"), "Cash", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown customer err = %v, want ErrNotFound", err)
	}
}

func TestRecordDisbursement(t *testing.T) {
	db := newTestDB(t)
	supplier := seedSupplier(t, db, "Gem Traders")

	payment, err := RecordDisbursement(db, supplier.ID, dec(t, "20000"), "Bank Transfer", "Against July purchases")
	if err != nil {
		t.Fatalf("RecordDisbursement: %v", err)
	}
	if payment.PaymentType != models.PaymentTypePayment {
		t.Errorf("type = %q, want %q", payment.PaymentType, models.PaymentTypePayment)
	}
	if payment.SupplierID == nil || *payment.SupplierID != supplier.ID {
		t.Error("payment not linked to supplier")
	}
}

func TestPurchaseBillPaymentType(t *testing.T) {
	db := newTestDB(t)
	supplier := seedSupplier(t, db, "Refinery")
	item := seedItem(t, db, "Bar", 0, "0", "50000.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypePurchase,
		SupplierID: &supplier.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 1, UnitPrice: dec(t, "50000")}},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if _, err := RecordPayment(db, bill.ID, dec(t, "50000"), "Bank Transfer"); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	payments, err := BillPayments(db, bill.ID)
	if err != nil {
		t.Fatalf("BillPayments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(payments))
	}
	// Money going out to a supplier is a Payment, not a Receipt.
	if payments[0].PaymentType != models.PaymentTypePayment {
		t.Errorf("type = %q, want %q", payments[0].PaymentType, models.PaymentTypePayment)
	}
}

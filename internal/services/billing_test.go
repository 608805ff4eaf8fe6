package services

import (
	"errors"
	"regexp"
	"testing"

	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
)

func TestCreateBillTotals(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Anita")
	ring := seedItem(t, db, "Gold Ring", 10, "50.000", "1000.00")
	chain := seedItem(t, db, "Gold Chain", 5, "60.000", "500.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines: []BillLine{
			{ItemID: ring.ID, Quantity: 2, UnitPrice: dec(t, "1000"), WeightInGm: dec(t, "8.500")},
			{ItemID: chain.ID, Quantity: 1, UnitPrice: dec(t, "500"), WeightInGm: dec(t, "4.000")},
		},
		Discount:      dec(t, "100"),
		MakingCharges: dec(t, "50"),
		TaxPercent:    dec(t, "3"),
		PaidAmount:    dec(t, "1000"),
		PaymentMode:   "Cash",
		Actor:         "tester",
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	// subtotal 2500, after discount+making 2450, tax 73.50, total 2523.50
	wantDec(t, "TotalAmount", bill.TotalAmount, dec(t, "2523.50"))
	wantDec(t, "TaxAmount", bill.TaxAmount, dec(t, "73.50"))
	wantDec(t, "OutstandingAmount", bill.OutstandingAmount, dec(t, "1523.50"))
	wantDec(t, "TotalWeight", bill.TotalWeight, dec(t, "12.500"))
	if bill.Status != models.BillStatusPending {
		t.Errorf("Status = %q, want %q", bill.Status, models.BillStatusPending)
	}

	if got := reloadItem(t, db, ring.ID); got.StockQuantity != 8 {
		t.Errorf("ring stock = %d, want 8", got.StockQuantity)
	}
	if got := reloadItem(t, db, chain.ID); got.StockQuantity != 4 {
		t.Errorf("chain stock = %d, want 4", got.StockQuantity)
	}

	wantDec(t, "customer balance", reloadCustomer(t, db, customer.ID).OutstandingBalance, dec(t, "1523.50"))

	var movements []models.StockMovement
	if err := db.Where("bill_id = ?", bill.ID).Find(&movements).Error; err != nil {
		t.Fatalf("load movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movements = %d, want 2", len(movements))
	}
	for _, m := range movements {
		if m.Kind != models.MovementOut {
			t.Errorf("movement kind = %q, want %q", m.Kind, models.MovementOut)
		}
		if m.NewQuantity != m.PrevQuantity+m.QuantityChange {
			t.Errorf("movement %d breaks new = prev + delta", m.ID)
		}
	}

	payments, err := BillPayments(db, bill.ID)
	if err != nil {
		t.Fatalf("BillPayments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(payments))
	}
	if payments[0].PaymentType != models.PaymentTypeReceipt {
		t.Errorf("payment type = %q, want %q", payments[0].PaymentType, models.PaymentTypeReceipt)
	}
	wantDec(t, "payment amount", payments[0].Amount, dec(t, "1000"))
}

func TestCreateBillFullyPaid(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Ravi")
	item := seedItem(t, db, "Stud Earrings", 4, "12.000", "800.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 1, UnitPrice: dec(t, "800")}},
		PaidAmount: dec(t, "800"),
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if bill.Status != models.BillStatusCompleted {
		t.Errorf("Status = %q, want %q", bill.Status, models.BillStatusCompleted)
	}
	wantDec(t, "OutstandingAmount", bill.OutstandingAmount, decimal.Zero)
	wantDec(t, "customer balance", reloadCustomer(t, db, customer.ID).OutstandingBalance, decimal.Zero)
}

func TestCreateBillOverpaymentClampsToZero(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Meera")
	item := seedItem(t, db, "Nose Pin", 4, "2.000", "300.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 1, UnitPrice: dec(t, "300")}},
		PaidAmount: dec(t, "500"),
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	wantDec(t, "OutstandingAmount", bill.OutstandingAmount, decimal.Zero)
	if bill.Status != models.BillStatusCompleted {
		t.Errorf("Status = %q, want %q", bill.Status, models.BillStatusCompleted)
	}
}

func TestPurchaseBillIncreasesStock(t *testing.T) {
	db := newTestDB(t)
	supplier := seedSupplier(t, db, "Refinery Co")
	item := seedItem(t, db, "Raw Gold Bar", 2, "20.000", "50000.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypePurchase,
		SupplierID: &supplier.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 3, UnitPrice: dec(t, "48000"), WeightInGm: dec(t, "30.000")}},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if bill.BillNumber[:2] != "PB" {
		t.Errorf("bill number %q should have PB prefix", bill.BillNumber)
	}

	got := reloadItem(t, db, item.ID)
	if got.StockQuantity != 5 {
		t.Errorf("stock = %d, want 5", got.StockQuantity)
	}
	wantDec(t, "weight", got.WeightInGm, dec(t, "50.000"))

	var movement models.StockMovement
	if err := db.Where("bill_id = ?", bill.ID).First(&movement).Error; err != nil {
		t.Fatalf("load movement: %v", err)
	}
	if movement.Kind != models.MovementIn {
		t.Errorf("movement kind = %q, want %q", movement.Kind, models.MovementIn)
	}
}

func TestCreateBillValidation(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Sita")
	supplier := seedSupplier(t, db, "Metals Inc")
	item := seedItem(t, db, "Bangle", 10, "30.000", "2000.00")

	line := BillLine{ItemID: item.ID, Quantity: 1, UnitPrice: dec(t, "2000")}

	tests := []struct {
		name  string
		input CreateBillInput
		field string
	}{
		{
			name:  "unknown bill type",
			input: CreateBillInput{BillType: "Estimate", CustomerID: &customer.ID, Lines: []BillLine{line}},
			field: "bill_type",
		},
		{
			name:  "sales without customer",
			input: CreateBillInput{BillType: models.BillTypeSales, Lines: []BillLine{line}},
			field: "customer_id",
		},
		{
			name:  "sales with supplier set",
			input: CreateBillInput{BillType: models.BillTypeSales, CustomerID: &customer.ID, SupplierID: &supplier.ID, Lines: []BillLine{line}},
			field: "supplier_id",
		},
		{
			name:  "purchase without supplier",
			input: CreateBillInput{BillType: models.BillTypePurchase, Lines: []BillLine{line}},
			field: "supplier_id",
		},
		{
			name:  "no lines",
			input: CreateBillInput{BillType: models.BillTypeSales, CustomerID: &customer.ID},
			field: "items",
		},
		{
			name: "zero quantity",
			input: CreateBillInput{BillType: models.BillTypeSales, CustomerID: &customer.ID,
				Lines: []BillLine{{ItemID: item.ID, Quantity: 0, UnitPrice: dec(t, "2000")}}},
			field: "items",
		},
		{
			name: "zero unit price",
			input: CreateBillInput{BillType: models.BillTypeSales, CustomerID: &customer.ID,
				Lines: []BillLine{{ItemID: item.ID, Quantity: 1}}},
			field: "items",
		},
		{
			name: "negative discount",
			input: CreateBillInput{BillType: models.BillTypeSales, CustomerID: &customer.ID,
				Lines: []BillLine{line}, Discount: dec(t, "-5")},
			field: "discount",
		},
		{
			name: "negative paid amount",
			input: CreateBillInput{BillType: models.BillTypeSales, CustomerID: &customer.ID,
				Lines: []BillLine{line}, PaidAmount: dec(t, "-1")},
			field: "paid_amount",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateBill(db, tc.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestCreateBillUnknownItemRollsBack(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Kiran")
	item := seedItem(t, db, "Pendant", 6, "10.000", "1200.00")

	_, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines: []BillLine{
			{ItemID: item.ID, Quantity: 2, UnitPrice: dec(t, "1200")},
			{ItemID: 9999, Quantity: 1, UnitPrice: dec(t, "100")},
		},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// The whole transaction must roll back, including the first line.
	if got := reloadItem(t, db, item.ID); got.StockQuantity != 6 {
		t.Errorf("stock = %d, want 6 after rollback", got.StockQuantity)
	}
	var billCount int64
	db.Model(&models.Bill{}).Count(&billCount)
	if billCount != 0 {
		t.Errorf("bills = %d, want 0 after rollback", billCount)
	}
	var movementCount int64
	db.Model(&models.StockMovement{}).Count(&movementCount)
	if movementCount != 0 {
		t.Errorf("movements = %d, want 0 after rollback", movementCount)
	}
}

func TestCreateBillStrictPolicyRejectsOversell(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Lata")
	item := seedItem(t, db, "Bracelet", 2, "25.000", "3000.00")

	_, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 5, UnitPrice: dec(t, "3000")}},
		Policy:     StockPolicyStrict,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := reloadItem(t, db, item.ID); got.StockQuantity != 2 {
		t.Errorf("stock = %d, want 2 after rollback", got.StockQuantity)
	}
}

func TestCreateBillClampPolicyFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Gopal")
	item := seedItem(t, db, "Chain", 2, "10.000", "1500.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 5, UnitPrice: dec(t, "1500"), WeightInGm: dec(t, "25.000")}},
		PaidAmount: dec(t, "7500"),
		Policy:     StockPolicyClamp,
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	got := reloadItem(t, db, item.ID)
	if got.StockQuantity != 0 {
		t.Errorf("stock = %d, want 0", got.StockQuantity)
	}
	wantDec(t, "weight", got.WeightInGm, decimal.Zero)

	// The recorded delta is the effective one, so the audit invariant
	// holds even when clamped.
	var movement models.StockMovement
	if err := db.Where("bill_id = ?", bill.ID).First(&movement).Error; err != nil {
		t.Fatalf("load movement: %v", err)
	}
	if movement.QuantityChange != -2 {
		t.Errorf("QuantityChange = %d, want -2", movement.QuantityChange)
	}
	if movement.NewQuantity != 0 || movement.PrevQuantity != 2 {
		t.Errorf("snapshots = %d -> %d, want 2 -> 0", movement.PrevQuantity, movement.NewQuantity)
	}
}

func TestCancelBillRestoresStockAndBalance(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Usha")
	item := seedItem(t, db, "Ring", 10, "40.000", "1000.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 3, UnitPrice: dec(t, "1000"), WeightInGm: dec(t, "12.000")}},
		PaidAmount: dec(t, "1000"),
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	wantDec(t, "balance before cancel", reloadCustomer(t, db, customer.ID).OutstandingBalance, dec(t, "2000"))

	cancelled, err := CancelBill(db, bill.ID, "customer returned items", "tester")
	if err != nil {
		t.Fatalf("CancelBill: %v", err)
	}
	if cancelled.Status != models.BillStatusCancelled {
		t.Errorf("Status = %q, want %q", cancelled.Status, models.BillStatusCancelled)
	}

	got := reloadItem(t, db, item.ID)
	if got.StockQuantity != 10 {
		t.Errorf("stock = %d, want 10 after reversal", got.StockQuantity)
	}
	wantDec(t, "weight", got.WeightInGm, dec(t, "40.000"))
	wantDec(t, "balance after cancel", reloadCustomer(t, db, customer.ID).OutstandingBalance, decimal.Zero)

	// Cancellation is sticky.
	if _, err := CancelBill(db, bill.ID, "again", "tester"); !errors.Is(err, ErrBillCancelled) {
		t.Errorf("second cancel err = %v, want ErrBillCancelled", err)
	}
}

func TestCancelClampedBillRestoresPreBillStock(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Nisha")
	item := seedItem(t, db, "Bracelet", 3, "9.000", "1000.00")

	// Clamp-policy oversell: 5 requested, only 3 on hand.
	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 5, UnitPrice: dec(t, "1000"), WeightInGm: dec(t, "15.000")}},
		PaidAmount: dec(t, "5000"),
		Policy:     StockPolicyClamp,
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if got := reloadItem(t, db, item.ID); got.StockQuantity != 0 {
		t.Fatalf("stock after clamped sale = %d, want 0", got.StockQuantity)
	}

	if _, err := CancelBill(db, bill.ID, "oversold", "tester"); err != nil {
		t.Fatalf("CancelBill: %v", err)
	}

	// The reversal must replay the effective delta (-3), not the
	// nominal line quantity (5): stock returns to the pre-bill value.
	got := reloadItem(t, db, item.ID)
	if got.StockQuantity != 3 {
		t.Errorf("stock after cancel = %d, want 3", got.StockQuantity)
	}
	wantDec(t, "weight after cancel", got.WeightInGm, dec(t, "9.000"))

	var movements []models.StockMovement
	if err := db.Where("bill_id = ?", bill.ID).Order("id").Find(&movements).Error; err != nil {
		t.Fatalf("load movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movements = %d, want 2 (sale + reversal)", len(movements))
	}
	if movements[1].QuantityChange != 3 {
		t.Errorf("reversal delta = %d, want 3", movements[1].QuantityChange)
	}
	wantDec(t, "reversal weight delta", movements[1].WeightChange, dec(t, "9.000"))
}

func TestCancelPurchaseBillRemovesStock(t *testing.T) {
	db := newTestDB(t)
	supplier := seedSupplier(t, db, "Bullion House")
	item := seedItem(t, db, "Coin", 1, "8.000", "6000.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypePurchase,
		SupplierID: &supplier.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 4, UnitPrice: dec(t, "5800"), WeightInGm: dec(t, "32.000")}},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if got := reloadItem(t, db, item.ID); got.StockQuantity != 5 {
		t.Fatalf("stock = %d, want 5", got.StockQuantity)
	}

	if _, err := CancelBill(db, bill.ID, "wrong delivery", "tester"); err != nil {
		t.Fatalf("CancelBill: %v", err)
	}
	if got := reloadItem(t, db, item.ID); got.StockQuantity != 1 {
		t.Errorf("stock = %d, want 1 after reversal", got.StockQuantity)
	}
}

func TestCancelBillNotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := CancelBill(db, 424242, "nope", "tester"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBillNumberFormat(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "Vinod")
	item := seedItem(t, db, "Anklet", 3, "15.000", "900.00")

	bill, err := CreateBill(db, CreateBillInput{
		BillType:   models.BillTypeSales,
		CustomerID: &customer.ID,
		Lines:      []BillLine{{ItemID: item.ID, Quantity: 1, UnitPrice: dec(t, "900")}},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	pattern := regexp.MustCompile(`^SB-\d{8}-[0-9A-F]{6}$`)
	if !pattern.MatchString(bill.BillNumber) {
		t.Errorf("bill number %q does not match %s", bill.BillNumber, pattern)
	}

	var count int64
	if err := db.Model(&models.Bill{}).Where("bill_number = ?", bill.BillNumber).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("bill number rows = %d, want 1", count)
	}
}

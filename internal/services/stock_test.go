package services

import (
	"errors"
	"testing"

	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
)

func TestApplyStockInThenOut(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "Gold Chain", 3, "30.000", "1500.00")

	in, err := ApplyStock(db, ApplyStockInput{
		ItemID:        item.ID,
		QuantityDelta: 5,
		WeightDelta:   dec(t, "50.000"),
		Reason:        "Restock",
		Actor:         "tester",
	})
	if err != nil {
		t.Fatalf("ApplyStock in: %v", err)
	}
	if in.Kind != models.MovementIn {
		t.Errorf("kind = %q, want %q", in.Kind, models.MovementIn)
	}
	if in.PrevQuantity != 3 || in.NewQuantity != 8 {
		t.Errorf("snapshots = %d -> %d, want 3 -> 8", in.PrevQuantity, in.NewQuantity)
	}

	out, err := ApplyStock(db, ApplyStockInput{
		ItemID:        item.ID,
		QuantityDelta: -2,
		WeightDelta:   dec(t, "-20.000"),
		Reason:        "Counter sale",
		Actor:         "tester",
	})
	if err != nil {
		t.Fatalf("ApplyStock out: %v", err)
	}
	if out.Kind != models.MovementOut {
		t.Errorf("kind = %q, want %q", out.Kind, models.MovementOut)
	}
	if out.NewQuantity != out.PrevQuantity+out.QuantityChange {
		t.Error("movement breaks new = prev + delta")
	}

	got := reloadItem(t, db, item.ID)
	if got.StockQuantity != 6 {
		t.Errorf("stock = %d, want 6", got.StockQuantity)
	}
	wantDec(t, "weight", got.WeightInGm, dec(t, "60.000"))
}

func TestApplyStockClampRecordsEffectiveDelta(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "Ring", 3, "9.000", "1000.00")

	movement, err := ApplyStock(db, ApplyStockInput{
		ItemID:        item.ID,
		QuantityDelta: -10,
		WeightDelta:   dec(t, "-30.000"),
		Reason:        "Oversell",
		Actor:         "tester",
		Policy:        StockPolicyClamp,
	})
	if err != nil {
		t.Fatalf("ApplyStock: %v", err)
	}
	if movement.QuantityChange != -3 {
		t.Errorf("QuantityChange = %d, want -3", movement.QuantityChange)
	}
	wantDec(t, "WeightChange", movement.WeightChange, dec(t, "-9.000"))
	if movement.NewQuantity != 0 {
		t.Errorf("NewQuantity = %d, want 0", movement.NewQuantity)
	}
	wantDec(t, "NewWeight", movement.NewWeight, decimal.Zero)
}

func TestApplyStockStrictRejects(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "Bangle", 3, "18.000", "2500.00")

	_, err := ApplyStock(db, ApplyStockInput{
		ItemID:        item.ID,
		QuantityDelta: -4,
		Reason:        "Oversell",
		Actor:         "tester",
		Policy:        StockPolicyStrict,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	if got := reloadItem(t, db, item.ID); got.StockQuantity != 3 {
		t.Errorf("stock = %d, want 3 unchanged", got.StockQuantity)
	}
	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	if count != 0 {
		t.Errorf("movements = %d, want 0", count)
	}
}

func TestApplyStockUnknownItem(t *testing.T) {
	db := newTestDB(t)
	_, err := ApplyStock(db, ApplyStockInput{ItemID: 777, QuantityDelta: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAdjustStock(t *testing.T) {
	tests := []struct {
		name      string
		startQty  int
		newQty    int
		wantKind  string
		wantDelta int
	}{
		{"count up", 5, 9, models.MovementAdjustmentIn, 4},
		{"count down", 5, 2, models.MovementAdjustmentOut, -3},
		{"no change still logged", 5, 5, models.MovementAdjustmentIn, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			item := seedItem(t, db, "Pendant", tc.startQty, "25.000", "1200.00")

			movement, err := AdjustStock(db, AdjustStockInput{
				ItemID:      item.ID,
				NewQuantity: tc.newQty,
				NewWeight:   dec(t, "25.000"),
				Reason:      "Monthly count",
				Actor:       "tester",
			})
			if err != nil {
				t.Fatalf("AdjustStock: %v", err)
			}
			if movement.Kind != tc.wantKind {
				t.Errorf("kind = %q, want %q", movement.Kind, tc.wantKind)
			}
			if movement.QuantityChange != tc.wantDelta {
				t.Errorf("QuantityChange = %d, want %d", movement.QuantityChange, tc.wantDelta)
			}
			if got := reloadItem(t, db, item.ID); got.StockQuantity != tc.newQty {
				t.Errorf("stock = %d, want %d", got.StockQuantity, tc.newQty)
			}
		})
	}
}

func TestAdjustStockRejectsNegativeTargets(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "Earring", 2, "4.000", "600.00")

	if _, err := AdjustStock(db, AdjustStockInput{ItemID: item.ID, NewQuantity: -1}); !IsValidation(err) {
		t.Errorf("negative quantity err = %v, want ValidationError", err)
	}
	if _, err := AdjustStock(db, AdjustStockInput{ItemID: item.ID, NewQuantity: 1, NewWeight: dec(t, "-2")}); !IsValidation(err) {
		t.Errorf("negative weight err = %v, want ValidationError", err)
	}
}

func TestItemMovementsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "Chain", 0, "0", "1500.00")

	for i := 1; i <= 3; i++ {
		if _, err := ApplyStock(db, ApplyStockInput{
			ItemID:        item.ID,
			QuantityDelta: i,
			Reason:        "Restock",
			Actor:         "tester",
		}); err != nil {
			t.Fatalf("ApplyStock %d: %v", i, err)
		}
	}

	movements, err := ItemMovements(db, item.ID, 2)
	if err != nil {
		t.Fatalf("ItemMovements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movements = %d, want 2", len(movements))
	}
	if movements[0].ID < movements[1].ID {
		t.Error("movements not ordered newest first")
	}
	if movements[0].QuantityChange != 3 {
		t.Errorf("latest delta = %d, want 3", movements[0].QuantityChange)
	}
}

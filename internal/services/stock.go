package services

import (
	"errors"
	"os"

	"goldland-pos/internal/metrics"
	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockPolicy controls what happens when a delta would drive an item's
// quantity or weight below zero.
type StockPolicy string

const (
	// StockPolicyClamp floors the value at zero, matching the legacy
	// shop behavior (oversell is absorbed silently).
	StockPolicyClamp StockPolicy = "clamp"
	// StockPolicyStrict rejects the operation with ErrInsufficientStock
	// before any mutation.
	StockPolicyStrict StockPolicy = "strict"
)

// StockPolicyFromEnv reads STOCK_POLICY, defaulting to clamp.
func StockPolicyFromEnv() StockPolicy {
	if os.Getenv("STOCK_POLICY") == string(StockPolicyStrict) {
		return StockPolicyStrict
	}
	return StockPolicyClamp
}

// ApplyStockInput describes one signed stock change for one item.
type ApplyStockInput struct {
	ItemID        uint
	QuantityDelta int
	WeightDelta   decimal.Decimal
	Kind          string // derived from the quantity delta sign when empty
	Reason        string
	Actor         string
	BillID        *uint
	Policy        StockPolicy
}

// AdjustStockInput sets absolute values from a manual stock count; the
// ledger computes the implied delta.
type AdjustStockInput struct {
	ItemID      uint
	NewQuantity int
	NewWeight   decimal.Decimal
	Reason      string
	Actor       string
	Policy      StockPolicy
}

// ApplyStock applies one signed delta to one item inside its own
// transaction: it locks the item row, writes the new snapshot and
// appends exactly one immutable StockMovement.
func ApplyStock(db *gorm.DB, in ApplyStockInput) (*models.StockMovement, error) {
	var movement *models.StockMovement
	err := db.Transaction(func(tx *gorm.DB) error {
		item, err := lockItem(tx, in.ItemID)
		if err != nil {
			return err
		}
		movement, err = applyToItem(tx, item, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// AdjustStock records a manual stock-count correction. The movement is
// classified ADJUSTMENT_IN/ADJUSTMENT_OUT by the sign of the implied
// quantity delta; a zero delta is still logged for audit completeness.
func AdjustStock(db *gorm.DB, in AdjustStockInput) (*models.StockMovement, error) {
	if in.NewQuantity < 0 {
		return nil, validationf("new_quantity", "must not be negative")
	}
	if in.NewWeight.IsNegative() {
		return nil, validationf("new_weight", "must not be negative")
	}

	var movement *models.StockMovement
	err := db.Transaction(func(tx *gorm.DB) error {
		item, err := lockItem(tx, in.ItemID)
		if err != nil {
			return err
		}
		qtyDelta := in.NewQuantity - item.StockQuantity
		kind := models.MovementAdjustmentIn
		if qtyDelta < 0 {
			kind = models.MovementAdjustmentOut
		}
		movement, err = applyToItem(tx, item, ApplyStockInput{
			ItemID:        in.ItemID,
			QuantityDelta: qtyDelta,
			WeightDelta:   in.NewWeight.Sub(item.WeightInGm),
			Kind:          kind,
			Reason:        in.Reason,
			Actor:         in.Actor,
			Policy:        in.Policy,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// lockItem fetches the item row with an exclusive lock so concurrent
// bill creations against the same item cannot interleave their
// read-modify-write. SQLite (used by the tests) has no FOR UPDATE and
// serializes writers on its own.
func lockItem(tx *gorm.DB, itemID uint) (*models.Item, error) {
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.Item
	if err := tx.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// applyToItem mutates an already-locked item and appends the movement.
// Callers that batch several lines (the bill engine) invoke this once
// per line inside their own transaction.
func applyToItem(tx *gorm.DB, item *models.Item, in ApplyStockInput) (*models.StockMovement, error) {
	prevQty, prevWeight := item.StockQuantity, item.WeightInGm

	newQty := prevQty + in.QuantityDelta
	newWeight := prevWeight.Add(in.WeightDelta)

	if newQty < 0 || newWeight.IsNegative() {
		if in.Policy == StockPolicyStrict {
			return nil, ErrInsufficientStock
		}
		// Clamp to zero and record the effective delta so the movement
		// invariant new = previous + delta keeps holding.
		if newQty < 0 {
			newQty = 0
		}
		if newWeight.IsNegative() {
			newWeight = decimal.Zero
		}
		log.WithFields(log.Fields{
			"item_id": item.ID,
			"reason":  in.Reason,
		}).Warn("stock delta clamped to zero")
	}

	kind := in.Kind
	if kind == "" {
		if in.QuantityDelta < 0 {
			kind = models.MovementOut
		} else {
			kind = models.MovementIn
		}
	}

	if err := tx.Model(item).Updates(map[string]interface{}{
		"stock_quantity": newQty,
		"weight_in_gm":   newWeight,
	}).Error; err != nil {
		return nil, err
	}
	item.StockQuantity = newQty
	item.WeightInGm = newWeight

	movement := models.StockMovement{
		ItemID:         item.ID,
		Kind:           kind,
		QuantityChange: newQty - prevQty,
		WeightChange:   newWeight.Sub(prevWeight),
		PrevQuantity:   prevQty,
		NewQuantity:    newQty,
		PrevWeight:     prevWeight,
		NewWeight:      newWeight,
		Reason:         in.Reason,
		Actor:          in.Actor,
		BillID:         in.BillID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	metrics.StockMovements.WithLabelValues(kind).Inc()
	return &movement, nil
}

// ItemMovements lists the audit trail for one item, newest first.
func ItemMovements(db *gorm.DB, itemID uint, limit int) ([]models.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	var movements []models.StockMovement
	err := db.Where("item_id = ?", itemID).
		Order("id desc").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

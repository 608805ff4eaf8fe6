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

// OrderItemInput is one requested piece on a new advance order.
type OrderItemInput struct {
	ItemType              string          `json:"item_type"`
	Description           string          `json:"description"`
	MaterialType          string          `json:"material_type"`
	EstimatedWeight       decimal.Decimal `json:"estimated_weight"`
	EstimatedDiamondCarat decimal.Decimal `json:"estimated_diamond_carat"`
	Purity                string          `json:"purity"`
	EstimatedPrice        decimal.Decimal `json:"estimated_price"`
	DesignReference       string          `json:"design_reference"`
	Remarks               string          `json:"remarks"`
}

type CreateOrderInput struct {
	CustomerID           uint             `json:"customer_id" binding:"required"`
	EmployeeID           *uint            `json:"employee_id"`
	OrderType            string           `json:"order_type"`
	MaterialType         string           `json:"material_type"`
	EstimatedWeight      decimal.Decimal  `json:"estimated_weight"`
	EstimatedAmount      decimal.Decimal  `json:"estimated_amount"`
	AdvanceAmount        decimal.Decimal  `json:"advance_amount"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	GoldRateLocked       decimal.Decimal  `json:"gold_rate_locked"`
	DiamondRateLocked    decimal.Decimal  `json:"diamond_rate_locked"`
	Specifications       string           `json:"specifications"`
	DesignNotes          string           `json:"design_notes"`
	Priority             string           `json:"priority"`
	AssignedArtisan      string           `json:"assigned_artisan"`
	Remarks              string           `json:"remarks"`
	PaymentMode          string           `json:"payment_mode"`
	Items                []OrderItemInput `json:"items"`
}

// CreateOrder books a custom/advance order. The balance starts at
// estimated - advance, and an initial advance > 0 is recorded as an
// Advance payment in the same transaction.
func CreateOrder(db *gorm.DB, in CreateOrderInput) (*models.AdvanceOrder, error) {
	if in.EstimatedAmount.IsNegative() {
		return nil, validationf("estimated_amount", "must not be negative")
	}
	if in.AdvanceAmount.IsNegative() {
		return nil, validationf("advance_amount", "must not be negative")
	}
	if in.Priority == "" {
		in.Priority = "Normal"
	}

	order := models.AdvanceOrder{
		CustomerID:           in.CustomerID,
		EmployeeID:           in.EmployeeID,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		OrderType:            in.OrderType,
		MaterialType:         in.MaterialType,
		EstimatedWeight:      in.EstimatedWeight,
		EstimatedAmount:      in.EstimatedAmount,
		AdvanceAmount:        in.AdvanceAmount,
		BalanceAmount:        in.EstimatedAmount.Sub(in.AdvanceAmount),
		GoldRateLocked:       in.GoldRateLocked,
		DiamondRateLocked:    in.DiamondRateLocked,
		Specifications:       in.Specifications,
		DesignNotes:          in.DesignNotes,
		Status:               models.OrderStatusPending,
		Priority:             in.Priority,
		AssignedArtisan:      in.AssignedArtisan,
		Remarks:              in.Remarks,
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, models.AdvanceOrderItem{
			ItemType:              it.ItemType,
			Description:           it.Description,
			MaterialType:          it.MaterialType,
			EstimatedWeight:       it.EstimatedWeight,
			EstimatedDiamondCarat: it.EstimatedDiamondCarat,
			Purity:                it.Purity,
			EstimatedPrice:        it.EstimatedPrice,
			DesignReference:       it.DesignReference,
			Remarks:               it.Remarks,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("customer %d: %w", in.CustomerID, ErrNotFound)
			}
			return err
		}

		if err := createWithNumber(tx, &order, func(n string) { order.OrderNumber = n }, "AO"); err != nil {
			return err
		}

		if in.AdvanceAmount.IsPositive() {
			return appendOrderPayment(tx, &order, in.AdvanceAmount, in.PaymentMode,
				fmt.Sprintf("Advance for order %s", order.OrderNumber))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	log.WithFields(log.Fields{
		"order_number": order.OrderNumber,
		"advance":      in.AdvanceAmount.String(),
	}).Info("advance order created")
	return &order, nil
}

// AddOrderPayment tops up the advance on a live order and recomputes
// the balance. Terminal orders reject further payments.
func AddOrderPayment(db *gorm.DB, orderID uint, amount decimal.Decimal, mode string) (*models.AdvanceOrder, error) {
	if !amount.IsPositive() {
		return nil, validationf("amount", "must be positive")
	}

	var order models.AdvanceOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, &order, orderID); err != nil {
			return err
		}
		if order.IsTerminal() {
			return ErrTerminalOrder
		}

		order.AdvanceAmount = order.AdvanceAmount.Add(amount)
		order.BalanceAmount = order.EstimatedAmount.Sub(order.AdvanceAmount)
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"advance_amount": order.AdvanceAmount,
			"balance_amount": order.BalanceAmount,
		}).Error; err != nil {
			return err
		}

		return appendOrderPayment(tx, &order, amount, mode,
			fmt.Sprintf("Additional advance for %s", order.OrderNumber))
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus overwrites the status and, when given, the remarks.
// Any non-terminal status may move to any other; only Delivered and
// Cancelled are sticky.
func UpdateOrderStatus(db *gorm.DB, orderID uint, newStatus string, remarks *string) (*models.AdvanceOrder, error) {
	if !validOrderStatus(newStatus) {
		return nil, validationf("status", "unknown status %q", newStatus)
	}

	var order models.AdvanceOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, &order, orderID); err != nil {
			return err
		}
		if order.IsTerminal() {
			return ErrTerminalOrder
		}

		updates := map[string]interface{}{"status": newStatus}
		if remarks != nil {
			updates["remarks"] = *remarks
			order.Remarks = *remarks
		}
		order.Status = newStatus
		return tx.Model(&order).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkDelivered closes an order: status Delivered, the final price
// recorded and the balance recomputed against it. The balance can go
// negative when the advance exceeded the final price - that is
// surfaced to the caller, not hidden.
func MarkDelivered(db *gorm.DB, orderID uint, finalAmount decimal.Decimal, billID *uint) (*models.AdvanceOrder, error) {
	if finalAmount.IsNegative() {
		return nil, validationf("final_amount", "must not be negative")
	}

	var order models.AdvanceOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, &order, orderID); err != nil {
			return err
		}
		if order.IsTerminal() {
			return ErrTerminalOrder
		}

		now := time.Now()
		order.Status = models.OrderStatusDelivered
		order.FinalAmount = finalAmount
		order.BalanceAmount = finalAmount.Sub(order.AdvanceAmount)
		order.ActualDeliveryDate = &now
		order.BillID = billID
		return tx.Model(&order).Updates(map[string]interface{}{
			"status":               order.Status,
			"final_amount":         order.FinalAmount,
			"balance_amount":       order.BalanceAmount,
			"actual_delivery_date": order.ActualDeliveryDate,
			"bill_id":              order.BillID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_number": order.OrderNumber,
		"final_amount": finalAmount.String(),
		"balance":      order.BalanceAmount.String(),
	}).Info("advance order delivered")
	return &order, nil
}

// CancelOrder marks the order Cancelled and stores the reason. The
// advance already collected is NOT refunded automatically - refunds
// are a manual business decision handled outside the system.
func CancelOrder(db *gorm.DB, orderID uint, reason string) (*models.AdvanceOrder, error) {
	var order models.AdvanceOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, &order, orderID); err != nil {
			return err
		}
		if order.IsTerminal() {
			return ErrTerminalOrder
		}
		order.Status = models.OrderStatusCancelled
		order.Remarks = reason
		return tx.Model(&order).Updates(map[string]interface{}{
			"status":  order.Status,
			"remarks": order.Remarks,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	log.WithField("order_number", order.OrderNumber).Info("advance order cancelled")
	return &order, nil
}

// DeleteOrder hard-deletes an order and its items. Administrative
// correction only; the normal lifecycle ends in a terminal status.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.AdvanceOrder
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.AdvanceOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// GetOrder fetches one order with its items and customer.
func GetOrder(db *gorm.DB, orderID uint) (*models.AdvanceOrder, error) {
	var order models.AdvanceOrder
	if err := db.Preload("Items").Preload("Customer").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first, optionally filtered by status.
func ListOrders(db *gorm.DB, status string, limit int) ([]models.AdvanceOrder, error) {
	if limit <= 0 {
		limit = 100
	}
	q := db.Preload("Customer").Order("order_date desc").Limit(limit)
	if status != "" && status != "All" {
		q = q.Where("status = ?", status)
	}
	var orders []models.AdvanceOrder
	err := q.Find(&orders).Error
	return orders, err
}

// OverdueOrders lists live orders whose expected delivery date has
// passed. Overdue is derived at query time, never stored.
func OverdueOrders(db *gorm.DB) ([]models.AdvanceOrder, error) {
	var orders []models.AdvanceOrder
	err := db.Preload("Customer").
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusInProgress}).
		Where("expected_delivery_date < ?", startOfToday()).
		Order("expected_delivery_date asc").
		Find(&orders).Error
	return orders, err
}

// OrdersSummary aggregates the workshop queue for the dashboard.
type OrdersSummary struct {
	Pending               int64           `json:"pending"`
	InProgress            int64           `json:"in_progress"`
	Ready                 int64           `json:"ready"`
	Overdue               int64           `json:"overdue"`
	TotalAdvanceCollected decimal.Decimal `json:"total_advance_collected"`
}

func SummarizeOrders(db *gorm.DB) (*OrdersSummary, error) {
	var s OrdersSummary
	counts := map[string]*int64{
		models.OrderStatusPending:    &s.Pending,
		models.OrderStatusInProgress: &s.InProgress,
		models.OrderStatusReady:      &s.Ready,
	}
	for status, dst := range counts {
		if err := db.Model(&models.AdvanceOrder{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Model(&models.AdvanceOrder{}).
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusInProgress}).
		Where("expected_delivery_date < ?", startOfToday()).
		Count(&s.Overdue).Error; err != nil {
		return nil, err
	}
	var total decimal.NullDecimal
	if err := db.Model(&models.AdvanceOrder{}).
		Where("status NOT IN ?", []string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Select("COALESCE(SUM(advance_amount), 0)").
		Scan(&total).Error; err != nil {
		return nil, err
	}
	s.TotalAdvanceCollected = total.Decimal
	return &s, nil
}

func lockOrder(tx *gorm.DB, order *models.AdvanceOrder, orderID uint) error {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validOrderStatus(status string) bool {
	for _, s := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func appendOrderPayment(tx *gorm.DB, order *models.AdvanceOrder, amount decimal.Decimal, mode, description string) error {
	if mode == "" {
		mode = "Cash"
	}
	payment := models.Payment{
		PaymentType:   models.PaymentTypeAdvance,
		PaymentDate:   time.Now(),
		Amount:        amount,
		PaymentMode:   mode,
		ReferenceType: "Advance Order",
		ReferenceID:   &order.ID,
		CustomerID:    &order.CustomerID,
		Description:   description,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return err
	}
	metrics.PaymentsRecorded.WithLabelValues(models.PaymentTypeAdvance).Inc()
	return nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

package database

import (
	"time"

	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillTotals aggregates bills of one type over a date range.
// Cancelled bills are excluded.
type BillTotals struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalCount       int64           `json:"total_count"`
}

// GetBillTotals sums totals and outstanding for a bill type in a range.
func GetBillTotals(db *gorm.DB, billType string, start, end time.Time) (*BillTotals, error) {
	var result BillTotals

	base := db.Model(&models.Bill{}).
		Where("bill_type = ? AND status <> ?", billType, models.BillStatusCancelled).
		Where("bill_date BETWEEN ? AND ?", start, end)

	var revenue decimal.NullDecimal
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	result.TotalRevenue = revenue.Decimal

	var outstanding decimal.NullDecimal
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(outstanding_amount), 0)").
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}
	result.TotalOutstanding = outstanding.Decimal

	if err := base.Session(&gorm.Session{}).Count(&result.TotalCount).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// ValuationItem is one row of the stock valuation report.
type ValuationItem struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	WeightInGm decimal.Decimal `json:"weight_in_gm"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// CategoryGroup is one category section of the valuation report.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
}

// ValuationReport is the whole stock valuation payload.
type ValuationReport struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// GetStockValuation prices the on-hand stock of every active item at
// cost and groups the rows by category.
func GetStockValuation(db *gorm.DB) (*ValuationReport, error) {
	var items []models.Item
	if err := db.Preload("Category").Where("is_active = ?", true).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}

	report := &ValuationReport{GrandTotal: decimal.Zero}
	grouped := make(map[string]*CategoryGroup)
	var order []string

	for _, item := range items {
		catName := "Uncategorized"
		if item.Category != nil {
			catName = item.Category.Name
		}
		group, ok := grouped[catName]
		if !ok {
			group = &CategoryGroup{CategoryName: catName, Subtotal: decimal.Zero, TotalWeight: decimal.Zero}
			grouped[catName] = group
			order = append(order, catName)
		}

		itemTotal := item.CostPrice.Mul(decimal.NewFromInt(int64(item.StockQuantity)))
		group.Items = append(group.Items, ValuationItem{
			Name:       item.Name,
			Quantity:   item.StockQuantity,
			WeightInGm: item.WeightInGm,
			CostPrice:  item.CostPrice,
			TotalCost:  itemTotal,
		})
		group.Subtotal = group.Subtotal.Add(itemTotal)
		group.TotalWeight = group.TotalWeight.Add(item.WeightInGm)
		report.GrandTotal = report.GrandTotal.Add(itemTotal)
	}

	for _, name := range order {
		report.Categories = append(report.Categories, *grouped[name])
	}
	return report, nil
}

// DashboardSummary is the front-page snapshot.
type DashboardSummary struct {
	TodaySales          decimal.Decimal `json:"today_sales"`
	MonthSales          decimal.Decimal `json:"month_sales"`
	PendingBills        int64           `json:"pending_bills"`
	CustomerOutstanding decimal.Decimal `json:"customer_outstanding"`
	RecentBills         []models.Bill   `json:"recent_bills"`
}

func GetDashboardSummary(db *gorm.DB) (*DashboardSummary, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var summary DashboardSummary

	today, err := GetBillTotals(db, models.BillTypeSales, startOfDay, now)
	if err != nil {
		return nil, err
	}
	summary.TodaySales = today.TotalRevenue

	month, err := GetBillTotals(db, models.BillTypeSales, startOfMonth, now)
	if err != nil {
		return nil, err
	}
	summary.MonthSales = month.TotalRevenue

	if err := db.Model(&models.Bill{}).
		Where("status = ?", models.BillStatusPending).
		Count(&summary.PendingBills).Error; err != nil {
		return nil, err
	}

	var outstanding decimal.NullDecimal
	if err := db.Model(&models.Customer{}).
		Select("COALESCE(SUM(outstanding_balance), 0)").
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}
	summary.CustomerOutstanding = outstanding.Decimal

	if err := db.Preload("Items").Order("bill_date desc").Limit(10).Find(&summary.RecentBills).Error; err != nil {
		return nil, err
	}

	return &summary, nil
}

package services

import (
	"errors"
	"time"

	"goldland-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rate lookup is a soft-fail read service: rates are operator-entered
// and may lag, so a missing rate is (nil, nil), never an error. Callers
// default to zero or prompt for manual entry.

// CurrentGoldRate returns the most recent active rate for the purity
// with rate_date <= asOf (zero asOf means today). No interpolation.
func CurrentGoldRate(db *gorm.DB, purity string, asOf time.Time) (*models.GoldRate, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	var rate models.GoldRate
	err := db.Where("purity = ? AND is_active = ? AND rate_date <= ?", purity, true, asOf).
		Order("rate_date desc").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// CurrentDiamondRate resolves the per-carat rate for an exact
// clarity + color + shape triple.
func CurrentDiamondRate(db *gorm.DB, clarity, color, shape string, asOf time.Time) (*models.DiamondRate, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	var rate models.DiamondRate
	err := db.Where("clarity = ? AND color = ? AND shape = ? AND is_active = ? AND rate_date <= ?",
		clarity, color, shape, true, asOf).
		Order("rate_date desc").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

type UpsertGoldRateInput struct {
	RateDate      time.Time       `json:"rate_date"`
	Purity        string          `json:"purity" binding:"required"`
	RatePerGram   decimal.Decimal `json:"rate_per_gram"`
	MakingCharges decimal.Decimal `json:"making_charges"`
	Notes         string          `json:"notes"`
}

// UpsertGoldRate updates the same-day row for the purity when one
// exists, otherwise inserts a new one.
func UpsertGoldRate(db *gorm.DB, in UpsertGoldRateInput) (*models.GoldRate, error) {
	if !in.RatePerGram.IsPositive() {
		return nil, validationf("rate_per_gram", "must be positive")
	}
	if in.MakingCharges.IsNegative() {
		return nil, validationf("making_charges", "must not be negative")
	}
	day := dateOnly(in.RateDate)

	var rate models.GoldRate
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("rate_date = ? AND purity = ?", day, in.Purity).First(&rate).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rate.RateDate = day
		rate.Purity = in.Purity
		rate.RatePerGram = in.RatePerGram
		rate.MakingCharges = in.MakingCharges
		rate.Notes = in.Notes
		rate.IsActive = true
		return tx.Save(&rate).Error
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

type UpsertDiamondRateInput struct {
	RateDate      time.Time       `json:"rate_date"`
	Shape         string          `json:"shape"`
	Clarity       string          `json:"clarity" binding:"required"`
	Color         string          `json:"color" binding:"required"`
	CaratFrom     decimal.Decimal `json:"carat_from"`
	CaratTo       decimal.Decimal `json:"carat_to"`
	RatePerCarat  decimal.Decimal `json:"rate_per_carat"`
	Certification string          `json:"certification"`
	Notes         string          `json:"notes"`
}

func UpsertDiamondRate(db *gorm.DB, in UpsertDiamondRateInput) (*models.DiamondRate, error) {
	if !in.RatePerCarat.IsPositive() {
		return nil, validationf("rate_per_carat", "must be positive")
	}
	if in.Shape == "" {
		in.Shape = "Round"
	}
	if in.CaratTo.IsZero() {
		in.CaratTo = decimal.NewFromInt(10)
	}
	day := dateOnly(in.RateDate)

	var rate models.DiamondRate
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("rate_date = ? AND clarity = ? AND color = ? AND shape = ?",
			day, in.Clarity, in.Color, in.Shape).First(&rate).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rate.RateDate = day
		rate.Shape = in.Shape
		rate.Clarity = in.Clarity
		rate.Color = in.Color
		rate.CaratFrom = in.CaratFrom
		rate.CaratTo = in.CaratTo
		rate.RatePerCarat = in.RatePerCarat
		rate.Certification = in.Certification
		rate.Notes = in.Notes
		rate.IsActive = true
		return tx.Save(&rate).Error
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// DeactivateGoldRate soft-deletes a rate row; history stays queryable.
func DeactivateGoldRate(db *gorm.DB, rateID uint) error {
	res := db.Model(&models.GoldRate{}).Where("id = ?", rateID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func DeactivateDiamondRate(db *gorm.DB, rateID uint) error {
	res := db.Model(&models.DiamondRate{}).Where("id = ?", rateID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GoldRateHistory lists recent rates, optionally for one purity.
func GoldRateHistory(db *gorm.DB, purity string, limit int) ([]models.GoldRate, error) {
	if limit <= 0 {
		limit = 30
	}
	q := db.Where("is_active = ?", true).Order("rate_date desc, purity").Limit(limit)
	if purity != "" {
		q = q.Where("purity = ?", purity)
	}
	var rates []models.GoldRate
	err := q.Find(&rates).Error
	return rates, err
}

func DiamondRateHistory(db *gorm.DB, limit int) ([]models.DiamondRate, error) {
	if limit <= 0 {
		limit = 50
	}
	var rates []models.DiamondRate
	err := db.Where("is_active = ?", true).
		Order("rate_date desc, id desc").
		Limit(limit).
		Find(&rates).Error
	return rates, err
}

// GoldValue prices a weight at the current rate for the purity.
// The bool reports whether a rate was found.
func GoldValue(db *gorm.DB, weightGm decimal.Decimal, purity string, includeMaking bool) (decimal.Decimal, bool, error) {
	rate, err := CurrentGoldRate(db, purity, time.Time{})
	if err != nil {
		return decimal.Zero, false, err
	}
	if rate == nil {
		return decimal.Zero, false, nil
	}
	value := weightGm.Mul(rate.RatePerGram)
	if includeMaking {
		value = value.Add(weightGm.Mul(rate.MakingCharges))
	}
	return value.Round(2), true, nil
}

// DiamondValue prices a carat weight at the current rate for the grade.
func DiamondValue(db *gorm.DB, carat decimal.Decimal, clarity, color, shape string) (decimal.Decimal, bool, error) {
	rate, err := CurrentDiamondRate(db, clarity, color, shape, time.Time{})
	if err != nil {
		return decimal.Zero, false, err
	}
	if rate == nil {
		return decimal.Zero, false, nil
	}
	return carat.Mul(rate.RatePerCarat).Round(2), true, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

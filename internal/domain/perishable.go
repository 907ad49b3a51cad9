package domain

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/shopspring/decimal"
)

// PerishableAttributes описывает скоропортящийся товар.
type PerishableAttributes struct {
	ManufacturingDate       time.Time
	ExpiryDate              time.Time
	MaxShelfLifeDays        int64
	CurrentDailySellingRate decimal.Decimal
	CurrentDemandLevel      decimal.Decimal // 0..100
	QualityScore            decimal.Decimal // 0..1
}

func (PerishableAttributes) Category() Category { return CategoryPerishable }
func (PerishableAttributes) isProductDetail()   {}

func (p PerishableAttributes) Validate() error {
	if p.MaxShelfLifeDays <= 0 {
		return e.Wrap(fmt.Sprintf("max shelf life %d", p.MaxShelfLifeDays), e.ErrInvalidAttributeRange)
	}
	if p.ExpiryDate.Before(p.ManufacturingDate) {
		return e.Wrap("expiry date before manufacturing date", e.ErrInvalidAttributeRange)
	}
	if p.CurrentDailySellingRate.IsNegative() {
		return e.Wrap("negative daily selling rate", e.ErrInvalidAttributeRange)
	}
	if !between(p.CurrentDemandLevel, decimal.Zero, decimal.NewFromInt(100)) {
		return e.Wrap(fmt.Sprintf("demand level %s", p.CurrentDemandLevel), e.ErrInvalidAttributeRange)
	}
	if !between(p.QualityScore, decimal.Zero, decimal.NewFromInt(1)) {
		return e.Wrap(fmt.Sprintf("quality score %s", p.QualityScore), e.ErrInvalidAttributeRange)
	}
	return nil
}

func between(v, lo, hi decimal.Decimal) bool {
	return v.GreaterThanOrEqual(lo) && v.LessThanOrEqual(hi)
}

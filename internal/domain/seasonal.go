package domain

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/shopspring/decimal"
)

// SeasonalAttributes описывает сезонный товар. Алгоритм цены пока заглушка.
type SeasonalAttributes struct {
	SeasonStart  time.Time
	SeasonEnd    time.Time
	PeakPrice    decimal.Decimal
	OffPeakPrice decimal.Decimal
}

func (SeasonalAttributes) Category() Category { return CategorySeasonal }
func (SeasonalAttributes) isProductDetail()   {}

func (s SeasonalAttributes) Validate() error {
	if !s.SeasonStart.IsZero() && !s.SeasonEnd.IsZero() && s.SeasonEnd.Before(s.SeasonStart) {
		return e.Wrap("season end before start", e.ErrInvalidAttributeRange)
	}
	if !s.PeakPrice.IsZero() && s.OffPeakPrice.GreaterThan(s.PeakPrice) {
		return e.Wrap("off-peak price above peak price", e.ErrInvalidAttributeRange)
	}
	return nil
}

package pricing

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	perishableExpiryWeight = dec("0.4")
	perishableDemandWeight = dec("0.3")
	perishableStockWeight  = dec("0.3")
	scfNormalizer          = decimal.NewFromInt(5)
)

// PerishableStrategy оценивает скидку на скоропортящийся товар по близости срока годности,
// спросу и давлению остатков.
type PerishableStrategy struct{}

func NewPerishableStrategy() *PerishableStrategy {
	return &PerishableStrategy{}
}

func (s *PerishableStrategy) Category() domain.Category {
	return domain.CategoryPerishable
}

func (s *PerishableStrategy) Evaluate(product *domain.Product, now time.Time) (*Outcome, error) {
	attrs, err := detailAs[domain.PerishableAttributes](product)
	if err != nil {
		return nil, err
	}

	// Просроченный товар считается товаром с нулём дней до истечения срока.
	daysToExpiry := daysBetween(now, attrs.ExpiryDate)
	if daysToExpiry < 0 {
		daysToExpiry = 0
	}
	days := decimal.NewFromInt(daysToExpiry)

	expiryTimeScore := one.Sub(div2(days, decimal.NewFromInt(attrs.MaxShelfLifeDays)))
	demandTrendScore := one.Sub(div2(attrs.CurrentDemandLevel, hundred))

	scf := zero
	if daysToExpiry > 0 && attrs.CurrentDailySellingRate.IsPositive() {
		scf = div2(decimal.NewFromInt(product.CurrentStock), days.Mul(attrs.CurrentDailySellingRate))
	}
	scfNormalized := div2(scf, scfNormalizer)

	score := expiryTimeScore.Mul(perishableExpiryWeight).
		Add(demandTrendScore.Mul(perishableDemandWeight)).
		Add(scfNormalized.Mul(perishableStockWeight))

	return &Outcome{
		Score: &score,
		Breakdown: Breakdown{
			ExpiryTimeScore:   ptr(expiryTimeScore),
			DemandTrendScore:  ptr(demandTrendScore),
			SellingRateScore:  ptr(scfNormalized),
			ProfitMarginScore: ptr(profitMarginScore(product)),
		},
	}, nil
}

// profitMarginScore = 1 − текущая маржа / максимальная. Только для журнала.
func profitMarginScore(product *domain.Product) decimal.Decimal {
	if !product.MaxProfitMargin.IsPositive() {
		return one
	}
	return one.Sub(div2(product.CurrentProfitMargin, product.MaxProfitMargin))
}

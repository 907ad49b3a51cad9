package pricing

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Outcome — результат стратегии категории. Ровно один из вариантов:
//   - Score != nil: оценка скидки, процент определяет PercentageForScore;
//   - Price != nil: итоговая цена посчитана стратегией напрямую;
//   - иначе применяется Percentage к базовой цене.
type Outcome struct {
	Score      *decimal.Decimal
	Price      *decimal.Decimal
	Percentage decimal.Decimal
	Breakdown  Breakdown
}

// Breakdown — составляющие расчёта для журнала.
type Breakdown struct {
	ExpiryTimeScore   *decimal.Decimal
	DemandTrendScore  *decimal.Decimal
	SellingRateScore  *decimal.Decimal
	ProfitMarginScore *decimal.Decimal
	Subscription      *domain.SubscriptionInsights
}

// Quote — итог расчёта цены продукта.
type Quote struct {
	ProductID     string
	Category      domain.Category
	OriginalPrice decimal.Decimal
	Score         *decimal.Decimal
	Percentage    decimal.Decimal
	FinalPrice    decimal.Decimal
	Breakdown     Breakdown
	CalculatedAt  time.Time
}

// CalculationLog превращает расчёт в диагностическую запись.
func (q *Quote) CalculationLog(id string) *domain.CalculationLog {
	return &domain.CalculationLog{
		ID:                  id,
		ProductID:           q.ProductID,
		Category:            q.Category,
		ExpiryTimeScore:     q.Breakdown.ExpiryTimeScore,
		DemandTrendScore:    q.Breakdown.DemandTrendScore,
		SellingRateScore:    q.Breakdown.SellingRateScore,
		ProfitMarginScore:   q.Breakdown.ProfitMarginScore,
		TotalDiscountScore:  q.Score,
		RecommendedDiscount: q.Percentage,
		OriginalPrice:       q.OriginalPrice,
		FinalPrice:          q.FinalPrice,
		Subscription:        q.Breakdown.Subscription,
		CalculatedAt:        q.CalculatedAt,
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

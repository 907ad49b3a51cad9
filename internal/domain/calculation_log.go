package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationLog — диагностическая запись одного расчёта цены.
// Поля оценок пустые, если стратегия категории их не считает.
type CalculationLog struct {
	ID                  string                `json:"id"`
	ProductID           string                `json:"product_id"`
	Category            Category              `json:"category"`
	ExpiryTimeScore     *decimal.Decimal      `json:"expiry_time_score,omitempty"`
	DemandTrendScore    *decimal.Decimal      `json:"demand_trend_score,omitempty"`
	SellingRateScore    *decimal.Decimal      `json:"selling_rate_score,omitempty"`
	ProfitMarginScore   *decimal.Decimal      `json:"profit_margin_score,omitempty"`
	TotalDiscountScore  *decimal.Decimal      `json:"total_discount_score,omitempty"`
	RecommendedDiscount decimal.Decimal       `json:"recommended_discount"`
	OriginalPrice       decimal.Decimal       `json:"original_price"`
	FinalPrice          decimal.Decimal       `json:"final_price"`
	Subscription        *SubscriptionInsights `json:"subscription,omitempty"`
	CalculatedAt        time.Time             `json:"calculated_at"`
}

// SubscriptionInsights — диагностика подписочной модели. На цену не влияет.
type SubscriptionInsights struct {
	Segment            string          `json:"segment"`
	RenewalProbability decimal.Decimal `json:"renewal_probability"`
	TimeSinceExpiry    decimal.Decimal `json:"time_since_expiry"`
	BonusGraceDays     int64           `json:"bonus_grace_days"`
}

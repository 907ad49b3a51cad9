package pricing

import "github.com/shopspring/decimal"

type tier struct {
	below      decimal.Decimal
	percentage decimal.Decimal
}

// Границы полуоткрытые: оценка сравнивается строго через «<».
var scoreTiers = []tier{
	{below: dec("0.5"), percentage: decimal.NewFromInt(5)},
	{below: dec("1.5"), percentage: decimal.NewFromInt(15)},
	{below: dec("2.5"), percentage: decimal.NewFromInt(30)},
	{below: dec("3.5"), percentage: decimal.NewFromInt(40)},
}

var topTierPercentage = decimal.NewFromInt(50)

// PercentageForScore переводит оценку скидки в процент.
func PercentageForScore(score decimal.Decimal) decimal.Decimal {
	for _, t := range scoreTiers {
		if score.LessThan(t.below) {
			return t.percentage
		}
	}
	return topTierPercentage
}

// ApplyPercentage возвращает base − base × pct / 100, округлённое до копеек.
func ApplyPercentage(base, pct decimal.Decimal) decimal.Decimal {
	return round2(base.Sub(base.Mul(pct).Div(hundred)))
}

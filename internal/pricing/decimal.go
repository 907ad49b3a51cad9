package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Все промежуточные значения хранятся с масштабом 2 и округлением HALF_UP
// (decimal.Round и decimal.DivRound округляют половину от нуля).
const scale = 2

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(scale)
}

func div2(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, scale)
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(hi, d))
}

func clamp01(d decimal.Decimal) decimal.Decimal {
	return clamp(d, zero, one)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// daysBetween считает разницу календарных дат (to − from). Каждая дата берётся в своей
// локации: to приходит из колонок DATE, from — «сегодня» в часовом поясе расчёта.
func daysBetween(from, to time.Time) int64 {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int64(b.Sub(a) / (24 * time.Hour))
}

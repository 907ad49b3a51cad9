package pricing

import "github.com/DRSN-tech/pricing-engine/internal/domain"

// ShouldRecord решает, нужна ли новая запись истории: истории ещё нет либо изменились
// итоговая цена или процент. Сравнение точное, без допусков.
func ShouldRecord(last *domain.PriceHistoryEntry, q *Quote) bool {
	if last == nil {
		return true
	}
	if !last.DiscountedPrice.Equal(q.FinalPrice) {
		return true
	}
	return !last.DiscountPercentage.Equal(q.Percentage)
}

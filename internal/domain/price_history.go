package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistoryEntry — запись истории цен. После создания не изменяется.
type PriceHistoryEntry struct {
	ID                 string
	ProductID          string
	DiscountPercentage decimal.Decimal
	OriginalPrice      decimal.Decimal
	DiscountedPrice    decimal.Decimal
	AppliedAt          time.Time
	AppliedBy          string
	// Seq — порядковый номер записи, его назначает хранилище при вставке.
	// У записей одного продукта растёт вместе с временем записи.
	Seq int64
}

func NewPriceHistoryEntry(id, productID string, pct, original, discounted decimal.Decimal, at time.Time, by string) *PriceHistoryEntry {
	return &PriceHistoryEntry{
		ID:                 id,
		ProductID:          productID,
		DiscountPercentage: pct,
		OriginalPrice:      original,
		DiscountedPrice:    discounted,
		AppliedAt:          at,
		AppliedBy:          by,
	}
}

package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// LatestPriceRedisModel — JSON-представление последней цены в кэше.
type LatestPriceRedisModel struct {
	ProductID          string          `json:"product_id"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	AppliedAt          *time.Time      `json:"applied_at,omitempty"`
	AppliedBy          string          `json:"applied_by,omitempty"`
	FromHistory        bool            `json:"from_history"`
	Version            int64           `json:"version"`
}

package domain

import (
	"fmt"

	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/shopspring/decimal"
)

// SubscriptionAttributes — агрегированные метрики подписочного продукта.
type SubscriptionAttributes struct {
	StandardDurationDays      int64
	GracePeriodDays           int64
	TotalSubscribers          int64
	ActiveSubscribers         int64
	RenewalRate               decimal.Decimal // 0..1
	AverageSubscriptionLength decimal.Decimal // дни
}

func (SubscriptionAttributes) Category() Category { return CategorySubscription }
func (SubscriptionAttributes) isProductDetail()   {}

func (s SubscriptionAttributes) Validate() error {
	if s.StandardDurationDays < 0 || s.GracePeriodDays < 0 {
		return e.Wrap("negative duration", e.ErrInvalidAttributeRange)
	}
	if s.TotalSubscribers < 0 || s.ActiveSubscribers < 0 || s.ActiveSubscribers > s.TotalSubscribers {
		return e.Wrap(fmt.Sprintf("active subscribers %d of %d", s.ActiveSubscribers, s.TotalSubscribers), e.ErrInvalidAttributeRange)
	}
	if !between(s.RenewalRate, decimal.Zero, decimal.NewFromInt(1)) {
		return e.Wrap(fmt.Sprintf("renewal rate %s", s.RenewalRate), e.ErrInvalidAttributeRange)
	}
	if s.AverageSubscriptionLength.IsNegative() {
		return e.Wrap("negative average subscription length", e.ErrInvalidAttributeRange)
	}
	return nil
}

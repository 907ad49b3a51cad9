package pricing

import (
	"testing"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Quote(t *testing.T) {
	en := NewEngine(NewDefaultDispatcher())

	t.Run("perishable goes through the tier table", func(t *testing.T) {
		q, err := en.Quote(perishableProduct("100.00", 50, perishableAttrs(3, 30, "20", "5")), today)
		require.NoError(t, err)

		assertDec(t, "15", q.Percentage)
		assertDec(t, "85.00", q.FinalPrice)
		assertDec(t, "100.00", q.OriginalPrice)
		assert.Equal(t, "p-1", q.ProductID)
		assert.Equal(t, domain.CategoryPerishable, q.Category)
		assert.Equal(t, today, q.CalculatedAt)
	})

	t.Run("event price is taken as is", func(t *testing.T) {
		q, err := en.Quote(eventProduct("100", 3, "50", "200"), today)
		require.NoError(t, err)

		assert.Nil(t, q.Score)
		assertDec(t, "131.40", q.FinalPrice)
		assertDec(t, "0", q.Percentage)
	})

	t.Run("subscription applies its own percentage", func(t *testing.T) {
		q, err := en.Quote(subscriptionProduct("50.00", domain.SubscriptionAttributes{
			TotalSubscribers:  10,
			ActiveSubscribers: 5,
			RenewalRate:       dec("0.9"),
		}), today)
		require.NoError(t, err)

		assertDec(t, "20", q.Percentage)
		assertDec(t, "40.00", q.FinalPrice)
	})

	t.Run("seasonal fixed score lands in the top tier", func(t *testing.T) {
		p := domain.NewProduct("x", "skis", domain.CategorySeasonal, dec("80.00"), domain.SeasonalAttributes{})

		q, err := en.Quote(p, today)
		require.NoError(t, err)

		assertDec(t, "3.5", *q.Score)
		assertDec(t, "50", q.Percentage)
		assertDec(t, "40.00", q.FinalPrice)
	})

	t.Run("missing base price is fatal", func(t *testing.T) {
		p := perishableProduct("1", 1, perishableAttrs(3, 30, "20", "5"))
		p.BasePrice = nil

		_, err := en.Quote(p, today)
		assert.ErrorIs(t, err, e.ErrMissingBasePrice)
	})

	t.Run("negative base price", func(t *testing.T) {
		_, err := en.Quote(perishableProduct("-1", 1, perishableAttrs(3, 30, "20", "5")), today)
		assert.ErrorIs(t, err, e.ErrInvalidAttributeRange)
	})

	t.Run("no product", func(t *testing.T) {
		_, err := en.Quote(nil, today)
		assert.ErrorIs(t, err, e.ErrProductNotFound)
	})

	t.Run("calculation log carries the breakdown", func(t *testing.T) {
		q, err := en.Quote(perishableProduct("100.00", 50, perishableAttrs(3, 30, "20", "5")), today)
		require.NoError(t, err)

		log := q.CalculationLog("log-1")
		assert.Equal(t, "log-1", log.ID)
		assert.Equal(t, "p-1", log.ProductID)
		require.NotNil(t, log.TotalDiscountScore)
		assertDec(t, "0.801", *log.TotalDiscountScore)
		assertDec(t, "0.90", *log.ExpiryTimeScore)
		assertDec(t, "15", log.RecommendedDiscount)
		assertDec(t, "85.00", log.FinalPrice)
		assert.Nil(t, log.Subscription)
	})
}

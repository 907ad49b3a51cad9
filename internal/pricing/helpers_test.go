package pricing

import (
	"testing"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func perishableProduct(base string, stock int64, attrs domain.PerishableAttributes) *domain.Product {
	p := domain.NewProduct("p-1", "milk", domain.CategoryPerishable, dec(base), attrs)
	p.CurrentStock = stock
	return p
}

func perishableAttrs(daysToExpiry, shelfLife int, demand, rate string) domain.PerishableAttributes {
	expiry := today.AddDate(0, 0, daysToExpiry)
	return domain.PerishableAttributes{
		ManufacturingDate:       expiry.AddDate(0, 0, -shelfLife),
		ExpiryDate:              expiry,
		MaxShelfLifeDays:        int64(shelfLife),
		CurrentDailySellingRate: dec(rate),
		CurrentDemandLevel:      dec(demand),
		QualityScore:            dec("0.9"),
	}
}

func eventProduct(base string, daysLeft int, minPrice, maxPrice string) *domain.Product {
	return domain.NewProduct("e-1", "concert", domain.CategoryEvent, dec(base), domain.EventAttributes{
		EventDate:      today.AddDate(0, 0, daysLeft),
		TotalCapacity:  500,
		SeatsBooked:    120,
		MinTicketPrice: dec(minPrice),
		MaxTicketPrice: dec(maxPrice),
	})
}

func subscriptionProduct(base string, attrs domain.SubscriptionAttributes) *domain.Product {
	return domain.NewProduct("s-1", "streaming", domain.CategorySubscription, dec(base), attrs)
}

package domain

import (
	"testing"
	"time"

	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"perishable":   CategoryPerishable,
		" Event ":      CategoryEvent,
		"SUBSCRIPTION": CategorySubscription,
		"seasonal":     CategorySeasonal,
	} {
		got, ok := ParseCategory(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseCategory("bundle")
	assert.False(t, ok)
	assert.Equal(t, Category("BUNDLE"), got)
}

func TestPerishableAttributes_Validate(t *testing.T) {
	made := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	valid := PerishableAttributes{
		ManufacturingDate:       made,
		ExpiryDate:              made.AddDate(0, 0, 20),
		MaxShelfLifeDays:        20,
		CurrentDailySellingRate: d("5"),
		CurrentDemandLevel:      d("100"),
		QualityScore:            d("1"),
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(p *PerishableAttributes){
		"zero shelf life":            func(p *PerishableAttributes) { p.MaxShelfLifeDays = 0 },
		"expires before manufacture": func(p *PerishableAttributes) { p.ExpiryDate = made.AddDate(0, 0, -1) },
		"negative selling rate":      func(p *PerishableAttributes) { p.CurrentDailySellingRate = d("-0.01") },
		"demand above 100":           func(p *PerishableAttributes) { p.CurrentDemandLevel = d("100.5") },
		"quality above 1":            func(p *PerishableAttributes) { p.QualityScore = d("1.01") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			assert.ErrorIs(t, p.Validate(), e.ErrInvalidAttributeRange)
		})
	}
}

func TestEventAttributes(t *testing.T) {
	a := EventAttributes{TotalCapacity: 100, SeatsBooked: 70, MinTicketPrice: d("80"), MaxTicketPrice: d("140")}
	require.NoError(t, a.Validate())
	assert.EqualValues(t, 30, a.AvailableSeats())

	full := a
	full.SeatsBooked = 100
	require.NoError(t, full.Validate())
	assert.Zero(t, full.AvailableSeats())

	for name, bad := range map[string]EventAttributes{
		"no capacity":  {TotalCapacity: 0, MinTicketPrice: d("1"), MaxTicketPrice: d("2")},
		"overbooked":   {TotalCapacity: 10, SeatsBooked: 11, MinTicketPrice: d("1"), MaxTicketPrice: d("2")},
		"min > max":    {TotalCapacity: 10, MinTicketPrice: d("3"), MaxTicketPrice: d("2")},
		"negative min": {TotalCapacity: 10, MinTicketPrice: d("-1"), MaxTicketPrice: d("2")},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, bad.Validate(), e.ErrInvalidAttributeRange)
		})
	}
}

func TestSubscriptionAttributes_Validate(t *testing.T) {
	valid := SubscriptionAttributes{
		StandardDurationDays:      30,
		GracePeriodDays:           7,
		TotalSubscribers:          100,
		ActiveSubscribers:         100,
		RenewalRate:               d("0"),
		AverageSubscriptionLength: d("0"),
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.ActiveSubscribers = 101
	assert.ErrorIs(t, bad.Validate(), e.ErrInvalidAttributeRange)

	bad = valid
	bad.RenewalRate = d("1.5")
	assert.ErrorIs(t, bad.Validate(), e.ErrInvalidAttributeRange)

	bad = valid
	bad.GracePeriodDays = -1
	assert.ErrorIs(t, bad.Validate(), e.ErrInvalidAttributeRange)
}

func TestSeasonalAttributes_Validate(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, SeasonalAttributes{}.Validate())
	assert.NoError(t, SeasonalAttributes{SeasonStart: start, SeasonEnd: start, PeakPrice: d("10"), OffPeakPrice: d("10")}.Validate())
	assert.ErrorIs(t, SeasonalAttributes{SeasonStart: start, SeasonEnd: start.AddDate(0, 0, -1)}.Validate(), e.ErrInvalidAttributeRange)
	assert.ErrorIs(t, SeasonalAttributes{PeakPrice: d("10"), OffPeakPrice: d("12")}.Validate(), e.ErrInvalidAttributeRange)
}

package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	newYork := time.FixedZone("EST", -5*60*60)
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, int64(3), daysBetween(today, date(2026, 10, 18)))
	assert.Equal(t, int64(0), daysBetween(today, date(2026, 10, 15)))
	assert.Equal(t, int64(-2), daysBetween(today, date(2026, 10, 13)))

	// 23:30 по Нью-Йорку 14 октября — это уже 15 октября по UTC, но «сегодня» остаётся 14-м
	lateEvening := time.Date(2026, 10, 14, 23, 30, 0, 0, newYork)
	assert.Equal(t, int64(1), daysBetween(lateEvening, date(2026, 10, 15)))

	// 01:00 по Москве 15 октября — по UTC ещё 14-е
	earlyMorning := time.Date(2026, 10, 15, 1, 0, 0, 0, moscow)
	assert.Equal(t, int64(0), daysBetween(earlyMorning, date(2026, 10, 15)))

	// переход через границу года
	assert.Equal(t, int64(1), daysBetween(date(2026, 12, 31), date(2027, 1, 1)))
}

func TestRoundingIsHalfUp(t *testing.T) {
	assertDec(t, "0.13", round2(dec("0.125")))
	assertDec(t, "-0.13", round2(dec("-0.125")))
	assertDec(t, "0.67", div2(dec("2"), dec("3")))
	assertDec(t, "0.33", div2(dec("1"), dec("3")))
	assertDec(t, "1", clamp01(dec("1.7")))
	assertDec(t, "0", clamp01(dec("-0.2")))
}

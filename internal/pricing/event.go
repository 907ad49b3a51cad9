package pricing

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	earlyBirdDays = 30
	surgeDays     = 7
)

var (
	earlyBirdMultiplier = dec("0.8")
	surgeBase           = dec("1.2")
	surgeSpan           = dec("0.2")
)

// EventStrategy считает цену билета напрямую: ранняя скидка, нейтральная зона
// и рост цены в последнюю неделю. Результат всегда в [MinTicketPrice, MaxTicketPrice].
type EventStrategy struct{}

func NewEventStrategy() *EventStrategy {
	return &EventStrategy{}
}

func (s *EventStrategy) Category() domain.Category {
	return domain.CategoryEvent
}

func (s *EventStrategy) Evaluate(product *domain.Product, now time.Time) (*Outcome, error) {
	attrs, err := detailAs[domain.EventAttributes](product)
	if err != nil {
		return nil, err
	}

	price := EventPrice(*product.BasePrice, daysBetween(now, attrs.EventDate), attrs.MinTicketPrice, attrs.MaxTicketPrice)

	return &Outcome{
		Price:      &price,
		Percentage: zero,
	}, nil
}

// EventPrice применяет правила ценообразования билета для daysLeft дней до события.
func EventPrice(base decimal.Decimal, daysLeft int64, minPrice, maxPrice decimal.Decimal) decimal.Decimal {
	var price decimal.Decimal
	switch {
	case daysLeft > earlyBirdDays:
		price = base.Mul(earlyBirdMultiplier)
	case daysLeft > surgeDays:
		price = base
	default:
		price = base.Mul(SurgeFactor(daysLeft))
	}

	return clamp(round2(price), minPrice, maxPrice)
}

// SurgeFactor растёт линейно от 1.2 (7 дней) до 1.4 (день события).
// Прошедшие события считаются как день события.
func SurgeFactor(daysLeft int64) decimal.Decimal {
	if daysLeft < 0 {
		daysLeft = 0
	}
	if daysLeft > surgeDays {
		daysLeft = surgeDays
	}
	ratio := div2(decimal.NewFromInt(surgeDays-daysLeft), decimal.NewFromInt(surgeDays))
	return surgeBase.Add(surgeSpan.Mul(ratio))
}

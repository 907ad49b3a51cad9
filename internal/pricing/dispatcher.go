package pricing

import (
	"fmt"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
)

// Dispatcher выбирает стратегию по тегу категории продукта.
type Dispatcher struct {
	strategies map[domain.Category]Strategy
}

func NewDispatcher(strategies ...Strategy) *Dispatcher {
	m := make(map[domain.Category]Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Category()] = s
	}
	return &Dispatcher{strategies: m}
}

// NewDefaultDispatcher регистрирует стратегии всех четырёх категорий.
func NewDefaultDispatcher() *Dispatcher {
	return NewDispatcher(
		NewPerishableStrategy(),
		NewEventStrategy(),
		NewSubscriptionStrategy(),
		NewSeasonalStrategy(),
	)
}

// Resolve возвращает стратегию и проверяет, что атрибуты продукта ей подходят.
func (d *Dispatcher) Resolve(product *domain.Product) (Strategy, error) {
	s, ok := d.strategies[product.Category]
	if !ok {
		return nil, e.Wrap(fmt.Sprintf("category %q", product.Category), e.ErrUnsupportedCategory)
	}

	if product.Detail == nil {
		if opt, ok := s.(detailOptional); ok && opt.DetailOptional() {
			return s, nil
		}
		return nil, e.Wrap(fmt.Sprintf("category %s", product.Category), e.ErrMissingAttachment)
	}

	if product.Detail.Category() != product.Category {
		return nil, e.Wrap(
			fmt.Sprintf("attachment %s does not match category %s", product.Detail.Category(), product.Category),
			e.ErrInvalidAttributeRange,
		)
	}

	if err := product.Detail.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func detailAs[T domain.ProductDetail](product *domain.Product) (T, error) {
	var empty T
	switch d := product.Detail.(type) {
	case T:
		return d, nil
	case nil:
	default:
		return empty, e.Wrap(fmt.Sprintf("unexpected attachment %T", d), e.ErrInvalidAttributeRange)
	}
	return empty, e.Wrap(fmt.Sprintf("category %s", product.Category), e.ErrMissingAttachment)
}

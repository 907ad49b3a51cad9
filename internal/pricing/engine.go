package pricing

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
)

// Engine связывает диспетчер, стратегию и шкалу процентов в один чистый расчёт.
// Состояния не хранит, безопасен для конкурентного использования.
type Engine struct {
	dispatcher *Dispatcher
}

func NewEngine(dispatcher *Dispatcher) *Engine {
	return &Engine{dispatcher: dispatcher}
}

// Quote считает цену продукта на момент now.
func (en *Engine) Quote(product *domain.Product, now time.Time) (*Quote, error) {
	if product == nil {
		return nil, e.ErrProductNotFound
	}
	if product.BasePrice == nil {
		return nil, e.Wrap(fmt.Sprintf("product %s", product.ID), e.ErrMissingBasePrice)
	}
	base := *product.BasePrice
	if base.IsNegative() {
		return nil, e.Wrap(fmt.Sprintf("product %s: base price %s", product.ID, base), e.ErrInvalidAttributeRange)
	}

	strategy, err := en.dispatcher.Resolve(product)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("product %s", product.ID), err)
	}

	out, err := strategy.Evaluate(product, now)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("product %s", product.ID), err)
	}

	q := &Quote{
		ProductID:     product.ID,
		Category:      product.Category,
		OriginalPrice: base,
		Score:         out.Score,
		Breakdown:     out.Breakdown,
		CalculatedAt:  now,
	}

	switch {
	case out.Score != nil:
		q.Percentage = PercentageForScore(*out.Score)
		q.FinalPrice = ApplyPercentage(base, q.Percentage)
	case out.Price != nil:
		q.Percentage = out.Percentage
		q.FinalPrice = *out.Price
	default:
		q.Percentage = out.Percentage
		q.FinalPrice = ApplyPercentage(base, out.Percentage)
	}

	return q, nil
}

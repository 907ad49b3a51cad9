package pricing

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
)

// Strategy считает цену для одной категории. Реализации чистые: результат зависит
// только от продукта и переданного момента времени.
type Strategy interface {
	Category() domain.Category
	Evaluate(product *domain.Product, now time.Time) (*Outcome, error)
}

// detailOptional помечает стратегии, которым атрибуты категории не нужны.
type detailOptional interface {
	DetailOptional() bool
}

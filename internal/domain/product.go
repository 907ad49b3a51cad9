package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает продукт каталога вместе с атрибутами его категории.
// Продукт принадлежит внешнему сервису каталога, движок цен его только читает.
type Product struct {
	ID                  string
	Name                string
	Category            Category
	BasePrice           *decimal.Decimal // nil — цена не заведена
	TotalStock          int64
	CurrentStock        int64
	MaxProfitMargin     decimal.Decimal // проценты
	CurrentProfitMargin decimal.Decimal // проценты
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	Detail              ProductDetail
}

// ProductDetail — атрибуты конкретной категории. Реализации: PerishableAttributes,
// EventAttributes, SubscriptionAttributes, SeasonalAttributes.
type ProductDetail interface {
	Category() Category
	Validate() error
	isProductDetail()
}

func NewProduct(id, name string, category Category, basePrice decimal.Decimal, detail ProductDetail) *Product {
	return &Product{
		ID:        id,
		Name:      name,
		Category:  category,
		BasePrice: &basePrice,
		Detail:    detail,
	}
}

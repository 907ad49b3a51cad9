package domain

import "strings"

// Category описывает категорию продукта, от которой зависит алгоритм ценообразования.
type Category string

const (
	CategoryPerishable   Category = "PERISHABLE"
	CategoryEvent        Category = "EVENT"
	CategorySubscription Category = "SUBSCRIPTION"
	CategorySeasonal     Category = "SEASONAL"
)

// ParseCategory разбирает тег категории из хранилища без учёта регистра.
// Для неизвестного тега возвращает false.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Known()
}

// Known сообщает, есть ли для категории стратегия ценообразования.
func (c Category) Known() bool {
	switch c {
	case CategoryPerishable, CategoryEvent, CategorySubscription, CategorySeasonal:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

package converter

import (
	"fmt"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductConverter собирает domain.Product из строки PostgreSQL.
type ProductConverter interface {
	ToEntity(model *ProductModel) (*domain.Product, error)
}

// PriceHistoryConverter преобразует записи истории цен между domain и моделью PostgreSQL.
type PriceHistoryConverter interface {
	ToModel(entity *domain.PriceHistoryEntry) *PriceHistoryModel
	ToEntity(model *PriceHistoryModel) *domain.PriceHistoryEntry
	ToArrEntity(models []*PriceHistoryModel) []*domain.PriceHistoryEntry
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

// ToEntity переводит строку в продукт. Неизвестный тег категории сохраняется как есть:
// его отклонит диспетчер стратегий. Строка атрибутов чужой категории игнорируется.
func (c *ProductConverterImpl) ToEntity(model *ProductModel) (*domain.Product, error) {
	category, _ := domain.ParseCategory(model.Category)

	product := &domain.Product{
		ID:                  model.ID,
		Name:                model.Name,
		Category:            category,
		TotalStock:          model.TotalStock,
		CurrentStock:        model.CurrentStock,
		MaxProfitMargin:     model.MaxProfitMargin,
		CurrentProfitMargin: model.CurrentProfitMargin,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
	if model.BasePrice.Valid {
		base := model.BasePrice.Decimal
		product.BasePrice = &base
	}

	detail, err := c.detail(category, model)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("product %s", model.ID), err)
	}
	product.Detail = detail

	return product, nil
}

func (c *ProductConverterImpl) detail(category domain.Category, model *ProductModel) (domain.ProductDetail, error) {
	switch category {
	case domain.CategoryPerishable:
		m := model.Perishable
		if m.ProductID == nil {
			return nil, nil
		}
		if m.ManufacturingDate == nil || m.ExpiryDate == nil || m.MaxShelfLifeDays == nil {
			return nil, e.Wrap("perishable attributes incomplete", e.ErrInvalidAttributeRange)
		}
		return domain.PerishableAttributes{
			ManufacturingDate:       *m.ManufacturingDate,
			ExpiryDate:              *m.ExpiryDate,
			MaxShelfLifeDays:        *m.MaxShelfLifeDays,
			CurrentDailySellingRate: orZero(m.CurrentDailySellingRate),
			CurrentDemandLevel:      orZero(m.CurrentDemandLevel),
			QualityScore:            orZero(m.QualityScore),
		}, nil

	case domain.CategoryEvent:
		m := model.Event
		if m.ProductID == nil {
			return nil, nil
		}
		if m.EventDate == nil || !m.MinTicketPrice.Valid || !m.MaxTicketPrice.Valid {
			return nil, e.Wrap("event attributes incomplete", e.ErrInvalidAttributeRange)
		}
		return domain.EventAttributes{
			EventDate:      *m.EventDate,
			Venue:          deref(m.Venue),
			TotalCapacity:  deref(m.TotalCapacity),
			SeatsBooked:    deref(m.SeatsBooked),
			MinTicketPrice: m.MinTicketPrice.Decimal,
			MaxTicketPrice: m.MaxTicketPrice.Decimal,
		}, nil

	case domain.CategorySubscription:
		m := model.Subscription
		if m.ProductID == nil {
			return nil, nil
		}
		return domain.SubscriptionAttributes{
			StandardDurationDays:      deref(m.StandardDurationDays),
			GracePeriodDays:           deref(m.GracePeriodDays),
			TotalSubscribers:          deref(m.TotalSubscribers),
			ActiveSubscribers:         deref(m.ActiveSubscribers),
			RenewalRate:               orZero(m.RenewalRate),
			AverageSubscriptionLength: orZero(m.AverageSubscriptionLength),
		}, nil

	case domain.CategorySeasonal:
		m := model.Seasonal
		if m.ProductID == nil {
			return nil, nil
		}
		return domain.SeasonalAttributes{
			SeasonStart:  deref(m.SeasonStart),
			SeasonEnd:    deref(m.SeasonEnd),
			PeakPrice:    orZero(m.PeakPrice),
			OffPeakPrice: orZero(m.OffPeakPrice),
		}, nil
	}

	return nil, nil
}

type PriceHistoryConverterImpl struct{}

func NewPriceHistoryConverterImpl() *PriceHistoryConverterImpl {
	return &PriceHistoryConverterImpl{}
}

func (c *PriceHistoryConverterImpl) ToModel(entity *domain.PriceHistoryEntry) *PriceHistoryModel {
	if entity == nil {
		return nil
	}
	return &PriceHistoryModel{
		ID:                 entity.ID,
		ProductID:          entity.ProductID,
		DiscountPercentage: entity.DiscountPercentage,
		OriginalPrice:      entity.OriginalPrice,
		DiscountedPrice:    entity.DiscountedPrice,
		AppliedAt:          entity.AppliedAt,
		AppliedBy:          entity.AppliedBy,
		Seq:                entity.Seq,
	}
}

func (c *PriceHistoryConverterImpl) ToEntity(model *PriceHistoryModel) *domain.PriceHistoryEntry {
	if model == nil {
		return nil
	}
	entry := domain.NewPriceHistoryEntry(
		model.ID,
		model.ProductID,
		model.DiscountPercentage,
		model.OriginalPrice,
		model.DiscountedPrice,
		model.AppliedAt,
		model.AppliedBy,
	)
	entry.Seq = model.Seq
	return entry
}

func (c *PriceHistoryConverterImpl) ToArrEntity(models []*PriceHistoryModel) []*domain.PriceHistoryEntry {
	result := make([]*domain.PriceHistoryEntry, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}
	return result
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		Attempts:    entity.Attempts,
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		Attempts:    model.Attempts,
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}
	return result
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

package converter

import "github.com/DRSN-tech/pricing-engine/internal/usecase"

type LatestPriceConverter interface {
	ToRedisModel(entity *usecase.LatestPrice) *LatestPriceRedisModel
	ToUseCase(model *LatestPriceRedisModel) *usecase.LatestPrice
}

type LatestPriceConverterImpl struct{}

func NewLatestPriceConverterImpl() *LatestPriceConverterImpl {
	return &LatestPriceConverterImpl{}
}

func (c *LatestPriceConverterImpl) ToRedisModel(entity *usecase.LatestPrice) *LatestPriceRedisModel {
	if entity == nil {
		return nil
	}
	return &LatestPriceRedisModel{
		ProductID:          entity.ProductID,
		OriginalPrice:      entity.OriginalPrice,
		DiscountedPrice:    entity.DiscountedPrice,
		DiscountPercentage: entity.DiscountPercentage,
		AppliedAt:          entity.AppliedAt,
		AppliedBy:          entity.AppliedBy,
		FromHistory:        entity.FromHistory,
		Version:            entity.Version,
	}
}

func (c *LatestPriceConverterImpl) ToUseCase(model *LatestPriceRedisModel) *usecase.LatestPrice {
	if model == nil {
		return nil
	}
	return &usecase.LatestPrice{
		ProductID:          model.ProductID,
		OriginalPrice:      model.OriginalPrice,
		DiscountedPrice:    model.DiscountedPrice,
		DiscountPercentage: model.DiscountPercentage,
		AppliedAt:          model.AppliedAt,
		AppliedBy:          model.AppliedBy,
		FromHistory:        model.FromHistory,
		Version:            model.Version,
	}
}

package usecase

import (
	"context"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
)

type PricingUC interface {
	ComputeDiscountedPrice(ctx context.Context, product *domain.Product) (*ComputePriceRes, error)
	ComputeByID(ctx context.Context, productID string) (*ComputePriceRes, error)
	ComputeAll(ctx context.Context) (*ComputeAllRes, error)
	GetLatestPrice(ctx context.Context, productID string) (*LatestPrice, error)
	GetHistory(ctx context.Context, req *GetHistoryReq) (*GetHistoryRes, error)
}

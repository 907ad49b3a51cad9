package grpc

import (
	"context"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/proto"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// PricingService реализует pricing.v1.PricingService поверх PricingUC.
type PricingService struct {
	proto.UnimplementedPricingServiceServer
	pricingUC usecase.PricingUC
	logger    logger.Logger
}

func NewPricingService(pricingUC usecase.PricingUC, logger logger.Logger) *PricingService {
	return &PricingService{pricingUC: pricingUC, logger: logger}
}

func (g *PricingService) ComputePrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.ComputePrice"

	productID, err := productIDFrom(req)
	if err != nil {
		return nil, GRPCErrorResponse(err)
	}

	res, err := g.pricingUC.ComputeByID(ctx, productID)
	if err != nil {
		return nil, g.failure(op, err)
	}

	return structpb.NewStruct(map[string]any{
		"product_id":          res.ProductID,
		"category":            string(res.Category),
		"original_price":      res.OriginalPrice.StringFixed(2),
		"discounted_price":    res.DiscountedPrice.StringFixed(2),
		"discount_percentage": res.DiscountPercentage.StringFixed(2),
		"history_written":     res.HistoryWritten,
		"calculated_at":       res.CalculatedAt.Format(time.RFC3339),
	})
}

func (g *PricingService) GetLatestPrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetLatestPrice"

	productID, err := productIDFrom(req)
	if err != nil {
		return nil, GRPCErrorResponse(err)
	}

	res, err := g.pricingUC.GetLatestPrice(ctx, productID)
	if err != nil {
		return nil, g.failure(op, err)
	}

	out := map[string]any{
		"product_id":          res.ProductID,
		"original_price":      res.OriginalPrice.StringFixed(2),
		"discounted_price":    res.DiscountedPrice.StringFixed(2),
		"discount_percentage": res.DiscountPercentage.StringFixed(2),
		"from_history":        res.FromHistory,
	}
	if res.AppliedAt != nil {
		out["applied_at"] = res.AppliedAt.Format(time.RFC3339)
		out["applied_by"] = res.AppliedBy
	}

	return structpb.NewStruct(out)
}

// failure переводит ошибку usecase в gRPC-статус. В Error попадают только внутренние
// ошибки, ошибки запроса пишутся в Warn.
func (g *PricingService) failure(op string, err error) error {
	err = e.Wrap(op, err)
	st := GRPCErrorResponse(err)

	code := status.Code(st)
	if code == codes.Internal {
		g.logger.Errorf(err, "%s", op)
	} else {
		g.logger.Warnf("%s: %s: %v", op, code, err)
	}

	return st
}

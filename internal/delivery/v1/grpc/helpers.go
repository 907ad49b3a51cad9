package grpc

import (
	"errors"

	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return status.Error(codes.InvalidArgument, e.ErrStatusBadRequest.Error())
	case errors.Is(err, e.ErrInvalidProductID):
		return status.Error(codes.InvalidArgument, e.ErrInvalidProductID.Error())
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrUnsupportedCategory):
		return status.Error(codes.FailedPrecondition, e.ErrUnsupportedCategory.Error())
	case errors.Is(err, e.ErrMissingAttachment):
		return status.Error(codes.FailedPrecondition, e.ErrMissingAttachment.Error())
	case errors.Is(err, e.ErrInvalidAttributeRange):
		return status.Error(codes.FailedPrecondition, e.ErrInvalidAttributeRange.Error())
	case errors.Is(err, e.ErrMissingBasePrice):
		return status.Error(codes.FailedPrecondition, e.ErrMissingBasePrice.Error())
	case errors.Is(err, e.ErrHistoryWriteConflict):
		return status.Error(codes.Aborted, e.ErrHistoryWriteConflict.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// productIDFrom достаёт строковое поле product_id из запроса.
func productIDFrom(req *structpb.Struct) (string, error) {
	v, ok := req.GetFields()["product_id"]
	if !ok {
		return "", e.Wrap("product_id is missing", e.ErrStatusBadRequest)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", e.Wrap("product_id must be a string", e.ErrStatusBadRequest)
	}
	return s.StringValue, nil
}

// Package proto — клиент и сервер pricing.v1.PricingService из pricing.proto.
// Сообщения сервиса — google.protobuf.Struct, поэтому своих типов сообщений у пакета нет.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	PricingService_ComputePrice_FullMethodName   = "/pricing.v1.PricingService/ComputePrice"
	PricingService_GetLatestPrice_FullMethodName = "/pricing.v1.PricingService/GetLatestPrice"
)

// PricingServiceClient — клиент pricing.v1.PricingService.
type PricingServiceClient interface {
	ComputePrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetLatestPrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type pricingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPricingServiceClient(cc grpc.ClientConnInterface) PricingServiceClient {
	return &pricingServiceClient{cc}
}

func (c *pricingServiceClient) ComputePrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PricingService_ComputePrice_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pricingServiceClient) GetLatestPrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PricingService_GetLatestPrice_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PricingServiceServer — сервер pricing.v1.PricingService. Реализации встраивают
// UnimplementedPricingServiceServer.
type PricingServiceServer interface {
	ComputePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLatestPrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedPricingServiceServer()
}

// UnimplementedPricingServiceServer отвечает codes.Unimplemented на все методы.
type UnimplementedPricingServiceServer struct{}

func (UnimplementedPricingServiceServer) ComputePrice(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ComputePrice not implemented")
}

func (UnimplementedPricingServiceServer) GetLatestPrice(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLatestPrice not implemented")
}

func (UnimplementedPricingServiceServer) mustEmbedUnimplementedPricingServiceServer() {}

func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&PricingService_ServiceDesc, srv)
}

func _PricingService_ComputePrice_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).ComputePrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PricingService_ComputePrice_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServiceServer).ComputePrice(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _PricingService_GetLatestPrice_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).GetLatestPrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PricingService_GetLatestPrice_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServiceServer).GetLatestPrice(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// PricingService_ServiceDesc — описание pricing.v1.PricingService для grpc.Server.
var PricingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pricing.v1.PricingService",
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ComputePrice",
			Handler:    _PricingService_ComputePrice_Handler,
		},
		{
			MethodName: "GetLatestPrice",
			Handler:    _PricingService_GetLatestPrice_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing.proto",
}

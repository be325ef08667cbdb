package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const catalogServiceName = "storefront.v1.CatalogService"

type CatalogServiceServer interface {
	GetProductsInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	QueryCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetTimeSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CatalogServiceDesc описание сервиса для grpc.Server.RegisterService.
var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProductsInfo",
			Handler: unaryHandler("GetProductsInfo", func(s CatalogServiceServer) structMethod {
				return s.GetProductsInfo
			}),
		},
		{
			MethodName: "QueryCatalog",
			Handler: unaryHandler("QueryCatalog", func(s CatalogServiceServer) structMethod {
				return s.QueryCatalog
			}),
		},
		{
			MethodName: "GetTimeSlots",
			Handler: unaryHandler("GetTimeSlots", func(s CatalogServiceServer) structMethod {
				return s.GetTimeSlots
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/catalog.proto",
}

type structMethod func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func FullMethod(name string) string {
	return "/" + catalogServiceName + "/" + name
}

func unaryHandler(name string, pick func(CatalogServiceServer) structMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		method := pick(srv.(CatalogServiceServer))
		if interceptor == nil {
			return method(ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return method(ctx, req.(*structpb.Struct))
		})
	}
}

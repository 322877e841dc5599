package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	VendingServiceName = "vending.v1.VendingService"

	ListProductsMethod      = "/vending.v1.VendingService/ListProducts"
	GetTransactionMethod    = "/vending.v1.VendingService/GetTransaction"
	SelectProductMethod     = "/vending.v1.VendingService/SelectProduct"
	InsertCoinMethod        = "/vending.v1.VendingService/InsertCoin"
	ConfirmPurchaseMethod   = "/vending.v1.VendingService/ConfirmPurchase"
	CancelTransactionMethod = "/vending.v1.VendingService/CancelTransaction"
	GetVaultMethod          = "/vending.v1.VendingService/GetVault"
)

type VendingServiceServer interface {
	ListProducts(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetTransaction(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SelectProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	InsertCoin(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfirmPurchase(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CancelTransaction(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetVault(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterVendingServiceServer(s grpc.ServiceRegistrar, srv VendingServiceServer) {
	s.RegisterService(&VendingServiceDesc, srv)
}

// unaryHandler строит обработчик метода с запросом типа Req.
func unaryHandler[Req any](
	method string,
	newReq func() *Req,
	call func(VendingServiceServer, context.Context, *Req) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VendingServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VendingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newEmpty() *emptypb.Empty   { return new(emptypb.Empty) }
func newStruct() *structpb.Struct { return new(structpb.Struct) }

var VendingServiceDesc = grpc.ServiceDesc{
	ServiceName: VendingServiceName,
	HandlerType: (*VendingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListProducts",
			Handler:    unaryHandler(ListProductsMethod, newEmpty, VendingServiceServer.ListProducts),
		},
		{
			MethodName: "GetTransaction",
			Handler:    unaryHandler(GetTransactionMethod, newEmpty, VendingServiceServer.GetTransaction),
		},
		{
			MethodName: "SelectProduct",
			Handler:    unaryHandler(SelectProductMethod, newStruct, VendingServiceServer.SelectProduct),
		},
		{
			MethodName: "InsertCoin",
			Handler:    unaryHandler(InsertCoinMethod, newStruct, VendingServiceServer.InsertCoin),
		},
		{
			MethodName: "ConfirmPurchase",
			Handler:    unaryHandler(ConfirmPurchaseMethod, newEmpty, VendingServiceServer.ConfirmPurchase),
		},
		{
			MethodName: "CancelTransaction",
			Handler:    unaryHandler(CancelTransactionMethod, newEmpty, VendingServiceServer.CancelTransaction),
		},
		{
			MethodName: "GetVault",
			Handler:    unaryHandler(GetVaultMethod, newEmpty, VendingServiceServer.GetVault),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vending/v1/vending.proto",
}

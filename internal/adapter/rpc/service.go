package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "cartdrawer.v1.OrderService"

	FetchCartMethod  = "/" + ServiceName + "/FetchCart"
	AddItemMethod    = "/" + ServiceName + "/AddItem"
	RemoveItemMethod = "/" + ServiceName + "/RemoveItem"
	CheckoutMethod   = "/" + ServiceName + "/Checkout"
	ClearCartMethod  = "/" + ServiceName + "/ClearCart"
)

// OrderServiceServer is implemented by the gRPC handler.
type OrderServiceServer interface {
	FetchCart(context.Context, *FetchCartRequest) (*Cart, error)
	AddItem(context.Context, *ItemRequest) (*Ack, error)
	RemoveItem(context.Context, *ItemRequest) (*Ack, error)
	Checkout(context.Context, *CheckoutRequest) (*CheckoutResponse, error)
	ClearCart(context.Context, *ClearCartRequest) (*Ack, error)
}

func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&orderServiceDesc, srv)
}

var orderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FetchCart", Handler: unaryHandler(FetchCartMethod, OrderServiceServer.FetchCart)},
		{MethodName: "AddItem", Handler: unaryHandler(AddItemMethod, OrderServiceServer.AddItem)},
		{MethodName: "RemoveItem", Handler: unaryHandler(RemoveItemMethod, OrderServiceServer.RemoveItem)},
		{MethodName: "Checkout", Handler: unaryHandler(CheckoutMethod, OrderServiceServer.Checkout)},
		{MethodName: "ClearCart", Handler: unaryHandler(ClearCartMethod, OrderServiceServer.ClearCart)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cartdrawer/v1/order_service",
}

func unaryHandler[Req, Resp any](fullMethod string, call func(OrderServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OrderServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OrderServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type OrderServiceClient interface {
	FetchCart(ctx context.Context, in *FetchCartRequest, opts ...grpc.CallOption) (*Cart, error)
	AddItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*Ack, error)
	RemoveItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*Ack, error)
	Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CheckoutResponse, error)
	ClearCart(ctx context.Context, in *ClearCartRequest, opts ...grpc.CallOption) (*Ack, error)
}

type orderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOrderServiceClient returns a client that forces the JSON codec on every call.
func NewOrderServiceClient(cc grpc.ClientConnInterface) OrderServiceClient {
	return &orderServiceClient{cc: cc}
}

func (c *orderServiceClient) FetchCart(ctx context.Context, in *FetchCartRequest, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	if err := c.invoke(ctx, FetchCartMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) AddItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, AddItemMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) RemoveItem(ctx context.Context, in *ItemRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, RemoveItemMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CheckoutResponse, error) {
	out := new(CheckoutResponse)
	if err := c.invoke(ctx, CheckoutMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) ClearCart(ctx context.Context, in *ClearCartRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ClearCartMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

package client

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/rl1809/cart-drawer/internal/adapter/rpc"
	"github.com/rl1809/cart-drawer/internal/core/domain"
)

// GRPCClient talks to the order service over gRPC.
type GRPCClient struct {
	inner rpc.OrderServiceClient
	conn  *grpc.ClientConn
}

func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return GRPCClientFromConn(conn), nil
}

// GRPCClientFromConn creates a client from an existing connection.
func GRPCClientFromConn(conn *grpc.ClientConn) *GRPCClient {
	return &GRPCClient{
		inner: rpc.NewOrderServiceClient(conn),
		conn:  conn,
	}
}

func (c *GRPCClient) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	cart, err := c.inner.FetchCart(ctx, &rpc.FetchCartRequest{})
	if err != nil {
		return domain.CartSnapshot{}, statusError(domain.OpOpen, err)
	}
	snapshot, err := cart.Snapshot()
	if err != nil {
		return domain.CartSnapshot{}, domain.NewRemoteError(domain.OpOpen, "invalid cart snapshot", err)
	}
	return snapshot, nil
}

func (c *GRPCClient) AddItem(ctx context.Context, menuItemID string) error {
	_, err := c.inner.AddItem(ctx, &rpc.ItemRequest{MenuItemID: menuItemID})
	return statusError(domain.OpAddItem, err)
}

func (c *GRPCClient) RemoveItem(ctx context.Context, menuItemID string) error {
	_, err := c.inner.RemoveItem(ctx, &rpc.ItemRequest{MenuItemID: menuItemID})
	return statusError(domain.OpRemoveItem, err)
}

func (c *GRPCClient) Checkout(ctx context.Context) error {
	_, err := c.inner.Checkout(ctx, &rpc.CheckoutRequest{RequestID: uuid.NewString()})
	return statusError(domain.OpCheckout, err)
}

func (c *GRPCClient) ClearCart(ctx context.Context) error {
	_, err := c.inner.ClearCart(ctx, &rpc.ClearCartRequest{})
	return statusError(domain.OpClear, err)
}

// Close closes the underlying connection.
func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func statusError(op domain.Operation, err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok || st.Message() == "" {
		return domain.NewRemoteError(op, "order service unreachable", err)
	}
	return domain.NewRemoteError(op, st.Message(), err)
}

package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/cart-drawer/internal/adapter/rpc"
)

type GRPCHandler struct {
	cart   CartBackend
	logger *zap.Logger
}

var _ rpc.OrderServiceServer = (*GRPCHandler)(nil)

func NewGRPCHandler(cart CartBackend, logger *zap.Logger) *GRPCHandler {
	return &GRPCHandler{cart: cart, logger: logger}
}

func (h *GRPCHandler) FetchCart(ctx context.Context, req *rpc.FetchCartRequest) (*rpc.Cart, error) {
	snapshot, err := h.cart.FetchCart(ctx)
	if err != nil {
		return nil, h.statusError("FetchCart", err)
	}
	cart := rpc.CartFromSnapshot(snapshot)
	return &cart, nil
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *rpc.ItemRequest) (*rpc.Ack, error) {
	if req.MenuItemID == "" {
		return nil, status.Error(codes.InvalidArgument, "menu item id is required")
	}
	if err := h.cart.AddItem(ctx, req.MenuItemID); err != nil {
		return nil, h.statusError("AddItem", err)
	}
	return &rpc.Ack{Success: true, Message: "item added"}, nil
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *rpc.ItemRequest) (*rpc.Ack, error) {
	if req.MenuItemID == "" {
		return nil, status.Error(codes.InvalidArgument, "menu item id is required")
	}
	if err := h.cart.RemoveItem(ctx, req.MenuItemID); err != nil {
		return nil, h.statusError("RemoveItem", err)
	}
	return &rpc.Ack{Success: true, Message: "item removed"}, nil
}

func (h *GRPCHandler) Checkout(ctx context.Context, req *rpc.CheckoutRequest) (*rpc.CheckoutResponse, error) {
	order, err := h.cart.Checkout(ctx, req.RequestID)
	if err != nil {
		return nil, h.statusError("Checkout", err)
	}
	return &rpc.CheckoutResponse{OrderID: order.ID, TotalPrice: order.TotalPrice}, nil
}

func (h *GRPCHandler) ClearCart(ctx context.Context, req *rpc.ClearCartRequest) (*rpc.Ack, error) {
	if err := h.cart.ClearCart(ctx); err != nil {
		return nil, h.statusError("ClearCart", err)
	}
	return &rpc.Ack{Success: true, Message: "cart cleared"}, nil
}

func (h *GRPCHandler) statusError(method string, err error) error {
	_, code, message := classify(err)
	if code == codes.Internal {
		h.logger.Error("rpc failed", zap.String("method", method), zap.Error(err))
	}
	return status.Error(code, message)
}

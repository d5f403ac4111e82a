package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/cart-drawer/internal/adapter/rpc"
	"github.com/rl1809/cart-drawer/internal/adapter/storage"
	"github.com/rl1809/cart-drawer/internal/core/domain"
	"github.com/rl1809/cart-drawer/internal/core/service"
)

func TestGRPCHandler_FetchCart(t *testing.T) {
	h := NewGRPCHandler(&stubBackend{snapshot: burgerCart()}, zap.NewNop())

	cart, err := h.FetchCart(context.Background(), &rpc.FetchCartRequest{})
	require.NoError(t, err)
	require.Len(t, cart.OrderItems, 1)
	assert.Equal(t, "burger", cart.OrderItems[0].MenuItemID)
	assert.Equal(t, "17", cart.TotalPrice.String())
}

func TestGRPCHandler_RequiresMenuItemID(t *testing.T) {
	h := NewGRPCHandler(&stubBackend{}, zap.NewNop())

	_, err := h.AddItem(context.Background(), &rpc.ItemRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.RemoveItem(context.Background(), &rpc.ItemRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPCHandler_Checkout(t *testing.T) {
	backend := &stubBackend{snapshot: burgerCart()}
	h := NewGRPCHandler(backend, zap.NewNop())

	resp, err := h.Checkout(context.Background(), &rpc.CheckoutRequest{RequestID: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, "order-1", resp.OrderID)
	assert.Equal(t, []string{"req-1"}, backend.requestIDs)
}

func TestGRPCHandler_ErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{service.ErrInsufficientStock, codes.FailedPrecondition, "insufficient stock"},
		{service.ErrDuplicateRequest, codes.AlreadyExists, "duplicate request"},
		{storage.ErrOptimisticLock, codes.FailedPrecondition, "insufficient stock"},
		{service.ErrCartEmpty, codes.FailedPrecondition, "cart is empty"},
		{domain.ErrMenuItemNotFound, codes.NotFound, "menu item not found"},
		{errors.New("boom"), codes.Internal, "internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			h := NewGRPCHandler(&stubBackend{err: tc.err}, zap.NewNop())
			_, err := h.Checkout(context.Background(), &rpc.CheckoutRequest{})
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, st.Code())
			assert.Equal(t, tc.msg, st.Message())
		})
	}
}

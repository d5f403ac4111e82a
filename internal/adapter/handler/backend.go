package handler

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/rl1809/cart-drawer/internal/adapter/storage"
	"github.com/rl1809/cart-drawer/internal/core/domain"
	"github.com/rl1809/cart-drawer/internal/core/service"
)

// CartBackend is the order service business logic both transports serve.
type CartBackend interface {
	FetchCart(ctx context.Context) (domain.CartSnapshot, error)
	AddItem(ctx context.Context, menuItemID string) error
	RemoveItem(ctx context.Context, menuItemID string) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context, requestID string) (domain.Order, error)
}

var _ CartBackend = (*service.CartService)(nil)

// classify maps a backend error to what both transports report.
func classify(err error) (int, codes.Code, string) {
	switch {
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, storage.ErrOptimisticLock):
		return http.StatusConflict, codes.FailedPrecondition, "insufficient stock"
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict, codes.AlreadyExists, "duplicate request"
	case errors.Is(err, service.ErrCartEmpty):
		return http.StatusBadRequest, codes.FailedPrecondition, "cart is empty"
	case errors.Is(err, domain.ErrCartChanged):
		return http.StatusConflict, codes.Aborted, "cart changed, please retry"
	case errors.Is(err, domain.ErrMenuItemNotFound):
		return http.StatusNotFound, codes.NotFound, "menu item not found"
	case errors.Is(err, domain.ErrItemNotInCart):
		return http.StatusNotFound, codes.NotFound, "item not in cart"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codes.DeadlineExceeded, "request timed out"
	default:
		return http.StatusInternalServerError, codes.Internal, "internal error"
	}
}

package port

import (
	"context"

	"github.com/rl1809/cart-drawer/internal/core/domain"
)

// OrderService is the remote collaborator the cart controller talks to.
// Implementations report failures as *domain.RemoteOperationError.
type OrderService interface {
	// FetchCart returns the current server-authoritative cart
	FetchCart(ctx context.Context) (domain.CartSnapshot, error)

	// AddItem adds one unit of a menu item to the cart
	AddItem(ctx context.Context, menuItemID string) error

	// RemoveItem removes one unit of a menu item from the cart
	RemoveItem(ctx context.Context, menuItemID string) error

	// Checkout turns the cart into an order
	Checkout(ctx context.Context) error
}

// CartEmptier is implemented by order services that can empty a cart without
// placing an order.
type CartEmptier interface {
	ClearCart(ctx context.Context) error
}

// Notifier receives the user-facing messages of settled operations.
type Notifier interface {
	Success(message string)
	Error(message string)
}

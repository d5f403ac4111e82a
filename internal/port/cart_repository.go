package port

import (
	"context"

	"github.com/rl1809/cart-drawer/internal/core/domain"
)

type CartRepository interface {
	// GetCart returns the cart rows joined with menu data, in insertion order
	GetCart(ctx context.Context) ([]domain.OrderItem, error)

	// AddItem increments the quantity of a menu item, inserting the row if needed
	AddItem(ctx context.Context, menuItemID string) error

	// RemoveItem decrements the quantity of a menu item, deleting the row at zero
	RemoveItem(ctx context.Context, menuItemID string) error

	// ClearCart deletes every cart row
	ClearCart(ctx context.Context) error

	// CreateOrder persists the order, decrements inventory and deletes the ordered
	// cart rows in one transaction. A row that changed since it was read fails
	// with domain.ErrCartChanged.
	CreateOrder(ctx context.Context, order domain.Order) error

	// ListInventory returns the stock of every menu item
	ListInventory(ctx context.Context) ([]domain.Inventory, error)
}

package handler

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-drawer/internal/core/domain"
)

type stubBackend struct {
	mu         sync.Mutex
	snapshot   domain.CartSnapshot
	err        error
	added      []string
	removed    []string
	cleared    int
	requestIDs []string
}

func (b *stubBackend) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot, b.err
}

func (b *stubBackend) AddItem(ctx context.Context, menuItemID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.added = append(b.added, menuItemID)
	return b.err
}

func (b *stubBackend) RemoveItem(ctx context.Context, menuItemID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed = append(b.removed, menuItemID)
	return b.err
}

func (b *stubBackend) ClearCart(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cleared++
	return b.err
}

func (b *stubBackend) Checkout(ctx context.Context, requestID string) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requestIDs = append(b.requestIDs, requestID)
	if b.err != nil {
		return domain.Order{}, b.err
	}
	return domain.Order{ID: "order-1", RequestID: requestID, TotalPrice: b.snapshot.TotalPrice}, nil
}

func burgerCart() domain.CartSnapshot {
	return domain.CartSnapshot{
		Items: []domain.OrderItem{
			{MenuItemID: "burger", MenuItemName: "Burger", UnitPrice: decimal.RequireFromString("8.50"), Quantity: 2},
		},
		TotalPrice: decimal.RequireFromString("17.00"),
	}
}

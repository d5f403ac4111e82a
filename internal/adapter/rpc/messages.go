package rpc

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-drawer/internal/core/domain"
)

// Wire names follow the order service's REST payloads.

type CartItem struct {
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

type Cart struct {
	OrderItems []CartItem       `json:"order_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type FetchCartRequest struct{}

type ItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
}

type CheckoutRequest struct {
	RequestID string `json:"request_id"`
}

type ClearCartRequest struct{}

type CheckoutResponse struct {
	OrderID    string          `json:"order_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func CartFromSnapshot(s domain.CartSnapshot) Cart {
	items := make([]CartItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, CartItem{
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Price:        item.UnitPrice,
			Quantity:     item.Quantity,
		})
	}
	return Cart{OrderItems: items, TotalPrice: s.TotalPrice}
}

func (c Cart) Snapshot() (domain.CartSnapshot, error) {
	items := make([]domain.OrderItem, 0, len(c.OrderItems))
	for _, item := range c.OrderItems {
		items = append(items, domain.OrderItem{
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			UnitPrice:    item.Price,
			Quantity:     item.Quantity,
		})
	}
	return domain.NewCartSnapshot(items, c.TotalPrice)
}

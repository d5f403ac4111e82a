package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	MenuItemID   string
	MenuItemName string
	UnitPrice    decimal.Decimal
	Quantity     int
}

// CartSnapshot is the server-authoritative cart as returned by one fetch.
// Items keep the order the service returned them in; TotalPrice is never
// derived locally.
type CartSnapshot struct {
	Items      []OrderItem
	TotalPrice decimal.Decimal
}

// NewCartSnapshot validates a fetched cart. Rows with zero quantity are
// dropped, a negative quantity rejects the whole snapshot.
func NewCartSnapshot(items []OrderItem, totalPrice decimal.Decimal) (CartSnapshot, error) {
	kept := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 0 {
			return CartSnapshot{}, fmt.Errorf("item %s has negative quantity %d", item.MenuItemID, item.Quantity)
		}
		if item.Quantity == 0 {
			continue
		}
		kept = append(kept, item)
	}
	return CartSnapshot{Items: kept, TotalPrice: totalPrice}, nil
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s CartSnapshot) Item(menuItemID string) (OrderItem, bool) {
	for _, item := range s.Items {
		if item.MenuItemID == menuItemID {
			return item, true
		}
	}
	return OrderItem{}, false
}

func (s CartSnapshot) Clone() CartSnapshot {
	items := make([]OrderItem, len(s.Items))
	copy(items, s.Items)
	return CartSnapshot{Items: items, TotalPrice: s.TotalPrice}
}

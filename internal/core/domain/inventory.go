package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

type Inventory struct {
	ItemID    string
	Stock     int
	Version   int // optimistic locking
	CreatedAt time.Time
	UpdatedAt time.Time
}

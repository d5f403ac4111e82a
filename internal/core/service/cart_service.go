package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/cart-drawer/internal/core/domain"
	"github.com/rl1809/cart-drawer/internal/port"
)

var (
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartService is the reference order service: it owns the cart, prices it
// and turns it into orders.
type CartService struct {
	repo   port.CartRepository
	cache  port.CacheRepository
	logger *zap.Logger
}

func NewCartService(repo port.CartRepository, cache port.CacheRepository, logger *zap.Logger) *CartService {
	return &CartService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *CartService) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	items, err := s.repo.GetCart(ctx)
	if err != nil {
		return domain.CartSnapshot{}, fmt.Errorf("get cart: %w", err)
	}
	return domain.NewCartSnapshot(items, totalOf(items))
}

func (s *CartService) AddItem(ctx context.Context, menuItemID string) error {
	if err := s.repo.AddItem(ctx, menuItemID); err != nil {
		return fmt.Errorf("add item %s: %w", menuItemID, err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, menuItemID string) error {
	if err := s.repo.RemoveItem(ctx, menuItemID); err != nil {
		return fmt.Errorf("remove item %s: %w", menuItemID, err)
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context) error {
	if err := s.repo.ClearCart(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout reserves stock for every cart row and persists the order. The
// request ID makes retries of the same checkout call harmless.
func (s *CartService) Checkout(ctx context.Context, requestID string) (domain.Order, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ok, err := s.cache.SetIdempotency(ctx, "checkout:"+requestID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return domain.Order{}, ErrDuplicateRequest
	}

	items, err := s.repo.GetCart(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get cart: %w", err)
	}
	if len(items) == 0 {
		return domain.Order{}, ErrCartEmpty
	}

	quantities := make(map[string]int, len(items))
	for _, item := range items {
		quantities[item.MenuItemID] += item.Quantity
	}

	ok, err = s.cache.ReserveStock(ctx, quantities)
	if err != nil {
		return domain.Order{}, fmt.Errorf("stock reservation failed: %w", err)
	}
	if !ok {
		return domain.Order{}, ErrInsufficientStock
	}

	now := time.Now()
	order := domain.Order{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		Lines:      items,
		TotalPrice: totalOf(items),
		Status:     domain.OrderStatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		s.logger.Error("failed to save order", zap.String("order_id", order.ID), zap.Error(err))

		// Rollback: restore reserved stock
		if rollbackErr := s.cache.ReleaseStock(ctx, quantities); rollbackErr != nil {
			s.logger.Error("CRITICAL rollback failed", zap.String("order_id", order.ID), zap.Error(rollbackErr))
		}
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Lines)),
		zap.Stringer("total", order.TotalPrice))
	return order, nil
}

// SyncStock copies the persisted inventory into the stock cache.
func (s *CartService) SyncStock(ctx context.Context) error {
	inventory, err := s.repo.ListInventory(ctx)
	if err != nil {
		return fmt.Errorf("list inventory: %w", err)
	}
	for _, inv := range inventory {
		if err := s.cache.SetStock(ctx, inv.ItemID, inv.Stock); err != nil {
			return fmt.Errorf("set stock %s: %w", inv.ItemID, err)
		}
	}
	s.logger.Info("synced stock", zap.Int("items", len(inventory)))
	return nil
}

func totalOf(items []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/rl1809/cart-drawer/internal/core/domain"
)

// ErrOptimisticLock means persisted inventory could not cover an order line.
var ErrOptimisticLock = errors.New("optimistic lock conflict")

//go:embed schema.sql
var schema string

const (
	queryGetCart = `
		SELECT c.menu_item_id, m.name, m.price, c.quantity
		FROM cart_items c
		JOIN menu_items m ON m.id = c.menu_item_id
		ORDER BY c.added_at, c.menu_item_id`

	queryAddCartItem = `
		INSERT INTO cart_items (menu_item_id, quantity)
		SELECT id, 1 FROM menu_items WHERE id = ?
		ON DUPLICATE KEY UPDATE quantity = quantity + 1`

	queryDecrementCartItem = `
		UPDATE cart_items SET quantity = quantity - 1
		WHERE menu_item_id = ? AND quantity > 1`

	queryDeleteCartItem = `DELETE FROM cart_items WHERE menu_item_id = ?`

	queryClearCart = `DELETE FROM cart_items`

	queryDeleteOrderedCartItem = `
		DELETE FROM cart_items WHERE menu_item_id = ? AND quantity = ?`

	queryInsertOrder = `
		INSERT INTO orders (id, request_id, total_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryInsertOrderLine = `
		INSERT INTO order_lines (order_id, menu_item_id, menu_item_name, unit_price, quantity)
		VALUES (?, ?, ?, ?, ?)`

	queryDecrementInventory = `
		UPDATE inventory
		SET stock = stock - ?, version = version + 1, updated_at = NOW()
		WHERE item_id = ? AND stock >= ?`

	queryListInventory = `
		SELECT item_id, stock, version, created_at, updated_at
		FROM inventory ORDER BY item_id`
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// Migrate creates the tables and seeds the demo menu. Statements run one by
// one so the DSN does not need multiStatements.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) GetCart(ctx context.Context) ([]domain.OrderItem, error) {
	rows, err := m.db.QueryContext(ctx, queryGetCart)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.MenuItemID, &item.MenuItemName, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart: %w", err)
	}
	return items, nil
}

func (m *MySQLAdapter) AddItem(ctx context.Context, menuItemID string) error {
	result, err := m.db.ExecContext(ctx, queryAddCartItem, menuItemID)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (m *MySQLAdapter) RemoveItem(ctx context.Context, menuItemID string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queryDecrementCartItem, menuItemID)
	if err != nil {
		return fmt.Errorf("decrement cart item: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		result, err = tx.ExecContext(ctx, queryDeleteCartItem, menuItemID)
		if err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return domain.ErrItemNotInCart
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) ClearCart(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, queryClearCart); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, queryInsertOrder,
		order.ID, order.RequestID, order.TotalPrice, order.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx, queryInsertOrderLine,
			order.ID, line.MenuItemID, line.MenuItemName, line.UnitPrice, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order line %s: %w", line.MenuItemID, err)
		}

		result, err := tx.ExecContext(ctx, queryDecrementInventory, line.Quantity, line.MenuItemID, line.Quantity)
		if err != nil {
			return fmt.Errorf("update inventory: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return ErrOptimisticLock
		}

		// Rows added after the cart was read stay in the cart
		result, err = tx.ExecContext(ctx, queryDeleteOrderedCartItem, line.MenuItemID, line.Quantity)
		if err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return domain.ErrCartChanged
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) ListInventory(ctx context.Context) ([]domain.Inventory, error) {
	rows, err := m.db.QueryContext(ctx, queryListInventory)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var inventory []domain.Inventory
	for rows.Next() {
		var inv domain.Inventory
		if err := rows.Scan(&inv.ItemID, &inv.Stock, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		inventory = append(inventory, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return inventory, nil
}

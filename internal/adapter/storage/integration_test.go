package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/cart-drawer/internal/adapter/storage"
	"github.com/rl1809/cart-drawer/internal/core/service"
)

type integrationEnv struct {
	db      *sql.DB
	redis   *redis.Client
	service *service.CartService
}

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/cartdrawer?parseTime=true"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		db.Close()
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		rdb.Close()
	})

	ctx := context.Background()
	mysqlAdapter := storage.NewMySQLAdapter(db)
	require.NoError(t, mysqlAdapter.Migrate(ctx))

	// Reset cart and stock
	require.NoError(t, mysqlAdapter.ClearCart(ctx))
	_, err = db.ExecContext(ctx, `UPDATE inventory SET stock = 10, version = 0 WHERE item_id IN ('burger', 'fries')`)
	require.NoError(t, err)

	svc := service.NewCartService(mysqlAdapter, storage.NewRedisAdapter(rdb), zap.NewNop())
	require.NoError(t, svc.SyncStock(ctx))

	return &integrationEnv{db: db, redis: rdb, service: svc}
}

func TestIntegration_CartLifecycle(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	for _, id := range []string{"burger", "burger", "fries"} {
		require.NoError(t, env.service.AddItem(ctx, id), id)
	}
	require.NoError(t, env.service.RemoveItem(ctx, "burger"))

	cart, err := env.service.FetchCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "burger", cart.Items[0].MenuItemID)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "11.75", cart.TotalPrice.String())

	order, err := env.service.Checkout(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		env.db.ExecContext(context.Background(), `DELETE FROM order_lines WHERE order_id = ?`, order.ID)
	})

	var lines int
	require.NoError(t, env.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_lines WHERE order_id = ?`, order.ID).Scan(&lines))
	assert.Equal(t, 2, lines)

	var stock int
	require.NoError(t, env.db.QueryRowContext(ctx, `SELECT stock FROM inventory WHERE item_id = 'burger'`).Scan(&stock))
	assert.Equal(t, 9, stock)

	cart, err = env.service.FetchCart(ctx)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestIntegration_CheckoutsStopAtStock(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	// One burger per checkout, ten in stock
	placed, rejected := 0, 0
	for i := 0; i < 15; i++ {
		require.NoError(t, env.service.AddItem(ctx, "burger"))

		order, err := env.service.Checkout(ctx, "")
		switch {
		case err == nil:
			placed++
			env.db.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = ?`, order.ID)
		case errors.Is(err, service.ErrInsufficientStock):
			rejected++
			require.NoError(t, env.service.ClearCart(ctx))
		default:
			require.NoError(t, err)
		}
	}

	assert.Equal(t, 10, placed)
	assert.Equal(t, 5, rejected)

	stock, err := env.redis.Get(ctx, "stock:burger").Int()
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

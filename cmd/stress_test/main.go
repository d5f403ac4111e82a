package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/cart-drawer/internal/adapter/client"
	"github.com/rl1809/cart-drawer/internal/config"
	"github.com/rl1809/cart-drawer/internal/core/service"
	"github.com/rl1809/cart-drawer/internal/logger"
)

const (
	itemID            = "burger"
	controllerCount   = 20
	addsPerController = 2
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	orders, err := client.New(cfg)
	if err != nil {
		log.Fatal("failed to create order service client", zap.Error(err))
	}
	defer orders.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Clear previous test data
	if err := orders.ClearCart(ctx); err != nil {
		log.Fatal("failed to clear cart", zap.Error(err))
	}

	controllers := make([]*service.CartController, controllerCount)
	for i := range controllers {
		controllers[i] = service.NewCartController(orders,
			service.WithLogger(log.Named(fmt.Sprintf("drawer-%d", i))),
			service.WithCallTimeout(cfg.RequestTimeout),
		)
		defer controllers[i].Stop()
	}

	// Phase 1: every drawer adds concurrently
	var addOK, addFailed atomic.Int32
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range controllers {
		c := c
		g.Go(func() error {
			for j := 0; j < addsPerController; j++ {
				if out := c.AddItem(gctx, itemID); out.OK {
					addOK.Add(1)
				} else {
					addFailed.Add(1)
				}
			}
			return nil
		})
	}
	g.Wait()
	addElapsed := time.Since(start)

	observer := service.NewCartController(orders)
	defer observer.Stop()
	observer.Open(ctx)
	view := observer.State(ctx)

	quantity := 0
	if view.Snapshot != nil {
		if item, ok := view.Snapshot.Item(itemID); ok {
			quantity = item.Quantity
		}
	}

	// Phase 2: every drawer sees the same cart and races to check out
	for _, c := range controllers {
		c.Open(ctx)
	}

	var checkoutOK, checkoutFailed atomic.Int32
	start = time.Now()

	g, gctx = errgroup.WithContext(ctx)
	for _, c := range controllers {
		c := c
		g.Go(func() error {
			out := c.Checkout(gctx)
			switch {
			case out.OK:
				checkoutOK.Add(1)
			case !out.Disabled:
				checkoutFailed.Add(1)
				log.Debug("checkout rejected", zap.String("message", out.Message))
			}
			return nil
		})
	}
	g.Wait()
	checkoutElapsed := time.Since(start)

	// Results
	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Transport:        %s\n", cfg.OrderServiceTransport)
	fmt.Printf("Drawers:          %d\n", controllerCount)
	fmt.Printf("Adds OK/Failed:   %d/%d (%v)\n", addOK.Load(), addFailed.Load(), addElapsed)
	fmt.Printf("Cart Quantity:    %d\n", quantity)
	fmt.Printf("Checkouts OK:     %d\n", checkoutOK.Load())
	fmt.Printf("Checkouts Failed: %d (%v)\n", checkoutFailed.Load(), checkoutElapsed)
	fmt.Println("==========================================")

	// Assertions
	if quantity == int(addOK.Load()) {
		fmt.Printf("PASS: cart holds exactly the %d acknowledged adds\n", quantity)
	} else {
		fmt.Printf("FAIL: expected quantity %d, got %d\n", addOK.Load(), quantity)
	}

	if checkoutOK.Load() <= 1 {
		fmt.Printf("PASS: %d order placed for one cart\n", checkoutOK.Load())
	} else {
		fmt.Printf("FAIL: one cart produced %d orders\n", checkoutOK.Load())
	}
}

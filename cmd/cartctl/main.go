package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/cart-drawer/internal/adapter/client"
	"github.com/rl1809/cart-drawer/internal/config"
	"github.com/rl1809/cart-drawer/internal/core/domain"
	"github.com/rl1809/cart-drawer/internal/core/service"
	"github.com/rl1809/cart-drawer/internal/logger"
)

const usage = `commands:
  open              open the drawer and fetch the cart
  close             close the drawer
  add <item>        add one unit of a menu item
  remove <item>     remove one unit of a menu item
  checkout          place the order
  clear             empty the cart
  show              print the drawer
  quit`

// consoleNotifier prints toast messages.
type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *consoleNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "[ok] %s\n", message)
}

func (n *consoleNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "[error] %s\n", message)
}

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

	controller := service.NewCartController(orders,
		service.WithNotifier(&consoleNotifier{out: os.Stdout}),
		service.WithLogger(log.Named("drawer")),
		service.WithCallTimeout(cfg.RequestTimeout),
	)
	defer controller.Stop()

	go func() {
		for view := range controller.Updates() {
			log.Debug("drawer updated",
				zap.Bool("visible", view.Visible),
				zap.Bool("loading", view.LoadingSnapshot),
				zap.Bool("checking_out", view.CheckingOut),
				zap.Int("rows", len(view.Items())),
				zap.String("total", view.TotalLabel()))
		}
	}()

	log.Info("cart drawer ready",
		zap.String("transport", cfg.OrderServiceTransport),
		zap.Duration("request_timeout", cfg.RequestTimeout))
	fmt.Println(usage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}

		// Leaves room for the call timeout so outcomes arrive settled
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
		dispatch(ctx, controller, fields)
		cancel()
	}
}

func dispatch(ctx context.Context, controller *service.CartController, fields []string) {
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	var outcome domain.Outcome
	switch fields[0] {
	case "open":
		outcome = controller.Open(ctx)
	case "close":
		outcome = controller.Close(ctx)
	case "add", "remove":
		if arg == "" {
			fmt.Printf("usage: %s <item>\n", fields[0])
			return
		}
		if fields[0] == "add" {
			outcome = controller.AddItem(ctx, arg)
		} else {
			outcome = controller.RemoveItem(ctx, arg)
		}
	case "checkout":
		outcome = controller.Checkout(ctx)
	case "clear":
		outcome = controller.Clear(ctx)
	case "show":
		render(os.Stdout, controller.State(ctx))
		return
	default:
		fmt.Println(usage)
		return
	}

	switch {
	case outcome.Disabled:
		fmt.Printf("(%s unavailable: %v)\n", outcome.Op, outcome.Err)
	case outcome.Stale:
		fmt.Println("(cart changed, result discarded)")
	}

	view := controller.State(ctx)
	if view.Visible {
		render(os.Stdout, view)
	}
}

func render(w io.Writer, view domain.CartView) {
	if !view.Visible {
		fmt.Fprintln(w, "drawer closed")
		return
	}
	if view.LoadingSnapshot {
		fmt.Fprintln(w, "loading cart...")
	}

	fmt.Fprintln(w, "+---------------- cart ----------------")
	items := view.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "| (empty)")
	}
	for _, item := range items {
		row := view.Row(item.MenuItemID)
		flags := ""
		if row.Adding {
			flags += " adding..."
		}
		if row.Removing {
			flags += " removing..."
		}
		remove := "   "
		if view.CanRemove(item.MenuItemID) {
			remove = "[-]"
		}
		fmt.Fprintf(w, "| %-16s %s x%-3d [+] %s $%s%s\n",
			item.MenuItemName, item.MenuItemID, item.Quantity, remove, item.UnitPrice, flags)
	}

	status := ""
	switch {
	case view.CheckingOut:
		status = " (checking out...)"
	case view.CanCheckout():
		status = " [checkout] [clear]"
	}
	fmt.Fprintf(w, "| total %s%s\n", view.TotalLabel(), status)
	fmt.Fprintln(w, "+--------------------------------------")
}

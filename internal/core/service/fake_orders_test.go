package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/cart-drawer/internal/core/domain"
)

type gateKey struct {
	call string
	n    int
}

// fakeOrders is an in-memory order service. Calls can be held open with
// hold to control the order in which they settle.
type fakeOrders struct {
	mu    sync.Mutex
	items []domain.OrderItem
	menu  map[string]domain.OrderItem
	errs  map[string]error
	calls map[string]int
	gates map[gateKey]chan struct{}
}

func newFakeOrders(items ...domain.OrderItem) *fakeOrders {
	f := &fakeOrders{
		menu:  make(map[string]domain.OrderItem),
		errs:  make(map[string]error),
		calls: make(map[string]int),
		gates: make(map[gateKey]chan struct{}),
	}
	f.setCart(items...)
	return f
}

func item(id string, price string, quantity int) domain.OrderItem {
	return domain.OrderItem{
		MenuItemID:   id,
		MenuItemName: "item " + id,
		UnitPrice:    decimal.RequireFromString(price),
		Quantity:     quantity,
	}
}

func (f *fakeOrders) setCart(items ...domain.OrderItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]domain.OrderItem(nil), items...)
	for _, it := range items {
		f.menu[it.MenuItemID] = it
	}
}

func (f *fakeOrders) failWith(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[call] = err
}

// hold blocks the n-th call (1-based) of the named operation until the
// returned release is called. n == 0 holds every call.
func (f *fakeOrders) hold(call string, n int) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[gateKey{call, n}] = ch
	return sync.OnceFunc(func() { close(ch) })
}

func (f *fakeOrders) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

func (f *fakeOrders) enter(call string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[call]++
	return f.calls[call], f.errs[call]
}

func (f *fakeOrders) wait(ctx context.Context, call string, n int) error {
	f.mu.Lock()
	gate, ok := f.gates[gateKey{call, n}]
	if !ok {
		gate, ok = f.gates[gateKey{call, 0}]
	}
	f.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeOrders) snapshotLocked() domain.CartSnapshot {
	total := decimal.Zero
	items := make([]domain.OrderItem, len(f.items))
	copy(items, f.items)
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return domain.CartSnapshot{Items: items, TotalPrice: total}
}

func (f *fakeOrders) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	n, err := f.enter("fetch")
	f.mu.Lock()
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	if waitErr := f.wait(ctx, "fetch", n); waitErr != nil {
		return domain.CartSnapshot{}, waitErr
	}
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return snapshot, nil
}

func (f *fakeOrders) AddItem(ctx context.Context, menuItemID string) error {
	n, err := f.enter("add")
	if waitErr := f.wait(ctx, "add", n); waitErr != nil {
		return waitErr
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].MenuItemID == menuItemID {
			f.items[i].Quantity++
			return nil
		}
	}
	it, ok := f.menu[menuItemID]
	if !ok {
		return domain.NewRemoteError(domain.OpAddItem, "menu item not found", nil)
	}
	it.Quantity = 1
	f.items = append(f.items, it)
	return nil
}

func (f *fakeOrders) RemoveItem(ctx context.Context, menuItemID string) error {
	n, err := f.enter("remove")
	if waitErr := f.wait(ctx, "remove", n); waitErr != nil {
		return waitErr
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].MenuItemID != menuItemID {
			continue
		}
		f.items[i].Quantity--
		if f.items[i].Quantity == 0 {
			f.items = append(f.items[:i], f.items[i+1:]...)
		}
		return nil
	}
	return domain.NewRemoteError(domain.OpRemoveItem, "item not in cart", nil)
}

func (f *fakeOrders) Checkout(ctx context.Context) error {
	n, err := f.enter("checkout")
	if waitErr := f.wait(ctx, "checkout", n); waitErr != nil {
		return waitErr
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
	return nil
}

// emptyingOrders additionally supports emptying the cart without an order.
type emptyingOrders struct {
	*fakeOrders
}

func (e emptyingOrders) ClearCart(ctx context.Context) error {
	n, err := e.enter("clear")
	if waitErr := e.wait(ctx, "clear", n); waitErr != nil {
		return waitErr
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = nil
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) snapshot() (successes, errs []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...), append([]string(nil), n.errors...)
}

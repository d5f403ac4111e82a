package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/cart-drawer/internal/core/domain"
	"github.com/rl1809/cart-drawer/internal/port"
)

var (
	ErrCartClosed         = errors.New("cart is closed")
	ErrCartLoading        = errors.New("cart is still loading")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrRowBusy            = errors.New("item operation already in progress")
	ErrLastUnit           = errors.New("cannot remove the last unit of an item")
	ErrStaleFetch         = errors.New("cart fetch superseded")
	ErrControllerStopped  = errors.New("cart controller stopped")
)

const (
	msgItemAdded   = "successfully added item"
	msgItemRemoved = "successfully removed item"
	msgCheckedOut  = "successfully checked out"
)

// cartState is owned by the controller loop goroutine and never shared.
type cartState struct {
	visible     bool
	generation  uint64
	snapshot    *domain.CartSnapshot
	loading     bool
	checkingOut bool
	rows        map[string]domain.RowState
}

func (st *cartState) view() domain.CartView {
	v := domain.CartView{
		Visible:         st.visible,
		LoadingSnapshot: st.loading,
		CheckingOut:     st.checkingOut,
		Rows:            make(map[string]domain.RowState, len(st.rows)),
	}
	if st.snapshot != nil {
		snapshot := st.snapshot.Clone()
		v.Snapshot = &snapshot
	}
	for id, row := range st.rows {
		v.Rows[id] = row
	}
	return v
}

// hide closes the drawer. Bumping the generation turns any outstanding
// fetch stale.
func (st *cartState) hide() {
	st.visible = false
	st.generation++
	st.loading = false
}

func (st *cartState) setRowFlag(itemID string, op domain.Operation, on bool) {
	row := st.rows[itemID]
	switch op {
	case domain.OpAddItem:
		row.Adding = on
	case domain.OpRemoveItem:
		row.Removing = on
	}
	if row.Idle() {
		delete(st.rows, itemID)
		return
	}
	st.rows[itemID] = row
}

func (st *cartState) checkoutBlocker() error {
	switch {
	case !st.visible:
		return ErrCartClosed
	case st.loading:
		return ErrCartLoading
	case st.checkingOut:
		return ErrCheckoutInProgress
	case st.snapshot == nil || st.snapshot.IsEmpty():
		return ErrCartEmpty
	}
	return nil
}

// CartController owns the cart drawer state and reconciles it with the
// remote order service. All state lives on a single loop goroutine; callers
// and settling remote calls reach it through the inbox.
type CartController struct {
	orders      port.OrderService
	notifier    port.Notifier
	logger      *zap.Logger
	callTimeout time.Duration

	inbox    chan func(*cartState)
	updates  chan domain.CartView
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type Option func(*CartController)

func WithNotifier(notifier port.Notifier) Option {
	return func(c *CartController) {
		c.notifier = notifier
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *CartController) {
		c.logger = logger
	}
}

// WithCallTimeout bounds every remote call. Remote calls do not inherit the
// caller's cancellation, so without a bound they run until the order
// service answers.
func WithCallTimeout(d time.Duration) Option {
	return func(c *CartController) {
		c.callTimeout = d
	}
}

func NewCartController(orders port.OrderService, opts ...Option) *CartController {
	c := &CartController{
		orders:   orders,
		notifier: nopNotifier{},
		logger:   zap.NewNop(),
		inbox:    make(chan func(*cartState)),
		updates:  make(chan domain.CartView, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.loop()
	return c
}

func (c *CartController) loop() {
	defer close(c.updates)
	defer close(c.done)

	st := &cartState{rows: make(map[string]domain.RowState)}
	for {
		select {
		case fn := <-c.inbox:
			fn(st)
		case <-c.quit:
			return
		}
	}
}

// Open shows the drawer and fetches a fresh snapshot.
func (c *CartController) Open(ctx context.Context) domain.Outcome {
	reply := make(chan domain.Outcome, 1)
	err := c.submit(ctx, func(st *cartState) {
		st.visible = true
		st.generation++
		st.loading = true
		gen := st.generation
		c.publish(st)

		c.logger.Debug("fetching cart", zap.Uint64("generation", gen))
		go func() {
			callCtx, cancel := c.callContext(ctx)
			snapshot, err := c.orders.FetchCart(callCtx)
			cancel()
			c.settle(func(st *cartState) {
				reply <- c.settleFetch(st, gen, snapshot, err)
			})
		}()
	})
	if err != nil {
		return failed(domain.OpOpen, "", err)
	}
	return c.await(ctx, domain.OpOpen, "", reply)
}

func (c *CartController) settleFetch(st *cartState, gen uint64, snapshot domain.CartSnapshot, err error) domain.Outcome {
	if gen != st.generation {
		c.logger.Debug("discarding stale cart fetch",
			zap.Uint64("generation", gen),
			zap.Uint64("current", st.generation),
			zap.Error(err))
		out := failed(domain.OpOpen, "", ErrStaleFetch)
		out.Stale = true
		return out
	}

	st.loading = false
	if err != nil {
		c.logger.Warn("cart fetch failed", zap.Error(err))
		out := failed(domain.OpOpen, "", err)
		c.notifier.Error(out.Message)
		c.publish(st)
		return out
	}

	valid, err := domain.NewCartSnapshot(snapshot.Items, snapshot.TotalPrice)
	if err != nil {
		c.logger.Warn("rejecting cart snapshot", zap.Error(err))
		out := failed(domain.OpOpen, "", domain.NewRemoteError(domain.OpOpen, "invalid cart snapshot", err))
		c.notifier.Error(out.Message)
		c.publish(st)
		return out
	}

	stored := valid.Clone()
	st.snapshot = &stored
	c.publish(st)
	return domain.Outcome{Op: domain.OpOpen, OK: true}
}

// Close hides the drawer. The last snapshot is kept until the next fetch
// replaces it.
func (c *CartController) Close(ctx context.Context) domain.Outcome {
	reply := make(chan domain.Outcome, 1)
	err := c.submit(ctx, func(st *cartState) {
		st.hide()
		c.publish(st)
		reply <- domain.Outcome{Op: domain.OpClose, OK: true}
	})
	if err != nil {
		return failed(domain.OpClose, "", err)
	}
	return c.await(ctx, domain.OpClose, "", reply)
}

func (c *CartController) AddItem(ctx context.Context, itemID string) domain.Outcome {
	return c.mutateRow(ctx, domain.OpAddItem, itemID)
}

// RemoveItem is rejected locally when the current snapshot holds a single
// unit of the item.
func (c *CartController) RemoveItem(ctx context.Context, itemID string) domain.Outcome {
	return c.mutateRow(ctx, domain.OpRemoveItem, itemID)
}

func (c *CartController) mutateRow(ctx context.Context, op domain.Operation, itemID string) domain.Outcome {
	reply := make(chan domain.Outcome, 1)
	err := c.submit(ctx, func(st *cartState) {
		row := st.rows[itemID]
		if (op == domain.OpAddItem && row.Adding) || (op == domain.OpRemoveItem && row.Removing) {
			reply <- c.disabled(op, itemID, ErrRowBusy)
			return
		}
		if op == domain.OpRemoveItem && st.snapshot != nil {
			if item, ok := st.snapshot.Item(itemID); ok && item.Quantity <= 1 {
				reply <- c.disabled(op, itemID, ErrLastUnit)
				return
			}
		}

		st.setRowFlag(itemID, op, true)
		c.publish(st)

		c.logger.Debug("dispatching item mutation", zap.String("op", string(op)), zap.String("item_id", itemID))
		go func() {
			callCtx, cancel := c.callContext(ctx)
			var err error
			if op == domain.OpAddItem {
				err = c.orders.AddItem(callCtx, itemID)
			} else {
				err = c.orders.RemoveItem(callCtx, itemID)
			}
			cancel()
			c.settle(func(st *cartState) {
				reply <- c.settleRow(st, op, itemID, err)
			})
		}()
	})
	if err != nil {
		return failed(op, itemID, err)
	}
	return c.await(ctx, op, itemID, reply)
}

func (c *CartController) settleRow(st *cartState, op domain.Operation, itemID string, err error) domain.Outcome {
	st.setRowFlag(itemID, op, false)

	if err != nil {
		c.logger.Warn("item mutation failed",
			zap.String("op", string(op)),
			zap.String("item_id", itemID),
			zap.Error(err))
		out := failed(op, itemID, err)
		c.notifier.Error(out.Message)
		c.publish(st)
		return out
	}

	msg := msgItemAdded
	if op == domain.OpRemoveItem {
		msg = msgItemRemoved
	}
	c.notifier.Success(msg)

	// The displayed cart no longer matches the server; the next open refetches.
	st.hide()
	c.publish(st)
	return domain.Outcome{Op: op, ItemID: itemID, OK: true, Message: msg}
}

func (c *CartController) Checkout(ctx context.Context) domain.Outcome {
	return c.finish(ctx, domain.OpCheckout)
}

// Clear empties the cart. Order services that do not implement
// port.CartEmptier are cleared through their checkout call.
func (c *CartController) Clear(ctx context.Context) domain.Outcome {
	return c.finish(ctx, domain.OpClear)
}

func (c *CartController) finish(ctx context.Context, op domain.Operation) domain.Outcome {
	reply := make(chan domain.Outcome, 1)
	err := c.submit(ctx, func(st *cartState) {
		if err := st.checkoutBlocker(); err != nil {
			reply <- c.disabled(op, "", err)
			return
		}

		st.checkingOut = true
		c.publish(st)

		c.logger.Debug("dispatching cart finish", zap.String("op", string(op)))
		go func() {
			callCtx, cancel := c.callContext(ctx)
			err := c.callFinish(callCtx, op)
			cancel()
			c.settle(func(st *cartState) {
				reply <- c.settleFinish(st, op, err)
			})
		}()
	})
	if err != nil {
		return failed(op, "", err)
	}
	return c.await(ctx, op, "", reply)
}

func (c *CartController) callFinish(ctx context.Context, op domain.Operation) error {
	if op == domain.OpCheckout {
		return c.orders.Checkout(ctx)
	}
	if emptier, ok := c.orders.(port.CartEmptier); ok {
		return emptier.ClearCart(ctx)
	}
	c.logger.Warn("order service cannot empty a cart, clearing through checkout")
	return c.orders.Checkout(ctx)
}

func (c *CartController) settleFinish(st *cartState, op domain.Operation, err error) domain.Outcome {
	st.checkingOut = false

	if err != nil {
		c.logger.Warn("cart finish failed", zap.String("op", string(op)), zap.Error(err))
		out := failed(op, "", err)
		c.notifier.Error(out.Message)
		c.publish(st)
		return out
	}

	var msg string
	if op == domain.OpCheckout {
		msg = msgCheckedOut
		c.notifier.Success(msg)
	}
	st.hide()
	c.publish(st)
	return domain.Outcome{Op: op, OK: true, Message: msg}
}

// State returns a copy of the current controller state.
func (c *CartController) State(ctx context.Context) domain.CartView {
	reply := make(chan domain.CartView, 1)
	if err := c.submit(ctx, func(st *cartState) { reply <- st.view() }); err != nil {
		return domain.CartView{}
	}
	return <-reply
}

// Updates delivers the state after every change. Only the latest view is
// buffered; a slow reader skips intermediate ones. The channel is closed
// once Stop returns.
func (c *CartController) Updates() <-chan domain.CartView {
	return c.updates
}

// Stop ends the loop. Remote calls still in flight settle into nothing and
// waiting callers get ErrControllerStopped.
func (c *CartController) Stop() {
	c.stopOnce.Do(func() { close(c.quit) })
	<-c.done
}

// callContext keeps the caller's values but not its cancellation: a
// dispatched call always runs to settlement.
func (c *CartController) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.callTimeout > 0 {
		return context.WithTimeout(detached, c.callTimeout)
	}
	return context.WithCancel(detached)
}

func (c *CartController) submit(ctx context.Context, fn func(*cartState)) error {
	select {
	case c.inbox <- fn:
		return nil
	case <-c.quit:
		return ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle hands a remote call result back to the loop. It must not depend on
// the caller's context: the result is processed even if the caller gave up.
func (c *CartController) settle(fn func(*cartState)) {
	select {
	case c.inbox <- fn:
	case <-c.quit:
	}
}

func (c *CartController) await(ctx context.Context, op domain.Operation, itemID string, reply <-chan domain.Outcome) domain.Outcome {
	select {
	case out := <-reply:
		return out
	case <-c.done:
		return failed(op, itemID, ErrControllerStopped)
	case <-ctx.Done():
		return failed(op, itemID, ctx.Err())
	}
}

// publish runs on the loop, the only sender on updates, so the send after
// draining cannot block.
func (c *CartController) publish(st *cartState) {
	v := st.view()
	select {
	case <-c.updates:
	default:
	}
	c.updates <- v
}

func (c *CartController) disabled(op domain.Operation, itemID string, err error) domain.Outcome {
	c.logger.Debug("operation disabled",
		zap.String("op", string(op)),
		zap.String("item_id", itemID),
		zap.Error(err))
	out := failed(op, itemID, err)
	out.Disabled = true
	return out
}

func failed(op domain.Operation, itemID string, err error) domain.Outcome {
	return domain.Outcome{Op: op, ItemID: itemID, Message: domain.DisplayMessage(err), Err: err}
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

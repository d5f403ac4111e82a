package domain

// RowState tracks the in-flight mutations of a single cart row.
type RowState struct {
	Adding   bool
	Removing bool
}

func (r RowState) Idle() bool {
	return !r.Adding && !r.Removing
}

// CartView is a point-in-time copy of the controller state, safe to hand to
// a renderer.
type CartView struct {
	Visible         bool
	Snapshot        *CartSnapshot
	LoadingSnapshot bool
	CheckingOut     bool
	Rows            map[string]RowState
}

func (v CartView) Row(menuItemID string) RowState {
	return v.Rows[menuItemID]
}

func (v CartView) Items() []OrderItem {
	if v.Snapshot == nil {
		return nil
	}
	return v.Snapshot.Items
}

// CanCheckout reports whether the checkout and clear controls are actionable.
func (v CartView) CanCheckout() bool {
	return v.Visible && !v.LoadingSnapshot && !v.CheckingOut && len(v.Items()) > 0
}

// CanRemove reports whether the remove control of a row is exposed.
func (v CartView) CanRemove(menuItemID string) bool {
	if v.Snapshot == nil {
		return false
	}
	item, ok := v.Snapshot.Item(menuItemID)
	return ok && item.Quantity > 1
}

func (v CartView) TotalLabel() string {
	if v.Snapshot == nil {
		return "$0"
	}
	return "$" + v.Snapshot.TotalPrice.String()
}

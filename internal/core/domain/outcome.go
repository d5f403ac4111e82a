package domain

type Operation string

const (
	OpOpen       Operation = "open"
	OpClose      Operation = "close"
	OpAddItem    Operation = "add_item"
	OpRemoveItem Operation = "remove_item"
	OpCheckout   Operation = "checkout"
	OpClear      Operation = "clear"
)

// Outcome is what every controller operation reports instead of failing.
type Outcome struct {
	Op     Operation
	ItemID string
	OK     bool
	// Disabled is set when the operation was rejected locally and no remote
	// call was dispatched.
	Disabled bool
	// Stale is set when a fetch settled after the controller moved on; its
	// result was discarded.
	Stale   bool
	Message string
	Err     error
}

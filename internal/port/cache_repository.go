package port

import "context"

type CacheRepository interface {
	// ReserveStock atomically decreases stock for every item, returns false if any is insufficient
	ReserveStock(ctx context.Context, quantities map[string]int) (bool, error)

	// ReleaseStock restores stock (for rollback on failure)
	ReleaseStock(ctx context.Context, quantities map[string]int) error

	// SetStock overwrites the cached stock of an item
	SetStock(ctx context.Context, itemID string, quantity int) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}

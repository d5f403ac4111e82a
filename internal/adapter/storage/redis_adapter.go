package storage

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

// reserveStockScript decrements every key by its quantity, or none of them
// when any key is missing or short.
var reserveStockScript = redis.NewScript(`
for i, key in ipairs(KEYS) do
	local current = tonumber(redis.call('GET', key))
	if not current or current < tonumber(ARGV[i]) then
		return 0
	end
end

for i, key in ipairs(KEYS) do
	redis.call('DECRBY', key, ARGV[i])
end

return 1
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) ReserveStock(ctx context.Context, quantities map[string]int) (bool, error) {
	if len(quantities) == 0 {
		return true, nil
	}

	keys, args := stockArgs(quantities)
	result, err := reserveStockScript.Run(ctx, r.client, keys, args...).Int()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

func (r *RedisAdapter) ReleaseStock(ctx context.Context, quantities map[string]int) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for itemID, quantity := range quantities {
			pipe.IncrBy(ctx, stockKeyPrefix+itemID, int64(quantity))
		}
		return nil
	})
	return err
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) SetStock(ctx context.Context, itemID string, quantity int) error {
	key := stockKeyPrefix + itemID
	return r.client.Set(ctx, key, quantity, 0).Err()
}

// stockArgs orders the keys so scripts always touch them in the same order.
func stockArgs(quantities map[string]int) ([]string, []interface{}) {
	itemIDs := make([]string, 0, len(quantities))
	for itemID := range quantities {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Strings(itemIDs)

	keys := make([]string, len(itemIDs))
	args := make([]interface{}, len(itemIDs))
	for i, itemID := range itemIDs {
		keys[i] = stockKeyPrefix + itemID
		args[i] = quantities[itemID]
	}
	return keys, args
}

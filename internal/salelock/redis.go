package salelock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-engine/utils"

	"github.com/redis/go-redis/v9"
)

// lock:sale:{sale_id} -> holder token
const keySaleLock = "lock:sale:%d"

var (
	DefaultLockTTL   = 15 * time.Second
	DefaultRetryStep = 25 * time.Millisecond
)

// only the holder that set the token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every instance talking to the same Redis.
// The key expires after TTL so a crashed holder cannot wedge a sale; the
// database row locks still guard the write if a holder outlives its TTL.
type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	retryStep time.Duration
}

// NewRedis creates a Redis-backed locker. Zero durations fall back to the defaults.
func NewRedis(client *redis.Client, ttl, retryStep time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if retryStep <= 0 {
		retryStep = DefaultRetryStep
	}
	return &Redis{client: client, ttl: ttl, retryStep: retryStep}
}

// NewRedisClient connects to Redis and pings it
func NewRedisClient(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Acquire(ctx context.Context, saleID int64) (func(), error) {
	key := fmt.Sprintf(keySaleLock, saleID)
	token := utils.GenerateID()

	ticker := time.NewTicker(r.retryStep)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, busy(saleID, ctx.Err())
			}
			return nil, fmt.Errorf("salelock: set %s: %w", key, err)
		}
		if ok {
			return r.releaser(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, busy(saleID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Redis) releaser(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
				utils.Warn("salelock: release failed", map[string]any{"key": key, "error": err.Error()})
			}
		})
	}
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cravings-app/cravings-backend/config"
	"github.com/cravings-app/cravings-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// Counter is a fixed-window request counter backed by Redis.
type Counter struct {
	rdb    *redis.Client
	prefix string
}

func NewCounter(rdb *redis.Client, prefix string) *Counter {
	return &Counter{rdb: rdb, prefix: prefix}
}

// incrWindowScript bumps the counter and sets the window TTL whenever the key has none,
// so a key can never outlive its window.
var incrWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Incr bumps the counter for key in the current window and returns the new count.
// The window starts on the first hit and the key expires with it.
func (c *Counter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return incrWindowScript.Run(ctx, c.rdb, []string{c.prefix + key}, window.Milliseconds()).Int64()
}

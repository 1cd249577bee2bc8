package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	config "github.com/thirdweb-dev/blob-indexer/configs"
	"github.com/thirdweb-dev/blob-indexer/internal/common"
)

const DEFAULT_REDIS_CURSOR_KEY = "blob-indexer:cursor"

// redisKV is the subset of *redis.Client the cursor needs.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisCursor keeps the cursor in a single Redis key instead of {root}/index.
type RedisCursor struct {
	client redisKV
	key    string
}

func NewRedisCursor(cfg *config.RedisConfig) (*RedisCursor, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = DEFAULT_REDIS_CURSOR_KEY
	}

	log.Info().Str("addr", cfg.Addr).Str("key", key).Msg("Connected to Redis cursor storage")
	return newRedisCursorWithClient(client, key), nil
}

func newRedisCursorWithClient(client redisKV, key string) *RedisCursor {
	return &RedisCursor{client: client, key: key}
}

func (r *RedisCursor) Load(ctx context.Context) (uint64, error) {
	value, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return InitialHeight, nil
		}
		return 0, fmt.Errorf("%w: read cursor %s: %v", common.ErrIO, r.key, err)
	}
	return parseHeight(value)
}

func (r *RedisCursor) Save(ctx context.Context, height uint64) error {
	if err := r.client.Set(ctx, r.key, strconv.FormatUint(height, 10), 0).Err(); err != nil {
		return fmt.Errorf("%w: write cursor %s: %v", common.ErrIO, r.key, err)
	}
	return nil
}

func (r *RedisCursor) Close() error {
	return r.client.Close()
}

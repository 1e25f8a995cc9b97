package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	entitlementsKeyPrefix = "entitlements:"
	generationKeyPrefix   = "entitlement_gen:"
	defaultCacheTTL       = 10 * time.Minute
)

var errStaleGeneration = errors.New("entitlement generation changed")

// RedisEntitlementCache caches the full entitlement list per buyer.
type RedisEntitlementCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisEntitlementCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisEntitlementCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &RedisEntitlementCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisEntitlementCache) Get(ctx context.Context, buyerID string) ([]*model.Entitlement, bool, error) {
	data, err := c.client.Get(ctx, entitlementsKeyPrefix+buyerID).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Cache miss", zap.String("buyer_id", buyerID))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var list []*model.Entitlement
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return list, true, nil
}

// Generation returns the buyer's invalidation counter, zero if never invalidated.
// The counter has no TTL so it survives list expiry.
func (c *RedisEntitlementCache) Generation(ctx context.Context, buyerID string) (int64, error) {
	gen, err := readGeneration(ctx, c.client, buyerID)
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return gen, nil
}

// Set writes list under WATCH of the generation key, so an Invalidate that lands
// after gen was read, or between the check and EXEC, discards the write.
func (c *RedisEntitlementCache) Set(ctx context.Context, buyerID string, gen int64, list []*model.Entitlement) (bool, error) {
	if list == nil {
		list = []*model.Entitlement{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return false, fmt.Errorf("cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, buyerID)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, entitlementsKeyPrefix+buyerID, data, c.ttl)
			return nil
		})
		return err
	}, generationKeyPrefix+buyerID)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Skipped stale cache write",
			zap.String("buyer_id", buyerID),
			zap.Int64("generation", gen))
		return false, nil
	default:
		return false, fmt.Errorf("cache set: %w", err)
	}
}

// Invalidate bumps the generation and drops the cached list in one MULTI.
func (c *RedisEntitlementCache) Invalidate(ctx context.Context, buyerID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKeyPrefix+buyerID)
		pipe.Del(ctx, entitlementsKeyPrefix+buyerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// stringGetter is satisfied by both the client and a WATCH transaction.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, r stringGetter, buyerID string) (int64, error) {
	gen, err := r.Get(ctx, generationKeyPrefix+buyerID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// NoopEntitlementCache always misses. Used when Redis is not configured.
type NoopEntitlementCache struct{}

var (
	_ provider.EntitlementCache = (*RedisEntitlementCache)(nil)
	_ provider.EntitlementCache = NoopEntitlementCache{}
)

func (NoopEntitlementCache) Get(context.Context, string) ([]*model.Entitlement, bool, error) {
	return nil, false, nil
}
func (NoopEntitlementCache) Generation(context.Context, string) (int64, error) { return 0, nil }
func (NoopEntitlementCache) Set(context.Context, string, int64, []*model.Entitlement) (bool, error) {
	return false, nil
}
func (NoopEntitlementCache) Invalidate(context.Context, string) error { return nil }

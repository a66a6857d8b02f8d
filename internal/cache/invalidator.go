package cache

import (
	"context"
	"fmt"

	"bazaar-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Listing paths mutations report as stale.
const (
	PathProductList      = "products"
	PathProductApprovals = "product-approvals"
	PathStoreApprovals   = "store-approvals"
	PathOrderList        = "orders"
)

// Invalidator signals the external view cache that listing paths are stale.
// Failures are logged and swallowed; the core does not itself cache.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

type redisInvalidator struct {
	client *redis.Client
}

func NewRedisInvalidator(addr string) Invalidator {
	return &redisInvalidator{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *redisInvalidator) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}

	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, ListingKey(p))
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromCtx(ctx).Warn("cache invalidation failed",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

func ListingKey(path string) string {
	return fmt.Sprintf("listing:%s", path)
}

// NoopInvalidator is used when no redis address is configured.
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(ctx context.Context, paths ...string) {}

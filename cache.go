package sqlpage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RichardKnop/sqlpage/pkg/lrucache"
)

const (
	DefaultMaxCachedStatements = 1000
	DefaultRedisPrefix         = "sqlpage:ms:"
)

// StatementCache memoizes derived count statements by fingerprint. Entries
// are interchangeable with a fresh derivation, so implementations are free
// to evict, expire or lose them, and concurrent puts for one key may race.
type StatementCache interface {
	Get(ctx context.Context, key string) (*MappedStatement, bool)
	Put(ctx context.Context, key string, ms *MappedStatement)
}

// LRUStatementCache keeps statements in memory. A non positive size makes
// it unbounded.
type LRUStatementCache struct {
	entries *lrucache.Cache[string, *MappedStatement]
}

func NewLRUStatementCache(maxSize int) *LRUStatementCache {
	return &LRUStatementCache{
		entries: lrucache.New[string, *MappedStatement](maxSize),
	}
}

func (c *LRUStatementCache) Get(ctx context.Context, key string) (*MappedStatement, bool) {
	return c.entries.Get(key)
}

func (c *LRUStatementCache) Put(ctx context.Context, key string, ms *MappedStatement) {
	c.entries.Put(key, ms)
}

func (c *LRUStatementCache) Len() int {
	return c.entries.Len()
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStatementCache shares count statements between processes. Statements
// are stored as JSON, a zero TTL keeps them forever. Redis failures are
// logged and reported as cache misses.
type RedisStatementCache struct {
	rc     redisClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStatementCache(rc redis.UniversalClient, prefix string, ttl time.Duration, logger *zap.Logger) *RedisStatementCache {
	return newRedisStatementCache(rc, prefix, ttl, logger)
}

func newRedisStatementCache(rc redisClient, prefix string, ttl time.Duration, logger *zap.Logger) *RedisStatementCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStatementCache{
		rc:     rc,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisStatementCache) Get(ctx context.Context, key string) (*MappedStatement, bool) {
	data, err := c.rc.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Sugar().With("key", key, "error", err).Warn("failed to read cached statement")
		}
		return nil, false
	}

	ms := new(MappedStatement)
	if err := json.Unmarshal(data, ms); err != nil {
		c.logger.Sugar().With("key", key, "error", err).Warn("failed to decode cached statement")
		return nil, false
	}
	return ms, true
}

func (c *RedisStatementCache) Put(ctx context.Context, key string, ms *MappedStatement) {
	data, err := json.Marshal(ms)
	if err != nil {
		c.logger.Sugar().With("key", key, "error", err).Warn("failed to encode statement")
		return
	}
	if err := c.rc.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Sugar().With("key", key, "error", err).Warn("failed to cache statement")
	}
}

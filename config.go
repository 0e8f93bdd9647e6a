package sqlpage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	CacheLRU   = "lru"
	CacheRedis = "redis"
)

// Config holds everything resolved once when an interceptor is set up.
type Config struct {
	Dialect         string        // Dialect name or driver alias (default: generic)
	StrictDialect   bool          // Fail on unknown dialect names instead of using generic
	DefaultPageSize int           // Page size for pages requested without one (default: 10)
	Cache           string        // Count statement cache backend: lru or redis (default: lru)
	CacheSize       int           // Max cached count statements for lru, 0 = unbounded (default: 1000)
	RedisAddr       string        // Redis address for the redis backend
	RedisPrefix     string        // Key prefix for the redis backend
	RedisTTL        time.Duration // Expiry of redis entries, 0 = never
}

func DefaultConfig() *Config {
	return &Config{
		Dialect:         string(Generic),
		DefaultPageSize: DefaultPageSize,
		Cache:           CacheLRU,
		CacheSize:       DefaultMaxCachedStatements,
		RedisAddr:       "localhost:6379",
		RedisPrefix:     DefaultRedisPrefix,
	}
}

// ParseOptions reads the recognised options map, unknown keys are ignored.
//
// Supported options:
//   - dialect=generic|sqlite|postgres|mysql|oracle|sqlserver (and driver aliases)
//   - strictDialect=true|false
//   - defaultPageSize=<positive int>
//   - cache=lru|redis
//   - cacheSize=<non negative int>
//   - redisAddr=<host:port>
//   - redisPrefix=<string>
//   - redisTTL=<duration, e.g. 10m>
func ParseOptions(options map[string]string) (*Config, error) {
	config := DefaultConfig()

	if dialect, ok := options["dialect"]; ok && strings.TrimSpace(dialect) != "" {
		config.Dialect = strings.TrimSpace(dialect)
	}

	if strictStr, ok := options["strictDialect"]; ok && strictStr != "" {
		strict, err := strconv.ParseBool(strictStr)
		if err != nil {
			return nil, fmt.Errorf("invalid strictDialect option: must be 'true' or 'false', got %q", strictStr)
		}
		config.StrictDialect = strict
	}

	if sizeStr, ok := options["defaultPageSize"]; ok && sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return nil, fmt.Errorf("invalid defaultPageSize option: must be a positive integer, got %q", sizeStr)
		}
		config.DefaultPageSize = size
	}

	if backend, ok := options["cache"]; ok && backend != "" {
		backend = strings.ToLower(backend)
		switch backend {
		case CacheLRU, CacheRedis:
			config.Cache = backend
		default:
			return nil, fmt.Errorf("invalid cache option: must be 'lru' or 'redis', got %q", backend)
		}
	}

	if sizeStr, ok := options["cacheSize"]; ok && sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid cacheSize option: must be an integer, got %q", sizeStr)
		}
		if size < 0 {
			return nil, fmt.Errorf("invalid cacheSize option: must be non-negative, got %d", size)
		}
		config.CacheSize = size
	}

	if addr, ok := options["redisAddr"]; ok && addr != "" {
		config.RedisAddr = addr
	}
	if prefix, ok := options["redisPrefix"]; ok && prefix != "" {
		config.RedisPrefix = prefix
	}

	if ttlStr, ok := options["redisTTL"]; ok && ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil || ttl < 0 {
			return nil, fmt.Errorf("invalid redisTTL option: must be a non-negative duration, got %q", ttlStr)
		}
		config.RedisTTL = ttl
	}

	return config, nil
}

// LoadConfig reads options from the "paging" section of a configuration
// file. Environment variables such as SQLPAGE_PAGING_DIALECT take precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("sqlpage")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return configFromViper(v)
}

var optionKeys = []string{
	"dialect",
	"strictDialect",
	"defaultPageSize",
	"cache",
	"cacheSize",
	"redisAddr",
	"redisPrefix",
	"redisTTL",
}

func configFromViper(v *viper.Viper) (*Config, error) {
	options := make(map[string]string, len(optionKeys))
	for _, key := range optionKeys {
		path := "paging." + key
		if v.IsSet(path) {
			options[key] = v.GetString(path)
		}
	}
	return ParseOptions(options)
}

func (c *Config) statementCache(logger *zap.Logger) StatementCache {
	if c.Cache == CacheRedis {
		rc := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		return NewRedisStatementCache(rc, c.RedisPrefix, c.RedisTTL, logger)
	}
	return NewLRUStatementCache(c.CacheSize)
}

// New resolves the configuration into an interceptor. Options override what
// the configuration provides.
func New(config *Config, opts ...Option) (*Interceptor, error) {
	if config == nil {
		config = DefaultConfig()
	}

	aDialect, err := LookupDialect(config.Dialect, config.StrictDialect)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{WithDefaultPageSize(config.DefaultPageSize)}, opts...)
	i := newInterceptor(aDialect, opts...)

	if _, known := ParseFlavor(config.Dialect); !known && strings.TrimSpace(config.Dialect) != "" {
		i.logger.Sugar().With(
			"dialect", config.Dialect,
			"fallback", aDialect.Name(),
		).Warn("unknown dialect, using fallback")
	}

	if i.cache == nil {
		i.cache = config.statementCache(i.logger)
	}

	return i, nil
}

package kvstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/wsmxd/mxdblog/pkg/infras/database"
	"github.com/wsmxd/mxdblog/pkg/logging"
)

// 支持的存储后端
const (
	BackendUpstash = "upstash"
	BackendRedis   = "redis"
	BackendMysql   = "mysql"
)

// Config 计数存储配置，由调用方在启动时组装后传入
type Config struct {
	Backend  string
	Timeout  time.Duration
	CacheTTL time.Duration

	Upstash UpstashConfig
	Redis   RedisConfig
	Mysql   database.Config
}

// NewBackend 根据配置创建存储后端；
// upstash 未配置凭证、redis 暂时连不上都不会报错，而是在调用时返回 ErrStoreUnavailable
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	logger := logging.GetSystemLogger()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch cfg.Backend {
	case BackendUpstash, "":
		if !cfg.Upstash.Configured() {
			logger.Warn("kv store: upstash url or token not configured, read counting is disabled")
		}
		return NewUpstashBackend(cfg.Upstash, nil), nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		if err := client.Ping(pCtx).Err(); err != nil {
			logger.Warnf("kv store: redis %s not reachable yet: %s", cfg.Redis.Addr, err)
		}
		return NewRedisBackend(client), nil

	case BackendMysql:
		db, err := database.NewClient(ctx, cfg.Mysql)
		if err != nil {
			return nil, err
		}
		return NewGormBackend(db), nil

	default:
		return nil, errors.Errorf("invalid kv backend %s", cfg.Backend)
	}
}

// New 根据配置创建计数存储客户端
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithTimeout(cfg.Timeout), WithCacheTTL(cfg.CacheTTL)}, opts...)
	return NewClient(backend, opts...), nil
}

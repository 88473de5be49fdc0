// Package kvstore 阅读计数存储客户端：对远端 kv 服务的 incr / get / mget 三个操作做一层薄封装，
// 超时控制、错误归类、读缓存与监控指标都收敛在 Client 中，具体存储由 Backend 实现
package kvstore

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/wsmxd/mxdblog/pkg/logging"
)

var (
	// ErrStoreUnavailable 存储不可用：未配置凭证、连接失败或超时
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStore 存储返回了非成功响应
	ErrStore = errors.New("store error")
)

const (
	defaultTimeout  = 3 * time.Second
	defaultCacheTTL = time.Minute
)

// Backend 远端 kv 存储，IncrBy 必须是原子操作
type Backend interface {
	// Name 后端名称，用于日志与指标
	Name() string
	// IncrBy 增加 key 的值并返回增加后的值
	IncrBy(ctx context.Context, key string, amount int64) (int64, error)
	// Get 获取 key 的值，found 为 false 表示 key 从未设置
	Get(ctx context.Context, key string) (value int64, found bool, err error)
	// MGet 批量获取，结果顺序与 keys 一致，不存在的 key 为 0
	MGet(ctx context.Context, keys []string) ([]int64, error)
	// Close 释放连接
	Close() error
}

// Client 计数存储客户端
type Client struct {
	backend Backend
	timeout time.Duration

	cacheTTL time.Duration
	cache    *ttlcache.Cache[string, int64]
	cacheMu  sync.Mutex
	// 同一 key 并发回源时只发起一次请求
	group singleflight.Group

	registerer prometheus.Registerer
	metrics    *metrics
	logger     *logrus.Logger
}

// Option ...
type Option func(*Client)

// WithTimeout 设置单次存储调用超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithCacheTTL 设置读缓存有效期，<= 0 表示关闭缓存
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithRegisterer 设置指标注册器
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(c *Client) {
		c.registerer = registerer
	}
}

// WithLogger ...
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient ...
func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{
		backend:  backend,
		timeout:  defaultTimeout,
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.GetKVLogger()
	}
	c.metrics = newMetrics(c.registerer)

	if c.cacheTTL > 0 {
		c.cache = ttlcache.New[string, int64](
			ttlcache.WithTTL[string, int64](c.cacheTTL),
			// 命中缓存不延长有效期，保证读到的值最多滞后 cacheTTL
			ttlcache.WithDisableTouchOnHit[string, int64](),
		)
		go c.cache.Start()
	}
	return c
}

// Backend 获取底层存储名称
func (c *Client) Backend() string {
	return c.backend.Name()
}

// Incr 增加计数并返回增加后的值，成功后刷新读缓存
func (c *Client) Incr(ctx context.Context, key string, amount int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	value, err := c.backend.IncrBy(ctx, key, amount)
	if err = c.observe(opIncr, key, start, err); err != nil {
		return 0, err
	}

	c.setCache(key, value)
	return value, nil
}

// Get 获取计数，key 未设置时返回 0；优先读取缓存
func (c *Client) Get(ctx context.Context, key string) (int64, error) {
	if c.cache != nil {
		if item := c.cache.Get(key); item != nil {
			c.metrics.cache.WithLabelValues(cacheHit).Inc()
			return item.Value(), nil
		}
		c.metrics.cache.WithLabelValues(cacheMiss).Inc()
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// 同一次回源被多个请求共享，不随首个调用方取消
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		start := time.Now()
		value, _, err := c.backend.Get(ctx, key)
		if err = c.observe(opGet, key, start, err); err != nil {
			return int64(0), err
		}
		c.setCache(key, value)
		return value, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(int64), nil
}

// MGet 批量获取计数，顺序与 keys 一致；keys 为空时不访问存储
func (c *Client) MGet(ctx context.Context, keys []string) ([]int64, error) {
	if len(keys) == 0 {
		return []int64{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	values, err := c.backend.MGet(ctx, keys)
	if err == nil && len(values) != len(keys) {
		err = errors.Wrapf(ErrStore, "mget returned %d values for %d keys", len(values), len(keys))
	}
	if err = c.observe(opMGet, "", start, err); err != nil {
		return nil, err
	}

	for idx, key := range keys {
		c.setCache(key, values[idx])
	}
	return values, nil
}

// Close 停止缓存清理并释放存储连接
func (c *Client) Close() error {
	if c.cache != nil {
		c.cache.Stop()
	}
	return c.backend.Close()
}

// 计数只增不减：缓存中已有不小于 value 的值时不覆盖，
// 避免先于并发 Incr 读到旧值的回源结果覆盖自增后的值
func (c *Client) setCache(key string, value int64) {
	if c.cache == nil {
		return
	}
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	if item := c.cache.Get(key); item != nil && item.Value() >= value {
		return
	}
	c.cache.Set(key, value, ttlcache.DefaultTTL)
}

// 归类错误并记录指标 / 日志
func (c *Client) observe(op, key string, start time.Time, err error) error {
	err = classify(err)

	result := resultOK
	switch {
	case errors.Is(err, ErrStoreUnavailable):
		result = resultUnavailable
	case err != nil:
		result = resultError
	}
	c.metrics.requests.WithLabelValues(c.backend.Name(), op, result).Inc()
	c.metrics.latency.WithLabelValues(c.backend.Name(), op).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"backend": c.backend.Name(),
			"op":      op,
			"key":     key,
		}).WithError(err).Warn("kv call failed")
	}
	return err
}

// classify 将 Backend 返回的错误统一归类为 ErrStoreUnavailable / ErrStore
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrStore) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Wrap(ErrStoreUnavailable, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errors.Wrap(ErrStoreUnavailable, err.Error())
	}
	return errors.Wrap(ErrStore, err.Error())
}

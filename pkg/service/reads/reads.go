// Package reads 阅读计数服务：记录 / 查询单篇文章阅读数，汇总全站阅读数
//
// 计数的唯一数据源是远端 kv 存储，服务本身不持有任何权威状态、也不加锁，
// 同一 slug 的并发自增由存储的原子 INCRBY 保证正确性。
package reads

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/model"
)

// KeyPrefix 阅读计数 key 前缀
const KeyPrefix = "reads:"

// MaxSlugLength slug 最大长度
const MaxSlugLength = 128

var (
	// ErrInvalidSlug slug 为空或过长
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrInvalidAmount 自增数量必须为正数
	ErrInvalidAmount = errors.New("invalid amount")
)

// Key 文章阅读计数的 key
func Key(slug string) string {
	return KeyPrefix + slug
}

// CounterStore 计数存储
type CounterStore interface {
	Incr(ctx context.Context, key string, amount int64) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
	MGet(ctx context.Context, keys []string) ([]int64, error)
}

// PostLister 文章列表来源
type PostLister interface {
	ListSlugs(ctx context.Context) ([]string, error)
}

// Service 阅读计数服务
type Service struct {
	store  CounterStore
	posts  PostLister
	logger *logrus.Logger

	registerer prometheus.Registerer
	degraded   prometheus.Counter
}

// Option ...
type Option func(*Service)

// WithLogger ...
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRegisterer 设置指标注册器
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		s.registerer = registerer
	}
}

// NewService ...
func NewService(store CounterStore, posts PostLister, opts ...Option) *Service {
	s := &Service{store: store, posts: posts}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.GetWebLogger()
	}
	s.degraded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mxdblog_stats_degraded_total",
		Help: "Times the aggregate stats were degraded to zero values",
	})
	if s.registerer != nil {
		s.registerer.MustRegister(s.degraded)
	}
	return s
}

// RecordRead 记录一次阅读，返回自增后的阅读数；只尝试一次，不做重试
func (s *Service) RecordRead(ctx context.Context, slug string, amount int64) (model.ReadCount, error) {
	slug, err := validateSlug(slug)
	if err != nil {
		return model.ReadCount{}, err
	}
	if amount <= 0 {
		return model.ReadCount{}, errors.Wrapf(ErrInvalidAmount, "amount %d", amount)
	}

	count, err := s.store.Incr(ctx, Key(slug), amount)
	if err != nil {
		return model.ReadCount{}, err
	}
	return model.ReadCount{Slug: slug, Count: count}, nil
}

// GetRead 查询阅读数，从未记录过的文章返回 0
func (s *Service) GetRead(ctx context.Context, slug string) (model.ReadCount, error) {
	slug, err := validateSlug(slug)
	if err != nil {
		return model.ReadCount{}, err
	}

	count, err := s.store.Get(ctx, Key(slug))
	if err != nil {
		return model.ReadCount{}, err
	}
	return model.ReadCount{Slug: slug, Count: count}, nil
}

// GetStats 汇总所有文章的阅读数；任何失败都降级为空数据，保证列表页可以正常渲染
func (s *Service) GetStats(ctx context.Context) model.Stats {
	stats, err := s.collectStats(ctx)
	if err != nil {
		s.degraded.Inc()
		s.logger.WithError(err).Warn("stats degraded to zero values")
		return model.EmptyStats()
	}
	return stats
}

func (s *Service) collectStats(ctx context.Context) (model.Stats, error) {
	slugs, err := s.posts.ListSlugs(ctx)
	if err != nil {
		return model.Stats{}, errors.Wrap(err, "list posts")
	}

	values, err := s.store.MGet(ctx, lo.Map(slugs, func(slug string, _ int) string {
		return Key(slug)
	}))
	if err != nil {
		return model.Stats{}, errors.Wrap(err, "mget read counts")
	}
	if len(values) != len(slugs) {
		return model.Stats{}, errors.Errorf("got %d read counts for %d posts", len(values), len(slugs))
	}

	perPost := make(map[string]int64, len(slugs))
	for idx, slug := range slugs {
		perPost[slug] = values[idx]
	}
	return model.Stats{
		PostsCount: len(slugs),
		TotalReads: lo.Sum(values),
		PerPost:    perPost,
	}, nil
}

func validateSlug(slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", errors.Wrap(ErrInvalidSlug, "slug is required")
	}
	if len(slug) > MaxSlugLength {
		return "", errors.Wrapf(ErrInvalidSlug, "slug is longer than %d", MaxSlugLength)
	}
	return slug, nil
}

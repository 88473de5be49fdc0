// Package tracker 客户端阅读上报去重：同一篇文章在冷却期（默认 24h）内只上报一次。
//
// 去重标记保存在本地，清理本地数据、换设备或禁用持久化都会导致重复计数；
// 这只是减少重复请求的尽力而为策略，不保证精确计数。
package tracker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/wsmxd/mxdblog/pkg/logging"
)

const (
	// MarkerPrefix 去重标记 key 前缀
	MarkerPrefix = "mxdblog:read:"
	// DefaultCooldown 默认冷却期
	DefaultCooldown = 24 * time.Hour

	defaultSendTimeout = 5 * time.Second
)

// MarkerKey 文章的去重标记 key
func MarkerKey(slug string) string {
	return MarkerPrefix + slug
}

// Tracker 阅读上报器
type Tracker struct {
	sender   Sender
	markers  MarkerStore
	cooldown time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   logrus.FieldLogger

	wg    sync.WaitGroup
	group singleflight.Group
}

// Option ...
type Option func(*Tracker)

// WithCooldown ...
func WithCooldown(cooldown time.Duration) Option {
	return func(t *Tracker) {
		t.cooldown = cooldown
	}
}

// WithSendTimeout 单次上报超时
func WithSendTimeout(timeout time.Duration) Option {
	return func(t *Tracker) {
		t.timeout = timeout
	}
}

// WithClock ...
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger ...
func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// New ...
func New(sender Sender, markers MarkerStore, opts ...Option) *Tracker {
	t := &Tracker{
		sender:   sender,
		markers:  markers,
		cooldown: DefaultCooldown,
		timeout:  defaultSendTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logging.GetSystemLogger()
	}
	return t
}

// Track 处理一次文章浏览，冷却期内已上报过则跳过；
// 需要上报时在后台发送，不等待结果，返回值表示是否发起了上报
func (t *Tracker) Track(slug string) bool {
	if slug == "" {
		return false
	}

	viewedAt := t.now()
	key := MarkerKey(slug)
	if t.counted(key, viewedAt) {
		return false
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		// 同一篇文章并发浏览只发送一次
		_, _, _ = t.group.Do(key, func() (any, error) {
			// 排队期间其他上报可能已经成功
			if !t.counted(key, viewedAt) {
				t.send(slug, key, viewedAt)
			}
			return nil, nil
		})
	}()
	return true
}

// Wait 等待所有后台上报结束
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// 上报成功才写入标记，失败则等下次浏览重试；错误不向调用方传递
func (t *Tracker) send(slug, key string, viewedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	logger := t.logger.WithField("slug", slug)
	if err := t.sender.SendRead(ctx, slug, 1); err != nil {
		logger.WithError(err).Debug("send read failed, will retry on next view")
		return
	}
	if err := t.markers.Set(key, strconv.FormatInt(viewedAt.UnixMilli(), 10)); err != nil {
		logger.WithError(err).Debug("save read marker failed")
	}
}

// 标记存在且距今不足冷却期，视为已计数；标记时间超前（时钟回拨）同样按冷却期判断
func (t *Tracker) counted(key string, now time.Time) bool {
	raw, ok, err := t.markers.Get(key)
	if err != nil {
		t.logger.WithError(err).Debug("read marker failed")
		return false
	}
	if !ok {
		return false
	}
	sentAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.UnixMilli(sentAt))
	return age > -t.cooldown && age < t.cooldown
}

package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wsmxd/mxdblog/pkg/loader"
	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/model"
)

// 文件变更后等待一段时间再重新加载，合并编辑器保存时产生的多次事件
const reloadDebounce = 300 * time.Millisecond

// PostStore 博客文章存储，数据来自 markdown 目录，支持热加载
type PostStore struct {
	dir    string
	logger *logrus.Logger

	mu   sync.RWMutex
	data *model.BlogData
}

// NewPostStore 加载目录下的文章
func NewPostStore(dir string) (*PostStore, error) {
	s := &PostStore{dir: dir, logger: logging.GetSystemLogger()}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 重新加载文章；失败时保留原有数据
func (s *PostStore) Reload() error {
	data, err := loader.New(s.dir).Exec()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Data 当前博客数据（只读）
func (s *PostStore) Data() *model.BlogData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// ListPosts 文章列表（不含正文），category / tag 为空表示不过滤
func (s *PostStore) ListPosts(category, tag string) model.Posts {
	posts := s.Data().Posts
	if category != "" {
		posts = posts.FilterByCategory(category)
	}
	if tag != "" {
		posts = posts.FilterByTag(tag)
	}
	return posts.WithoutContent()
}

// GetPost 根据 slug 获取文章，不存在时返回 nil
func (s *PostStore) GetPost(slug string) *model.Post {
	return s.Data().Posts.GetBySlug(slug)
}

// ListSlugs 所有文章的 slug
func (s *PostStore) ListSlugs(_ context.Context) ([]string, error) {
	return s.Data().Posts.Slugs(), nil
}

// Watch 监听文章目录变更并热加载，阻塞直到 ctx 结束；目录不存在时仅等待 ctx 结束
func (s *PostStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create posts watcher")
	}
	defer watcher.Close()

	if err = watcher.Add(s.dir); err != nil {
		s.logger.Warnf("posts dir %s not watched: %s", s.dir, err)
		<-ctx.Done()
		return nil
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, loader.PostExt) || event.Has(fsnotify.Chmod) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				s.reloadWithLog(filepath.Base(event.Name))
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warnf("posts watcher error: %s", err)
		}
	}
}

func (s *PostStore) reloadWithLog(trigger string) {
	if err := s.Reload(); err != nil {
		s.logger.WithError(err).Errorf("failed to reload posts (triggered by %s)", trigger)
		return
	}
	s.logger.Infof("posts reloaded (triggered by %s), %d posts", trigger, len(s.Data().Posts))
}

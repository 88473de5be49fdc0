package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, dir, slug, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".md"), []byte(content), 0o644))
}

func TestPostStore(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a", "---\ntitle: A\ndate: 2024-01-01\ncategory: go\n---\nbody a")
	writePost(t, dir, "b", "---\ntitle: B\ndate: 2024-02-01\ncategory: life\n---\nbody b")

	store, err := NewPostStore(dir)
	require.NoError(t, err)

	slugs, err := store.ListSlugs(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugs)

	posts := store.ListPosts("go", "")
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].Slug)
	assert.Empty(t, posts[0].Content)
	assert.Len(t, store.ListPosts("", ""), 2)

	post := store.GetPost("a")
	require.NotNil(t, post)
	assert.Equal(t, "body a", post.Content)
	assert.Nil(t, store.GetPost("c"))
}

func TestPostStore_Reload(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a", "---\ntitle: A\n---\n")

	store, err := NewPostStore(dir)
	require.NoError(t, err)

	writePost(t, dir, "b", "---\ntitle: B\n---\n")
	require.NoError(t, store.Reload())
	assert.Len(t, store.Data().Posts, 2)

	// 格式错误的文章被跳过，其余文章照常加载
	writePost(t, dir, "broken", "---\ntitle: [x\n---\n")
	writePost(t, dir, "c", "---\ntitle: C\n---\n")
	require.NoError(t, store.Reload())
	assert.Len(t, store.Data().Posts, 3)
	assert.Nil(t, store.GetPost("broken"))
}

func TestPostStore_ReloadFailureKeepsData(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a", "---\ntitle: A\n---\n")
	store, err := NewPostStore(dir)
	require.NoError(t, err)

	// 目录无法读取时保留原有数据
	store.dir = filepath.Join(dir, "a.md")
	assert.Error(t, store.Reload())
	assert.Len(t, store.Data().Posts, 1)
}

func TestPostStore_Watch(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPostStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()

	// 等待 watcher 启动后再写入
	time.Sleep(100 * time.Millisecond)
	writePost(t, dir, "new-post", "---\ntitle: New\n---\n")

	assert.Eventually(t, func() bool {
		return store.GetPost("new-post") != nil
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestPostStore_WatchMissingDir(t *testing.T) {
	store, err := NewPostStore(filepath.Join(t.TempDir(), "not-exists"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, store.Watch(ctx))
}

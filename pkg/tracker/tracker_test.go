package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSender struct {
	mu    sync.Mutex
	calls []string
	err   error
	// 非 nil 时阻塞直到 channel 关闭
	release chan struct{}
}

func (s *fakeSender) SendRead(_ context.Context, slug string, _ int64) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, slug)
	return s.err
}

func (s *fakeSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestTracker(sender Sender, markers MarkerStore, clock *fakeClock) *Tracker {
	logger, _ := test.NewNullLogger()
	return New(sender, markers, WithClock(clock.Now), WithLogger(logger))
}

func TestTracker_Cooldown(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	sender := &fakeSender{}
	markers := NewMemoryMarkerStore()
	tracker := newTestTracker(sender, markers, clock)

	// 首次浏览：上报并写入标记
	assert.True(t, tracker.Track("post-a"))
	tracker.Wait()
	assert.Equal(t, 1, sender.callCount())
	marker, ok, _ := markers.Get(MarkerKey("post-a"))
	require.True(t, ok)
	assert.Equal(t, strconv.FormatInt(clock.Now().UnixMilli(), 10), marker)

	// 1 秒后再次浏览：冷却期内不上报
	clock.Advance(time.Second)
	assert.False(t, tracker.Track("post-a"))
	tracker.Wait()
	assert.Equal(t, 1, sender.callCount())

	// 其他文章不受影响
	assert.True(t, tracker.Track("post-b"))
	tracker.Wait()
	assert.Equal(t, 2, sender.callCount())

	// 25 小时后：冷却期已过，再次上报
	clock.Advance(25 * time.Hour)
	assert.True(t, tracker.Track("post-a"))
	tracker.Wait()
	assert.Equal(t, 3, sender.callCount())
}

func TestTracker_RetryAfterFailure(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	sender := &fakeSender{err: errors.New("network down")}
	markers := NewMemoryMarkerStore()
	tracker := newTestTracker(sender, markers, clock)

	assert.True(t, tracker.Track("post-a"))
	tracker.Wait()
	_, ok, _ := markers.Get(MarkerKey("post-a"))
	assert.False(t, ok)

	// 上报失败不写标记，下次浏览重试
	sender.err = nil
	clock.Advance(time.Second)
	assert.True(t, tracker.Track("post-a"))
	tracker.Wait()
	_, ok, _ = markers.Get(MarkerKey("post-a"))
	assert.True(t, ok)
	assert.Equal(t, 2, sender.callCount())
}

func TestTracker_InvalidMarker(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	markers := NewMemoryMarkerStore()
	testCases := []struct {
		desc   string
		marker string
		want   bool
	}{
		{desc: "not a number", marker: "abc", want: true},
		{desc: "far in the future", marker: strconv.FormatInt(clock.Now().Add(48*time.Hour).UnixMilli(), 10), want: true},
		{desc: "slightly in the future", marker: strconv.FormatInt(clock.Now().Add(time.Minute).UnixMilli(), 10), want: false},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			sender := &fakeSender{}
			tracker := newTestTracker(sender, markers, clock)
			require.NoError(t, markers.Set(MarkerKey("post-a"), tC.marker))

			assert.Equal(t, tC.want, tracker.Track("post-a"))
			tracker.Wait()
		})
	}
}

func TestTracker_EmptySlug(t *testing.T) {
	sender := &fakeSender{}
	tracker := newTestTracker(sender, NewMemoryMarkerStore(), &fakeClock{now: time.Now()})

	assert.False(t, tracker.Track(""))
	tracker.Wait()
	assert.Equal(t, 0, sender.callCount())
}

func TestTracker_FireAndForget(t *testing.T) {
	sender := &fakeSender{release: make(chan struct{})}
	tracker := newTestTracker(sender, NewMemoryMarkerStore(), &fakeClock{now: time.Now()})

	// 上报阻塞时 Track 立即返回
	done := make(chan struct{})
	go func() {
		tracker.Track("post-a")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Track blocked on sending")
	}

	close(sender.release)
	tracker.Wait()
	assert.Equal(t, 1, sender.callCount())
}

func TestTracker_ConcurrentViews(t *testing.T) {
	sender := &fakeSender{release: make(chan struct{})}
	tracker := newTestTracker(sender, NewMemoryMarkerStore(), &fakeClock{now: time.Now()})

	for i := 0; i < 10; i++ {
		tracker.Track("post-a")
	}
	close(sender.release)
	tracker.Wait()

	assert.Equal(t, 1, sender.callCount())
}

func TestHTTPSender(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
		gotBody readRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.EscapedPath()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		mu.Unlock()
		if r.URL.Path == "/reads/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"slug":"post-a","count":1}`))
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL+"/", server.Client())
	ctx := context.Background()

	assert.NoError(t, sender.SendRead(ctx, "post a", 1))
	mu.Lock()
	assert.Equal(t, "/reads/post%20a", gotPath)
	assert.Equal(t, int64(1), gotBody.Count)
	mu.Unlock()

	assert.Error(t, sender.SendRead(ctx, "broken", 1))
}

func TestFileMarkerStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "markers.json")

	store := NewFileMarkerStore(path)
	_, ok, err := store.Get("k")
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("k", "1"))
	require.NoError(t, store.Set("j", "2"))

	// 新实例可以读到之前写入的标记
	reopened := NewFileMarkerStore(path)
	value, ok, err := reopened.Get("k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	// 文件损坏：读取报错，写入时覆盖
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	_, _, err = reopened.Get("k")
	assert.Error(t, err)
	require.NoError(t, reopened.Set("k", "3"))
	value, ok, err = reopened.Get("k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", value)
}

func TestTracker_WithFileMarkerStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.json")
	clock := &fakeClock{now: time.Now()}
	sender := &fakeSender{}

	first := newTestTracker(sender, NewFileMarkerStore(path), clock)
	assert.True(t, first.Track("post-a"))
	first.Wait()

	// 标记持久化后，重新创建的 Tracker 依然去重
	second := newTestTracker(sender, NewFileMarkerStore(path), clock)
	assert.False(t, second.Track("post-a"))
	assert.Equal(t, 1, sender.callCount())
}

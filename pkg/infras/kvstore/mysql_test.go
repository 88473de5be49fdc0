package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wsmxd/mxdblog/pkg/model"
)

// 使用 sqlite 文件库验证 upsert 语义（gorm 会按方言生成 ON CONFLICT / ON DUPLICATE KEY）
func newTestGormBackend(t *testing.T) *GormBackend {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reads.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ReadCounter{}))
	return NewGormBackend(db)
}

func TestGormBackend(t *testing.T) {
	backend := newTestGormBackend(t)
	defer backend.Close()
	ctx := context.Background()

	value, err := backend.IncrBy(ctx, "reads:hello-world", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
	_, err = backend.IncrBy(ctx, "reads:hello-world", 1)
	require.NoError(t, err)
	value, err = backend.IncrBy(ctx, "reads:hello-world", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), value)

	value, found, err := backend.Get(ctx, "reads:hello-world")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(3), value)

	_, found, err = backend.Get(ctx, "reads:unknown")
	assert.NoError(t, err)
	assert.False(t, found)

	_, err = backend.IncrBy(ctx, "reads:a", 5)
	require.NoError(t, err)
	values, err := backend.MGet(ctx, []string{"reads:unknown", "reads:a", "reads:hello-world"})
	assert.NoError(t, err)
	assert.Equal(t, []int64{0, 5, 3}, values)
}

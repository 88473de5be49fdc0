package migration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wsmxd/mxdblog/pkg/infras/database"
	"github.com/wsmxd/mxdblog/pkg/model"
)

func TestRunMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")), &gorm.Config{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, database.RunMigrate(ctx, db, ""))
	assert.True(t, db.Migrator().HasTable(&model.ReadCounter{}))

	version, err := database.Version(ctx, db)
	assert.NoError(t, err)
	assert.Equal(t, "20251014_101500", version)

	// 重复执行不报错
	assert.NoError(t, database.RunMigrate(ctx, db, ""))
}

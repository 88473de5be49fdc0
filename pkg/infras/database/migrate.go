package database

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// 迁移 ID 格式，按字典序即时间序
const migrationIDLayout = "20060102_150405"

type migrationSet struct {
	mu      sync.Mutex
	mapping map[string]*gormigrate.Migration
}

func (s *migrationSet) register(m *gormigrate.Migration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m == nil || m.ID == "" {
		return errors.New("migration id is required")
	}
	if _, ok := s.mapping[m.ID]; ok {
		return errors.Errorf("migration %s already registered", m.ID)
	}
	s.mapping[m.ID] = m
	return nil
}

// 按 ID 升序返回
func (s *migrationSet) sorted() []*gormigrate.Migration {
	s.mu.Lock()
	defer s.mu.Unlock()

	migrations := make([]*gormigrate.Migration, 0, len(s.mapping))
	for _, m := range s.mapping {
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})
	return migrations
}

var (
	migSet         *migrationSet
	migSetInitOnce sync.Once
)

// 初始化数据库迁移集
func getMigrationSet() *migrationSet {
	migSetInitOnce.Do(func() {
		migSet = &migrationSet{
			mapping: map[string]*gormigrate.Migration{},
		}
	})
	return migSet
}

// RegisterMigration 注册迁移文件
func RegisterMigration(m *gormigrate.Migration) {
	if err := getMigrationSet().register(m); err != nil {
		log.Fatalf("failed to register migration: %s", err)
	}
}

// GenMigrationID 生成迁移 ID
func GenMigrationID() string {
	return time.Now().Format(migrationIDLayout)
}

// RunMigrate 执行迁移，migrationID 为空表示迁移到最新版本
func RunMigrate(ctx context.Context, db *gorm.DB, migrationID string) error {
	migrations := getMigrationSet().sorted()
	if len(migrations) == 0 {
		return errors.New("no migration registered")
	}

	m := gormigrate.New(db.WithContext(ctx), gormigrate.DefaultOptions, migrations)
	if migrationID == "" {
		return m.Migrate()
	}
	return m.MigrateTo(migrationID)
}

// Version 获取当前数据库版本（最后一次执行的迁移 ID）
func Version(ctx context.Context, db *gorm.DB) (string, error) {
	var version string
	err := db.WithContext(ctx).
		Table(gormigrate.DefaultOptions.TableName).
		Select(gormigrate.DefaultOptions.IDColumnName).
		Order(gormigrate.DefaultOptions.IDColumnName + " DESC").
		Limit(1).
		Scan(&version).Error
	return version, err
}

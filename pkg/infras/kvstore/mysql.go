package kvstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wsmxd/mxdblog/pkg/infras/database"
	"github.com/wsmxd/mxdblog/pkg/model"
)

// GormBackend 基于关系型数据库的计数存储，表结构见 model.ReadCounter；
// 自增通过 upsert（total = total + ?）保证原子性，并在同一事务内读回结果
type GormBackend struct {
	db *gorm.DB
}

var _ Backend = (*GormBackend)(nil)

// NewGormBackend ...
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Name ...
func (b *GormBackend) Name() string {
	return BackendMysql
}

// IncrBy ...
func (b *GormBackend) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	var counter model.ReadCounter
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		row := model.ReadCounter{Name: key, Total: amount, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total":      gorm.Expr("total + ?", amount),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", key).Take(&counter).Error
	})
	if err != nil {
		return 0, err
	}
	return counter.Total, nil
}

// Get ...
func (b *GormBackend) Get(ctx context.Context, key string) (int64, bool, error) {
	var counter model.ReadCounter
	err := b.db.WithContext(ctx).Where("name = ?", key).Take(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return counter.Total, true, nil
}

// MGet ...
func (b *GormBackend) MGet(ctx context.Context, keys []string) ([]int64, error) {
	var counters []model.ReadCounter
	if err := b.db.WithContext(ctx).Where("name IN ?", keys).Find(&counters).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(counters))
	for _, counter := range counters {
		totals[counter.Name] = counter.Total
	}
	values := make([]int64, len(keys))
	for idx, key := range keys {
		values[idx] = totals[key]
	}
	return values, nil
}

// Close ...
func (b *GormBackend) Close() error {
	return database.Close(b.db)
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wsmxd/mxdblog/pkg/logging"
)

const (
	// string 类型字段的默认长度
	defaultStringSize = 256
	// 默认批量创建数量
	defaultBatchSize = 100
	// 默认最大空闲连接
	defaultMaxIdleConns = 20
	// 默认最大连接数
	defaultMaxOpenConns = 100
	// 慢查询阈值
	slowThreshold = 200 * time.Millisecond
)

// Config 数据库配置
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Charset  string
}

// String 用于日志，不包含账号密码
func (c Config) String() string {
	return fmt.Sprintf("mysql %s:%s/%s", c.Host, c.Port, c.Database)
}

// DSN ...
func (c Config) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Charset,
	)
}

// NewClient 创建数据库客户端，连接不可用时返回错误
func NewClient(ctx context.Context, cfg Config) (*gorm.DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg)
	}
	sqlDB.SetMaxIdleConns(defaultMaxIdleConns)
	sqlDB.SetMaxOpenConns(defaultMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	cCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 检查 DB 是否可用
	if err = sqlDB.PingContext(cCtx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrapf(err, "ping %s", cfg)
	}

	mysqlCfg := mysql.Config{
		Conn:              sqlDB,
		DefaultStringSize: defaultStringSize,
	}
	client, err := gorm.Open(mysql.New(mysqlCfg), NewGormConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "init gorm for %s", cfg)
	}

	logging.GetSystemLogger().Infof("database: %s connected", cfg)
	return client, nil
}

// NewGormConfig gorm 公共配置，日志输出到 sql 日志
func NewGormConfig() *gorm.Config {
	return &gorm.Config{
		// 禁用默认事务（需要手动管理）
		SkipDefaultTransaction: true,
		// 缓存预编译语句
		PrepareStmt: true,
		// Mysql 本身即不支持嵌套事务
		DisableNestedTransaction: true,
		// 批量操作数量
		CreateBatchSize: defaultBatchSize,
		// 数据库迁移时，忽略外键约束
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormlogger.New(logging.GetSqlLogger(), gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

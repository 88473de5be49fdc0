// Package logging 日志：系统日志使用 logrus 标准 logger（文本格式），
// 其余各类日志为独立的 JSON logger，按类型分文件存储
package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wsmxd/mxdblog/pkg/envs"
)

const (
	LogTypeSystem = "system"
	// LogTypeAccess 访问日志
	LogTypeAccess = "access"
	// LogTypeWeb 接口日志（Handler / Service）
	LogTypeWeb = "web"
	// LogTypeKV 计数存储日志（kv 调用失败、统计降级等）
	LogTypeKV = "kv"
	// LogTypeSql sql 日志（KV_BACKEND=mysql 时由 gorm 使用）
	LogTypeSql = "sql"
)

var (
	initOnce sync.Once

	// 初始化完成后只读
	loggers = map[string]*logrus.Logger{}
)

// InitLogger 初始化所有日志，重复调用无副作用
func InitLogger() {
	initOnce.Do(func() {
		initSystemLogger()

		for _, logType := range []string{LogTypeAccess, LogTypeWeb, LogTypeKV, LogTypeSql} {
			loggers[logType] = newJsonLogger(logType)
		}
	})
}

func GetSystemLogger() *logrus.Logger {
	return logrus.StandardLogger()
}

func GetAccessLogger() *logrus.Logger {
	return getLogger(LogTypeAccess)
}

func GetWebLogger() *logrus.Logger {
	return getLogger(LogTypeWeb)
}

func GetKVLogger() *logrus.Logger {
	return getLogger(LogTypeKV)
}

func GetSqlLogger() *logrus.Logger {
	return getLogger(LogTypeSql)
}

// 未初始化（如单元测试）时回退到系统日志
func getLogger(logType string) *logrus.Logger {
	if logger, ok := loggers[logType]; ok {
		return logger
	}
	return GetSystemLogger()
}

func initSystemLogger() {
	writer, err := getWriter(LogTypeSystem)
	if err != nil {
		panic(err)
	}
	logrus.SetOutput(writer)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	})
	logrus.SetLevel(parseLevel(envs.LogLevel))
}

func newJsonLogger(logType string) *logrus.Logger {
	writer, err := getWriter(logType)
	if err != nil {
		panic(err)
	}

	logger := logrus.New()
	logger.SetOutput(writer)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.DateTime,
		FieldMap:        logrus.FieldMap{logrus.FieldKeyMsg: "message"},
	})
	logger.SetLevel(parseLevel(envs.LogLevel))
	return logger
}

// 非法的日志等级统一降级为 info
func parseLevel(raw string) logrus.Level {
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

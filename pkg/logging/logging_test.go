package logging

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, parseLevel("not-a-level"))
}

func TestGetLoggerFallback(t *testing.T) {
	// 未初始化时，各类日志均回退到系统日志
	assert.Same(t, GetSystemLogger(), GetAccessLogger())
	assert.Same(t, GetSystemLogger(), GetWebLogger())
	assert.Same(t, GetSystemLogger(), GetKVLogger())
	assert.Same(t, GetSystemLogger(), GetSqlLogger())
}

func TestNewRotateWriter(t *testing.T) {
	dir := t.TempDir()

	writer, err := newRotateWriter(dir, LogTypeKV)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, LogTypeKV, "kv.log"), writer.Filename)
	assert.DirExists(t, filepath.Join(dir, LogTypeKV))
}

package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wsmxd/mxdblog/pkg/envs"
)

// 日志默认同时输出到 stdout 与文件；LOG_FILE_BASE_DIR 置为 "-" 时仅输出到 stdout
const stdoutOnly = "-"

func getWriter(logType string) (io.Writer, error) {
	if envs.LogFileBaseDir == stdoutOnly {
		return os.Stdout, nil
	}
	fileWriter, err := newRotateWriter(envs.LogFileBaseDir, logType)
	if err != nil {
		return nil, err
	}
	return io.MultiWriter(os.Stdout, fileWriter), nil
}

// 按日志类型分目录存储，由 lumberjack 负责切割归档
func newRotateWriter(baseDir, logType string) (*lumberjack.Logger, error) {
	dir := filepath.Join(baseDir, logType)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "create log dir %s", dir)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, logType+".log"),
		MaxSize:    envs.LogMaxSizeMB,
		MaxBackups: envs.LogMaxBackups,
		MaxAge:     envs.LogMaxAgeDays,
		LocalTime:  true,
	}, nil
}

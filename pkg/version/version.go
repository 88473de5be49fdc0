package version

import (
	"fmt"
	"runtime"
)

// 以下变量值可通过 --ldflags 的方式修改
var (
	Version   = "1.0.0"
	GitCommit = ""
	BuildTime = ""
)

// GetVersion 获取版本信息
func GetVersion() string {
	return fmt.Sprintf(
		"Version: %s\nGitCommit: %s\nBuildTime: %s\nGoVersion: %s",
		Version, GitCommit, BuildTime, runtime.Version(),
	)
}

package runmode

// gin 运行模式
const (
	Debug   = "debug"
	Release = "release"
	Test    = "test"
)

package envs

import (
	"path/filepath"
	"time"

	"github.com/wsmxd/mxdblog/pkg/common/runmode"
	"github.com/wsmxd/mxdblog/pkg/utils/envx"
	"github.com/wsmxd/mxdblog/pkg/utils/pathx"
)

// 以下变量值可通过环境变量指定（进程启动时读取一次，之后不再变更）
var (
	// BaseDir 项目根目录
	BaseDir = envx.Get("BASE_DIR", filepath.Join(pathx.GetCurPKGPath(), "../.."))

	// ServerPort web 服务启用端口
	ServerPort = envx.Get("SERVER_PORT", "8080")

	// GinRunMode web 服务运行模式
	GinRunMode = envx.Get("GIN_RUN_MODE", runmode.Release)

	// PostsDir 博客文章（markdown）存放目录
	PostsDir = envx.Get("POSTS_DIR", filepath.Join(BaseDir, "posts"))

	// LogFileBaseDir 日志存放目录
	LogFileBaseDir = envx.Get("LOG_FILE_BASE_DIR", filepath.Join(BaseDir, "logs"))

	// LogLevel 日志等级（panic/fatal/error/warn/info/debug/trace）
	LogLevel = envx.Get("LOG_LEVEL", "info")

	// LogMaxSizeMB 单个日志文件大小上限（MB）
	LogMaxSizeMB = envx.GetInt("LOG_MAX_SIZE_MB", 128)
	// LogMaxBackups 保留的历史日志文件数
	LogMaxBackups = envx.GetInt("LOG_MAX_BACKUPS", 10)
	// LogMaxAgeDays 历史日志保留天数
	LogMaxAgeDays = envx.GetInt("LOG_MAX_AGE_DAYS", 14)

	// RealClientIPHeaderKey 反向代理透传真实 IP 使用的 Header
	RealClientIPHeaderKey = envx.Get("REAL_CLIENT_IP_HEADER_KEY", "")

	// CorsAllowOrigins 允许跨域的来源
	CorsAllowOrigins = envx.GetList("CORS_ALLOW_ORIGINS", []string{"*"})

	// CanonicalHost 正式域名，为空则不做跳转
	CanonicalHost = envx.Get("CANONICAL_HOST", "")

	// RedirectHosts 需要跳转到正式域名的 Host（如 vercel 默认域名）
	RedirectHosts = envx.GetList("REDIRECT_HOSTS", nil)
)

// 计数存储相关配置
var (
	// KVBackend 计数存储后端（upstash/redis/mysql）
	KVBackend = envx.Get("KV_BACKEND", "upstash")

	// KVTimeout 单次存储调用超时时间
	KVTimeout = envx.GetDuration("KV_TIMEOUT", 3*time.Second)

	// KVCacheTTL 读缓存有效期，<= 0 表示不缓存
	KVCacheTTL = envx.GetDuration("KV_CACHE_TTL", time.Minute)

	// UpstashRestURL Upstash REST 地址（兼容旧变量名）
	UpstashRestURL = envx.Get("UPSTASH_REDIS_REST_URL", envx.Get("UPSTASH_REST_URL", ""))

	// UpstashRestToken Upstash REST Token（兼容旧变量名）
	UpstashRestToken = envx.Get("UPSTASH_REDIS_REST_TOKEN", envx.Get("UPSTASH_REST_TOKEN", ""))

	// RedisAddr ...
	RedisAddr = envx.Get("REDIS_ADDR", "127.0.0.1:6379")
	// RedisPassword ...
	RedisPassword = envx.Get("REDIS_PASSWORD", "")
	// RedisDB ...
	RedisDB = envx.GetInt("REDIS_DB", 0)
)

// 数据库相关配置（仅 KV_BACKEND=mysql 时使用）
var (
	MysqlHost     = envx.Get("MYSQL_HOST", "127.0.0.1")
	MysqlPort     = envx.Get("MYSQL_PORT", "3306")
	MysqlUser     = envx.Get("MYSQL_USER", "root")
	MysqlPassword = envx.Get("MYSQL_PASSWORD", "")
	MysqlDatabase = envx.Get("MYSQL_DATABASE", "mxdblog")
	MysqlCharSet  = envx.Get("MYSQL_CHARSET", "utf8mb4")
)

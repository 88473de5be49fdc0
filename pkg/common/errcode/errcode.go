package errcode

const (
	// NoErr 无错误
	NoErr = 0

	// InvalidArgument 参数不合法（如 slug 为空）
	InvalidArgument = 40001

	// NotFound 资源不存在
	NotFound = 40401

	// Unknown 未知错误
	Unknown = 50001
	// StoreError 存储服务返回错误
	StoreError = 50002
	// StoreUnavailable 存储服务不可用（未配置 / 连接失败 / 超时）
	StoreUnavailable = 50301
)

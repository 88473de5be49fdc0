package envx

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Get 读取环境变量，不存在（或为空）时返回 fallback
func Get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetInt 读取整型环境变量，非法值返回 fallback
func GetInt(key string, fallback int) int {
	value, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetDuration 读取时长类环境变量（如 3s / 1m），非法值返回 fallback
func GetDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(Get(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetBool ...
func GetBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(Get(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetList 读取以逗号分隔的环境变量，自动去除空白项
func GetList(key string, fallback []string) []string {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

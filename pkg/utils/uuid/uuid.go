package uuid

import (
	"encoding/hex"

	"github.com/gofrs/uuid"
)

// GenUUID4 生成 32 位 hex（不含连字符）的 uuid v4
func GenUUID4() string {
	return hex.EncodeToString(uuid.Must(uuid.NewV4()).Bytes())
}

// Normalize 将带或不带连字符的 uuid 统一为 32 位小写 hex，无法解析时返回 false
func Normalize(raw string) (string, bool) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return "", false
	}
	return hex.EncodeToString(id.Bytes()), true
}

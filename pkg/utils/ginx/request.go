package ginx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const (
	// RequestIDHeaderKey ...
	RequestIDHeaderKey = "X-Request-ID"
	// MaxRequestBodySize 请求体读取上限，超出部分丢弃
	MaxRequestBodySize = 64 << 10
)

// ErrNilRequestBody 请求体为空
var ErrNilRequestBody = errors.New("request body is empty")

// ReadRequestBody 读取请求体，读取后重置 r.Body 以便后续再次读取
func ReadRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, ErrNilRequestBody
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, err
}

// DecodeJSONBody 解析 JSON 请求体到 v，请求体为空（含仅空白字符）时返回 ErrNilRequestBody
func DecodeJSONBody(r *http.Request, v any) error {
	body, err := ReadRequestBody(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrNilRequestBody
	}
	return errors.Wrap(json.Unmarshal(body, v), "decode request body")
}

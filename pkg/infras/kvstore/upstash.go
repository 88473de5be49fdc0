package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/TencentBlueKing/gopkg/stringx"
	"github.com/pkg/errors"
)

// 响应体读取上限，避免异常响应占用过多内存
const maxUpstashBodySize = 1 << 20

// UpstashConfig Upstash REST 配置
type UpstashConfig struct {
	URL   string
	Token string
}

// Configured URL 与 Token 均已配置
func (c UpstashConfig) Configured() bool {
	return c.URL != "" && c.Token != ""
}

// UpstashBackend 通过 REST 接口访问 Upstash（或兼容的 redis REST 代理）：
// 每条命令以 JSON 数组 POST 到根路径，如 ["INCRBY","reads:a","1"]，响应为 {"result": ...} 或 {"error": "..."}
type UpstashBackend struct {
	cfg        UpstashConfig
	httpClient *http.Client
}

var _ Backend = (*UpstashBackend)(nil)

// NewUpstashBackend httpClient 为 nil 时使用 http.DefaultClient（超时由 Client 的 ctx 控制）
func NewUpstashBackend(cfg UpstashConfig, httpClient *http.Client) *UpstashBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &UpstashBackend{cfg: cfg, httpClient: httpClient}
}

// Name ...
func (b *UpstashBackend) Name() string {
	return BackendUpstash
}

// IncrBy ...
func (b *UpstashBackend) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	result, err := b.do(ctx, "INCRBY", key, strconv.FormatInt(amount, 10))
	if err != nil {
		return 0, err
	}
	value, found, err := parseInteger(result)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.Wrapf(ErrStore, "incrby %s returned null", key)
	}
	return value, nil
}

// Get ...
func (b *UpstashBackend) Get(ctx context.Context, key string) (int64, bool, error) {
	result, err := b.do(ctx, "GET", key)
	if err != nil {
		return 0, false, err
	}
	return parseInteger(result)
}

// MGet ...
func (b *UpstashBackend) MGet(ctx context.Context, keys []string) ([]int64, error) {
	result, err := b.do(ctx, append([]string{"MGET"}, keys...)...)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err = json.Unmarshal(result, &items); err != nil {
		return nil, errors.Wrapf(ErrStore, "decode mget result: %s", err)
	}
	values := make([]int64, len(items))
	for idx, item := range items {
		if values[idx], _, err = parseInteger(item); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// Close ...
func (b *UpstashBackend) Close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}

type upstashResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// 执行一条命令，返回 result 原始内容
func (b *UpstashBackend) do(ctx context.Context, args ...string) (json.RawMessage, error) {
	if !b.cfg.Configured() {
		return nil, errors.Wrap(ErrStoreUnavailable, "upstash not configured")
	}

	body, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Wrapf(ErrStore, "encode command %s: %s", args[0], err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.URL, bytes.NewReader(body))
	if err != nil {
		// 非法的 URL 视为配置错误
		return nil, errors.Wrap(ErrStoreUnavailable, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrStoreUnavailable, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstashBodySize))
	if err != nil {
		return nil, errors.Wrap(ErrStoreUnavailable, err.Error())
	}

	var result upstashResponse
	decodeErr := json.Unmarshal(raw, &result)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices || result.Error != "" {
		detail := result.Error
		if detail == "" {
			detail = stringx.Truncate(string(raw), 256)
		}
		return nil, errors.Wrapf(ErrStore, "upstash %s: status %d: %s", args[0], resp.StatusCode, detail)
	}
	if decodeErr != nil {
		return nil, errors.Wrapf(ErrStore, "decode upstash %s response: %s", args[0], decodeErr)
	}
	return result.Result, nil
}

// parseInteger 解析 result 中的整数，兼容数字与数字字符串，null 视为不存在
func parseInteger(raw json.RawMessage) (int64, bool, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, false, nil
	}
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false, errors.Wrapf(ErrStore, "decode value %s: %s", stringx.Truncate(string(raw), 64), err)
		}
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false, errors.Wrapf(ErrStore, "value %q is not an integer", stringx.Truncate(text, 64))
	}
	return value, true, nil
}

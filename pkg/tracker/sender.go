package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Sender 上报一次阅读
type Sender interface {
	SendRead(ctx context.Context, slug string, amount int64) error
}

// HTTPSender 通过 POST {baseURL}/reads/{slug} 上报阅读
type HTTPSender struct {
	baseURL    string
	httpClient *http.Client
}

var _ Sender = (*HTTPSender)(nil)

// NewHTTPSender httpClient 为 nil 时使用 http.DefaultClient
func NewHTTPSender(baseURL string, httpClient *http.Client) *HTTPSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPSender{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type readRequest struct {
	Count int64 `json:"count"`
}

// SendRead 非 2xx 响应视为失败
func (s *HTTPSender) SendRead(ctx context.Context, slug string, amount int64) error {
	body, err := json.Marshal(readRequest{Count: amount})
	if err != nil {
		return err
	}

	endpoint := s.baseURL + "/reads/" + url.PathEscape(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "build request %s", endpoint)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "post %s", endpoint)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("post %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	return nil
}

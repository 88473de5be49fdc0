package ginx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestReadRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":1}`))

	body, err := ReadRequestBody(req)
	require.NoError(t, err)
	assert.Equal(t, `{"count":1}`, string(body))

	// 原始 body 仍可读取
	again, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"count":1}`, string(again))

	_, err = ReadRequestBody(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNilRequestBody)
}

func TestDecodeJSONBody(t *testing.T) {
	var req struct {
		Count int64 `json:"count"`
	}
	assert.NoError(t, DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":2}`)), &req))
	assert.Equal(t, int64(2), req.Count)

	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  \n")), &req)
	assert.ErrorIs(t, err, ErrNilRequestBody)

	err = DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":`)), &req)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNilRequestBody)
}

func TestSetErrResp(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetRequestID(c, "req-1")

	SetErrResp(c, http.StatusBadRequest, 40001, errors.New("slug is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorResponse{OK: false, Code: 40001, Error: "slug is required", RequestID: "req-1"}, resp)

	err, ok := GetError(c)
	assert.True(t, ok)
	assert.EqualError(t, err, "slug is required")
}

func TestSetResp(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetResp(c, http.StatusOK, map[string]any{"slug": "a", "count": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slug":"a","count":1}`, w.Body.String())

	_, ok := GetError(c)
	assert.False(t, ok)
}

// Package response 统一响应格式单元测试
package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	t.Run("携带数据", func(t *testing.T) {
		c, w := newTestContext()

		Success(c, map[string]interface{}{
			"hotel_id": 7,
			"name":     "그랜드 서울 호텔",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, 0, resp.Code)
		assert.Equal(t, "success", resp.Message)
		assert.NotNil(t, resp.Data)
	})

	t.Run("无数据", func(t *testing.T) {
		c, w := newTestContext()

		Success(c, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, 0, resp.Code)
		assert.Nil(t, resp.Data)
	})

	t.Run("自定义消息", func(t *testing.T) {
		c, w := newTestContext()

		SuccessWithMessage(c, "预订成功", map[string]string{
			"reservation_no": "R20250901123456",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, 0, resp.Code)
		assert.Equal(t, "预订成功", resp.Message)
	})
}

func TestSuccessPage(t *testing.T) {
	t.Run("分页字段完整", func(t *testing.T) {
		c, w := newTestContext()

		rooms := []map[string]interface{}{
			{"id": 1, "name": "디럭스 더블"},
			{"id": 2, "name": "스탠다드 트윈"},
		}
		SuccessPage(c, rooms, 57, 2, 20)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, 0, resp.Code)

		page, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(57), page["total"])
		assert.Equal(t, float64(2), page["page"])
		assert.Equal(t, float64(20), page["page_size"])
		assert.Len(t, page["list"], 2)
	})

	t.Run("空列表", func(t *testing.T) {
		c, w := newTestContext()

		SuccessPage(c, []interface{}{}, 0, 1, 10)

		resp := decodeResponse(t, w)
		page, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(0), page["total"])
		assert.Empty(t, page["list"])
	})
}

// 业务错误统一返回 HTTP 200，错误码放在响应体内。
func TestError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
	}{
		{"参数错误", 1001, "参数错误"},
		{"认证错误", 2000, "未登录"},
		{"预订状态异常", 5002, "预订状态异常"},
		{"零错误码", 0, "成功"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			Error(c, tt.code, tt.message)

			assert.Equal(t, http.StatusOK, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

// HTTP 层错误直接使用对应状态码，空消息回退到缺省英文文案。
func TestHTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		respond    func(c *gin.Context)
		wantStatus int
		wantMsg    string
	}{
		{"BadRequest", func(c *gin.Context) { BadRequest(c, "无效的请求参数") }, http.StatusBadRequest, "无效的请求参数"},
		{"Unauthorized", func(c *gin.Context) { Unauthorized(c, "登录已过期") }, http.StatusUnauthorized, "登录已过期"},
		{"Unauthorized 缺省文案", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, "unauthorized"},
		{"Forbidden", func(c *gin.Context) { Forbidden(c, "权限不足") }, http.StatusForbidden, "权限不足"},
		{"Forbidden 缺省文案", func(c *gin.Context) { Forbidden(c, "") }, http.StatusForbidden, "forbidden"},
		{"NotFound", func(c *gin.Context) { NotFound(c, "酒店不存在") }, http.StatusNotFound, "酒店不存在"},
		{"NotFound 缺省文案", func(c *gin.Context) { NotFound(c, "") }, http.StatusNotFound, "not found"},
		{"InternalError", func(c *gin.Context) { InternalError(c, "数据库连接失败") }, http.StatusInternalServerError, "数据库连接失败"},
		{"InternalError 缺省文案", func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, "internal server error"},
		{"TooManyRequests", func(c *gin.Context) { TooManyRequests(c, "请求次数超过限制") }, http.StatusTooManyRequests, "请求次数超过限制"},
		{"TooManyRequests 缺省文案", func(c *gin.Context) { TooManyRequests(c, "") }, http.StatusTooManyRequests, "too many requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			tt.respond(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestPageData_JSONTags(t *testing.T) {
	data, err := json.Marshal(PageData{
		List:     []string{"R20250901123456"},
		Total:    1,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"list"`)
	assert.Contains(t, string(data), `"total":1`)
	assert.Contains(t, string(data), `"page":1`)
	assert.Contains(t, string(data), `"page_size":10`)
}

// Package metrics 提供 Prometheus 指标收集单元测试
package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 每个用例使用独立命名空间，避免默认注册表的重复注册冲突

func TestInit(t *testing.T) {
	m := Init("test_init")
	require.NotNil(t, m)
	assert.NotNil(t, m.httpRequestsTotal)
	assert.NotNil(t, m.httpRequestDuration)
	assert.NotNil(t, m.httpRequestsInFlight)
	assert.NotNil(t, m.cacheHitsTotal)
	assert.NotNil(t, m.cacheMissesTotal)
	assert.NotNil(t, m.reservationsTotal)
	assert.NotNil(t, m.paymentsTotal)
}

func TestGetMetrics(t *testing.T) {
	m := Init("test_get")
	assert.Same(t, m, GetMetrics())
}

func TestMetrics_RecordCache(t *testing.T) {
	m := Init("test_cache")

	m.RecordCacheHit("hotel_detail")
	m.RecordCacheHit("hotel_detail")
	m.RecordCacheMiss("hotel_detail")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("hotel_detail")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheMissesTotal.WithLabelValues("hotel_detail")))
}

func TestMetrics_RecordReservation(t *testing.T) {
	m := Init("test_reservations")

	for _, status := range []string{"pending", "confirmed", "completed", "cancelled", "pending"} {
		m.RecordReservation(status)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.reservationsTotal.WithLabelValues("pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reservationsTotal.WithLabelValues("cancelled")))
}

func TestMetrics_RecordPayment(t *testing.T) {
	m := Init("test_payments")

	m.RecordPayment("confirm", "completed")
	m.RecordPayment("refund", "refunded")
	m.RecordPayment("confirm", "completed")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.paymentsTotal.WithLabelValues("confirm", "completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.paymentsTotal.WithLabelValues("refund", "refunded")))
}

func TestMetrics_Middleware(t *testing.T) {
	m := Init("test_middleware")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/hotels/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "그랜드 서울 호텔"})
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "metrics")
	})

	t.Run("记录请求指标", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/hotels/7", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/hotels/:id", "200"))
		assert.Equal(t, float64(1), got)
	})

	t.Run("跳过metrics端点", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/metrics", "200"))
		assert.Equal(t, float64(0), got)
	})
}

func TestHandler(t *testing.T) {
	Init("test_handler")

	router := gin.New()
	router.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_")
}

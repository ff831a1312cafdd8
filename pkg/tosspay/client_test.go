// Package tosspay 支付网关客户端单元测试
package tosspay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&Config{
		BaseURL:   server.URL,
		SecretKey: "test_sk_abc123",
		Timeout:   3 * time.Second,
	})
}

// ==================== Confirm 测试 ====================

func TestClient_Confirm_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/confirm", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		// Basic base64("secret:")
		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("test_sk_abc123:"))
		assert.Equal(t, expected, r.Header.Get("Authorization"))

		var req ConfirmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pay_key_001", req.PaymentKey)
		assert.Equal(t, "RSV20260901001", req.OrderID)
		assert.Equal(t, int64(200000), req.Amount)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"paymentKey":  req.PaymentKey,
			"orderId":     req.OrderID,
			"status":      StatusDone,
			"method":      "카드",
			"totalAmount": req.Amount,
		})
	})

	payment, err := client.Confirm(context.Background(), &ConfirmRequest{
		PaymentKey: "pay_key_001",
		OrderID:    "RSV20260901001",
		Amount:     200000,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDone, payment.Status)
	assert.Equal(t, "pay_key_001", payment.PaymentKey)
	assert.Equal(t, int64(200000), payment.TotalAmount)
	assert.Equal(t, "카드", payment.Method)
}

func TestClient_Confirm_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "INVALID_PAYMENT_KEY",
			"message": "존재하지 않는 결제입니다.",
		})
	})

	payment, err := client.Confirm(context.Background(), &ConfirmRequest{
		PaymentKey: "bad_key",
		OrderID:    "RSV20260901002",
		Amount:     100000,
	})
	require.Error(t, err)
	assert.Nil(t, payment)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_PAYMENT_KEY", apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	assert.Contains(t, apiErr.Error(), "INVALID_PAYMENT_KEY")
}

func TestClient_Confirm_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := client.Confirm(context.Background(), &ConfirmRequest{
		PaymentKey: "k", OrderID: "o", Amount: 1,
	})
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "UNKNOWN", apiErr.Code)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
}

// ==================== Cancel 测试 ====================

func TestClient_Cancel_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/pay_key_001/cancel", r.URL.Path)

		var req CancelRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "고객 요청", req.CancelReason)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"paymentKey":  "pay_key_001",
			"status":      StatusCanceled,
			"totalAmount": 200000,
		})
	})

	payment, err := client.Cancel(context.Background(), "pay_key_001", "고객 요청")
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, payment.Status)
}

func TestClient_Cancel_AlreadyCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "ALREADY_CANCELED_PAYMENT",
			"message": "이미 취소된 결제입니다.",
		})
	})

	_, err := client.Cancel(context.Background(), "pay_key_001", "중복 취소")
	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "ALREADY_CANCELED_PAYMENT", apiErr.Code)
}

// ==================== GetPayment 测试 ====================

func TestClient_GetPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payments/pay_key_777", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"paymentKey":  "pay_key_777",
			"orderId":     "RSV20260901003",
			"status":      StatusDone,
			"totalAmount": 50000,
		})
	})

	payment, err := client.GetPayment(context.Background(), "pay_key_777")
	require.NoError(t, err)
	assert.Equal(t, "RSV20260901003", payment.OrderID)
	assert.Equal(t, int64(50000), payment.TotalAmount)
}

// ==================== 超时与上下文测试 ====================

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Confirm(ctx, &ConfirmRequest{PaymentKey: "k", OrderID: "o", Amount: 1})
	require.Error(t, err)
	_, ok := IsAPIError(err)
	assert.False(t, ok)
}

// ==================== NewClient 默认值测试 ====================

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(&Config{SecretKey: "sk"})
	assert.Equal(t, DefaultBaseURL, client.config.BaseURL)
	assert.Equal(t, 10*time.Second, client.config.Timeout)
}

// ==================== Webhook 解析测试 ====================

func TestParseWebhook(t *testing.T) {
	payload := []byte(`{
		"eventType": "PAYMENT_STATUS_CHANGED",
		"createdAt": "2026-09-01T10:00:00+09:00",
		"data": {"paymentKey": "pay_key_001", "orderId": "RSV20260901001", "status": "DONE"}
	}`)

	event, err := ParseWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentStatusChanged, event.EventType)
	assert.Equal(t, "pay_key_001", event.Data.PaymentKey)
	assert.Equal(t, StatusDone, event.Data.Status)
}

func TestParseWebhook_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"eventType":`},
		{"missing event type", `{"data": {"paymentKey": "k"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWebhook([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

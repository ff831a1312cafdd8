// Package tosspay 提供 Toss Payments 支付网关封装
package tosspay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL Toss Payments API 地址
const DefaultBaseURL = "https://api.tosspayments.com"

// Config Toss Payments 配置
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	SecretKey string        `mapstructure:"secret_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Client Toss Payments 客户端
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient 创建 Toss Payments 客户端
func NewClient(config *Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// PaymentStatus 支付单状态
const (
	StatusReady             = "READY"
	StatusInProgress        = "IN_PROGRESS"
	StatusWaitingForDeposit = "WAITING_FOR_DEPOSIT"
	StatusDone              = "DONE"
	StatusCanceled          = "CANCELED"
	StatusPartialCanceled   = "PARTIAL_CANCELED"
	StatusAborted           = "ABORTED"
	StatusExpired           = "EXPIRED"
)

// ConfirmRequest 支付确认请求
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// CancelRequest 支付取消请求
type CancelRequest struct {
	CancelReason string `json:"cancelReason"`
}

// Payment 支付单
type Payment struct {
	PaymentKey  string     `json:"paymentKey"`
	OrderID     string     `json:"orderId"`
	OrderName   string     `json:"orderName,omitempty"`
	Status      string     `json:"status"`
	Method      string     `json:"method,omitempty"`
	TotalAmount int64      `json:"totalAmount"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
}

// APIError 网关返回的业务错误
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	return fmt.Sprintf("tosspay: [%s] %s (http %d)", e.Code, e.Message, e.HTTPStatus)
}

// IsAPIError 判断是否为网关业务错误
func IsAPIError(err error) (*APIError, bool) {
	apiErr, ok := err.(*APIError)
	return apiErr, ok
}

// Confirm 确认支付。成功返回 DONE 状态的支付单，
// 金额不符、重复确认等网关侧失败返回 *APIError。
func (c *Client) Confirm(ctx context.Context, req *ConfirmRequest) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/v1/payments/confirm", req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Cancel 取消（退款）已确认的支付
func (c *Client) Cancel(ctx context.Context, paymentKey, cancelReason string) (*Payment, error) {
	path := fmt.Sprintf("/v1/payments/%s/cancel", paymentKey)
	var payment Payment
	if err := c.do(ctx, http.MethodPost, path, &CancelRequest{CancelReason: cancelReason}, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment 按 paymentKey 查询支付单
func (c *Client) GetPayment(ctx context.Context, paymentKey string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentKey, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// do 执行网关请求，非 2xx 响应解析为 *APIError
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tosspay: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("tosspay: build request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tosspay: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("tosspay: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "UNKNOWN"
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("tosspay: decode response: %w", err)
		}
	}
	return nil
}

// authorization 构造 Basic 认证头，密钥后跟冒号
func (c *Client) authorization() string {
	encoded := base64.StdEncoding.EncodeToString([]byte(c.config.SecretKey + ":"))
	return "Basic " + encoded
}

// EventPaymentStatusChanged 支付状态变更事件类型
const EventPaymentStatusChanged = "PAYMENT_STATUS_CHANGED"

// WebhookEvent 支付网关回调事件
type WebhookEvent struct {
	EventType string      `json:"eventType"`
	CreatedAt string      `json:"createdAt,omitempty"`
	Data      WebhookData `json:"data"`
}

// WebhookData 回调事件数据
type WebhookData struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId,omitempty"`
	Status     string `json:"status"`
}

// ParseWebhook 解析回调载荷
func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("tosspay: parse webhook payload: %w", err)
	}
	if event.EventType == "" {
		return nil, fmt.Errorf("tosspay: webhook missing eventType")
	}
	return &event, nil
}

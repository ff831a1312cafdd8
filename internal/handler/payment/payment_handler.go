// Package payment 提供支付相关的 HTTP Handler
package payment

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/minsukang/stayhub-backend/internal/common/handler"
	"github.com/minsukang/stayhub-backend/internal/common/logger"
	"github.com/minsukang/stayhub-backend/internal/common/response"
	paymentService "github.com/minsukang/stayhub-backend/internal/service/payment"
	"go.uber.org/zap"
)

// Handler 支付处理器
type Handler struct {
	paymentService *paymentService.PaymentService
}

// NewHandler 创建支付处理器
func NewHandler(paymentSvc *paymentService.PaymentService) *Handler {
	return &Handler{
		paymentService: paymentSvc,
	}
}

// ConfirmPayment 确认支付
// @Summary 确认支付
// @Tags 支付
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body paymentService.ConfirmPaymentRequest true "请求参数"
// @Success 200 {object} response.Response{data=paymentService.ConfirmPaymentResponse}
// @Router /payments/confirm [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req paymentService.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.paymentService.ConfirmPayment(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, result)
}

// RefundPayment 退款
// @Summary 退款
// @Tags 支付-管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body paymentService.RefundPaymentRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /admin/payments/{id}/refund [post]
func (h *Handler) RefundPayment(c *gin.Context) {
	reservationID, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	var req paymentService.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.paymentService.RefundPayment(c.Request.Context(), reservationID, &req)
	handler.MustSucceed(c, err, nil)
}

// Webhook 支付网关回调。处理失败也返回 200，
// 避免网关无限重试，异常依赖日志与对账发现。
// @Summary 支付网关回调
// @Tags 支付
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /payments/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "读取回调内容失败")
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), payload); err != nil {
		logger.Error("处理支付回调失败", zap.Error(err))
	}

	response.Success(c, nil)
}

// RegisterRoutes 注册公开路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/payments/webhook", h.Webhook)
}

// RegisterProtectedRoutes 注册用户路由
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/payments/confirm", h.ConfirmPayment)
}

// RegisterAdminRoutes 注册管理路由
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/admin/payments/:id/refund", h.RefundPayment)
}

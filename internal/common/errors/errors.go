// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrExternalService = New(1007, "外部服务错误")
	ErrRateLimitExceed = New(1008, "请求过于频繁")
	ErrOperationFailed = New(1009, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrTokenRefreshFail = New(2003, "刷新令牌失败")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrAccountDisabled  = New(2005, "账号已禁用")
	ErrPasswordError    = New(2006, "密码错误")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound       = New(3000, "用户不存在")
	ErrUserExists         = New(3001, "用户已存在")
	ErrEmailExists        = New(3002, "邮箱已被注册")
	ErrInsufficientPoints = New(3003, "积分不足")
)

// 酒店错误码 (4000-4999)
var (
	ErrHotelNotFound = New(4000, "酒店不存在")
	ErrHotelDisabled = New(4001, "酒店已下架")
	ErrRoomNotFound  = New(4002, "房型不存在")
	ErrRoomDisabled  = New(4003, "房型已下架")
)

// 预订错误码 (5000-5999)
var (
	ErrReservationNotFound  = New(5000, "预订不存在")
	ErrRoomUnavailable      = New(5001, "房间已售罄")
	ErrCapacityExceeded     = New(5002, "入住人数超过房型容量")
	ErrInvalidCheckIn       = New(5003, "入住日期不能早于今天")
	ErrInvalidCheckOut      = New(5004, "退房日期必须晚于入住日期")
	ErrInvalidGuests        = New(5005, "入住人数无效")
	ErrAlreadyCancelled     = New(5006, "预订已取消")
	ErrAlreadyCompleted     = New(5007, "预订已完成，无法取消")
	ErrReservationNotOwner  = New(5008, "无权操作该预订")
	ErrReservationNotActive = New(5009, "预订状态异常")
	ErrReviewExists         = New(5010, "该预订已评价")
	ErrReviewNotAllowed     = New(5011, "仅已完成的预订可评价")
)

// 支付错误码 (6000-6999)
var (
	ErrPaymentNotFound      = New(6000, "支付记录不存在")
	ErrPaymentFailed        = New(6001, "支付失败")
	ErrAmountMismatch       = New(6002, "支付金额与订单金额不一致")
	ErrPaymentNotCompleted  = New(6003, "订单尚未支付")
	ErrPaymentNotPending    = New(6004, "订单不在待支付状态")
	ErrAlreadyRefunded      = New(6005, "已退款")
	ErrRefundFailed         = New(6006, "退款失败")
	ErrPaymentGateway       = New(6007, "支付网关错误")
	ErrPaymentCallbackError = New(6008, "支付回调错误")
)

// 营销错误码 (7000-7999)
var (
	ErrCouponNotFound    = New(7000, "优惠券不存在")
	ErrCouponInactive    = New(7001, "优惠券已停用")
	ErrCouponExpired     = New(7002, "优惠券已过期")
	ErrCouponNotYetValid = New(7003, "优惠券尚未生效")
	ErrCouponExhausted   = New(7004, "优惠券已用完")
	ErrMinPurchaseNotMet = New(7005, "未达到优惠券最低消费金额")
	ErrCouponCodeExists  = New(7006, "优惠券码已存在")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}

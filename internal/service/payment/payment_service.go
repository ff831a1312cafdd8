// Package payment 提供支付结算服务
package payment

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/cache"
	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/logger"
	"github.com/minsukang/stayhub-backend/internal/common/metrics"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
	userService "github.com/minsukang/stayhub-backend/internal/service/user"
	"github.com/minsukang/stayhub-backend/pkg/tosspay"
)

// webhookDedupTTL 回调去重键的保留时长
const webhookDedupTTL = 24 * time.Hour

// PaymentService 支付服务
type PaymentService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	pointsService   *userService.PointsService
	tossClient      *tosspay.Client
	redis           *redis.Client
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	pointsService *userService.PointsService,
	tossClient *tosspay.Client,
	redisClient *redis.Client,
) *PaymentService {
	return &PaymentService{
		db:              db,
		reservationRepo: reservationRepo,
		pointsService:   pointsService,
		tossClient:      tossClient,
		redis:           redisClient,
	}
}

// ConfirmPaymentRequest 支付确认请求
type ConfirmPaymentRequest struct {
	ReservationID int64  `json:"reservation_id" binding:"required"`
	PaymentKey    string `json:"payment_key" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,min=0"`
}

// ConfirmPaymentResponse 支付确认响应
type ConfirmPaymentResponse struct {
	ReservationNo string     `json:"reservation_no"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	TotalAmount   int64      `json:"total_amount"`
	EarnedPoints  int64      `json:"earned_points"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// ConfirmPayment 支付确认。
// 金额校验先于网关调用：客户端上报金额与订单应付金额不一致时
// 直接拒绝，不触发网关扣款。网关失败时标记支付失败，
// 预订保持待支付，允许客户端重试。
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID int64, req *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if reservation.UserID != userID {
		return nil, errors.ErrReservationNotOwner
	}
	if reservation.Status != models.ReservationStatusPending {
		return nil, errors.ErrPaymentNotPending
	}
	if req.Amount != reservation.TotalAmount {
		return nil, errors.ErrAmountMismatch
	}

	payment, err := s.tossClient.Confirm(ctx, &tosspay.ConfirmRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    reservation.ReservationNo,
		Amount:     req.Amount,
	})
	if err != nil {
		// 网关失败：记录支付失败，预订保持待支付
		_ = s.reservationRepo.UpdateFields(ctx, reservation.ID, map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
		})
		logger.Error("支付网关确认失败",
			logger.ReservationNo(reservation.ReservationNo),
			logger.PaymentKey(req.PaymentKey),
			zap.Error(err))
		return nil, errors.ErrPaymentGateway.WithError(err)
	}

	earned, err := s.settleConfirmed(ctx, reservation, payment.PaymentKey, payment.Method)
	if err != nil {
		return nil, err
	}

	refreshed, err := s.reservationRepo.GetByID(ctx, reservation.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return &ConfirmPaymentResponse{
		ReservationNo: refreshed.ReservationNo,
		Status:        refreshed.Status,
		PaymentStatus: refreshed.PaymentStatus,
		TotalAmount:   refreshed.TotalAmount,
		EarnedPoints:  earned,
		PaidAt:        refreshed.PaidAt,
	}, nil
}

// settleConfirmed 支付成功后的结算：确认预订、落支付字段、发放积分
func (s *PaymentService) settleConfirmed(ctx context.Context, reservation *models.Reservation, paymentKey, method string) (int64, error) {
	earned := s.pointsService.EarnForAmount(reservation.TotalAmount)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.reservationRepo.TransitionStatus(ctx, tx, reservation.ID,
			[]string{models.ReservationStatusPending},
			models.ReservationStatusConfirmed)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrPaymentNotPending
		}

		now := time.Now()
		fields := map[string]interface{}{
			"payment_status": models.PaymentStatusCompleted,
			"transaction_id": paymentKey,
			"paid_at":        now,
		}
		if method != "" {
			fields["payment_method"] = method
		}
		if err := s.reservationRepo.UpdateFieldsTx(ctx, tx, reservation.ID, fields); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if earned > 0 {
			if err := s.pointsService.AwardTx(ctx, tx, reservation.UserID, earned,
				"예약 결제 적립", &reservation.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("支付确认成功",
		logger.ReservationNo(reservation.ReservationNo),
		logger.PaymentKey(paymentKey),
		logger.Amount(reservation.TotalAmount))
	metrics.GetMetrics().RecordPayment("confirm", models.PaymentStatusCompleted)

	return earned, nil
}

// RefundPaymentRequest 退款请求
type RefundPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundPayment 退款（管理端对账使用）。
// 退款仅更新支付状态，预订状态的流转由取消流程负责。
func (s *PaymentService) RefundPayment(ctx context.Context, reservationID int64, req *RefundPaymentRequest) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrReservationNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if reservation.PaymentStatus == models.PaymentStatusRefunded {
		return errors.ErrAlreadyRefunded
	}
	if reservation.PaymentStatus != models.PaymentStatusCompleted || reservation.TransactionID == nil {
		return errors.ErrPaymentNotCompleted
	}

	if _, err := s.tossClient.Cancel(ctx, *reservation.TransactionID, req.Reason); err != nil {
		return errors.ErrRefundFailed.WithError(err)
	}

	now := time.Now()
	if err := s.reservationRepo.UpdateFields(ctx, reservationID, map[string]interface{}{
		"payment_status": models.PaymentStatusRefunded,
		"refunded_at":    now,
	}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("支付退款成功",
		logger.ReservationNo(reservation.ReservationNo),
		logger.PaymentKey(*reservation.TransactionID))
	metrics.GetMetrics().RecordPayment("refund", models.PaymentStatusRefunded)

	return nil
}

// HandleWebhook 处理支付网关回调。
// 回调按 paymentKey+status 去重，重复投递直接跳过；
// 状态只允许前向流转，不会把已确认/已取消的预订拉回。
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte) error {
	event, err := tosspay.ParseWebhook(payload)
	if err != nil {
		return errors.ErrPaymentCallbackError.WithError(err)
	}
	if event.EventType != tosspay.EventPaymentStatusChanged {
		return nil
	}

	data := event.Data
	if data.PaymentKey == "" {
		return errors.ErrPaymentCallbackError.WithMessage("回调数据不完整")
	}

	// 幂等：同一 paymentKey+status 只处理一次
	dedupKey := cache.BuildKey(cache.KeyPrefixWebhook, data.PaymentKey, data.Status)
	ok, err := s.redis.SetNX(ctx, dedupKey, "1", webhookDedupTTL).Result()
	if err != nil {
		return errors.ErrCacheError.WithError(err)
	}
	if !ok {
		logger.Info("重复回调，跳过",
			logger.PaymentKey(data.PaymentKey),
			zap.String("status", data.Status))
		return nil
	}

	// 处理失败或未匹配时释放去重键，网关重试可再次投递；
	// 状态前向流转的保护让重放是安全的
	matched, err := s.applyWebhookEvent(ctx, &data)
	if err != nil || !matched {
		if delErr := s.redis.Del(ctx, dedupKey).Err(); delErr != nil {
			logger.Warn("释放回调去重键失败",
				zap.String("key", dedupKey), zap.Error(delErr))
		}
	}
	return err
}

// applyWebhookEvent 按网关交易号关联预订并应用状态变更，
// 携带订单号的回调在交易号未落库时回退到订单号匹配
func (s *PaymentService) applyWebhookEvent(ctx context.Context, data *tosspay.WebhookData) (bool, error) {
	reservation, err := s.reservationRepo.GetByTransactionID(ctx, data.PaymentKey)
	if err == gorm.ErrRecordNotFound && data.OrderID != "" {
		reservation, err = s.reservationRepo.GetByReservationNo(ctx, data.OrderID)
	}
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Warn("回调未匹配到预订，忽略",
				logger.PaymentKey(data.PaymentKey),
				zap.String("status", data.Status))
			return false, nil
		}
		return false, errors.ErrDatabaseError.WithError(err)
	}

	switch data.Status {
	case tosspay.StatusDone:
		if reservation.Status != models.ReservationStatusPending {
			return true, nil
		}
		if _, err := s.settleConfirmed(ctx, reservation, data.PaymentKey, ""); err != nil {
			return true, err
		}
		return true, nil

	case tosspay.StatusCanceled:
		if reservation.PaymentStatus != models.PaymentStatusCompleted {
			return true, nil
		}
		now := time.Now()
		if err := s.reservationRepo.UpdateFields(ctx, reservation.ID, map[string]interface{}{
			"payment_status": models.PaymentStatusRefunded,
			"refunded_at":    now,
		}); err != nil {
			return true, errors.ErrDatabaseError.WithError(err)
		}
		return true, nil

	case tosspay.StatusAborted, tosspay.StatusExpired:
		if reservation.PaymentStatus != models.PaymentStatusPending {
			return true, nil
		}
		if err := s.reservationRepo.UpdateFields(ctx, reservation.ID, map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
		}); err != nil {
			return true, errors.ErrDatabaseError.WithError(err)
		}
		return true, nil
	}

	return true, nil
}

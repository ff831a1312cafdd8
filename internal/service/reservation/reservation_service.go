// Package reservation 提供住宿预订服务
package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/config"
	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/logger"
	"github.com/minsukang/stayhub-backend/internal/common/metrics"
	"github.com/minsukang/stayhub-backend/internal/common/utils"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
	"github.com/minsukang/stayhub-backend/internal/service/marketing"
	userService "github.com/minsukang/stayhub-backend/internal/service/user"
	"github.com/minsukang/stayhub-backend/pkg/tosspay"
)

// DateLayout 入住/退房日期格式
const DateLayout = "2006-01-02"

// ReservationService 预订服务
type ReservationService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	roomRepo        *repository.RoomRepository
	hotelRepo       *repository.HotelRepository
	couponService   *marketing.CouponService
	pointsService   *userService.PointsService
	tossClient      *tosspay.Client
	cfg             *config.ReservationConfig
}

// NewReservationService 创建预订服务
func NewReservationService(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	roomRepo *repository.RoomRepository,
	hotelRepo *repository.HotelRepository,
	couponService *marketing.CouponService,
	pointsService *userService.PointsService,
	tossClient *tosspay.Client,
	cfg *config.ReservationConfig,
) *ReservationService {
	return &ReservationService{
		db:              db,
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		hotelRepo:       hotelRepo,
		couponService:   couponService,
		pointsService:   pointsService,
		tossClient:      tossClient,
		cfg:             cfg,
	}
}

// CreateReservationRequest 创建预订请求
type CreateReservationRequest struct {
	RoomID     int64   `json:"room_id" binding:"required"`
	CheckIn    string  `json:"check_in" binding:"required"`
	CheckOut   string  `json:"check_out" binding:"required"`
	Guests     int     `json:"guests" binding:"required,min=1"`
	UsePoints  int64   `json:"use_points" binding:"min=0"`
	CouponCode *string `json:"coupon_code,omitempty"`
}

// ReservationInfo 预订信息
type ReservationInfo struct {
	ID             int64      `json:"id"`
	ReservationNo  string     `json:"reservation_no"`
	Status         string     `json:"status"`
	StatusName     string     `json:"status_name"`
	HotelID        int64      `json:"hotel_id"`
	HotelName      string     `json:"hotel_name,omitempty"`
	RoomID         int64      `json:"room_id"`
	RoomName       string     `json:"room_name,omitempty"`
	CheckIn        string     `json:"check_in"`
	CheckOut       string     `json:"check_out"`
	Nights         int        `json:"nights"`
	Guests         int        `json:"guests"`
	BaseAmount     int64      `json:"base_amount"`
	UsedPoints     int64      `json:"used_points"`
	CouponCode     *string    `json:"coupon_code,omitempty"`
	CouponDiscount int64      `json:"coupon_discount"`
	TotalAmount    int64      `json:"total_amount"`
	PaymentStatus  string     `json:"payment_status"`
	RefundPending  bool       `json:"refund_pending,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	RefundedAt     *time.Time `json:"refunded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateReservation 创建预订。
// 定价顺序：房费 = 房价 × 晚数，先抵扣积分，再按抵扣后金额
// 校验并应用优惠券，应付金额下限为 0。库存、积分、优惠券的
// 扣减在同一事务内完成，任何一步失败整体回滚。
func (s *ReservationService) CreateReservation(ctx context.Context, userID int64, req *CreateReservationRequest) (*ReservationInfo, error) {
	checkIn, checkOut, nights, err := s.parseStayPeriod(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	// 房型与酒店状态
	room, err := s.roomRepo.GetByIDWithHotel(ctx, req.RoomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if room.Status != int8(models.RoomStatusActive) {
		return nil, errors.ErrRoomDisabled
	}
	if room.Hotel == nil || room.Hotel.Status != int8(models.HotelStatusActive) {
		return nil, errors.ErrHotelDisabled
	}
	if req.Guests > room.Capacity {
		return nil, errors.ErrCapacityExceeded
	}

	// 定价
	baseAmount := room.Price * int64(nights)
	usedPoints := req.UsePoints
	if usedPoints < 0 {
		return nil, errors.ErrInvalidParams.WithMessage("积分不能为负数")
	}
	// 积分只受余额约束，抵扣超过房费时应付金额封底为 0
	afterPoints := baseAmount - usedPoints
	if afterPoints < 0 {
		afterPoints = 0
	}

	var coupon *models.Coupon
	var couponDiscount int64
	if req.CouponCode != nil && *req.CouponCode != "" {
		coupon, couponDiscount, err = s.couponService.VerifyCoupon(ctx, *req.CouponCode, afterPoints)
		if err != nil {
			return nil, err
		}
	}

	totalAmount := afterPoints - couponDiscount
	if totalAmount < 0 {
		totalAmount = 0
	}

	reservationNo := utils.GenerateOrderNo(s.cfg.NoPrefix)
	reservation := &models.Reservation{
		ReservationNo:  reservationNo,
		UserID:         userID,
		HotelID:        room.HotelID,
		RoomID:         room.ID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Nights:         nights,
		Guests:         req.Guests,
		BaseAmount:     baseAmount,
		UsedPoints:     usedPoints,
		CouponDiscount: couponDiscount,
		TotalAmount:    totalAmount,
		Status:         models.ReservationStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
	}
	if coupon != nil {
		reservation.CouponCode = &coupon.Code
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 条件扣减库存，售罄即失败
		ok, err := s.roomRepo.ReserveInventory(ctx, tx, room.ID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrRoomUnavailable
		}

		if err := s.reservationRepo.CreateTx(ctx, tx, reservation); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if usedPoints > 0 {
			if err := s.pointsService.SpendTx(ctx, tx, userID, usedPoints,
				"예약 포인트 사용", &reservation.ID); err != nil {
				return err
			}
		}

		if coupon != nil {
			if err := s.couponService.RedeemTx(ctx, tx, coupon.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	reservation.Hotel = room.Hotel
	reservation.Room = room

	logger.Info("预订创建成功",
		logger.UserID(userID),
		logger.ReservationNo(reservationNo),
		logger.Amount(totalAmount))
	metrics.GetMetrics().RecordReservation(models.ReservationStatusPending)

	return s.toReservationInfo(reservation), nil
}

// CancelReservation 取消预订。
// 回补库存、退还已用积分；已支付的预订向网关发起退款，
// 网关失败不阻断取消，仅记录日志等待对账补偿。
// 优惠券核销计数不回退。
func (s *ReservationService) CancelReservation(ctx context.Context, id, requesterID int64, role string) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if role != models.RoleAdmin && reservation.UserID != requesterID {
		return nil, errors.ErrReservationNotOwner
	}

	switch reservation.Status {
	case models.ReservationStatusCancelled:
		return nil, errors.ErrAlreadyCancelled
	case models.ReservationStatusCompleted:
		return nil, errors.ErrAlreadyCompleted
	}

	wasPaid := reservation.PaymentStatus == models.PaymentStatusCompleted

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.reservationRepo.TransitionStatus(ctx, tx, id,
			[]string{models.ReservationStatusPending, models.ReservationStatusConfirmed},
			models.ReservationStatusCancelled)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrReservationNotActive
		}

		if err := s.roomRepo.ReleaseInventory(ctx, tx, reservation.RoomID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if reservation.UsedPoints > 0 {
			if err := s.pointsService.AwardTx(ctx, tx, reservation.UserID,
				reservation.UsedPoints, "예약 취소 포인트 환급", &reservation.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 已支付的预订向网关退款，失败不回滚取消：
	// 支付状态保持 completed，留待人工对账
	refundPending := false
	if wasPaid && reservation.TransactionID != nil {
		var gwErr error
		if s.tossClient != nil {
			_, gwErr = s.tossClient.Cancel(ctx, *reservation.TransactionID, "고객 예약 취소")
		}
		if s.tossClient == nil || gwErr != nil {
			refundPending = true
			logger.Error("网关退款失败，待人工对账",
				logger.ReservationNo(reservation.ReservationNo),
				logger.PaymentKey(*reservation.TransactionID),
				zap.Error(gwErr))
		} else {
			now := time.Now()
			if err := s.reservationRepo.UpdateFields(ctx, id, map[string]interface{}{
				"payment_status": models.PaymentStatusRefunded,
				"refunded_at":    now,
			}); err != nil {
				return nil, errors.ErrDatabaseError.WithError(err)
			}
		}
	}

	reservation, err = s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("预订已取消",
		logger.UserID(requesterID),
		logger.ReservationNo(reservation.ReservationNo))
	metrics.GetMetrics().RecordReservation(models.ReservationStatusCancelled)

	info := s.toReservationInfo(reservation)
	info.RefundPending = refundPending
	return info, nil
}

// GetReservation 获取预订详情，仅本人、所属酒店合作方、管理员可见
func (s *ReservationService) GetReservation(ctx context.Context, id, requesterID int64, role string) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := s.authorize(ctx, reservation, requesterID, role); err != nil {
		return nil, err
	}

	return s.toReservationInfo(reservation), nil
}

// ListUserReservations 获取用户预订列表
func (s *ReservationService) ListUserReservations(ctx context.Context, userID int64, page, pageSize int, status *string) ([]*ReservationInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	reservations, total, err := s.reservationRepo.ListByUser(ctx, userID, offset, pageSize, status)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	return s.toReservationInfos(reservations), total, nil
}

// ListHotelReservations 获取酒店预订列表（合作方/管理端）
func (s *ReservationService) ListHotelReservations(ctx context.Context, hotelID, requesterID int64, role string, page, pageSize int) ([]*ReservationInfo, int64, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.ErrHotelNotFound
		}
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	if role != models.RoleAdmin && hotel.OwnerID != requesterID {
		return nil, 0, errors.ErrPermissionDenied
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	reservations, total, err := s.reservationRepo.ListByHotel(ctx, hotelID, offset, pageSize)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	return s.toReservationInfos(reservations), total, nil
}

// ListReservations 获取预订列表（管理端）
func (s *ReservationService) ListReservations(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*ReservationInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	reservations, total, err := s.reservationRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	return s.toReservationInfos(reservations), total, nil
}

// CompletePastCheckouts 将已过退房日的已确认预订标记为完成（定时任务调用）
func (s *ReservationService) CompletePastCheckouts(ctx context.Context) error {
	reservations, err := s.reservationRepo.ListToComplete(ctx, time.Now(), 100)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	for _, r := range reservations {
		_, err := s.reservationRepo.TransitionStatus(ctx, s.db, r.ID,
			[]string{models.ReservationStatusConfirmed},
			models.ReservationStatusCompleted)
		if err != nil {
			logger.Error("自动完成预订失败",
				logger.ReservationNo(r.ReservationNo), zap.Error(err))
		}
	}

	return nil
}

// authorize 访问控制：本人、所属酒店合作方、管理员
func (s *ReservationService) authorize(ctx context.Context, reservation *models.Reservation, requesterID int64, role string) error {
	if role == models.RoleAdmin || reservation.UserID == requesterID {
		return nil
	}
	if role == models.RolePartner {
		hotel, err := s.hotelRepo.GetByID(ctx, reservation.HotelID)
		if err == nil && hotel.OwnerID == requesterID {
			return nil
		}
	}
	return errors.ErrPermissionDenied
}

// parseStayPeriod 解析并校验入住区间，返回晚数
func (s *ReservationService) parseStayPeriod(checkInStr, checkOutStr string) (time.Time, time.Time, int, error) {
	checkIn, err := time.ParseInLocation(DateLayout, checkInStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, 0, errors.ErrInvalidParams.WithMessage("入住日期格式错误")
	}
	checkOut, err := time.ParseInLocation(DateLayout, checkOutStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, 0, errors.ErrInvalidParams.WithMessage("退房日期格式错误")
	}

	today := time.Now()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	if checkIn.Before(todayDate) {
		return time.Time{}, time.Time{}, 0, errors.ErrInvalidCheckIn
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, 0, errors.ErrInvalidCheckOut
	}

	return checkIn, checkOut, stayNights(checkIn, checkOut), nil
}

// stayNights 按日历日计算晚数，夏令时导致的非 24 小时午夜间隔不影响结果
func stayNights(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}

// toReservationInfo 转换预订信息
func (s *ReservationService) toReservationInfo(r *models.Reservation) *ReservationInfo {
	info := &ReservationInfo{
		ID:             r.ID,
		ReservationNo:  r.ReservationNo,
		Status:         r.Status,
		StatusName:     s.getStatusName(r.Status),
		HotelID:        r.HotelID,
		RoomID:         r.RoomID,
		CheckIn:        r.CheckIn.Format(DateLayout),
		CheckOut:       r.CheckOut.Format(DateLayout),
		Nights:         r.Nights,
		Guests:         r.Guests,
		BaseAmount:     r.BaseAmount,
		UsedPoints:     r.UsedPoints,
		CouponCode:     r.CouponCode,
		CouponDiscount: r.CouponDiscount,
		TotalAmount:    r.TotalAmount,
		PaymentStatus:  r.PaymentStatus,
		PaidAt:         r.PaidAt,
		RefundedAt:     r.RefundedAt,
		CreatedAt:      r.CreatedAt,
	}

	if r.Hotel != nil {
		info.HotelName = r.Hotel.Name
	}
	if r.Room != nil {
		info.RoomName = r.Room.Name
	}

	return info
}

// toReservationInfos 批量转换预订信息
func (s *ReservationService) toReservationInfos(reservations []*models.Reservation) []*ReservationInfo {
	list := make([]*ReservationInfo, len(reservations))
	for i, r := range reservations {
		list[i] = s.toReservationInfo(r)
	}
	return list
}

// getStatusName 获取状态名称
func (s *ReservationService) getStatusName(status string) string {
	switch status {
	case models.ReservationStatusPending:
		return "待支付"
	case models.ReservationStatusConfirmed:
		return "已确认"
	case models.ReservationStatusCancelled:
		return "已取消"
	case models.ReservationStatusCompleted:
		return "已完成"
	default:
		return "未知"
	}
}

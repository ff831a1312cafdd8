// Package marketing 提供营销相关服务
package marketing

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/utils"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
)

// CouponService 优惠券服务
type CouponService struct {
	db         *gorm.DB
	couponRepo *repository.CouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(db *gorm.DB, couponRepo *repository.CouponRepository) *CouponService {
	return &CouponService{
		db:         db,
		couponRepo: couponRepo,
	}
}

// 自动生成券码长度
const generatedCodeLength = 10

// CreateCouponRequest 创建优惠券请求，Code 为空时自动生成
type CreateCouponRequest struct {
	Code          string    `json:"code" binding:"omitempty,min=3,max=32"`
	Name          string    `json:"name" binding:"required"`
	DiscountType  string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue int64     `json:"discount_value" binding:"required,min=1"`
	MinPurchase   int64     `json:"min_purchase" binding:"min=0"`
	MaxDiscount   int64     `json:"max_discount" binding:"min=0"`
	ValidFrom     time.Time `json:"valid_from" binding:"required"`
	ValidUntil    time.Time `json:"valid_until" binding:"required"`
	UsageLimit    int       `json:"usage_limit" binding:"required,min=1"`
}

// UpdateCouponRequest 更新优惠券请求
type UpdateCouponRequest struct {
	Name          *string    `json:"name,omitempty"`
	DiscountValue *int64     `json:"discount_value,omitempty"`
	MinPurchase   *int64     `json:"min_purchase,omitempty"`
	MaxDiscount   *int64     `json:"max_discount,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	UsageLimit    *int       `json:"usage_limit,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

// CouponInfo 优惠券信息
type CouponInfo struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int64     `json:"discount_value"`
	MinPurchase   int64     `json:"min_purchase"`
	MaxDiscount   int64     `json:"max_discount"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
	UsedCount     int       `json:"used_count"`
	UsageLimit    int       `json:"usage_limit"`
	RemainCount   int       `json:"remain_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCoupon 创建优惠券（管理端）
func (s *CouponService) CreateCoupon(ctx context.Context, req *CreateCouponRequest) (*CouponInfo, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, errors.ErrInvalidParams.WithMessage("有效期结束时间必须晚于开始时间")
	}
	if req.DiscountType == models.DiscountTypePercentage && req.DiscountValue > 100 {
		return nil, errors.ErrInvalidParams.WithMessage("折扣比例不能超过100")
	}

	code := strings.ToUpper(req.Code)
	if code == "" {
		code = utils.GenerateCouponCode(generatedCodeLength)
	}

	exists, err := s.couponRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrCouponCodeExists
	}

	coupon := &models.Coupon{
		Code:          code,
		Name:          req.Name,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		MaxDiscount:   req.MaxDiscount,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.toCouponInfo(coupon), nil
}

// UpdateCoupon 更新优惠券（管理端）
func (s *CouponService) UpdateCoupon(ctx context.Context, id int64, req *UpdateCouponRequest) (*CouponInfo, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCouponNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.DiscountValue != nil {
		if coupon.DiscountType == models.DiscountTypePercentage && *req.DiscountValue > 100 {
			return nil, errors.ErrInvalidParams.WithMessage("折扣比例不能超过100")
		}
		fields["discount_value"] = *req.DiscountValue
	}
	if req.MinPurchase != nil {
		fields["min_purchase"] = *req.MinPurchase
	}
	if req.MaxDiscount != nil {
		fields["max_discount"] = *req.MaxDiscount
	}
	if req.ValidUntil != nil {
		fields["valid_until"] = *req.ValidUntil
	}
	if req.UsageLimit != nil {
		fields["usage_limit"] = *req.UsageLimit
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.couponRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	coupon, err = s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.toCouponInfo(coupon), nil
}

// DeleteCoupon 删除优惠券（管理端）
func (s *CouponService) DeleteCoupon(ctx context.Context, id int64) error {
	if _, err := s.couponRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCouponNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.couponRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// GetCoupon 获取优惠券详情
func (s *CouponService) GetCoupon(ctx context.Context, id int64) (*CouponInfo, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCouponNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.toCouponInfo(coupon), nil
}

// ListCoupons 获取优惠券列表（管理端）
func (s *CouponService) ListCoupons(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*CouponInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	coupons, total, err := s.couponRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*CouponInfo, len(coupons))
	for i, c := range coupons {
		list[i] = s.toCouponInfo(c)
	}
	return list, total, nil
}

// VerifyCoupon 校验优惠券并计算折扣金额。
// amount 为扣除积分后的应付金额，门槛按该金额判定。
func (s *CouponService) VerifyCoupon(ctx context.Context, code string, amount int64) (*models.Coupon, int64, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.ErrCouponNotFound
		}
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	if !coupon.IsActive {
		return nil, 0, errors.ErrCouponInactive
	}

	now := time.Now()
	if now.Before(coupon.ValidFrom) {
		return nil, 0, errors.ErrCouponNotYetValid
	}
	if now.After(coupon.ValidUntil) {
		return nil, 0, errors.ErrCouponExpired
	}
	if coupon.UsedCount >= coupon.UsageLimit {
		return nil, 0, errors.ErrCouponExhausted
	}
	if amount < coupon.MinPurchase {
		return nil, 0, errors.ErrMinPurchaseNotMet
	}

	return coupon, s.CalculateDiscount(coupon, amount), nil
}

// CalculateDiscount 计算优惠金额
func (s *CouponService) CalculateDiscount(coupon *models.Coupon, amount int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case models.DiscountTypeFixed:
		discount = coupon.DiscountValue
	case models.DiscountTypePercentage:
		// DiscountValue 为折扣百分比，如 10 表示优惠 10%
		discount = amount * coupon.DiscountValue / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	default:
		return 0
	}

	// 优惠金额不能超过应付金额
	if discount > amount {
		discount = amount
	}
	return discount
}

// RedeemTx 在事务中核销优惠券，计数达到上限时失败
func (s *CouponService) RedeemTx(ctx context.Context, tx *gorm.DB, couponID int64) error {
	ok, err := s.couponRepo.Redeem(ctx, tx, couponID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		return errors.ErrCouponExhausted
	}
	return nil
}

// toCouponInfo 转换优惠券信息
func (s *CouponService) toCouponInfo(c *models.Coupon) *CouponInfo {
	remain := c.UsageLimit - c.UsedCount
	if remain < 0 {
		remain = 0
	}
	return &CouponInfo{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MinPurchase:   c.MinPurchase,
		MaxDiscount:   c.MaxDiscount,
		ValidFrom:     c.ValidFrom,
		ValidUntil:    c.ValidUntil,
		UsedCount:     c.UsedCount,
		UsageLimit:    c.UsageLimit,
		RemainCount:   remain,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
	}
}

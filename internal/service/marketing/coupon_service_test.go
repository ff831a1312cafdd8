// Package marketing 优惠券服务单元测试
package marketing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
)

func setupCouponService(t *testing.T) (*CouponService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Coupon{}))

	return NewCouponService(db, repository.NewCouponRepository(db)), db
}

func validCouponRequest(code string) *CreateCouponRequest {
	now := time.Now()
	return &CreateCouponRequest{
		Code:          code,
		Name:          "첫 예약 10% 할인",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		MinPurchase:   50000,
		MaxDiscount:   20000,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(30 * 24 * time.Hour),
		UsageLimit:    100,
	}
}

func TestCouponService_CreateCoupon(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()

	info, err := svc.CreateCoupon(ctx, validCouponRequest("save10"))
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", info.Code)
	assert.Equal(t, 100, info.RemainCount)
	assert.True(t, info.IsActive)

	// 重复券码
	_, err = svc.CreateCoupon(ctx, validCouponRequest("SAVE10"))
	assert.ErrorIs(t, err, errors.ErrCouponCodeExists)
}

func TestCouponService_CreateCoupon_GeneratedCode(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()

	info, err := svc.CreateCoupon(ctx, validCouponRequest(""))
	require.NoError(t, err)
	assert.Len(t, info.Code, generatedCodeLength)
	for _, ch := range info.Code {
		assert.Contains(t, "ABCDEFGHJKLMNPQRSTUVWXYZ23456789", string(ch))
	}

	// 生成的券码可直接用于试算
	coupon, _, err := svc.VerifyCoupon(ctx, info.Code, 100000)
	require.NoError(t, err)
	assert.Equal(t, info.Code, coupon.Code)
}

func TestCouponService_CreateCoupon_InvalidPeriod(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()

	req := validCouponRequest("BADRANGE")
	req.ValidUntil = req.ValidFrom.Add(-time.Hour)
	_, err := svc.CreateCoupon(ctx, req)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidParams.Code, appErr.Code)
}

func TestCouponService_VerifyCoupon_PercentageCapped(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, validCouponRequest("SAVE10"))
	require.NoError(t, err)

	// 10% 折扣 25000，封顶 20000
	coupon, discount, err := svc.VerifyCoupon(ctx, "save10", 250000)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.Equal(t, int64(20000), discount)

	// 封顶以下按比例
	_, discount, err = svc.VerifyCoupon(ctx, "SAVE10", 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), discount)
}

func TestCouponService_VerifyCoupon_MinPurchaseNotMet(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()

	_, err := svc.CreateCoupon(ctx, validCouponRequest("SAVE10"))
	require.NoError(t, err)

	_, _, err = svc.VerifyCoupon(ctx, "SAVE10", 40000)
	assert.ErrorIs(t, err, errors.ErrMinPurchaseNotMet)
}

func TestCouponService_VerifyCoupon_Lifecycle(t *testing.T) {
	svc, db := setupCouponService(t)
	ctx := context.Background()

	info, err := svc.CreateCoupon(ctx, validCouponRequest("SAVE10"))
	require.NoError(t, err)

	// 停用
	require.NoError(t, db.Model(&models.Coupon{}).Where("id = ?", info.ID).Update("is_active", false).Error)
	_, _, err = svc.VerifyCoupon(ctx, "SAVE10", 100000)
	assert.ErrorIs(t, err, errors.ErrCouponInactive)

	// 过期
	require.NoError(t, db.Model(&models.Coupon{}).Where("id = ?", info.ID).Updates(map[string]interface{}{
		"is_active":   true,
		"valid_until": time.Now().Add(-time.Hour),
	}).Error)
	_, _, err = svc.VerifyCoupon(ctx, "SAVE10", 100000)
	assert.ErrorIs(t, err, errors.ErrCouponExpired)

	// 未生效
	require.NoError(t, db.Model(&models.Coupon{}).Where("id = ?", info.ID).Updates(map[string]interface{}{
		"valid_from":  time.Now().Add(time.Hour),
		"valid_until": time.Now().Add(48 * time.Hour),
	}).Error)
	_, _, err = svc.VerifyCoupon(ctx, "SAVE10", 100000)
	assert.ErrorIs(t, err, errors.ErrCouponNotYetValid)

	// 用完
	require.NoError(t, db.Model(&models.Coupon{}).Where("id = ?", info.ID).Updates(map[string]interface{}{
		"valid_from": time.Now().Add(-time.Hour),
		"used_count": 100,
	}).Error)
	_, _, err = svc.VerifyCoupon(ctx, "SAVE10", 100000)
	assert.ErrorIs(t, err, errors.ErrCouponExhausted)
}

func TestCouponService_CalculateDiscount_FixedClamped(t *testing.T) {
	svc, _ := setupCouponService(t)

	coupon := &models.Coupon{
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 30000,
	}
	assert.Equal(t, int64(30000), svc.CalculateDiscount(coupon, 100000))
	// 优惠不能超过应付金额
	assert.Equal(t, int64(20000), svc.CalculateDiscount(coupon, 20000))
}

func TestCouponService_RedeemTx_Exhausted(t *testing.T) {
	svc, db := setupCouponService(t)
	ctx := context.Background()

	req := validCouponRequest("ONCE")
	req.UsageLimit = 1
	info, err := svc.CreateCoupon(ctx, req)
	require.NoError(t, err)

	require.NoError(t, svc.RedeemTx(ctx, db, info.ID))
	err = svc.RedeemTx(ctx, db, info.ID)
	assert.ErrorIs(t, err, errors.ErrCouponExhausted)
}

func TestCouponService_UpdateCoupon(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()

	info, err := svc.CreateCoupon(ctx, validCouponRequest("SAVE10"))
	require.NoError(t, err)

	newName := "여름 프로모션"
	inactive := false
	updated, err := svc.UpdateCoupon(ctx, info.ID, &UpdateCouponRequest{
		Name:     &newName,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "여름 프로모션", updated.Name)
	assert.False(t, updated.IsActive)
}

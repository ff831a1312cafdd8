// Package user 提供用户服务
package user

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/config"
	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/logger"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
)

// PointsService 积分服务
type PointsService struct {
	db             *gorm.DB
	userRepo       *repository.UserRepository
	pointEntryRepo *repository.PointEntryRepository
	cfg            *config.PointsConfig
}

// NewPointsService 创建积分服务
func NewPointsService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	pointEntryRepo *repository.PointEntryRepository,
	cfg *config.PointsConfig,
) *PointsService {
	return &PointsService{
		db:             db,
		userRepo:       userRepo,
		pointEntryRepo: pointEntryRepo,
		cfg:            cfg,
	}
}

// PointsInfo 积分信息
type PointsInfo struct {
	Points       int64 `json:"points"`
	TotalEarned  int64 `json:"total_earned"`
	TotalUsed    int64 `json:"total_used"`
	TotalExpired int64 `json:"total_expired"`
}

// PointsRecord 积分记录
type PointsRecord struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	TypeName      string    `json:"type_name"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description"`
	ReservationID *int64    `json:"reservation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// GetPointsInfo 获取积分信息
func (s *PointsService) GetPointsInfo(ctx context.Context, userID int64) (*PointsInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	earned, err := s.pointEntryRepo.SumByUserAndType(ctx, userID, models.PointTypeEarned)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	used, err := s.pointEntryRepo.SumByUserAndType(ctx, userID, models.PointTypeUsed)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	expired, err := s.pointEntryRepo.SumByUserAndType(ctx, userID, models.PointTypeExpired)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return &PointsInfo{
		Points:       user.Points,
		TotalEarned:  earned,
		TotalUsed:    used,
		TotalExpired: expired,
	}, nil
}

// GetPointsHistory 获取积分流水，按时间倒序
func (s *PointsService) GetPointsHistory(ctx context.Context, userID int64, page, pageSize int) ([]*PointsRecord, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	entries, total, err := s.pointEntryRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	records := make([]*PointsRecord, len(entries))
	for i, e := range entries {
		records[i] = &PointsRecord{
			ID:            e.ID,
			Type:          e.Type,
			TypeName:      s.getTypeName(e.Type),
			Amount:        e.Amount,
			Description:   e.Description,
			ReservationID: e.ReservationID,
			CreatedAt:     e.CreatedAt,
		}
	}
	return records, total, nil
}

// AwardTx 在事务中发放积分并记录流水
func (s *PointsService) AwardTx(ctx context.Context, tx *gorm.DB, userID, amount int64, description string, reservationID *int64) error {
	if amount <= 0 {
		return nil
	}

	if err := s.userRepo.AddPoints(ctx, tx, userID, amount); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	entry := &models.PointEntry{
		UserID:        userID,
		Type:          models.PointTypeEarned,
		Amount:        amount,
		Description:   description,
		ReservationID: reservationID,
	}
	if err := s.pointEntryRepo.CreateTx(ctx, tx, entry); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SpendTx 在事务中扣减积分并记录流水，余额不足时失败
func (s *PointsService) SpendTx(ctx context.Context, tx *gorm.DB, userID, amount int64, description string, reservationID *int64) error {
	if amount <= 0 {
		return errors.ErrInvalidParams.WithMessage("积分必须大于0")
	}

	ok, err := s.userRepo.DeductPoints(ctx, tx, userID, amount)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		return errors.ErrInsufficientPoints
	}

	entry := &models.PointEntry{
		UserID:        userID,
		Type:          models.PointTypeUsed,
		Amount:        amount,
		Description:   description,
		ReservationID: reservationID,
	}
	if err := s.pointEntryRepo.CreateTx(ctx, tx, entry); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// EarnForAmount 按实付金额计算应发积分，向下取整
func (s *PointsService) EarnForAmount(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return amount * int64(s.cfg.EarnRatePercent) / 100
}

// ExpirePoints 过期积分清理（定时任务调用）
func (s *PointsService) ExpirePoints(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.ExpireDays)

	userIDs, err := s.pointEntryRepo.ListUsersWithExpirableEarned(ctx, cutoff, 500)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	for _, userID := range userIDs {
		expirable, err := s.pointEntryRepo.SumExpirableByUser(ctx, userID, cutoff)
		if err != nil {
			logger.Error("计算过期积分失败", logger.UserID(userID), zap.Error(err))
			continue
		}
		if expirable <= 0 {
			continue
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ok, err := s.userRepo.DeductPoints(ctx, tx, userID, expirable)
			if err != nil {
				return err
			}
			if !ok {
				// 余额与流水不一致时跳过，避免扣成负数
				logger.Warn("过期积分超过余额，跳过",
					logger.UserID(userID), logger.Amount(expirable))
				return nil
			}

			entry := &models.PointEntry{
				UserID:      userID,
				Type:        models.PointTypeExpired,
				Amount:      expirable,
				Description: "포인트 유효기간 만료",
			}
			return s.pointEntryRepo.CreateTx(ctx, tx, entry)
		})
		if err != nil {
			logger.Error("过期积分处理失败", logger.UserID(userID), zap.Error(err))
		}
	}

	return nil
}

// getTypeName 获取积分类型名称
func (s *PointsService) getTypeName(entryType string) string {
	switch entryType {
	case models.PointTypeEarned:
		return "적립"
	case models.PointTypeUsed:
		return "사용"
	case models.PointTypeExpired:
		return "만료"
	default:
		return "기타"
	}
}

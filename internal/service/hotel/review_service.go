package hotel

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/config"
	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/common/logger"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
	userService "github.com/minsukang/stayhub-backend/internal/service/user"
)

// ReviewService 评价服务
type ReviewService struct {
	db              *gorm.DB
	reviewRepo      *repository.ReviewRepository
	reservationRepo *repository.ReservationRepository
	pointsService   *userService.PointsService
	cfg             *config.PointsConfig
}

// NewReviewService 创建评价服务
func NewReviewService(
	db *gorm.DB,
	reviewRepo *repository.ReviewRepository,
	reservationRepo *repository.ReservationRepository,
	pointsService *userService.PointsService,
	cfg *config.PointsConfig,
) *ReviewService {
	return &ReviewService{
		db:              db,
		reviewRepo:      reviewRepo,
		reservationRepo: reservationRepo,
		pointsService:   pointsService,
		cfg:             cfg,
	}
}

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	ReservationID int64  `json:"reservation_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Content       string `json:"content" binding:"max=2000"`
}

// ReviewInfo 评价信息
type ReviewInfo struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	UserNickname  string    `json:"user_nickname,omitempty"`
	ReservationID int64     `json:"reservation_id"`
	HotelID       int64     `json:"hotel_id"`
	Rating        int       `json:"rating"`
	Content       string    `json:"content"`
	AwardedPoints int64     `json:"awarded_points,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateReview 创建评价。仅本人已完成的预订可评价，每个预订
// 只能评价一次，评价成功后发放固定积分奖励，两者在同一事务内完成。
func (s *ReviewService) CreateReview(ctx context.Context, userID int64, req *CreateReviewRequest) (*ReviewInfo, error) {
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
	if reservation.Status != models.ReservationStatusCompleted {
		return nil, errors.ErrReviewNotAllowed
	}

	exists, err := s.reviewRepo.ExistsByReservation(ctx, req.ReservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrReviewExists
	}

	review := &models.Review{
		UserID:        userID,
		ReservationID: req.ReservationID,
		HotelID:       reservation.HotelID,
		Rating:        req.Rating,
		Content:       req.Content,
	}
	award := int64(s.cfg.ReviewAward)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.CreateTx(ctx, tx, review); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if award > 0 {
			if err := s.pointsService.AwardTx(ctx, tx, userID, award,
				"리뷰 작성 적립", &reservation.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("评价已创建",
		logger.UserID(userID),
		logger.HotelID(reservation.HotelID),
		logger.ReservationNo(reservation.ReservationNo))

	info := s.toReviewInfo(review)
	info.AwardedPoints = award
	return info, nil
}

// ListHotelReviews 获取酒店评价列表，新评价在前
func (s *ReviewService) ListHotelReviews(ctx context.Context, hotelID int64, page, pageSize int) ([]*ReviewInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	reviews, total, err := s.reviewRepo.ListByHotel(ctx, hotelID, offset, pageSize)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	return s.toReviewInfos(reviews), total, nil
}

// ListUserReviews 获取用户自己的评价列表
func (s *ReviewService) ListUserReviews(ctx context.Context, userID int64, page, pageSize int) ([]*ReviewInfo, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	reviews, total, err := s.reviewRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	return s.toReviewInfos(reviews), total, nil
}

// toReviewInfo 转换评价信息
func (s *ReviewService) toReviewInfo(review *models.Review) *ReviewInfo {
	info := &ReviewInfo{
		ID:            review.ID,
		UserID:        review.UserID,
		ReservationID: review.ReservationID,
		HotelID:       review.HotelID,
		Rating:        review.Rating,
		Content:       review.Content,
		CreatedAt:     review.CreatedAt,
	}
	if review.User != nil {
		info.UserNickname = review.User.Nickname
	}
	return info
}

// toReviewInfos 转换评价列表
func (s *ReviewService) toReviewInfos(reviews []*models.Review) []*ReviewInfo {
	result := make([]*ReviewInfo, len(reviews))
	for i, review := range reviews {
		result[i] = s.toReviewInfo(review)
	}
	return result
}

// Package user 提供用户服务
package user

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/minsukang/stayhub-backend/internal/common/errors"
	"github.com/minsukang/stayhub-backend/internal/models"
	"github.com/minsukang/stayhub-backend/internal/repository"
)

// UserService 用户服务
type UserService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, userRepo *repository.UserRepository) *UserService {
	return &UserService{
		db:       db,
		userRepo: userRepo,
	}
}

// UserProfile 用户详情
type UserProfile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Points    int64     `json:"points"`
	Status    int8      `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest 更新用户信息请求
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// GetProfile 获取用户详情
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return s.toProfile(user), nil
}

// UpdateProfile 更新用户信息
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error {
	updates := make(map[string]interface{})

	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.userRepo.UpdateFields(ctx, userID, updates); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListUsers 获取用户列表（管理端）
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*UserProfile, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	users, total, err := s.userRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*UserProfile, len(users))
	for i, u := range users {
		list[i] = s.toProfile(u)
	}
	return list, total, nil
}

// SetUserStatus 启用/禁用用户（管理端）
func (s *UserService) SetUserStatus(ctx context.Context, userID int64, status int8) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SetUserRole 调整用户角色（管理端）
func (s *UserService) SetUserRole(ctx context.Context, userID int64, role string) error {
	switch role {
	case models.RoleUser, models.RolePartner, models.RoleAdmin:
	default:
		return errors.ErrInvalidParams.WithMessage("无效的角色")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"role": role}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// toProfile 转换用户详情
func (s *UserService) toProfile(user *models.User) *UserProfile {
	return &UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		Phone:     user.Phone,
		Role:      user.Role,
		Points:    user.Points,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}

// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	"github.com/minsukang/stayhub-backend/internal/common/config"
	reservationService "github.com/minsukang/stayhub-backend/internal/service/reservation"
	userService "github.com/minsukang/stayhub-backend/internal/service/user"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	reservationService *reservationService.ReservationService
	pointsService      *userService.PointsService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	reservationSvc *reservationService.ReservationService,
	pointsSvc *userService.PointsService,
) *TaskHandler {
	return &TaskHandler{
		reservationService: reservationSvc,
		pointsService:      pointsSvc,
	}
}

// CompletePastCheckouts 将已过退房日期的已确认预订置为已完成
func (h *TaskHandler) CompletePastCheckouts(ctx context.Context) error {
	return h.reservationService.CompletePastCheckouts(ctx)
}

// ExpirePoints 清理超过有效期的积分
func (h *TaskHandler) ExpirePoints(ctx context.Context) error {
	return h.pointsService.ExpirePoints(ctx)
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler, cfg *config.BusinessConfig) {
	completeInterval := time.Duration(cfg.Reservation.CompleteCheckInterval) * time.Second
	if completeInterval <= 0 {
		completeInterval = 10 * time.Minute
	}
	scheduler.AddTask("CompletePastCheckouts", completeInterval, handler.CompletePastCheckouts)

	expireInterval := time.Duration(cfg.Points.ExpireInterval) * time.Second
	if expireInterval <= 0 {
		expireInterval = 24 * time.Hour
	}
	scheduler.AddTask("ExpirePoints", expireInterval, handler.ExpirePoints)
}

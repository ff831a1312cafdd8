// Package main 是应用程序入口
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/minsukang/stayhub-backend/docs"
	"github.com/minsukang/stayhub-backend/internal/common/cache"
	"github.com/minsukang/stayhub-backend/internal/common/config"
	"github.com/minsukang/stayhub-backend/internal/common/jwt"
	"github.com/minsukang/stayhub-backend/internal/common/metrics"
	commonMiddleware "github.com/minsukang/stayhub-backend/internal/common/middleware"
	"github.com/minsukang/stayhub-backend/internal/common/response"
	authHandler "github.com/minsukang/stayhub-backend/internal/handler/auth"
	hotelHandler "github.com/minsukang/stayhub-backend/internal/handler/hotel"
	marketingHandler "github.com/minsukang/stayhub-backend/internal/handler/marketing"
	paymentHandler "github.com/minsukang/stayhub-backend/internal/handler/payment"
	reservationHandler "github.com/minsukang/stayhub-backend/internal/handler/reservation"
	userHandler "github.com/minsukang/stayhub-backend/internal/handler/user"
	"github.com/minsukang/stayhub-backend/internal/middleware"
	"github.com/minsukang/stayhub-backend/internal/repository"
	"github.com/minsukang/stayhub-backend/internal/scheduler"
	authService "github.com/minsukang/stayhub-backend/internal/service/auth"
	hotelService "github.com/minsukang/stayhub-backend/internal/service/hotel"
	marketingService "github.com/minsukang/stayhub-backend/internal/service/marketing"
	paymentService "github.com/minsukang/stayhub-backend/internal/service/payment"
	reservationService "github.com/minsukang/stayhub-backend/internal/service/reservation"
	userService "github.com/minsukang/stayhub-backend/internal/service/user"
	"github.com/minsukang/stayhub-backend/pkg/tosspay"
)

// setupRouter 设置路由并返回后台定时任务调度器
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *scheduler.Scheduler {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	pointEntryRepo := repository.NewPointEntryRepository(db)
	hotelRepo := repository.NewHotelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	operationLogRepo := repository.NewOperationLogRepository(db)

	// 初始化支付网关客户端
	tossClient := tosspay.NewClient(&tosspay.Config{
		BaseURL:   cfg.Toss.BaseURL,
		SecretKey: cfg.Toss.SecretKey,
		Timeout:   cfg.Toss.TimeoutDuration(),
	})

	// 初始化服务
	authSvc := authService.NewAuthService(db, userRepo, jwtManager)
	userSvc := userService.NewUserService(db, userRepo)
	pointsSvc := userService.NewPointsService(db, userRepo, pointEntryRepo, &cfg.Business.Points)

	hotelSvc := hotelService.NewHotelService(db, hotelRepo, roomRepo, cache.New(redisClient))
	reviewSvc := hotelService.NewReviewService(db, reviewRepo, reservationRepo, pointsSvc, &cfg.Business.Points)

	couponSvc := marketingService.NewCouponService(db, couponRepo)
	reservationSvc := reservationService.NewReservationService(
		db, reservationRepo, roomRepo, hotelRepo,
		couponSvc, pointsSvc, tossClient, &cfg.Business.Reservation,
	)
	paymentSvc := paymentService.NewPaymentService(db, reservationRepo, pointsSvc, tossClient, redisClient)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	userH := userHandler.NewHandler(userSvc, pointsSvc)
	hotelH := hotelHandler.NewHandler(hotelSvc, reviewSvc)
	reservationH := reservationHandler.NewHandler(reservationSvc, reviewSvc)
	paymentH := paymentHandler.NewHandler(paymentSvc)
	couponH := marketingHandler.NewCouponHandler(couponSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.RequestSizeLimiter(1 << 20)) // 1MB
	r.Use(middleware.AccessLog(logger))

	// 链路追踪
	if cfg.Tracing.Enabled {
		r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ping", "/ready", "/metrics"},
		}))
	}

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		m := metrics.Init("")
		r.Use(m.Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")

	// IP 限流
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.IPRateLimit(redisClient, cfg.RateLimit.Burst, time.Second))
	}
	{
		// 公开接口（无需认证）
		public := v1.Group("")
		{
			// 登录/注册接口单独限流
			authPublic := public.Group("", middleware.LoginRateLimit(redisClient))
			authH.RegisterRoutes(authPublic)

			hotelH.RegisterRoutes(public)

			// 支付网关回调（验签在处理器内完成）
			paymentH.RegisterRoutes(public)
		}

		// 登录用户接口（普通用户和管理员均可访问）
		authed := v1.Group("", middleware.Auth(&middleware.AuthConfig{JWTManager: jwtManager}))
		{
			authH.RegisterProtectedRoutes(authed)
			userH.RegisterProtectedRoutes(authed)
			reservationH.RegisterProtectedRoutes(authed)
			paymentH.RegisterProtectedRoutes(authed)
			couponH.RegisterProtectedRoutes(authed)

			// 合作方接口（partner 或 admin 角色）
			partner := authed.Group("", middleware.RequirePartner())
			{
				hotelH.RegisterPartnerRoutes(partner)
				reservationH.RegisterPartnerRoutes(partner)
			}
		}

		// 管理后台接口（写操作记录审计日志）
		operationLogger := commonMiddleware.NewOperationLogger(operationLogRepo)
		adminAuth := v1.Group("", middleware.AdminAuth(jwtManager), operationLogger.Log())
		{
			userH.RegisterAdminRoutes(adminAuth)
			reservationH.RegisterAdminRoutes(adminAuth)
			paymentH.RegisterAdminRoutes(adminAuth)
			couponH.RegisterAdminRoutes(adminAuth)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "请求的路径不存在")
	})

	// 定时任务
	sched := scheduler.NewScheduler(logger)
	scheduler.SetupTasks(sched, scheduler.NewTaskHandler(reservationSvc, pointsSvc), &cfg.Business)
	return sched
}

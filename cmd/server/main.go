package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"emsi-portal/backend/config"
	"emsi-portal/backend/internal/api/handler"
	"emsi-portal/backend/internal/api/middleware"
	"emsi-portal/backend/internal/api/router"
	"emsi-portal/backend/internal/repository"
	"emsi-portal/backend/internal/seed"
	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/database"
	"emsi-portal/backend/pkg/jwt"
	applogger "emsi-portal/backend/pkg/logger"
	"emsi-portal/backend/pkg/metrics"
	"emsi-portal/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log, zap.String("store", cfg.Store.Engine))
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Engine),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化存储
	var (
		repo *repository.Repository
		db   *gorm.DB
	)
	switch cfg.Store.Engine {
	case "sqlite":
		db, err = database.NewDB(&cfg.Store, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		repo = repository.NewRepository(db)
	default:
		repo = repository.NewMemoryRepository()
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var (
		rdb     *redis.Client
		limiter middleware.RateLimiter
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，通知队列与限流将不可用", zap.Error(err))
			rdb = nil
		} else {
			limiter = rdb
		}
	}

	// 5. 通知投递
	var notifier service.Notifier = service.NewLogNotifier(logger)
	if cfg.Notify.Backend == "redis" {
		if rdb != nil {
			notifier = service.NewQueueNotifier(rdb, cfg.Notify.QueueKey)
		} else {
			logger.Warn("通知后端为 redis 但 Redis 不可用，回退到日志投递")
		}
	}

	// 6. 依赖注入: Repository → Service → Handler
	m := metrics.New()
	scheduler := service.NewTimerScheduler()
	svc := service.NewService(cfg, repo, service.Deps{
		Notifier:  notifier,
		Scheduler: scheduler,
		Metrics:   m,
	}, logger)

	if cfg.Feature.SeedDemoData {
		if err := seed.Demo(context.Background(), repo, logger); err != nil {
			logger.Fatal("写入演示数据失败", zap.Error(err))
		}
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	h := handler.NewHandler(cfg, svc, jwtMgr)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, limiter, m, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 等待已排队的助手回复写入
	scheduler.Wait()

	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

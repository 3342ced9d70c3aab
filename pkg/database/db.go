package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"emsi-portal/backend/config"
)

// NewDB 初始化 SQLite 数据库连接（store.engine=sqlite）
// 默认 DSN 为共享缓存的内存库，进程退出即丢失，不提供持久化
func NewDB(cfg *config.StoreConfig, logger *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// 内存库只允许单连接，避免多个连接各自看到独立的空库
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	logger.Info("数据库连接成功", zap.String("engine", "sqlite"), zap.String("dsn", cfg.DSN))

	return db, nil
}

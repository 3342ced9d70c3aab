package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"emsi-portal/backend/config"
)

// serviceName 写入每条日志的 service 字段
const serviceName = "emsi-portal"

// NewLogger 根据配置初始化 Zap 日志实例
// extra 为附加的常驻字段（如存储引擎），随每条日志输出
func NewLogger(cfg *config.LogConfig, extra ...zap.Field) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// 审核与助手日志按秒采样会丢失记录
		zapCfg.Sampling = nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if out := strings.TrimSpace(cfg.Output); out != "" && out != "stdout" {
		zapCfg.OutputPaths = []string{out}
	} else {
		zapCfg.OutputPaths = []string{"stdout"}
	}

	fields := append([]zap.Field{zap.String("service", serviceName)}, extra...)
	logger, err := zapCfg.Build(zap.Fields(fields...))
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}

	return logger, nil
}

// Module 返回带 module 字段的子日志器，便于按业务模块过滤
func Module(l *zap.Logger, name string) *zap.Logger {
	return l.Named(name).With(zap.String("module", name))
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Feature   FeatureConfig   `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	BodyLimit    int64         `mapstructure:"body_limit"`
	CORS         CORSConfig    `mapstructure:"cors"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StoreConfig 存储引擎配置
// engine: memory（默认，进程内集合）| sqlite（内存 SQLite，经 GORM 访问）
type StoreConfig struct {
	Engine string `mapstructure:"engine"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置（通知队列、限流）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
// output: stdout（默认）或文件路径
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// AssistantConfig 助手配置
type AssistantConfig struct {
	ReplyDelay       time.Duration `mapstructure:"reply_delay"`
	UpcomingSessions int           `mapstructure:"upcoming_sessions"`
	TopAbsentees     int           `mapstructure:"top_absentees"`
	RateLimit        int           `mapstructure:"rate_limit"`
	RateWindow       time.Duration `mapstructure:"rate_window"`
}

// NotifyConfig 通知意图投递配置
// backend: log | redis
type NotifyConfig struct {
	Backend  string `mapstructure:"backend"`
	QueueKey string `mapstructure:"queue_key"`
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	SeedDemoData    bool `mapstructure:"seed_demo_data"`
	DevTokenEnabled bool `mapstructure:"dev_token_enabled"`
}

// Load 从 .env、配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 5<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("store.engine", "memory")
	v.SetDefault("store.dsn", "file:emsi?mode=memory&cache=shared")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "12h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("assistant.reply_delay", "1s")
	v.SetDefault("assistant.upcoming_sessions", 2)
	v.SetDefault("assistant.top_absentees", 2)
	v.SetDefault("assistant.rate_limit", 30)
	v.SetDefault("assistant.rate_window", "1m")

	v.SetDefault("notify.backend", "log")
	v.SetDefault("notify.queue_key", "emsi:notifications")

	v.SetDefault("feature.seed_demo_data", true)
	v.SetDefault("feature.dev_token_enabled", false)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("EMSI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Store.Engine {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("配置校验失败: store.engine 仅支持 memory 或 sqlite，实际为 %q", c.Store.Engine)
	}
	switch c.Notify.Backend {
	case "log", "redis":
	default:
		return fmt.Errorf("配置校验失败: notify.backend 仅支持 log 或 redis，实际为 %q", c.Notify.Backend)
	}
	if c.Notify.Backend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("配置校验失败: notify.backend=redis 需要 redis.enabled=true")
	}
	if c.Assistant.UpcomingSessions < 1 || c.Assistant.TopAbsentees < 1 {
		return fmt.Errorf("配置校验失败: assistant.upcoming_sessions 与 assistant.top_absentees 必须大于 0")
	}
	return nil
}

package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emsi-portal/backend/config"
	"emsi-portal/backend/internal/api/handler"
	"emsi-portal/backend/internal/api/middleware"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/pkg/jwt"
	"emsi-portal/backend/pkg/metrics"
	"emsi-portal/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流；rdb 为 nil 时健康检查报告 redis: disabled
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	limiter middleware.RateLimiter,
	m *metrics.Metrics,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders("/api/v1/export/"))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		redisStatus := "disabled"
		if rdb != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			redisStatus = "down"
			if rdb.Healthy(ctx) {
				redisStatus = "up"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": redisStatus})
	})

	// ── Prometheus ──
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	supervisor := middleware.RoleAuth(model.RoleSupervisor)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 开发用 Token（无需认证，由开关控制）
		v1.POST("/auth/dev-token", h.Auth.DevToken)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			// 花名册
			students := authorized.Group("/students")
			{
				students.GET("", supervisor, h.Student.ListStudents)
				students.POST("", supervisor, h.Student.CreateStudent)
				students.GET("/:id", h.Student.GetStudent) // 督导或本人（Handler 层鉴权）
				students.PATCH("/:id", supervisor, h.Student.UpdateStudent)
				students.DELETE("/:id", supervisor, h.Student.DeleteStudent)
				students.PATCH("/:id/profile", h.Student.UpdateProfile)
				students.PUT("/:id/picture", h.Student.UpdatePicture)
			}

			// 班级
			classes := authorized.Group("/classes")
			{
				classes.GET("", h.Class.ListClasses)
				classes.GET("/:id", h.Class.GetClass)
				classes.POST("", supervisor, h.Class.CreateClass)
				classes.PUT("/:id/members", supervisor, h.Class.SetMembers)
				classes.POST("/:id/members", supervisor, h.Class.AddMember)
			}

			// 课表
			sessions := authorized.Group("/sessions")
			{
				sessions.GET("", h.Session.ListSessions)
				sessions.POST("", supervisor, h.Session.CreateSession)
				sessions.PUT("/:id", supervisor, h.Session.UpdateSession)
				sessions.DELETE("/:id", supervisor, h.Session.DeleteSession)
				sessions.POST("/import", supervisor, h.Session.ImportICS)
			}

			// 缺勤台账
			claims := authorized.Group("/claims")
			{
				claims.GET("", h.Claim.ListClaims)
				claims.POST("", h.Claim.SubmitClaim)
				claims.GET("/counts", h.Claim.CountClaims)
				claims.GET("/:id", h.Claim.GetClaim)
				claims.PUT("/:id/review", supervisor, h.Claim.ReviewClaim)
				claims.POST("/:id/notify", supervisor, h.Claim.NotifyStudent)
			}

			// 助手
			assistant := authorized.Group("/assistant")
			assistant.Use(middleware.RateLimit(limiter, cfg.Assistant.RateLimit, cfg.Assistant.RateWindow))
			{
				assistant.GET("/messages", h.Assistant.History)
				assistant.POST("/messages", h.Assistant.SendMessage)
			}

			// 概览与导出
			authorized.GET("/overview", h.Export.Overview)
			authorized.GET("/overview/classes", supervisor, h.Export.ClassStats)

			export := authorized.Group("/export", supervisor)
			{
				export.GET("/students", h.Export.ExportRows)
				export.GET("/students.csv", h.Export.ExportCSV)
				export.GET("/students.xlsx", h.Export.ExportXLSX)
			}
		}
	}

	return r
}

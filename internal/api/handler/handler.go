package handler

import (
	"emsi-portal/backend/config"
	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/jwt"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Student   *StudentHandler
	Class     *ClassHandler
	Session   *SessionHandler
	Claim     *ClaimHandler
	Assistant *AssistantHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, jwtMgr *jwt.Manager) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(jwtMgr, cfg.Auth.AccessTokenTTL, cfg.Feature.DevTokenEnabled),
		Student:   NewStudentHandler(svc.Roster),
		Class:     NewClassHandler(svc.Roster),
		Session:   NewSessionHandler(svc.Session),
		Claim:     NewClaimHandler(svc.Ledger),
		Assistant: NewAssistantHandler(svc.Assistant),
		Export:    NewExportHandler(svc.Export),
	}
}

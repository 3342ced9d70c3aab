package handler

import (
	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/response"
)

// AssistantHandler 助手对话 HTTP 处理器
type AssistantHandler struct {
	assistantSvc service.AssistantService
}

// NewAssistantHandler 创建 AssistantHandler
func NewAssistantHandler(assistantSvc service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantSvc: assistantSvc}
}

// SendMessage 发送消息并获取回复
// POST /api/v1/assistant/messages
func (h *AssistantHandler) SendMessage(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	res, err := h.assistantSvc.Send(c.Request.Context(), p, req.Text)
	if err != nil {
		handleServiceError(c, moduleAssistant, err)
		return
	}
	response.Created(c, res)
}

// History 当前调用方的对话记录
// GET /api/v1/assistant/messages
func (h *AssistantHandler) History(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	msgs, err := h.assistantSvc.History(c.Request.Context(), p)
	if err != nil {
		handleServiceError(c, moduleAssistant, err)
		return
	}
	response.OK(c, msgs)
}

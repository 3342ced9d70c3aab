package handler

import (
	"bytes"
	"context"

	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/response"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler 导出与统计 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRows 导出行（JSON）
// GET /api/v1/export/students
func (h *ExportHandler) ExportRows(c *gin.Context) {
	rows, err := h.exportSvc.Rows(c.Request.Context())
	if err != nil {
		handleServiceError(c, moduleExport, err)
		return
	}
	response.OK(c, rows)
}

// ExportCSV 下载 CSV
// GET /api/v1/export/students.csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	h.download(c, h.exportSvc.CSV, contentTypeCSV)
}

// ExportXLSX 下载 Excel
// GET /api/v1/export/students.xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	h.download(c, h.exportSvc.XLSX, contentTypeXLSX)
}

func (h *ExportHandler) download(c *gin.Context, build func(context.Context) (*bytes.Buffer, string, error), contentType string) {
	buf, filename, err := build(c.Request.Context())
	if err != nil {
		handleServiceError(c, moduleExport, err)
		return
	}
	response.Attachment(c, filename, contentType, buf.Bytes())
}

// Overview 仪表盘概览（督导看全局，学生看自己）
// GET /api/v1/overview
func (h *ExportHandler) Overview(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	ov, err := h.exportSvc.Overview(c.Request.Context(), p)
	if err != nil {
		handleServiceError(c, moduleExport, err)
		return
	}
	response.OK(c, ov)
}

// ClassStats 班级统计（督导）
// GET /api/v1/overview/classes
func (h *ExportHandler) ClassStats(c *gin.Context) {
	stats, err := h.exportSvc.ClassStats(c.Request.Context())
	if err != nil {
		handleServiceError(c, moduleExport, err)
		return
	}
	response.OK(c, stats)
}

package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/projection"
	"emsi-portal/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

const (
	exportBaseName = "students-data"
	exportSheet    = "Étudiants"
	recentMax      = 5
)

// ExportService 导出与统计业务接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - CSV 与 XLSX 列顺序一致（projection.ExportHeader），每个学生一行
//   - 概览与班级统计每次从当前存储内容重新计算，不缓存
type ExportService interface {
	Rows(ctx context.Context) ([]projection.ExportRow, error)
	// CSV 返回 CSV 内容与建议文件名
	CSV(ctx context.Context) (*bytes.Buffer, string, error)
	// XLSX 返回 Excel 内容与建议文件名
	XLSX(ctx context.Context) (*bytes.Buffer, string, error)
	Overview(ctx context.Context, principal model.Principal) (*projection.Overview, error)
	ClassStats(ctx context.Context) ([]projection.ClassStat, error)
}

type exportService struct {
	repo   *repository.Repository
	lock   *StoreLock
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, lock *StoreLock, logger *zap.Logger) ExportService {
	if lock == nil {
		lock = NewStoreLock()
	}
	return &exportService{repo: repo, lock: lock, logger: logger, now: time.Now}
}

// ────────────────────── Rows ──────────────────────

func (s *exportService) Rows(ctx context.Context) ([]projection.ExportRow, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	return projection.ExportRows(students), nil
}

// ────────────────────── CSV ──────────────────────

func (s *exportService) CSV(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(projection.ExportHeader); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("写入 CSV 失败", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}
	return buf, exportBaseName + ".csv", nil
}

// ────────────────────── XLSX ──────────────────────
//
// 输出格式：
//   - 单个 Sheet "Étudiants"
//   - 第 1 行表头（加粗、蓝底），其后每个学生一行
//   - 数值列（缺勤次数）写为数字，便于在表格中排序

func (s *exportService) XLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	widths := []float64{12, 16, 16, 28, 20, 10, 10, 10, 20}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(exportSheet, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, h := range projection.ExportHeader {
		f.SetCellValue(exportSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(exportSheet, "A1", cell(colName(len(projection.ExportHeader)-1), 1), headerStyle)

	// 数据行
	for i, r := range rows {
		row := i + 2
		values := []interface{}{
			r.StudentNumber, r.LastName, r.FirstName, r.Email,
			r.Department, r.Year, r.Class, r.Absences, r.Justified,
		}
		for c, v := range values {
			f.SetCellValue(exportSheet, cell(colName(c), row), v)
		}
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, exportBaseName + ".xlsx", nil
}

// ────────────────────── Overview ──────────────────────

func (s *exportService) Overview(ctx context.Context, principal model.Principal) (*projection.Overview, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	classes, err := s.repo.ClassGroup.List(ctx)
	if err != nil {
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}
	claims, err := s.repo.AbsenceClaim.List(ctx)
	if err != nil {
		s.logger.Error("查询缺勤申请失败", zap.Error(err))
		return nil, err
	}
	sessions, err := s.repo.CourseSession.List(ctx)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}

	ov := projection.BuildOverview(projection.OverviewInput{
		Principal: principal,
		Students:  students,
		Classes:   classes,
		Claims:    claims,
		Sessions:  len(sessions),
		Today:     today(s.now),
		RecentMax: recentMax,
	})
	return &ov, nil
}

// ────────────────────── ClassStats ──────────────────────

func (s *exportService) ClassStats(ctx context.Context) ([]projection.ClassStat, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	classes, err := s.repo.ClassGroup.List(ctx)
	if err != nil {
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	sessions, err := s.repo.CourseSession.List(ctx)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}
	return projection.ClassStats(classes, students, len(sessions)), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

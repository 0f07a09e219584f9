package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
)

const (
	assessmentsSheet = "Assessments"
	summarySheet     = "Summary"
	exportPageSize   = 200
)

var exportHeader = []interface{}{"ID", "Type", "Slide", "Question", "Answer", "Explanation", "Created"}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *exportService) ExportView(ctx context.Context, viewID string, w io.Writer) (int, error) {
	s.logger.Info("Exporting view", "view_id", viewID)

	assessments, err := s.loadView(ctx, viewID)
	if err != nil {
		return 0, err
	}
	if len(assessments) == 0 {
		return 0, ErrEmptyView
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", assessmentsSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeAssessmentsSheet(f, assessments); err != nil {
		return 0, err
	}
	if err := writeSummarySheet(f, assessments); err != nil {
		return 0, err
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("View exported", "view_id", viewID, "rows", len(assessments))
	return len(assessments), nil
}

func (s *exportService) loadView(ctx context.Context, viewID string) ([]*models.Assessment, error) {
	var all []*models.Assessment
	filters := repositories.AssessmentFilters{Limit: exportPageSize, SortBy: "created_at", SortOrder: "asc"}

	for {
		page, total, err := s.repo.Assessment().ListByView(ctx, nil, viewID, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list assessments: %w", err)
		}
		all = append(all, page...)
		if len(page) < filters.Limit || int64(len(all)) >= total {
			return all, nil
		}
		filters.Offset += filters.Limit
	}
}

func writeAssessmentsSheet(f *excelize.File, assessments []*models.Assessment) error {
	if err := f.SetSheetRow(assessmentsSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := boldRow(f, assessmentsSheet, len(exportHeader)); err != nil {
		return err
	}

	for i, a := range assessments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		lines := authoring.Describe(*a).Lines()
		row := []interface{}{
			a.ID,
			string(a.Type),
			a.SlideName,
			lines[0],
			strings.Join(lines[1:], "\n"),
			a.Explanation,
			formatTime(a.CreatedAt),
		}
		if err := f.SetSheetRow(assessmentsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(assessmentsSheet, "D", "E", 60); err != nil {
		return err
	}
	return f.SetColWidth(assessmentsSheet, "G", "G", 20)
}

func writeSummarySheet(f *excelize.File, assessments []*models.Assessment) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	counts := make(map[models.AssessmentType]int, len(models.AssessmentTypes))
	for _, a := range assessments {
		counts[a.Type]++
	}

	header := []interface{}{"Type", "Count"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return err
	}
	if err := boldRow(f, summarySheet, len(header)); err != nil {
		return err
	}

	row := 2
	for _, t := range models.AssessmentTypes {
		if counts[t] == 0 {
			continue
		}
		values := []interface{}{string(t), counts[t]}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}
	total := []interface{}{"Total", len(assessments)}
	return f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &total)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func boldRow(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary = "Summary"
	SheetWeeks   = "Weeks"
	SheetMoves   = "Moves"
)

// ImportColumns is the header row expected by ImportAssessments.
var ImportColumns = []string{"title", "type", "date", "weight", "stake_level", "prep_amount", "prep_unit", "flexibility", "notes"}

type importExportService struct {
	assessments  AssessmentService
	optimization OptimizationService
	logger       *slog.Logger
}

func NewImportExportService(assessments AssessmentService, optimization OptimizationService, logger *slog.Logger) ImportExportService {
	return &importExportService{
		assessments:  assessments,
		optimization: optimization,
		logger:       logger,
	}
}

// ===== EXPORT =====

// ExportRun renders a run as a workbook with Summary, Weeks and Moves sheets.
func (s *importExportService) ExportRun(ctx context.Context, runID string) ([]byte, error) {
	run, err := s.optimization.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	for _, name := range []string{SheetWeeks, SheetMoves} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
		}
	}

	appliedAt := ""
	if run.AppliedAt != nil {
		appliedAt = run.AppliedAt.Format(time.RFC3339)
	}
	summary := [][]any{
		{"Run ID", run.ID},
		{"Horizon start", run.HorizonStart.Format(time.DateOnly)},
		{"Horizon end", run.HorizonEnd.Format(time.DateOnly)},
		{"Before score", run.BeforeScore},
		{"Before level", string(models.LevelFor(run.BeforeScore))},
		{"After score", run.AfterScore},
		{"After level", string(models.LevelFor(run.AfterScore))},
		{"Moves", len(run.Moves.Data())},
		{"Status", string(run.Status)},
		{"Requested by", run.RequestedBy},
		{"Created at", run.CreatedAt.Format(time.RFC3339)},
		{"Applied at", appliedAt},
	}
	if err := writeRows(f, SheetSummary, nil, summary); err != nil {
		return nil, err
	}

	before := run.BeforeWeeks.Data()
	after := run.AfterWeeks.Data()
	weeks := make([][]any, 0, len(before))
	for i, b := range before {
		row := []any{b.Label, b.Start.Format(time.DateOnly), b.End.Format(time.DateOnly), b.Count, b.Score, string(b.Level)}
		if i < len(after) {
			row = append(row, after[i].Count, after[i].Score, string(after[i].Level))
		}
		weeks = append(weeks, row)
	}
	weekHeaders := []string{"Week", "Start", "End", "Before count", "Before score", "Before level", "After count", "After score", "After level"}
	if err := writeRows(f, SheetWeeks, weekHeaders, weeks); err != nil {
		return nil, err
	}

	moves := make([][]any, 0, len(run.Moves.Data()))
	for _, m := range run.Moves.Data() {
		moves = append(moves, []any{m.AssessmentID, m.Title, m.FromDate.Format(time.DateOnly), m.ToDate.Format(time.DateOnly), m.Days()})
	}
	moveHeaders := []string{"Assessment ID", "Title", "From", "To", "Shift (days)"}
	if err := writeRows(f, SheetMoves, moveHeaders, moves); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	offset := 1
	if headers != nil {
		for i, header := range headers {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, header); err != nil {
				return fmt.Errorf("failed to write %s header: %w", sheet, err)
			}
		}
		offset = 2
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+offset)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, r+offset, err)
			}
		}
	}
	return nil
}

// ===== IMPORT =====

// ImportAssessments creates one assessment per data row of the first sheet.
// Rows that fail validation are reported and skipped; any other error stops
// the import.
func (s *importExportService) ImportAssessments(ctx context.Context, data []byte, actor models.User) (*ImportSummary, error) {
	start := time.Now()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ValidationErrors{{Field: "file", Message: "is not a readable xlsx workbook"}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ValidationErrors{{Field: "file", Message: "workbook has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ValidationErrors{{Field: "file", Message: "needs a header row and at least one data row", Value: len(rows)}}
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"title", "type", "date", "stake_level"} {
		if _, ok := headerMap[required]; !ok {
			return nil, ValidationErrors{{Field: "file", Message: "missing column " + required}}
		}
	}

	summary := &ImportSummary{
		TotalRows: len(rows) - 1,
		Created:   make([]uint, 0, len(rows)-1),
		Errors:    make([]ImportRowError, 0),
	}
	for i, row := range rows[1:] {
		rowNumber := i + 2
		req, rowErr := parseImportRow(row, headerMap)
		if rowErr != nil {
			rowErr.Row = rowNumber
			summary.Errors = append(summary.Errors, *rowErr)
			continue
		}

		created, err := s.assessments.Create(ctx, req, actor)
		if err != nil {
			var ve ValidationErrors
			if !errors.As(err, &ve) {
				return nil, fmt.Errorf("import stopped at row %d: %w", rowNumber, err)
			}
			for _, fieldErr := range ve {
				summary.Errors = append(summary.Errors, ImportRowError{Row: rowNumber, Field: fieldErr.Field, Message: fieldErr.Message})
			}
			continue
		}
		summary.Created = append(summary.Created, created.ID)
	}

	summary.Duration = time.Since(start)
	s.logger.InfoContext(ctx, "Imported assessments",
		"user_id", actor.ID,
		"rows", summary.TotalRows,
		"created", len(summary.Created),
		"errors", len(summary.Errors))
	return summary, nil
}

func parseImportRow(row []string, headerMap map[string]int) (*CreateAssessmentRequest, *ImportRowError) {
	cell := func(name string) string {
		if i, ok := headerMap[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	number := func(name string) (int, *ImportRowError) {
		raw := cell(name)
		if raw == "" {
			return 0, &ImportRowError{Field: name, Message: "is required"}
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &ImportRowError{Field: name, Message: "must be a whole number"}
		}
		return n, nil
	}

	weight, rowErr := number("weight")
	if rowErr != nil {
		return nil, rowErr
	}
	prepAmount, rowErr := number("prep_amount")
	if rowErr != nil {
		return nil, rowErr
	}
	prepUnit := models.TimeUnit(cell("prep_unit"))
	if prepUnit == "" {
		return nil, &ImportRowError{Field: "prep_unit", Message: "is required"}
	}

	return &CreateAssessmentRequest{
		Title:       cell("title"),
		Type:        models.AssessmentType(cell("type")),
		Date:        cell("date"),
		Weight:      &weight,
		StakeLevel:  models.StakeLevel(cell("stake_level")),
		PrepTime:    models.PrepTime{Amount: prepAmount, Unit: prepUnit},
		Flexibility: models.Flexibility(cell("flexibility")),
		Notes:       cell("notes"),
	}, nil
}

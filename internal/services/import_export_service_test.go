package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// stubOptimization serves a single stored run.
type stubOptimization struct {
	run *models.OptimizationRun
}

func (s *stubOptimization) Optimize(ctx context.Context, req *OptimizeRequest, actor models.User) (*OptimizationResponse, error) {
	return nil, ErrForbidden
}

func (s *stubOptimization) Apply(ctx context.Context, runID string, actor models.User) (*models.OptimizationRun, error) {
	return nil, ErrForbidden
}

func (s *stubOptimization) GetByID(ctx context.Context, runID string) (*models.OptimizationRun, error) {
	if s.run == nil || s.run.ID != runID {
		return nil, ErrRunNotFound
	}
	return s.run, nil
}

func (s *stubOptimization) List(ctx context.Context, filters repositories.OptimizationRunFilters) (*OptimizationRunListResponse, error) {
	return &OptimizationRunListResponse{}, nil
}

func scenarioRun(t *testing.T) *models.OptimizationRun {
	t.Helper()
	result, err := scheduler.Optimize(clusterOnDay10(), on(0), on(29))
	require.NoError(t, err)
	return &models.OptimizationRun{
		ID:           uuid.NewString(),
		HorizonStart: on(0),
		HorizonEnd:   on(29),
		BeforeScore:  result.BeforeScore,
		AfterScore:   result.AfterScore,
		Moves:        datatypes.NewJSONType(result.Moves),
		BeforeWeeks:  datatypes.NewJSONType(result.BeforeWeeks),
		AfterWeeks:   datatypes.NewJSONType(result.AfterWeeks),
		Status:       models.RunPending,
		RequestedBy:  admin.ID,
	}
}

func TestImportExportService_ExportRun(t *testing.T) {
	run := scenarioRun(t)
	svc := NewImportExportService(nil, &stubOptimization{run: run}, discardLogger())

	data, err := svc.ExportRun(context.Background(), run.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetWeeks, SheetMoves}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, run.ID, cell(SheetSummary, "B1"))
	assert.Equal(t, "2024-03-04", cell(SheetSummary, "B2"))
	assert.Equal(t, "5.4", cell(SheetSummary, "B4"))
	assert.Equal(t, "Moderate", cell(SheetSummary, "B5"))
	assert.Equal(t, "2.3", cell(SheetSummary, "B6"))
	assert.Equal(t, "Low", cell(SheetSummary, "B7"))
	assert.Equal(t, "pending", cell(SheetSummary, "B9"))

	assert.Equal(t, "Week", cell(SheetWeeks, "A1"))
	assert.Equal(t, "Mar 11 - Mar 17", cell(SheetWeeks, "A3"))
	assert.Equal(t, "5", cell(SheetWeeks, "D3"))
	assert.Equal(t, "3", cell(SheetWeeks, "G3"))
	assert.Equal(t, "5.8", cell(SheetWeeks, "H3"))

	moves, err := f.GetRows(SheetMoves)
	require.NoError(t, err)
	require.Len(t, moves, 3)
	assert.Equal(t, []string{"4", "assessment", "2024-03-14", "2024-03-10", "-4"}, moves[1])
	assert.Equal(t, []string{"5", "assessment", "2024-03-14", "2024-03-18", "4"}, moves[2])
}

func TestImportExportService_ExportRun_UnknownRun(t *testing.T) {
	svc := NewImportExportService(nil, &stubOptimization{}, discardLogger())

	_, err := svc.ExportRun(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, writeRows(f, "Sheet1", nil, rows))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func importHeader() []any {
	header := make([]any, len(ImportColumns))
	for i, c := range ImportColumns {
		header[i] = c
	}
	return header
}

func TestImportExportService_ImportAssessments(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.nervousness.On("Invalidate", ctx).Return()

	nextID := uint(0)
	f.repo.On("Create", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		nextID++
		args.Get(2).(*models.Assessment).ID = nextID
	}).Return(nil)

	data := buildWorkbook(t, [][]any{
		importHeader(),
		{"Unit 3 quiz", "quiz", "2024-03-14", "10", "low", "30", "minutes", "high", ""},
		{"Lab write-up", "lab_report", "2024-03-15", "heavy", "medium", "2", "hours", "", ""},
		{"Midterm", "exam", "2024-03-20", "30", "extreme", "6", "hours", "fixed", ""},
		{"Essay draft", "essay", "2024-03-22", "15", "medium", "1", "days", "", "first draft"},
	})

	summary, err := NewImportExportService(f.service, &stubOptimization{}, discardLogger()).ImportAssessments(ctx, data, teacher)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, []uint{1, 2}, summary.Created)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, ImportRowError{Row: 3, Field: "weight", Message: "must be a whole number"}, summary.Errors[0])
	assert.Equal(t, 4, summary.Errors[1].Row)
	assert.Equal(t, "stake_level", summary.Errors[1].Field)

	f.repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestParseImportRow_BlankCellsAreReported(t *testing.T) {
	header := map[string]int{}
	for i, name := range ImportColumns {
		header[name] = i
	}

	tests := []struct {
		name  string
		row   []string
		field string
	}{
		{"blank weight", []string{"Quiz", "quiz", "2024-03-14", "", "low", "30", "minutes", "", ""}, "weight"},
		{"blank prep amount", []string{"Quiz", "quiz", "2024-03-14", "10", "low", "", "minutes", "", ""}, "prep_amount"},
		{"blank prep unit", []string{"Quiz", "quiz", "2024-03-14", "10", "low", "30", "", "", ""}, "prep_unit"},
		{"short row", []string{"Quiz", "quiz", "2024-03-14", "10", "low"}, "prep_amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rowErr := parseImportRow(tt.row, header)
			assert.Nil(t, req)
			require.NotNil(t, rowErr)
			assert.Equal(t, tt.field, rowErr.Field)
			assert.Equal(t, "is required", rowErr.Message)
		})
	}

	req, rowErr := parseImportRow([]string{"Quiz", "quiz", "2024-03-14", "0", "low", "30", "minutes", "", ""}, header)
	require.Nil(t, rowErr)
	require.NotNil(t, req.Weight)
	assert.Equal(t, 0, *req.Weight)
	assert.Equal(t, models.PrepTime{Amount: 30, Unit: models.UnitMinutes}, req.PrepTime)
}

func TestImportExportService_ImportAssessments_RejectsBadFiles(t *testing.T) {
	ctx := context.Background()
	svc := NewImportExportService(newAssessmentFixture().service, &stubOptimization{}, discardLogger())

	_, err := svc.ImportAssessments(ctx, []byte("not a workbook"), teacher)
	assert.True(t, IsValidation(err))

	_, err = svc.ImportAssessments(ctx, buildWorkbook(t, [][]any{importHeader()}), teacher)
	assert.True(t, IsValidation(err))

	_, err = svc.ImportAssessments(ctx, buildWorkbook(t, [][]any{
		{"title", "type", "date"},
		{"Quiz", "quiz", "2024-03-14"},
	}), teacher)
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "missing column stake_level", ve[0].Message)
}

func TestImportExportService_ImportAssessments_PermissionStopsImport(t *testing.T) {
	svc := NewImportExportService(newAssessmentFixture().service, &stubOptimization{}, discardLogger())
	data := buildWorkbook(t, [][]any{
		importHeader(),
		{"Unit 3 quiz", "quiz", "2024-03-14", "10", "low", "30", "minutes", "high", ""},
	})

	_, err := svc.ImportAssessments(context.Background(), data, viewer)
	assert.ErrorIs(t, err, ErrForbidden)
}

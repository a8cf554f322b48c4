package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/services"
	"github.com/stretchr/testify/mock"
)

type MockAssessmentService struct {
	mock.Mock
}

func (m *MockAssessmentService) Create(ctx context.Context, req *services.CreateAssessmentRequest, actor models.User) (*models.Assessment, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentService) GetByID(ctx context.Context, id uint, actor models.User) (*models.Assessment, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentService) List(ctx context.Context, filters repositories.AssessmentFilters, actor models.User) (*services.AssessmentListResponse, error) {
	args := m.Called(ctx, filters, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AssessmentListResponse), args.Error(1)
}

func (m *MockAssessmentService) Update(ctx context.Context, id uint, req *services.UpdateAssessmentRequest, actor models.User) (*models.Assessment, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentService) Delete(ctx context.Context, id uint, actor models.User) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

type MockNervousnessService struct {
	mock.Mock
}

func (m *MockNervousnessService) Daily(ctx context.Context) ([]models.WindowScore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WindowScore), args.Error(1)
}

func (m *MockNervousnessService) Weekly(ctx context.Context, from, to time.Time) ([]models.WindowScore, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WindowScore), args.Error(1)
}

func (m *MockNervousnessService) Summary(ctx context.Context, from, to time.Time) (*services.NervousnessSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.NervousnessSummary), args.Error(1)
}

func (m *MockNervousnessService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

type MockOptimizationService struct {
	mock.Mock
}

func (m *MockOptimizationService) Optimize(ctx context.Context, req *services.OptimizeRequest, actor models.User) (*services.OptimizationResponse, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OptimizationResponse), args.Error(1)
}

func (m *MockOptimizationService) Apply(ctx context.Context, runID string, actor models.User) (*models.OptimizationRun, error) {
	args := m.Called(ctx, runID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OptimizationRun), args.Error(1)
}

func (m *MockOptimizationService) GetByID(ctx context.Context, runID string) (*models.OptimizationRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OptimizationRun), args.Error(1)
}

func (m *MockOptimizationService) List(ctx context.Context, filters repositories.OptimizationRunFilters) (*services.OptimizationRunListResponse, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OptimizationRunListResponse), args.Error(1)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ExportRun(ctx context.Context, runID string) ([]byte, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockImportExportService) ImportAssessments(ctx context.Context, data []byte, actor models.User) (*services.ImportSummary, error) {
	args := m.Called(ctx, data, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportSummary), args.Error(1)
}

type mockServiceManager struct {
	assessment   *MockAssessmentService
	nervousness  *MockNervousnessService
	optimization *MockOptimizationService
	importExport *MockImportExportService
}

func newMockServiceManager() *mockServiceManager {
	return &mockServiceManager{
		assessment:   new(MockAssessmentService),
		nervousness:  new(MockNervousnessService),
		optimization: new(MockOptimizationService),
		importExport: new(MockImportExportService),
	}
}

func (m *mockServiceManager) Assessment() services.AssessmentService     { return m.assessment }
func (m *mockServiceManager) Nervousness() services.NervousnessService   { return m.nervousness }
func (m *mockServiceManager) Optimization() services.OptimizationService { return m.optimization }
func (m *mockServiceManager) ImportExport() services.ImportExportService { return m.importExport }

// staticVerifier accepts the tokens it was built with.
type staticVerifier map[string]models.User

func (v staticVerifier) Verify(token string) (models.User, error) {
	user, ok := v[token]
	if !ok {
		return models.User{}, errors.New("token is expired")
	}
	return user, nil
}

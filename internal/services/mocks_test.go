package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	admin   = models.User{ID: "admin", Role: models.RoleAdmin}
	teacher = models.User{ID: "ms-frizzle", Role: models.RoleTeacher}
	other   = models.User{ID: "mr-ratburn", Role: models.RoleTeacher}
	viewer  = models.User{ID: "parent", Role: models.RoleViewer}
)

var day0 = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func on(offset int) time.Time {
	return day0.AddDate(0, 0, offset)
}

// ===== REPOSITORIES =====

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	args := m.Called(ctx, tx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) Update(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	args := m.Called(ctx, tx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockAssessmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	args := m.Called(ctx, tx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Assessment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssessmentRepository) ListInRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]models.Assessment, error) {
	args := m.Called(ctx, tx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]models.Assessment, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) UpdateDates(ctx context.Context, tx *gorm.DB, changes []repositories.DateChange) error {
	args := m.Called(ctx, tx, changes)
	return args.Error(0)
}

type MockOptimizationRunRepository struct {
	mock.Mock
}

func (m *MockOptimizationRunRepository) Create(ctx context.Context, tx *gorm.DB, run *models.OptimizationRun) error {
	args := m.Called(ctx, tx, run)
	return args.Error(0)
}

func (m *MockOptimizationRunRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.OptimizationRun, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OptimizationRun), args.Error(1)
}

func (m *MockOptimizationRunRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.OptimizationRunFilters) ([]*models.OptimizationRun, int64, error) {
	args := m.Called(ctx, tx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.OptimizationRun), args.Get(1).(int64), args.Error(2)
}

func (m *MockOptimizationRunRepository) MarkApplied(ctx context.Context, tx *gorm.DB, id string, appliedAt time.Time) error {
	args := m.Called(ctx, tx, id, appliedAt)
	return args.Error(0)
}

// inlineTx runs the callback directly with a nil transaction.
type inlineTx struct {
	calls int
}

func (t *inlineTx) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.calls++
	return fn(nil)
}

// ===== CACHE =====

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

// ===== SERVICES =====

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

func (m *MockNervousnessService) Summary(ctx context.Context, from, to time.Time) (*NervousnessSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*NervousnessSummary), args.Error(1)
}

func (m *MockNervousnessService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

func newAssessment(id uint, date time.Time, stake models.StakeLevel, flex models.Flexibility, weight, prepMinutes int) models.Assessment {
	return models.Assessment{
		ID:          id,
		Title:       "assessment",
		Type:        models.TypeQuiz,
		Date:        date,
		Weight:      weight,
		StakeLevel:  stake,
		PrepTime:    models.NewPrepTime(prepMinutes, models.UnitMinutes),
		Flexibility: flex,
		TeacherID:   teacher.ID,
	}
}

func clusterOnDay10() []models.Assessment {
	return []models.Assessment{
		newAssessment(1, on(10), models.StakeHigh, models.FlexibilityFixed, 25, 120),
		newAssessment(2, on(10), models.StakeHigh, models.FlexibilityFixed, 25, 120),
		newAssessment(3, on(10), models.StakeHigh, models.FlexibilityFixed, 25, 120),
		newAssessment(4, on(10), models.StakeLow, models.FlexibilityHigh, 10, 30),
		newAssessment(5, on(10), models.StakeLow, models.FlexibilityHigh, 10, 30),
	}
}

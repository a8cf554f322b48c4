package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/assessment-scheduler/internal/events"
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type assessmentFixture struct {
	repo        *MockAssessmentRepository
	nervousness *MockNervousnessService
	publisher   *events.MockEventPublisher
	service     AssessmentService
}

func newAssessmentFixture() *assessmentFixture {
	logger := discardLogger()
	f := &assessmentFixture{
		repo:        new(MockAssessmentRepository),
		nervousness: new(MockNervousnessService),
		publisher:   events.NewMockEventPublisher(logger),
	}
	f.service = NewAssessmentService(f.repo, f.nervousness, NewScheduleEventService(f.publisher, logger), validator.New(), logger)
	return f
}

func validCreateRequest() *CreateAssessmentRequest {
	return &CreateAssessmentRequest{
		Title:      "Unit 3 quiz",
		Type:       models.TypeQuiz,
		Date:       "2024-03-14",
		Weight:     intPtr(10),
		StakeLevel: models.StakeLow,
		PrepTime:   models.PrepTime{Amount: 2, Unit: models.UnitHours},
	}
}

func intPtr(v int) *int { return &v }

func TestAssessmentService_Create(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()

	f.repo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(a *models.Assessment) bool {
		return a.Title == "Unit 3 quiz" && a.Date.Equal(on(10)) && a.TeacherID == teacher.ID
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*models.Assessment).ID = 42
	}).Return(nil)
	f.nervousness.On("Invalidate", ctx).Return()

	created, err := f.service.Create(ctx, validCreateRequest(), teacher)
	require.NoError(t, err)

	assert.Equal(t, uint(42), created.ID)
	assert.Equal(t, models.FlexibilityMedium, created.Flexibility)
	minutes, ok := created.PrepMinutes()
	assert.True(t, ok)
	assert.Equal(t, 120, minutes)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAssessmentCreated, published[0].Type)
	payload := published[0].Data.(events.AssessmentChangedEvent)
	assert.Equal(t, uint(42), payload.AssessmentID)
	assert.Equal(t, teacher.ID, payload.ChangedBy)

	f.repo.AssertExpectations(t)
	f.nervousness.AssertExpectations(t)
}

func TestAssessmentService_Create_ValidationErrors(t *testing.T) {
	f := newAssessmentFixture()

	req := validCreateRequest()
	req.StakeLevel = "extreme"
	req.Weight = intPtr(150)
	req.PrepTime.Unit = "fortnights"

	_, err := f.service.Create(context.Background(), req, teacher)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"weight", "stake_level", "unit"}, fields)

	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestAssessmentService_Create_RequiresWeightAndPrepTime(t *testing.T) {
	f := newAssessmentFixture()

	req := validCreateRequest()
	req.Weight = nil
	req.PrepTime = models.PrepTime{}

	_, err := f.service.Create(context.Background(), req, teacher)
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "weight")
	assert.Contains(t, fields, "prep_time")

	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssessmentService_Create_AcceptsZeroWeight(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	f.repo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(a *models.Assessment) bool {
		return a.Weight == 0
	})).Return(nil)
	f.nervousness.On("Invalidate", ctx).Return()

	req := validCreateRequest()
	req.Weight = intPtr(0)
	_, err := f.service.Create(ctx, req, teacher)
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestAssessmentService_Create_RejectsBadDate(t *testing.T) {
	f := newAssessmentFixture()

	req := validCreateRequest()
	req.Date = "14/03/2024"

	_, err := f.service.Create(context.Background(), req, teacher)
	assert.True(t, IsValidation(err))
}

func TestAssessmentService_Create_ViewerForbidden(t *testing.T) {
	f := newAssessmentFixture()

	_, err := f.service.Create(context.Background(), validCreateRequest(), viewer)
	assert.ErrorIs(t, err, ErrForbidden)

	var pe *PermissionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "create", pe.Action)
}

func TestAssessmentService_GetByID(t *testing.T) {
	ctx := context.Background()
	stored := newAssessment(7, on(3), models.StakeMedium, models.FlexibilityLow, 20, 60)

	t.Run("owner", func(t *testing.T) {
		f := newAssessmentFixture()
		f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)

		got, err := f.service.GetByID(ctx, 7, teacher)
		require.NoError(t, err)
		assert.Equal(t, uint(7), got.ID)
	})

	t.Run("other teacher", func(t *testing.T) {
		f := newAssessmentFixture()
		f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)

		_, err := f.service.GetByID(ctx, 7, other)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin", func(t *testing.T) {
		f := newAssessmentFixture()
		f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)

		_, err := f.service.GetByID(ctx, 7, admin)
		assert.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		f := newAssessmentFixture()
		f.repo.On("GetByID", ctx, mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.service.GetByID(ctx, 8, admin)
		assert.ErrorIs(t, err, ErrAssessmentNotFound)
		assert.True(t, IsNotFound(err))
	})
}

func TestAssessmentService_List_ScopesTeachersToOwnAssessments(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()

	f.repo.On("List", ctx, mock.Anything, mock.MatchedBy(func(filters repositories.AssessmentFilters) bool {
		return filters.TeacherID != nil && *filters.TeacherID == teacher.ID && filters.Limit == 5
	})).Return([]*models.Assessment{}, int64(0), nil)

	resp, err := f.service.List(ctx, repositories.AssessmentFilters{Limit: 5}, teacher)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Limit)
	f.repo.AssertExpectations(t)

	_, err = f.service.List(ctx, repositories.AssessmentFilters{}, viewer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAssessmentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies set fields only", func(t *testing.T) {
		f := newAssessmentFixture()
		stored := newAssessment(7, on(3), models.StakeMedium, models.FlexibilityLow, 20, 60)
		f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)
		f.repo.On("Update", ctx, mock.Anything, mock.Anything).Return(nil)
		f.nervousness.On("Invalidate", ctx).Return()

		newDate := "2024-03-20"
		stake := models.StakeHigh
		updated, err := f.service.Update(ctx, 7, &UpdateAssessmentRequest{Date: &newDate, StakeLevel: &stake}, teacher)
		require.NoError(t, err)

		assert.Equal(t, on(16), updated.Date)
		assert.Equal(t, models.StakeHigh, updated.StakeLevel)
		assert.Equal(t, 20, updated.Weight)
		assert.Equal(t, models.FlexibilityLow, updated.Flexibility)

		published := f.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventAssessmentUpdated, published[0].Type)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		f := newAssessmentFixture()
		empty := ""
		_, err := f.service.Update(ctx, 7, &UpdateAssessmentRequest{Title: &empty}, teacher)
		assert.True(t, IsValidation(err))
	})

	t.Run("concurrent edit", func(t *testing.T) {
		f := newAssessmentFixture()
		stored := newAssessment(7, on(3), models.StakeMedium, models.FlexibilityLow, 20, 60)
		f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)
		f.repo.On("Update", ctx, mock.Anything, mock.Anything).Return(repositories.ErrStaleWrite)

		weight := 30
		_, err := f.service.Update(ctx, 7, &UpdateAssessmentRequest{Weight: &weight}, teacher)
		assert.ErrorIs(t, err, ErrAssessmentChanged)
		assert.True(t, IsConflict(err))
		assert.Empty(t, f.publisher.GetPublishedEvents())
	})

	t.Run("not owner", func(t *testing.T) {
		f := newAssessmentFixture()
		stored := newAssessment(7, on(3), models.StakeMedium, models.FlexibilityLow, 20, 60)
		f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)

		weight := 30
		_, err := f.service.Update(ctx, 7, &UpdateAssessmentRequest{Weight: &weight}, other)
		assert.ErrorIs(t, err, ErrForbidden)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAssessmentService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	stored := newAssessment(7, on(3), models.StakeMedium, models.FlexibilityLow, 20, 60)
	f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)
	f.repo.On("Delete", ctx, mock.Anything, uint(7)).Return(nil)
	f.nervousness.On("Invalidate", ctx).Return()

	require.NoError(t, f.service.Delete(ctx, 7, admin))

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAssessmentDeleted, published[0].Type)
	f.nervousness.AssertCalled(t, "Invalidate", ctx)
}

func TestAssessmentService_Delete_RepositoryError(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	stored := newAssessment(7, on(3), models.StakeMedium, models.FlexibilityLow, 20, 60)
	f.repo.On("GetByID", ctx, mock.Anything, uint(7)).Return(&stored, nil)
	f.repo.On("Delete", ctx, mock.Anything, uint(7)).Return(errors.New("connection reset"))

	err := f.service.Delete(ctx, 7, teacher)
	assert.ErrorContains(t, err, "connection reset")
	f.nervousness.AssertNotCalled(t, "Invalidate", mock.Anything)
}

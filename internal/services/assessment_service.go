package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/events"
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/validator"
)

type assessmentService struct {
	repo        repositories.AssessmentRepository
	nervousness NervousnessService
	events      ScheduleEventService
	validator   *validator.Validator
	logger      *slog.Logger
	ops         *ServiceLogger
}

func NewAssessmentService(
	repo repositories.AssessmentRepository,
	nervousness NervousnessService,
	events ScheduleEventService,
	validator *validator.Validator,
	logger *slog.Logger,
) AssessmentService {
	return &assessmentService{
		repo:        repo,
		nervousness: nervousness,
		events:      events,
		validator:   validator,
		logger:      logger,
		ops:         NewServiceLogger(logger, "assessment"),
	}
}

func (s *assessmentService) Create(ctx context.Context, req *CreateAssessmentRequest, actor models.User) (result *models.Assessment, err error) {
	op := s.ops.WithOperation(ctx, "create_assessment", actor.ID)
	defer func() { op.LogResult(resourceID(result), err) }()

	if actor.Role != models.RoleTeacher && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, "", "assessment", "create", "only teachers and admins create assessments")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	flexibility := req.Flexibility
	if flexibility == "" {
		flexibility = models.FlexibilityMedium
	}

	assessment := &models.Assessment{
		Title:       req.Title,
		Type:        req.Type,
		Date:        date,
		Weight:      *req.Weight,
		StakeLevel:  req.StakeLevel,
		PrepTime:    models.NewPrepTime(req.PrepTime.Amount, req.PrepTime.Unit),
		Flexibility: flexibility,
		Notes:       req.Notes,
		TeacherID:   actor.ID,
	}
	if err := s.repo.Create(ctx, nil, assessment); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.EventAssessmentCreated, assessment, actor)
	return assessment, nil
}

func (s *assessmentService) GetByID(ctx context.Context, id uint, actor models.User) (*models.Assessment, error) {
	assessment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageAssessment(assessment.TeacherID) {
		return nil, NewPermissionError(actor.ID, strconv.FormatUint(uint64(id), 10), "assessment", "read", "not owner")
	}
	return assessment, nil
}

func (s *assessmentService) List(ctx context.Context, filters repositories.AssessmentFilters, actor models.User) (*AssessmentListResponse, error) {
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		filters.TeacherID = &actor.ID
	default:
		return nil, NewPermissionError(actor.ID, "", "assessment", "list", "only teachers and admins list assessments")
	}

	assessments, total, err := s.repo.List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return &AssessmentListResponse{
		Assessments: assessments,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

func (s *assessmentService) Update(ctx context.Context, id uint, req *UpdateAssessmentRequest, actor models.User) (result *models.Assessment, err error) {
	op := s.ops.WithOperation(ctx, "update_assessment", actor.ID)
	defer func() { op.LogResult(strconv.FormatUint(uint64(id), 10), err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assessment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageAssessment(assessment.TeacherID) {
		return nil, NewPermissionError(actor.ID, strconv.FormatUint(uint64(id), 10), "assessment", "update", "not owner")
	}

	if err := applyAssessmentUpdates(assessment, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, nil, assessment); err != nil {
		if errors.Is(err, repositories.ErrStaleWrite) {
			return nil, ErrAssessmentChanged
		}
		return nil, err
	}

	s.afterWrite(ctx, events.EventAssessmentUpdated, assessment, actor)
	return assessment, nil
}

func (s *assessmentService) Delete(ctx context.Context, id uint, actor models.User) (err error) {
	op := s.ops.WithOperation(ctx, "delete_assessment", actor.ID)
	defer func() { op.LogResult(strconv.FormatUint(uint64(id), 10), err) }()

	assessment, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManageAssessment(assessment.TeacherID) {
		return NewPermissionError(actor.ID, strconv.FormatUint(uint64(id), 10), "assessment", "delete", "not owner")
	}

	if err := s.repo.Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssessmentNotFound
		}
		return err
	}

	s.afterWrite(ctx, events.EventAssessmentDeleted, assessment, actor)
	return nil
}

func (s *assessmentService) load(ctx context.Context, id uint) (*models.Assessment, error) {
	assessment, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

// afterWrite drops stale read-outs and announces the change.
func (s *assessmentService) afterWrite(ctx context.Context, eventType events.EventType, assessment *models.Assessment, actor models.User) {
	s.nervousness.Invalidate(ctx)
	s.events.NotifyAssessmentChanged(ctx, eventType, assessment, actor.ID)
}

func applyAssessmentUpdates(a *models.Assessment, req *UpdateAssessmentRequest) error {
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return err
		}
		a.Date = date
	}
	if req.Weight != nil {
		a.Weight = *req.Weight
	}
	if req.StakeLevel != nil {
		a.StakeLevel = *req.StakeLevel
	}
	if req.PrepTime != nil {
		a.PrepTime = models.NewPrepTime(req.PrepTime.Amount, req.PrepTime.Unit)
	}
	if req.Flexibility != nil {
		a.Flexibility = *req.Flexibility
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	return nil
}

// parseDate reads a YYYY-MM-DD value as a UTC calendar date.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, ValidationErrors{{
			Field:   field,
			Message: "must be a date formatted as 2006-01-02",
			Value:   value,
			Rule:    "datetime",
		}}
	}
	return models.CalendarDate(t), nil
}

func resourceID(a *models.Assessment) string {
	if a == nil {
		return ""
	}
	return strconv.FormatUint(uint64(a.ID), 10)
}

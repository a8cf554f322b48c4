package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/SAP-F-2025/assessment-scheduler/internal/validator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OptimizationLimits bounds the work a single optimize request may cause.
type OptimizationLimits struct {
	MaxHorizonDays int
	MaxAssessments int
	Timeout        time.Duration
}

// ScheduleOptimizer is satisfied by *scheduler.Optimizer.
type ScheduleOptimizer interface {
	Optimize(assessments []models.Assessment, horizonStart, horizonEnd time.Time) (*scheduler.Result, error)
}

type optimizationService struct {
	assessments repositories.AssessmentRepository
	runs        repositories.OptimizationRunRepository
	tx          repositories.TxManager
	optimizer   ScheduleOptimizer
	nervousness NervousnessService
	events      ScheduleEventService
	validator   *validator.Validator
	limits      OptimizationLimits
	ops         *ServiceLogger
	now         func() time.Time
}

func NewOptimizationService(
	assessments repositories.AssessmentRepository,
	runs repositories.OptimizationRunRepository,
	tx repositories.TxManager,
	optimizer ScheduleOptimizer,
	nervousness NervousnessService,
	events ScheduleEventService,
	validator *validator.Validator,
	limits OptimizationLimits,
	logger *slog.Logger,
) OptimizationService {
	return &optimizationService{
		assessments: assessments,
		runs:        runs,
		tx:          tx,
		optimizer:   optimizer,
		nervousness: nervousness,
		events:      events,
		validator:   validator,
		limits:      limits,
		ops:         NewServiceLogger(logger, "optimization"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *optimizationService) Optimize(ctx context.Context, req *OptimizeRequest, actor models.User) (resp *OptimizationResponse, err error) {
	op := s.ops.WithOperation(ctx, "optimize", actor.ID)
	defer func() {
		var runID string
		if resp != nil {
			runID = resp.RunID
		}
		op.LogResult(runID, err)
	}()

	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, "", "schedule", "optimize", "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	from, err := parseDate("from", req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("to", req.To)
	if err != nil {
		return nil, err
	}
	horizon, err := scheduler.NewWindow(from, to)
	if err != nil {
		return nil, err
	}
	if s.limits.MaxHorizonDays > 0 && horizon.Days() > s.limits.MaxHorizonDays {
		return nil, fmt.Errorf("%w: horizon of %d days exceeds %d", ErrOptimizationTooLarge, horizon.Days(), s.limits.MaxHorizonDays)
	}

	pool, err := s.assessments.ListInRange(ctx, nil, horizon.Start, horizon.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessments: %w", err)
	}
	if s.limits.MaxAssessments > 0 && len(pool) > s.limits.MaxAssessments {
		return nil, fmt.Errorf("%w: %d assessments exceed %d", ErrOptimizationTooLarge, len(pool), s.limits.MaxAssessments)
	}

	result, err := s.runOptimizer(ctx, pool, horizon)
	if err != nil {
		return nil, err
	}

	run := &models.OptimizationRun{
		ID:           uuid.NewString(),
		HorizonStart: horizon.Start,
		HorizonEnd:   horizon.End,
		BeforeScore:  result.BeforeScore,
		AfterScore:   result.AfterScore,
		Moves:        datatypes.NewJSONType(result.Moves),
		BeforeWeeks:  datatypes.NewJSONType(result.BeforeWeeks),
		AfterWeeks:   datatypes.NewJSONType(result.AfterWeeks),
		Status:       models.RunPending,
		RequestedBy:  actor.ID,
	}
	if err := s.runs.Create(ctx, nil, run); err != nil {
		return nil, err
	}

	s.events.NotifyScheduleOptimized(ctx, run)
	return &OptimizationResponse{
		RunID:  run.ID,
		Status: run.Status,
		Result: result,
	}, nil
}

// runOptimizer bounds the pure optimizer by the configured timeout. On
// timeout the worker finishes in the background and its result is dropped.
func (s *optimizationService) runOptimizer(ctx context.Context, pool []models.Assessment, horizon scheduler.Window) (*scheduler.Result, error) {
	if s.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.limits.Timeout)
		defer cancel()
	}

	type outcome struct {
		result *scheduler.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.optimizer.Optimize(pool, horizon.Start, horizon.End)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrOptimizationTimeout
		}
		return nil, ctx.Err()
	}
}

func (s *optimizationService) Apply(ctx context.Context, runID string, actor models.User) (run *models.OptimizationRun, err error) {
	op := s.ops.WithOperation(ctx, "apply_schedule", actor.ID)
	defer func() { op.LogResult(runID, err) }()

	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, runID, "schedule", "apply", "admin role required")
	}

	run, err = s.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	switch run.Status {
	case models.RunPending:
	case models.RunApplied:
		return nil, ErrRunAlreadyApplied
	default:
		return nil, fmt.Errorf("%w: status is %s", ErrRunNotPending, run.Status)
	}

	moves := run.Moves.Data()
	appliedAt := s.now()
	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		changes := make([]repositories.DateChange, 0, len(moves))
		for _, m := range moves {
			current, err := s.assessments.GetByID(ctx, tx, m.AssessmentID)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return fmt.Errorf("%w: assessment %d no longer exists", ErrScheduleChanged, m.AssessmentID)
				}
				return err
			}
			if !models.CalendarDate(current.Date).Equal(models.CalendarDate(m.FromDate)) {
				return fmt.Errorf("%w: assessment %d was moved to %s", ErrScheduleChanged, m.AssessmentID, current.Date.Format(time.DateOnly))
			}
			changes = append(changes, repositories.DateChange{ID: m.AssessmentID, Version: current.Version, Date: m.ToDate})
		}

		if err := s.assessments.UpdateDates(ctx, tx, changes); err != nil {
			if errors.Is(err, repositories.ErrStaleWrite) {
				return fmt.Errorf("%w: %v", ErrScheduleChanged, err)
			}
			return err
		}
		if err := s.runs.MarkApplied(ctx, tx, run.ID, appliedAt); err != nil {
			if errors.Is(err, repositories.ErrStaleWrite) {
				return ErrRunAlreadyApplied
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	run.Status = models.RunApplied
	run.AppliedAt = &appliedAt

	s.nervousness.Invalidate(ctx)
	s.events.NotifyScheduleApplied(ctx, run, actor.ID)
	return run, nil
}

func (s *optimizationService) GetByID(ctx context.Context, runID string) (*models.OptimizationRun, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, ErrRunNotFound
	}
	run, err := s.runs.GetByID(ctx, nil, runID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get optimization run: %w", err)
	}
	return run, nil
}

func (s *optimizationService) List(ctx context.Context, filters repositories.OptimizationRunFilters) (*OptimizationRunListResponse, error) {
	runs, total, err := s.runs.List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list optimization runs: %w", err)
	}
	return &OptimizationRunListResponse{
		Runs:   runs,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

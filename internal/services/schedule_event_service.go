package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/events"
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

// ScheduleEventService turns domain changes into events. Publishing is best
// effort: failures are logged and never fail the calling operation.
type ScheduleEventService interface {
	NotifyAssessmentChanged(ctx context.Context, eventType events.EventType, assessment *models.Assessment, changedBy string)
	NotifyScheduleOptimized(ctx context.Context, run *models.OptimizationRun)
	NotifyScheduleApplied(ctx context.Context, run *models.OptimizationRun, appliedBy string)
}

type scheduleEventService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewScheduleEventService(publisher events.EventPublisher, logger *slog.Logger) ScheduleEventService {
	return &scheduleEventService{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *scheduleEventService) NotifyAssessmentChanged(ctx context.Context, eventType events.EventType, assessment *models.Assessment, changedBy string) {
	s.publish(ctx, events.NewAssessmentEvent(eventType, events.AssessmentChangedEvent{
		AssessmentID: assessment.ID,
		Title:        assessment.Title,
		Date:         assessment.Date,
		StakeLevel:   string(assessment.StakeLevel),
		TeacherID:    assessment.TeacherID,
		ChangedBy:    changedBy,
	}))
}

func (s *scheduleEventService) NotifyScheduleOptimized(ctx context.Context, run *models.OptimizationRun) {
	s.publish(ctx, events.NewScheduleOptimizedEvent(events.ScheduleOptimizedEvent{
		RunID:        run.ID,
		HorizonStart: run.HorizonStart,
		HorizonEnd:   run.HorizonEnd,
		BeforeScore:  run.BeforeScore,
		AfterScore:   run.AfterScore,
		MoveCount:    len(run.Moves.Data()),
		RequestedBy:  run.RequestedBy,
	}))
}

func (s *scheduleEventService) NotifyScheduleApplied(ctx context.Context, run *models.OptimizationRun, appliedBy string) {
	moves := run.Moves.Data()
	ids := make([]uint, 0, len(moves))
	for _, m := range moves {
		ids = append(ids, m.AssessmentID)
	}

	appliedAt := time.Now().UTC()
	if run.AppliedAt != nil {
		appliedAt = *run.AppliedAt
	}

	s.publish(ctx, events.NewScheduleAppliedEvent(events.ScheduleAppliedEvent{
		RunID:         run.ID,
		AssessmentIDs: ids,
		AppliedAt:     appliedAt,
		AppliedBy:     appliedBy,
	}))
}

func (s *scheduleEventService) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Event dropped",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}

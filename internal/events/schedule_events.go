package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAssessmentCreated EventType = "assessment.created"
	EventAssessmentUpdated EventType = "assessment.updated"
	EventAssessmentDeleted EventType = "assessment.deleted"

	EventScheduleOptimized EventType = "schedule.optimized"
	EventScheduleApplied   EventType = "schedule.applied"
)

const (
	eventSource  = "assessment-scheduler"
	eventVersion = "1.0"
)

// Event is the envelope every message on the schedule topic carries.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
	Data      any            `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type AssessmentChangedEvent struct {
	AssessmentID uint      `json:"assessment_id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	StakeLevel   string    `json:"stake_level"`
	TeacherID    string    `json:"teacher_id"`
	ChangedBy    string    `json:"changed_by"`
}

type ScheduleOptimizedEvent struct {
	RunID        string    `json:"run_id"`
	HorizonStart time.Time `json:"horizon_start"`
	HorizonEnd   time.Time `json:"horizon_end"`
	BeforeScore  float64   `json:"before_score"`
	AfterScore   float64   `json:"after_score"`
	MoveCount    int       `json:"move_count"`
	RequestedBy  string    `json:"requested_by"`
}

type ScheduleAppliedEvent struct {
	RunID         string    `json:"run_id"`
	AssessmentIDs []uint    `json:"assessment_ids"`
	AppliedAt     time.Time `json:"applied_at"`
	AppliedBy     string    `json:"applied_by"`
}

func newEvent(eventType EventType, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewAssessmentEvent(eventType EventType, payload AssessmentChangedEvent) *Event {
	return newEvent(eventType, payload)
}

func NewScheduleOptimizedEvent(payload ScheduleOptimizedEvent) *Event {
	return newEvent(EventScheduleOptimized, payload)
}

func NewScheduleAppliedEvent(payload ScheduleAppliedEvent) *Event {
	return newEvent(EventScheduleApplied, payload)
}

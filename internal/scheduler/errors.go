package scheduler

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

var (
	ErrInvalidWindow     = errors.New("invalid window: start is after end")
	ErrInvalidAssessment = errors.New("invalid assessment")
)

// AssessmentError describes why a single assessment was rejected.
// It matches ErrInvalidAssessment under errors.Is.
type AssessmentError struct {
	ID     uint
	Field  string
	Reason string
}

func (e *AssessmentError) Error() string {
	return fmt.Sprintf("invalid assessment %d: %s %s", e.ID, e.Field, e.Reason)
}

func (e *AssessmentError) Unwrap() error {
	return ErrInvalidAssessment
}

// validate rejects values the scorer would otherwise have to guess about.
func validate(a models.Assessment) error {
	if a.Date.IsZero() {
		return &AssessmentError{ID: a.ID, Field: "date", Reason: "is required"}
	}
	if a.Weight < 0 || a.Weight > 100 {
		return &AssessmentError{ID: a.ID, Field: "weight", Reason: fmt.Sprintf("must be between 0 and 100, got %d", a.Weight)}
	}
	if _, ok := a.StakeLevel.Severity(); !ok {
		return &AssessmentError{ID: a.ID, Field: "stake_level", Reason: fmt.Sprintf("has unrecognized value %q", a.StakeLevel)}
	}
	if _, ok := a.Flexibility.Days(); !ok {
		return &AssessmentError{ID: a.ID, Field: "flexibility", Reason: fmt.Sprintf("has unrecognized value %q", a.Flexibility)}
	}
	minutes, ok := a.PrepMinutes()
	if !ok {
		return &AssessmentError{ID: a.ID, Field: "prep_time", Reason: fmt.Sprintf("has unrecognized unit %q", a.PrepTime.Data().Unit)}
	}
	if minutes < 0 {
		return &AssessmentError{ID: a.ID, Field: "prep_time", Reason: "must not be negative"}
	}
	return nil
}

func validateAll(assessments []models.Assessment) error {
	for _, a := range assessments {
		if err := validate(a); err != nil {
			return err
		}
	}
	return nil
}

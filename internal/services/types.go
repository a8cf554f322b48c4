package services

import (
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
)

// ===== ASSESSMENTS =====

type CreateAssessmentRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Type        models.AssessmentType `json:"type" validate:"required,assessment_type"`
	Date        string                `json:"date" validate:"required,datetime=2006-01-02"`
	Weight      *int                  `json:"weight" validate:"required,min=0,max=100"`
	StakeLevel  models.StakeLevel     `json:"stake_level" validate:"required,stake_level"`
	PrepTime    models.PrepTime       `json:"prep_time" validate:"required"`
	Flexibility models.Flexibility    `json:"flexibility" validate:"omitempty,flexibility"`
	Notes       string                `json:"notes" validate:"max=2000"`
}

// UpdateAssessmentRequest changes only the fields that are set.
type UpdateAssessmentRequest struct {
	Title       *string                `json:"title" validate:"omitnil,min=1,max=200"`
	Type        *models.AssessmentType `json:"type" validate:"omitempty,assessment_type"`
	Date        *string                `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Weight      *int                   `json:"weight" validate:"omitempty,min=0,max=100"`
	StakeLevel  *models.StakeLevel     `json:"stake_level" validate:"omitempty,stake_level"`
	PrepTime    *models.PrepTime       `json:"prep_time" validate:"omitempty"`
	Flexibility *models.Flexibility    `json:"flexibility" validate:"omitempty,flexibility"`
	Notes       *string                `json:"notes" validate:"omitempty,max=2000"`
}

type AssessmentListResponse struct {
	Assessments []*models.Assessment `json:"assessments"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// ImportSummary reports the outcome of a spreadsheet import.
type ImportSummary struct {
	TotalRows int              `json:"total_rows"`
	Created   []uint           `json:"created"`
	Errors    []ImportRowError `json:"errors"`
	Duration  time.Duration    `json:"duration"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ===== NERVOUSNESS =====

type NervousnessSummary struct {
	From            time.Time            `json:"from"`
	To              time.Time            `json:"to"`
	Score           float64              `json:"score"`
	Level           models.StressLevel   `json:"level"`
	AssessmentCount int                  `json:"assessment_count"`
	PeakWeek        *models.WindowScore  `json:"peak_week,omitempty"`
	Weeks           []models.WindowScore `json:"weeks"`
}

// ===== OPTIMIZATION =====

type OptimizeRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

type OptimizationResponse struct {
	RunID  string           `json:"run_id"`
	Status models.RunStatus `json:"status"`
	*scheduler.Result
}

type OptimizationRunListResponse struct {
	Runs   []*models.OptimizationRun `json:"runs"`
	Total  int64                     `json:"total"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunApplied   RunStatus = "applied"
	RunDiscarded RunStatus = "discarded"
)

// Move records one relocation proposed by the optimizer.
type Move struct {
	AssessmentID uint      `json:"assessment_id"`
	Title        string    `json:"title"`
	FromDate     time.Time `json:"from_date"`
	ToDate       time.Time `json:"to_date"`
}

// Days is the signed shift of the move in calendar days.
func (m Move) Days() int {
	return int(CalendarDate(m.ToDate).Sub(CalendarDate(m.FromDate)).Hours() / 24)
}

// WindowScore is the nervousness of one slice of a horizon.
type WindowScore struct {
	Label string      `json:"label"`
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
	Score float64     `json:"score"`
	Level StressLevel `json:"level"`
	Count int         `json:"count"`
}

type StressLevel string

const (
	StressLow      StressLevel = "Low"
	StressModerate StressLevel = "Moderate"
	StressHigh     StressLevel = "High"
)

// LevelFor buckets a 0-10 score the way the dashboards label weeks.
func LevelFor(score float64) StressLevel {
	switch {
	case score > 7:
		return StressHigh
	case score > 4:
		return StressModerate
	default:
		return StressLow
	}
}

// OptimizationRun is a persisted optimizer result waiting to be applied.
type OptimizationRun struct {
	ID           string                            `json:"id" gorm:"primaryKey;size:36"`
	HorizonStart time.Time                         `json:"horizon_start" gorm:"type:date;not null"`
	HorizonEnd   time.Time                         `json:"horizon_end" gorm:"type:date;not null"`
	BeforeScore  float64                           `json:"before_score"`
	AfterScore   float64                           `json:"after_score"`
	Moves        datatypes.JSONType[[]Move]        `json:"moves" gorm:"type:jsonb"`
	BeforeWeeks  datatypes.JSONType[[]WindowScore] `json:"before_weeks" gorm:"type:jsonb"`
	AfterWeeks   datatypes.JSONType[[]WindowScore] `json:"after_weeks" gorm:"type:jsonb"`
	Status       RunStatus                         `json:"status" gorm:"size:16;default:pending;index"`
	RequestedBy  string                            `json:"requested_by" gorm:"size:100"`
	AppliedAt    *time.Time                        `json:"applied_at"`
	CreatedAt    time.Time                         `json:"created_at"`
	UpdatedAt    time.Time                         `json:"updated_at"`
}

func (OptimizationRun) TableName() string {
	return "optimization_runs"
}

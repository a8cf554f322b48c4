package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssessmentType string

const (
	TypeQuiz         AssessmentType = "quiz"
	TypeTest         AssessmentType = "test"
	TypeExam         AssessmentType = "exam"
	TypeProject      AssessmentType = "project"
	TypePresentation AssessmentType = "presentation"
	TypeEssay        AssessmentType = "essay"
	TypeLabReport    AssessmentType = "lab_report"
	TypeFinalExam    AssessmentType = "final_exam"
)

type StakeLevel string

const (
	StakeLow    StakeLevel = "low"
	StakeMedium StakeLevel = "medium"
	StakeHigh   StakeLevel = "high"
)

// Severity is the stake contribution on a 0-10 scale. ok is false for unknown levels.
func (s StakeLevel) Severity() (severity float64, ok bool) {
	switch s {
	case StakeLow:
		return 0, true
	case StakeMedium:
		return 5, true
	case StakeHigh:
		return 10, true
	}
	return 0, false
}

type Flexibility string

const (
	FlexibilityFixed  Flexibility = "fixed"
	FlexibilityLow    Flexibility = "low"
	FlexibilityMedium Flexibility = "medium"
	FlexibilityHigh   Flexibility = "high"
)

// Days returns how far the date may be shifted in either direction.
func (f Flexibility) Days() (days int, ok bool) {
	switch f {
	case FlexibilityFixed:
		return 0, true
	case FlexibilityLow:
		return 2, true
	case FlexibilityMedium:
		return 5, true
	case FlexibilityHigh:
		return 7, true
	}
	return 0, false
}

type TimeUnit string

const (
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
	UnitWeeks   TimeUnit = "weeks"
)

// Study days count as 8 hours and study weeks as 40 hours.
const (
	minutesPerStudyDay  = 8 * 60
	minutesPerStudyWeek = 40 * 60
)

// PrepTime is the preparation effort students need for an assessment.
type PrepTime struct {
	Amount int      `json:"amount" validate:"min=0"`
	Unit   TimeUnit `json:"unit" validate:"required,time_unit"`
}

// Minutes normalises the prep time. ok is false for unknown units.
func (p PrepTime) Minutes() (minutes int, ok bool) {
	switch p.Unit {
	case UnitMinutes:
		return p.Amount, true
	case UnitHours:
		return p.Amount * 60, true
	case UnitDays:
		return p.Amount * minutesPerStudyDay, true
	case UnitWeeks:
		return p.Amount * minutesPerStudyWeek, true
	}
	return 0, false
}

type Assessment struct {
	ID          uint                         `json:"id" gorm:"primaryKey"`
	Title       string                       `json:"title" gorm:"not null;size:200;index"`
	Type        AssessmentType               `json:"type" gorm:"not null;size:32"`
	Date        time.Time                    `json:"date" gorm:"type:date;not null;index"`
	Weight      int                          `json:"weight" gorm:"not null"`
	StakeLevel  StakeLevel                   `json:"stake_level" gorm:"not null;size:16;index"`
	PrepTime    datatypes.JSONType[PrepTime] `json:"prep_time" gorm:"type:jsonb;not null"`
	Flexibility Flexibility                  `json:"flexibility" gorm:"not null;size:16;default:medium"`
	Notes       string                       `json:"notes" gorm:"type:text"`
	TeacherID   string                       `json:"teacher_id" gorm:"size:100;index"`

	// Metadata
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Version   int            `json:"version" gorm:"default:1"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// PrepMinutes is shorthand for PrepTime.Data().Minutes().
func (a Assessment) PrepMinutes() (int, bool) {
	return a.PrepTime.Data().Minutes()
}

// NewPrepTime wraps a PrepTime for the jsonb column.
func NewPrepTime(amount int, unit TimeUnit) datatypes.JSONType[PrepTime] {
	return datatypes.NewJSONType(PrepTime{Amount: amount, Unit: unit})
}

// CalendarDate drops the time of day and pins t to UTC midnight of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

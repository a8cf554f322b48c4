package scheduler

import (
	"math"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

// Composite weights of the nervousness score. Recorded expectations depend on
// these exact values.
const (
	DensityWeight     = 0.4
	StakesWeight      = 0.3
	PrepLoadWeight    = 0.2
	GradeWeightWeight = 0.1
)

// Calibration constants for the sub-scores.
const (
	// densityScale makes one assessment every other day land at a moderate density.
	densityScale = 5.0
	// reasonablePrepMinutesPerDay is the daily prep load that scores 10.
	reasonablePrepMinutesPerDay = 60.0
	// baselineGradeWeight is the percentage weight treated as average.
	baselineGradeWeight = 10.0

	MaxScore = 10.0
)

type Weights struct {
	Density     float64
	Stakes      float64
	PrepLoad    float64
	GradeWeight float64
}

func DefaultWeights() Weights {
	return Weights{
		Density:     DensityWeight,
		Stakes:      StakesWeight,
		PrepLoad:    PrepLoadWeight,
		GradeWeight: GradeWeightWeight,
	}
}

// Breakdown holds the clamped sub-scores behind a composite score.
type Breakdown struct {
	Count       int     `json:"count"`
	Density     float64 `json:"density"`
	Stakes      float64 `json:"stakes"`
	PrepLoad    float64 `json:"prep_load"`
	GradeWeight float64 `json:"grade_weight"`
	Composite   float64 `json:"composite"`
}

// Scorer computes nervousness scores. It holds no mutable state and is safe
// for concurrent use.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

var defaultScorer = NewScorer(DefaultWeights())

// Score returns the composite nervousness score of the assessments dated
// inside [start, end] using the default weights.
func Score(assessments []models.Assessment, start, end time.Time) (float64, error) {
	return defaultScorer.Score(assessments, start, end)
}

// Evaluate is Score with the sub-scores exposed.
func Evaluate(assessments []models.Assessment, start, end time.Time) (Breakdown, error) {
	return defaultScorer.Evaluate(assessments, start, end)
}

func (s *Scorer) Score(assessments []models.Assessment, start, end time.Time) (float64, error) {
	b, err := s.Evaluate(assessments, start, end)
	if err != nil {
		return 0, err
	}
	return b.Composite, nil
}

func (s *Scorer) Evaluate(assessments []models.Assessment, start, end time.Time) (Breakdown, error) {
	w, err := NewWindow(start, end)
	if err != nil {
		return Breakdown{}, err
	}
	if err := validateAll(assessments); err != nil {
		return Breakdown{}, err
	}
	return s.evaluate(within(assessments, w), w.Days()), nil
}

// evaluate expects validated assessments that already belong to a window of
// the given length.
func (s *Scorer) evaluate(assessments []models.Assessment, days int) Breakdown {
	n := len(assessments)
	if n == 0 || days <= 0 {
		return Breakdown{}
	}

	var severity, prepMinutes, weight float64
	for _, a := range assessments {
		sev, _ := a.StakeLevel.Severity()
		minutes, _ := a.PrepMinutes()
		severity += sev
		prepMinutes += float64(minutes)
		weight += float64(a.Weight)
	}

	count := float64(n)
	b := Breakdown{
		Count:       n,
		Density:     clamp(count / float64(days) * densityScale),
		Stakes:      clamp(severity / count),
		PrepLoad:    clamp(prepMinutes / (float64(days) * reasonablePrepMinutesPerDay) * MaxScore),
		GradeWeight: clamp(weight / count / baselineGradeWeight),
	}

	composite := b.Density*s.weights.Density +
		b.Stakes*s.weights.Stakes +
		b.PrepLoad*s.weights.PrepLoad +
		b.GradeWeight*s.weights.GradeWeight
	b.Composite = math.Min(round1(composite), MaxScore)
	return b
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(v, MaxScore))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

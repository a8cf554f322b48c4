package scheduler

import (
	"sort"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

// WeekDays is the chunk size of weekly breakdowns.
const WeekDays = 7

// WeeklyBreakdown scores [start, end] in 7-day chunks beginning at start.
func WeeklyBreakdown(assessments []models.Assessment, start, end time.Time) ([]models.WindowScore, error) {
	return defaultScorer.WeeklyBreakdown(assessments, start, end)
}

// HorizonScore averages the weekly scores of the weeks that contain assessments.
func HorizonScore(assessments []models.Assessment, start, end time.Time) (float64, error) {
	return defaultScorer.HorizonScore(assessments, start, end)
}

// DailyScores scores every distinct assessment date on its own, earliest first.
func DailyScores(assessments []models.Assessment) ([]models.WindowScore, error) {
	return defaultScorer.DailyScores(assessments)
}

func (s *Scorer) WeeklyBreakdown(assessments []models.Assessment, start, end time.Time) ([]models.WindowScore, error) {
	horizon, err := NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	if err := validateAll(assessments); err != nil {
		return nil, err
	}
	return s.weekly(assessments, horizon), nil
}

func (s *Scorer) HorizonScore(assessments []models.Assessment, start, end time.Time) (float64, error) {
	weeks, err := s.WeeklyBreakdown(assessments, start, end)
	if err != nil {
		return 0, err
	}
	return Aggregate(weeks), nil
}

func (s *Scorer) DailyScores(assessments []models.Assessment) ([]models.WindowScore, error) {
	if err := validateAll(assessments); err != nil {
		return nil, err
	}

	byDay := make(map[time.Time][]models.Assessment)
	for _, a := range assessments {
		day := models.CalendarDate(a.Date)
		byDay[day] = append(byDay[day], a)
	}

	scores := make([]models.WindowScore, 0, len(byDay))
	for day, group := range byDay {
		scores = append(scores, s.windowScore(group, Window{Start: day, End: day}))
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Start.Before(scores[j].Start)
	})
	return scores, nil
}

func (s *Scorer) weekly(assessments []models.Assessment, horizon Window) []models.WindowScore {
	chunks := horizon.Chunks(WeekDays)
	weeks := make([]models.WindowScore, 0, len(chunks))
	for _, chunk := range chunks {
		weeks = append(weeks, s.windowScore(within(assessments, chunk), chunk))
	}
	return weeks
}

func (s *Scorer) windowScore(assessments []models.Assessment, w Window) models.WindowScore {
	b := s.evaluate(assessments, w.Days())
	return models.WindowScore{
		Label: w.Label(),
		Start: w.Start,
		End:   w.End,
		Score: b.Composite,
		Level: models.LevelFor(b.Composite),
		Count: b.Count,
	}
}

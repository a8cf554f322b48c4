package scheduler

import (
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

var day0 = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func on(offset int) time.Time {
	return day0.AddDate(0, 0, offset)
}

func newAssessment(id uint, date time.Time, stake models.StakeLevel, flex models.Flexibility, weight, prepMinutes int) models.Assessment {
	return models.Assessment{
		ID:          id,
		Title:       "assessment",
		Type:        models.TypeQuiz,
		Date:        date,
		Weight:      weight,
		StakeLevel:  stake,
		PrepTime:    models.NewPrepTime(prepMinutes, models.UnitMinutes),
		Flexibility: flex,
	}
}

// clusterOnDay10 is three fixed high-stake exams and two flexible low-stake
// quizzes, all on the same day.
func clusterOnDay10() []models.Assessment {
	return []models.Assessment{
		newAssessment(1, on(10), models.StakeHigh, models.FlexibilityFixed, 25, 120),
		newAssessment(2, on(10), models.StakeHigh, models.FlexibilityFixed, 25, 120),
		newAssessment(3, on(10), models.StakeHigh, models.FlexibilityFixed, 25, 120),
		newAssessment(4, on(10), models.StakeLow, models.FlexibilityHigh, 10, 30),
		newAssessment(5, on(10), models.StakeLow, models.FlexibilityHigh, 10, 30),
	}
}

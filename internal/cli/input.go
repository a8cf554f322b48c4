package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

// assessmentRecord is the file format: the API's assessment with a plain
// YYYY-MM-DD date.
type assessmentRecord struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Type        models.AssessmentType `json:"type"`
	Date        string                `json:"date"`
	Weight      int                   `json:"weight"`
	StakeLevel  models.StakeLevel     `json:"stake_level"`
	PrepTime    models.PrepTime       `json:"prep_time"`
	Flexibility models.Flexibility    `json:"flexibility,omitempty"`
	Notes       string                `json:"notes,omitempty"`
}

// readAssessments loads a file of records. Records without an id are
// numbered by position and a missing flexibility means medium.
func readAssessments(path string) ([]models.Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []assessmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	assessments := make([]models.Assessment, 0, len(records))
	for i, r := range records {
		date, err := parseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: date: %w", i+1, err)
		}
		id := r.ID
		if id == 0 {
			id = uint(i + 1)
		}
		flexibility := r.Flexibility
		if flexibility == "" {
			flexibility = models.FlexibilityMedium
		}
		assessments = append(assessments, models.Assessment{
			ID:          id,
			Title:       r.Title,
			Type:        r.Type,
			Date:        date,
			Weight:      r.Weight,
			StakeLevel:  r.StakeLevel,
			PrepTime:    models.NewPrepTime(r.PrepTime.Amount, r.PrepTime.Unit),
			Flexibility: flexibility,
			Notes:       r.Notes,
		})
	}
	return assessments, nil
}

func writeAssessments(path string, assessments []models.Assessment) error {
	records := make([]assessmentRecord, 0, len(assessments))
	for _, a := range assessments {
		records = append(records, assessmentRecord{
			ID:          a.ID,
			Title:       a.Title,
			Type:        a.Type,
			Date:        a.Date.Format(time.DateOnly),
			Weight:      a.Weight,
			StakeLevel:  a.StakeLevel,
			PrepTime:    a.PrepTime.Data(),
			Flexibility: a.Flexibility,
			Notes:       a.Notes,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func parseDay(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", value)
	}
	return models.CalendarDate(t), nil
}

// load reads the file and the horizon named by the flags.
func (f *horizonFlags) load() ([]models.Assessment, time.Time, time.Time, error) {
	from, err := parseDay(f.from)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	to, err := parseDay(f.to)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
	}
	assessments, err := readAssessments(f.file)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	return assessments, from, to, nil
}

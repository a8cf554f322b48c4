package scheduler

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow normalises both ends to calendar dates.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: models.CalendarDate(start), End: models.CalendarDate(end)}
	if w.Start.After(w.End) {
		return Window{}, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
	}
	return w, nil
}

// Days counts both ends, so a single-day window has one day.
func (w Window) Days() int {
	return daysBetween(w.Start, w.End) + 1
}

func (w Window) Contains(t time.Time) bool {
	d := models.CalendarDate(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Label renders the window the way the dashboards print weeks, e.g. "Oct 9 - Oct 15".
func (w Window) Label() string {
	if w.Start.Equal(w.End) {
		return w.Start.Format(time.DateOnly)
	}
	return w.Start.Format("Jan 2") + " - " + w.End.Format("Jan 2")
}

// Chunks splits w into consecutive windows of size days starting at w.Start.
// The last chunk is truncated at w.End.
func (w Window) Chunks(size int) []Window {
	var chunks []Window
	for start := w.Start; !start.After(w.End); start = addDays(start, size) {
		end := addDays(start, size-1)
		if end.After(w.End) {
			end = w.End
		}
		chunks = append(chunks, Window{Start: start, End: end})
	}
	return chunks
}

// around returns the window reaching radius days either side of day.
func around(day time.Time, radius int) Window {
	return Window{Start: addDays(day, -radius), End: addDays(day, radius)}
}

// daysBetween assumes both dates are UTC midnights.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func within(assessments []models.Assessment, w Window) []models.Assessment {
	in := make([]models.Assessment, 0, len(assessments))
	for _, a := range assessments {
		if w.Contains(a.Date) {
			in = append(in, a)
		}
	}
	return in
}

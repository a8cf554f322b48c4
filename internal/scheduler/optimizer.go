package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
)

// localRadius is how many days either side of a candidate date count towards
// its local window.
const localRadius = 3

// Result is the outcome of one Optimize call. It shares nothing with the input.
type Result struct {
	BeforeScore        float64              `json:"before_score"`
	AfterScore         float64              `json:"after_score"`
	RevisedAssessments []models.Assessment  `json:"revised_assessments"`
	Moves              []models.Move        `json:"moves"`
	BeforeWeeks        []models.WindowScore `json:"before_weeks"`
	AfterWeeks         []models.WindowScore `json:"after_weeks"`
}

type Optimizer struct {
	scorer *Scorer
}

func NewOptimizer(scorer *Scorer) *Optimizer {
	if scorer == nil {
		scorer = defaultScorer
	}
	return &Optimizer{scorer: scorer}
}

// Optimize greedily moves flexible assessments to the date inside their
// flexibility range with the lowest local nervousness, using default weights.
func Optimize(assessments []models.Assessment, horizonStart, horizonEnd time.Time) (*Result, error) {
	return NewOptimizer(defaultScorer).Optimize(assessments, horizonStart, horizonEnd)
}

func (o *Optimizer) Optimize(assessments []models.Assessment, horizonStart, horizonEnd time.Time) (*Result, error) {
	horizon, err := NewWindow(horizonStart, horizonEnd)
	if err != nil {
		return nil, err
	}
	if err := validateAll(assessments); err != nil {
		return nil, err
	}
	for _, a := range assessments {
		if !horizon.Contains(a.Date) {
			return nil, &AssessmentError{ID: a.ID, Field: "date", Reason: "is outside the scheduling horizon"}
		}
	}

	revised := make([]models.Assessment, len(assessments))
	for i, a := range assessments {
		a.Date = models.CalendarDate(a.Date)
		revised[i] = a
	}

	beforeWeeks := o.scorer.weekly(revised, horizon)

	days := newDayBuckets(horizon)
	var movable []int
	for i, a := range revised {
		if a.Flexibility == models.FlexibilityFixed {
			days.add(a.Date, i)
			continue
		}
		movable = append(movable, i)
	}
	sort.SliceStable(movable, func(x, y int) bool {
		return placesBefore(revised[movable[x]], revised[movable[y]])
	})

	moves := make([]models.Move, 0)
	for _, i := range movable {
		current := revised[i]
		best := o.bestDate(current, i, days, revised)
		days.add(best, i)
		if best.Equal(current.Date) {
			continue
		}
		revised[i] = relocate(current, best)
		moves = append(moves, models.Move{
			AssessmentID: current.ID,
			Title:        current.Title,
			FromDate:     current.Date,
			ToDate:       best,
		})
	}

	afterWeeks := o.scorer.weekly(revised, horizon)
	return &Result{
		BeforeScore:        Aggregate(beforeWeeks),
		AfterScore:         Aggregate(afterWeeks),
		RevisedAssessments: revised,
		Moves:              moves,
		BeforeWeeks:        beforeWeeks,
		AfterWeeks:         afterWeeks,
	}, nil
}

// placesBefore orders movable assessments: least flexible first, then highest
// stake, then id.
func placesBefore(a, b models.Assessment) bool {
	fa, _ := a.Flexibility.Days()
	fb, _ := b.Flexibility.Days()
	if fa != fb {
		return fa < fb
	}
	sa, _ := a.StakeLevel.Severity()
	sb, _ := b.StakeLevel.Severity()
	if sa != sb {
		return sa > sb
	}
	return a.ID < b.ID
}

// bestDate tries every offset in the flexibility range. Ties go to the date
// closest to the current one, then to the earlier date.
func (o *Optimizer) bestDate(a models.Assessment, idx int, days *dayBuckets, pool []models.Assessment) time.Time {
	ceiling, _ := a.Flexibility.Days()
	best, bestOffset, bestScore := a.Date, 0, math.Inf(1)

	for offset := -ceiling; offset <= ceiling; offset++ {
		candidate := addDays(a.Date, offset)
		if !days.horizon.Contains(candidate) {
			continue
		}

		days.add(candidate, idx)
		score := o.localScore(candidate, days, pool)
		days.removeLast(candidate)

		if score < bestScore || (score == bestScore && abs(offset) < abs(bestOffset)) {
			best, bestOffset, bestScore = candidate, offset, score
		}
	}
	return best
}

func (o *Optimizer) localScore(day time.Time, days *dayBuckets, pool []models.Assessment) float64 {
	w := around(day, localRadius)
	var local []models.Assessment
	for d := w.Start; !d.After(w.End); d = addDays(d, 1) {
		for _, idx := range days.at(d) {
			local = append(local, pool[idx])
		}
	}
	return o.scorer.evaluate(local, w.Days()).Composite
}

// relocate builds a new value rather than editing the one held by the caller.
func relocate(a models.Assessment, date time.Time) models.Assessment {
	moved := a
	moved.Date = date
	return moved
}

// Aggregate averages the weeks that hold at least one assessment.
func Aggregate(weeks []models.WindowScore) float64 {
	var total float64
	var occupied int
	for _, w := range weeks {
		if w.Count == 0 {
			continue
		}
		total += w.Score
		occupied++
	}
	if occupied == 0 {
		return 0
	}
	return round1(total / float64(occupied))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// dayBuckets holds, per horizon day, the indexes of the assessments placed on
// it. It belongs to a single Optimize call.
type dayBuckets struct {
	horizon Window
	slots   [][]int
}

func newDayBuckets(horizon Window) *dayBuckets {
	return &dayBuckets{
		horizon: horizon,
		slots:   make([][]int, horizon.Days()),
	}
}

func (b *dayBuckets) index(day time.Time) (int, bool) {
	if !b.horizon.Contains(day) {
		return 0, false
	}
	return daysBetween(b.horizon.Start, day), true
}

func (b *dayBuckets) add(day time.Time, idx int) {
	if i, ok := b.index(day); ok {
		b.slots[i] = append(b.slots[i], idx)
	}
}

func (b *dayBuckets) removeLast(day time.Time) {
	if i, ok := b.index(day); ok && len(b.slots[i]) > 0 {
		b.slots[i] = b.slots[i][:len(b.slots[i])-1]
	}
}

func (b *dayBuckets) at(day time.Time) []int {
	if i, ok := b.index(day); ok {
		return b.slots[i]
	}
	return nil
}

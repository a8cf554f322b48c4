package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"gorm.io/gorm"
)

// ErrStaleWrite is returned when a conditional update matched no row because
// another writer got there first.
var ErrStaleWrite = errors.New("row changed concurrently")

type AssessmentFilters struct {
	TeacherID  *string            `json:"teacher_id"`
	StakeLevel *models.StakeLevel `json:"stake_level"`
	DateFrom   *time.Time         `json:"date_from"`
	DateTo     *time.Time         `json:"date_to"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
	SortBy     string             `json:"sort_by"`    // "date", "title", "weight", "created_at"
	SortOrder  string             `json:"sort_order"` // "asc", "desc"
}

// DateChange moves one assessment, provided it is still at Version.
type DateChange struct {
	ID      uint
	Version int
	Date    time.Time
}

type OptimizationRunFilters struct {
	Status *models.RunStatus `json:"status"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// Every repository method accepts an optional transaction. A nil tx runs on
// the repository's own connection.

type AssessmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error // Soft delete

	List(ctx context.Context, tx *gorm.DB, filters AssessmentFilters) ([]*models.Assessment, int64, error)
	// ListInRange returns every assessment dated within [from, to], ordered by date then id.
	ListInRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]models.Assessment, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]models.Assessment, error)

	// UpdateDates moves each assessment to its new date and bumps its version.
	// It returns ErrStaleWrite when any row is no longer at the expected version.
	UpdateDates(ctx context.Context, tx *gorm.DB, changes []DateChange) error
}

type OptimizationRunRepository interface {
	Create(ctx context.Context, tx *gorm.DB, run *models.OptimizationRun) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.OptimizationRun, error)
	List(ctx context.Context, tx *gorm.DB, filters OptimizationRunFilters) ([]*models.OptimizationRun, int64, error)
	// MarkApplied flips a pending run to applied. It returns ErrStaleWrite when
	// the run is no longer pending.
	MarkApplied(ctx context.Context, tx *gorm.DB, id string, appliedAt time.Time) error
}

// TxManager runs fn inside a database transaction that commits when fn
// returns nil.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

func (a *AssessmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *AssessmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	assessment.Date = models.CalendarDate(assessment.Date)
	assessment.Version = 1
	if err := a.getDB(tx).WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := a.getDB(tx).WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Update uses optimistic locking on version.
func (a *AssessmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	current := assessment.Version
	assessment.Date = models.CalendarDate(assessment.Date)
	assessment.Version = current + 1
	assessment.UpdatedAt = time.Now().UTC()

	result := a.getDB(tx).WithContext(ctx).
		Model(assessment).
		Where("version = ?", current).
		Select("title", "type", "date", "weight", "stake_level", "prep_time", "flexibility", "notes", "version", "updated_at").
		Updates(assessment)
	if result.Error != nil {
		assessment.Version = current
		return fmt.Errorf("failed to update assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		assessment.Version = current
		return repositories.ErrStaleWrite
	}
	return nil
}

func (a *AssessmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := a.getDB(tx).WithContext(ctx).Delete(&models.Assessment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *AssessmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	query := applyAssessmentFilters(a.getDB(tx).WithContext(ctx).Model(&models.Assessment{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assessments []*models.Assessment
	err := applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset).
		Find(&assessments).Error
	if err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}

func (a *AssessmentPostgreSQL) ListInRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := a.getDB(tx).WithContext(ctx).
		Where("date BETWEEN ? AND ?", models.CalendarDate(from), models.CalendarDate(to)).
		Order("date ASC, id ASC").
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments in range: %w", err)
	}
	return normaliseDates(assessments), nil
}

func (a *AssessmentPostgreSQL) ListAll(ctx context.Context, tx *gorm.DB) ([]models.Assessment, error) {
	var assessments []models.Assessment
	if err := a.getDB(tx).WithContext(ctx).Order("date ASC, id ASC").Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return normaliseDates(assessments), nil
}

func (a *AssessmentPostgreSQL) UpdateDates(ctx context.Context, tx *gorm.DB, changes []repositories.DateChange) error {
	db := a.getDB(tx).WithContext(ctx)
	now := time.Now().UTC()
	for _, change := range changes {
		result := moveDate(db, change, now)
		if result.Error != nil {
			return fmt.Errorf("failed to move assessment %d: %w", change.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("assessment %d: %w", change.ID, repositories.ErrStaleWrite)
		}
	}
	return nil
}

// moveDate writes one date change guarded by the version the caller read.
func moveDate(db *gorm.DB, change repositories.DateChange, now time.Time) *gorm.DB {
	return db.Model(&models.Assessment{}).
		Where("id = ? AND version = ?", change.ID, change.Version).
		Updates(map[string]any{
			"date":       models.CalendarDate(change.Date),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
}

// normaliseDates pins dates read back from postgres to UTC midnight; the
// driver may return them in the session time zone.
func normaliseDates(assessments []models.Assessment) []models.Assessment {
	for i := range assessments {
		assessments[i].Date = models.CalendarDate(assessments[i].Date)
	}
	return assessments
}

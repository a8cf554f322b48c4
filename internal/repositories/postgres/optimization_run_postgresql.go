package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"gorm.io/gorm"
)

type OptimizationRunPostgreSQL struct {
	db *gorm.DB
}

func NewOptimizationRunPostgreSQL(db *gorm.DB) repositories.OptimizationRunRepository {
	return &OptimizationRunPostgreSQL{db: db}
}

func (r *OptimizationRunPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *OptimizationRunPostgreSQL) Create(ctx context.Context, tx *gorm.DB, run *models.OptimizationRun) error {
	if err := r.getDB(tx).WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create optimization run: %w", err)
	}
	return nil
}

func (r *OptimizationRunPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.OptimizationRun, error) {
	var run models.OptimizationRun
	if err := r.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *OptimizationRunPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.OptimizationRunFilters) ([]*models.OptimizationRun, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.OptimizationRun{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []*models.OptimizationRun
	if err := paginate(query.Order("created_at DESC"), filters.Limit, filters.Offset).Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (r *OptimizationRunPostgreSQL) MarkApplied(ctx context.Context, tx *gorm.DB, id string, appliedAt time.Time) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.OptimizationRun{}).
		Where("id = ? AND status = ?", id, models.RunPending).
		Updates(map[string]any{
			"status":     models.RunApplied,
			"applied_at": appliedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark run %s applied: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrStaleWrite
	}
	return nil
}

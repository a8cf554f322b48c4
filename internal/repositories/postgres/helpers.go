package postgres

import (
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var assessmentSortColumns = map[string]string{
	"date":       "date",
	"title":      "title",
	"weight":     "weight",
	"created_at": "created_at",
}

func applyAssessmentFilters(query *gorm.DB, filters repositories.AssessmentFilters) *gorm.DB {
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.StakeLevel != nil {
		query = query.Where("stake_level = ?", *filters.StakeLevel)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", models.CalendarDate(*filters.DateFrom))
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", models.CalendarDate(*filters.DateTo))
	}
	return query
}

// applyPaginationAndSort only sorts by whitelisted columns; anything else
// falls back to date ascending.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	column, ok := assessmentSortColumns[sortBy]
	if !ok {
		column = "date"
	}
	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}
	return paginate(query.Order(column+" "+direction).Order("id ASC"), limit, offset)
}

func paginate(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

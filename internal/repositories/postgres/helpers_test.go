package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without ever opening a connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=scheduler dbname=scheduler sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestApplyAssessmentFilters_BuildsWhereClauses(t *testing.T) {
	db := dryRunDB(t)
	teacher := "ms-frizzle"
	stake := models.StakeHigh
	from := time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC)

	query := applyAssessmentFilters(db.Model(&models.Assessment{}), repositories.AssessmentFilters{
		TeacherID:  &teacher,
		StakeLevel: &stake,
		DateFrom:   &from,
	})
	var out []*models.Assessment
	stmt := query.Find(&out).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "teacher_id = $1")
	assert.Contains(t, sql, "stake_level = $2")
	assert.Contains(t, sql, "date >= $3")
	assert.NotContains(t, sql, "date <=")
	require.Len(t, stmt.Vars, 3)
	assert.Equal(t, models.CalendarDate(from), stmt.Vars[2])
}

func TestApplyPaginationAndSort_WhitelistsColumns(t *testing.T) {
	db := dryRunDB(t)

	var out []*models.Assessment
	sql := applyPaginationAndSort(db.Model(&models.Assessment{}), "weight; DROP TABLE assessments", "desc", 500, 40).
		Find(&out).Statement.SQL.String()

	assert.Contains(t, sql, "ORDER BY date DESC")
	assert.NotContains(t, sql, "DROP")
	assert.Contains(t, sql, "LIMIT 100")
	assert.Contains(t, sql, "OFFSET 40")
}

func TestPaginate_Defaults(t *testing.T) {
	db := dryRunDB(t)

	var out []*models.OptimizationRun
	sql := paginate(db.Model(&models.OptimizationRun{}), 0, -5).Find(&out).Statement.SQL.String()

	assert.Contains(t, sql, "LIMIT 20")
	assert.NotContains(t, sql, "OFFSET")
}

func TestMoveDate_GuardsOnVersion(t *testing.T) {
	db := dryRunDB(t)
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	stmt := moveDate(db, repositories.DateChange{ID: 4, Version: 3, Date: time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)}, now).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "UPDATE \"assessments\"")
	assert.Contains(t, sql, "id = $")
	assert.Contains(t, sql, "AND version = $")
	assert.Contains(t, sql, "version + 1")
	assert.Contains(t, stmt.Vars, uint(4))
	assert.Contains(t, stmt.Vars, 3)
	assert.Contains(t, stmt.Vars, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
}

func TestUpdateDates_NoMatchingRowIsStale(t *testing.T) {
	repo := NewAssessmentPostgreSQL(dryRunDB(t))

	// A dry run never touches a row, which is what a concurrent edit looks like.
	err := repo.UpdateDates(context.Background(), nil, []repositories.DateChange{
		{ID: 4, Version: 3, Date: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)},
	})
	assert.ErrorIs(t, err, repositories.ErrStaleWrite)
}

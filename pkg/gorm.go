package pkg

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/config"
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables the scheduler owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Assessment{}, &models.OptimizationRun{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

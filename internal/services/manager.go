package services

import (
	"log/slog"

	"github.com/SAP-F-2025/assessment-scheduler/internal/cache"
	"github.com/SAP-F-2025/assessment-scheduler/internal/config"
	"github.com/SAP-F-2025/assessment-scheduler/internal/events"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories/postgres"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/SAP-F-2025/assessment-scheduler/internal/validator"
	"gorm.io/gorm"
)

// ServiceManager hands out the services the HTTP layer depends on.
type ServiceManager interface {
	Assessment() AssessmentService
	Nervousness() NervousnessService
	Optimization() OptimizationService
	ImportExport() ImportExportService
}

// Dependencies are the shared clients services are built from. Cache may be
// nil, in which case read-outs are computed on every call.
type Dependencies struct {
	DB        *gorm.DB
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Scheduler config.SchedulerConfig
	Logger    *slog.Logger
}

type serviceManager struct {
	assessment   AssessmentService
	nervousness  NervousnessService
	optimization OptimizationService
	importExport ImportExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	assessmentRepo := postgres.NewAssessmentPostgreSQL(deps.DB)
	runRepo := postgres.NewOptimizationRunPostgreSQL(deps.DB)
	txManager := postgres.NewTxManager(deps.DB)

	scorer := scheduler.NewScorer(scheduler.DefaultWeights())
	v := validator.New()
	eventService := NewScheduleEventService(deps.Publisher, deps.Logger)

	nervousness := NewNervousnessService(
		assessmentRepo, scorer, deps.Cache,
		deps.Scheduler.CacheTTL, deps.Scheduler.MaxHorizonDays, deps.Logger,
	)
	assessment := NewAssessmentService(assessmentRepo, nervousness, eventService, v, deps.Logger)
	optimization := NewOptimizationService(
		assessmentRepo, runRepo, txManager,
		scheduler.NewOptimizer(scorer), nervousness, eventService, v,
		OptimizationLimits{
			MaxHorizonDays: deps.Scheduler.MaxHorizonDays,
			MaxAssessments: deps.Scheduler.MaxAssessments,
			Timeout:        deps.Scheduler.OptimizeTimeout,
		},
		deps.Logger,
	)

	return &serviceManager{
		assessment:   assessment,
		nervousness:  nervousness,
		optimization: optimization,
		importExport: NewImportExportService(assessment, optimization, deps.Logger),
	}
}

func (m *serviceManager) Assessment() AssessmentService     { return m.assessment }
func (m *serviceManager) Nervousness() NervousnessService   { return m.nervousness }
func (m *serviceManager) Optimization() OptimizationService { return m.optimization }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }

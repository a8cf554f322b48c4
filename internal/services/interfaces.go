package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
)

type AssessmentService interface {
	Create(ctx context.Context, req *CreateAssessmentRequest, actor models.User) (*models.Assessment, error)
	GetByID(ctx context.Context, id uint, actor models.User) (*models.Assessment, error)
	List(ctx context.Context, filters repositories.AssessmentFilters, actor models.User) (*AssessmentListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateAssessmentRequest, actor models.User) (*models.Assessment, error)
	Delete(ctx context.Context, id uint, actor models.User) error
}

type NervousnessService interface {
	Daily(ctx context.Context) ([]models.WindowScore, error)
	Weekly(ctx context.Context, from, to time.Time) ([]models.WindowScore, error)
	Summary(ctx context.Context, from, to time.Time) (*NervousnessSummary, error)
	// Invalidate drops every cached read-out.
	Invalidate(ctx context.Context)
}

type OptimizationService interface {
	Optimize(ctx context.Context, req *OptimizeRequest, actor models.User) (*OptimizationResponse, error)
	Apply(ctx context.Context, runID string, actor models.User) (*models.OptimizationRun, error)
	GetByID(ctx context.Context, runID string) (*models.OptimizationRun, error)
	List(ctx context.Context, filters repositories.OptimizationRunFilters) (*OptimizationRunListResponse, error)
}

type ImportExportService interface {
	ExportRun(ctx context.Context, runID string) ([]byte, error)
	ImportAssessments(ctx context.Context, data []byte, actor models.User) (*ImportSummary, error)
}

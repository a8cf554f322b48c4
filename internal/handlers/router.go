package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/services"
	"github.com/SAP-F-2025/assessment-scheduler/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	assessmentHandler   *AssessmentHandler
	nervousnessHandler  *NervousnessHandler
	optimizationHandler *OptimizationHandler
	verifier            TokenVerifier
	logger              utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	verifier TokenVerifier,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		assessmentHandler:   NewAssessmentHandler(serviceManager.Assessment(), serviceManager.ImportExport(), logger),
		nervousnessHandler:  NewNervousnessHandler(serviceManager.Nervousness(), logger),
		optimizationHandler: NewOptimizationHandler(serviceManager.Optimization(), serviceManager.ImportExport(), logger),
		verifier:            verifier,
		logger:              logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(utils.LoggerMiddleware(hm.logger))

	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1", AuthMiddleware(hm.verifier))
	{
		assessments := v1.Group("/assessments")
		{
			assessments.POST("", hm.assessmentHandler.CreateAssessment)
			assessments.GET("", hm.assessmentHandler.ListAssessments)
			assessments.POST("/import", hm.assessmentHandler.ImportAssessments)
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.PUT("/:id", hm.assessmentHandler.UpdateAssessment)
			assessments.DELETE("/:id", hm.assessmentHandler.DeleteAssessment)
		}

		nervousness := v1.Group("/nervousness")
		{
			nervousness.GET("/daily", hm.nervousnessHandler.GetDaily)
			nervousness.GET("/weekly", hm.nervousnessHandler.GetWeekly)
			nervousness.GET("/summary", hm.nervousnessHandler.GetSummary)
		}

		optimize := v1.Group("/optimize", RequireRole(models.RoleAdmin))
		{
			optimize.POST("", hm.optimizationHandler.Optimize)
			optimize.GET("", hm.optimizationHandler.ListRuns)
			optimize.GET("/:id", hm.optimizationHandler.GetRun)
			optimize.POST("/:id/apply", hm.optimizationHandler.ApplyRun)
			optimize.GET("/:id/export", hm.optimizationHandler.ExportRun)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "assessment-scheduler",
	})
}

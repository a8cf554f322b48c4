package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/SAP-F-2025/assessment-scheduler/internal/services"
	"github.com/SAP-F-2025/assessment-scheduler/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OptimizationHandler struct {
	BaseHandler
	optimizationService services.OptimizationService
	importExportService services.ImportExportService
}

func NewOptimizationHandler(
	optimizationService services.OptimizationService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *OptimizationHandler {
	return &OptimizationHandler{
		BaseHandler:         NewBaseHandler(logger),
		optimizationService: optimizationService,
		importExportService: importExportService,
	}
}

// Optimize proposes a calmer schedule for [from, to] and stores it as a pending run
// @Summary Optimize schedule
// @Tags optimize
// @Accept json
// @Produce json
// @Param request body services.OptimizeRequest true "Horizon"
// @Success 201 {object} services.OptimizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /optimize [post]
func (h *OptimizationHandler) Optimize(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	h.LogRequest(c, "Optimizing schedule", "from", req.From, "to", req.To)

	resp, err := h.optimizationService.Optimize(c.Request.Context(), &req, user)
	if err != nil {
		if errors.Is(err, scheduler.ErrInvalidWindow) {
			h.RespondWithError(c, http.StatusBadRequest, "could not optimize: invalid date range", err.Error())
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetRun returns a stored optimization run
// @Summary Get optimization run
// @Tags optimize
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.OptimizationRun
// @Failure 404 {object} ErrorResponse
// @Router /optimize/{id} [get]
func (h *OptimizationHandler) GetRun(c *gin.Context) {
	id, ok := parseStringIDParam(c, "id")
	if !ok {
		return
	}

	run, err := h.optimizationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRuns lists optimization runs, newest first
// @Summary List optimization runs
// @Tags optimize
// @Produce json
// @Param status query string false "pending, applied or discarded"
// @Success 200 {object} services.OptimizationRunListResponse
// @Router /optimize [get]
func (h *OptimizationHandler) ListRuns(c *gin.Context) {
	filters := repositories.OptimizationRunFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := models.RunStatus(status)
		filters.Status = &s
	}

	resp, err := h.optimizationService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ApplyRun writes a pending run's new dates
// @Summary Apply optimization run
// @Tags optimize
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.OptimizationRun
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /optimize/{id}/apply [post]
func (h *OptimizationHandler) ApplyRun(c *gin.Context) {
	id, ok := parseStringIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	run, err := h.optimizationService.Apply(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ExportRun downloads a run as an xlsx workbook
// @Summary Export optimization run
// @Tags optimize
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /optimize/{id}/export [get]
func (h *OptimizationHandler) ExportRun(c *gin.Context) {
	id, ok := parseStringIDParam(c, "id")
	if !ok {
		return
	}

	data, err := h.importExportService.ExportRun(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%s.xlsx", id))
	c.Data(http.StatusOK, xlsxContentType, data)
}

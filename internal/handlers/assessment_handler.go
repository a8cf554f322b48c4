package handlers

import (
	"io"
	"net/http"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/repositories"
	"github.com/SAP-F-2025/assessment-scheduler/internal/services"
	"github.com/SAP-F-2025/assessment-scheduler/internal/utils"
	"github.com/gin-gonic/gin"
)

// maxImportBytes caps the size of an uploaded assessment workbook.
const maxImportBytes = 10 << 20

type AssessmentHandler struct {
	BaseHandler
	assessmentService   services.AssessmentService
	importExportService services.ImportExportService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:         NewBaseHandler(logger),
		assessmentService:   assessmentService,
		importExportService: importExportService,
	}
}

// CreateAssessment creates a new assessment
// @Summary Create assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Param assessment body services.CreateAssessmentRequest true "Assessment data"
// @Success 201 {object} models.Assessment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	assessment, err := h.assessmentService.Create(c.Request.Context(), &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// GetAssessment retrieves an assessment by ID
// @Summary Get assessment
// @Tags assessments
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {object} models.Assessment
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting assessment", "assessment_id", id)

	assessment, err := h.assessmentService.GetByID(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// UpdateAssessment changes the fields present in the body
// @Summary Update assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Param id path uint true "Assessment ID"
// @Param assessment body services.UpdateAssessmentRequest true "Fields to change"
// @Success 200 {object} models.Assessment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assessments/{id} [put]
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	assessment, err := h.assessmentService.Update(c.Request.Context(), id, &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// DeleteAssessment soft-deletes an assessment
// @Summary Delete assessment
// @Tags assessments
// @Param id path uint true "Assessment ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), id, user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assessment deleted successfully", nil)
}

// ListAssessments lists assessments visible to the caller
// @Summary List assessments
// @Tags assessments
// @Produce json
// @Param teacher_id query string false "Owner (admins only)"
// @Param stake_level query string false "low, medium or high"
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.AssessmentListResponse
// @Router /assessments [get]
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	filters, ok := parseAssessmentFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing assessments")

	resp, err := h.assessmentService.List(c.Request.Context(), filters, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImportAssessments creates assessments from an uploaded xlsx workbook
// @Summary Import assessments
// @Tags assessments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook with a header row"
// @Success 200 {object} services.ImportSummary
// @Failure 400 {object} ErrorResponse
// @Router /assessments/import [post]
func (h *AssessmentHandler) ImportAssessments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing file", err.Error())
		return
	}
	if header.Size > maxImportBytes {
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unreadable file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportBytes))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unreadable file", err.Error())
		return
	}

	summary, err := h.importExportService.ImportAssessments(c.Request.Context(), data, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func parseAssessmentFilters(c *gin.Context) (repositories.AssessmentFilters, bool) {
	filters := repositories.AssessmentFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if teacherID := c.Query("teacher_id"); teacherID != "" {
		filters.TeacherID = &teacherID
	}
	if stake := c.Query("stake_level"); stake != "" {
		level := models.StakeLevel(stake)
		if _, known := level.Severity(); !known {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid stake_level",
				Details: "must be low, medium, or high",
			})
			return filters, false
		}
		filters.StakeLevel = &level
	}

	var ok bool
	if filters.DateFrom, ok = parseDateQuery(c, "from"); !ok {
		return filters, false
	}
	if filters.DateTo, ok = parseDateQuery(c, "to"); !ok {
		return filters, false
	}
	return filters, true
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/SAP-F-2025/assessment-scheduler/internal/services"
	"github.com/SAP-F-2025/assessment-scheduler/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides request-scoped logging and error mapping for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs an incoming request with the caller attached.
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...any) {
	fields := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", extractUserID(c),
	}
	fields = append(fields, additionalFields...)
	h.log(c).DebugContext(c.Request.Context(), message, fields...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...any) {
	fields := []any{
		"user_id", extractUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)
	h.log(c).LogError(err, message, fields...)
}

func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, details ...any) {
	resp := ErrorResponse{Message: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	c.JSON(statusCode, resp)
}

func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}

// handleServiceError maps service and scheduler errors onto HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	var assessmentErr *scheduler.AssessmentError
	if errors.As(err, &assessmentErr) {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid assessment", map[string]any{
			"assessment_id": assessmentErr.ID,
			"field":         assessmentErr.Field,
			"reason":        assessmentErr.Reason,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		h.RespondWithError(c, http.StatusUnprocessableEntity, businessRuleError.Message, map[string]any{
			"rule":    businessRuleError.Rule,
			"context": businessRuleError.Context,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", map[string]any{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	switch {
	case errors.Is(err, scheduler.ErrInvalidWindow):
		h.RespondWithError(c, http.StatusBadRequest, "invalid date range", err.Error())
	case errors.Is(err, scheduler.ErrInvalidAssessment):
		h.RespondWithError(c, http.StatusBadRequest, "Invalid assessment", err.Error())
	case errors.Is(err, services.ErrAssessmentNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Assessment not found")
	case errors.Is(err, services.ErrRunNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Optimization run not found")
	case errors.Is(err, services.ErrRunAlreadyApplied):
		h.RespondWithError(c, http.StatusConflict, "Optimization run already applied")
	case errors.Is(err, services.ErrRunNotPending):
		h.RespondWithError(c, http.StatusConflict, "Optimization run is not pending", err.Error())
	case errors.Is(err, services.ErrScheduleChanged):
		h.RespondWithError(c, http.StatusConflict, "Schedule changed since the run was computed", err.Error())
	case errors.Is(err, services.ErrAssessmentChanged):
		h.RespondWithError(c, http.StatusConflict, "Assessment was modified concurrently, reload and retry")
	case errors.Is(err, services.ErrOptimizationTooLarge), errors.Is(err, services.ErrHorizonTooLarge):
		h.RespondWithError(c, http.StatusUnprocessableEntity, "Request too large", err.Error())
	case errors.Is(err, services.ErrOptimizationTimeout):
		h.RespondWithError(c, http.StatusGatewayTimeout, "Optimization timed out")
	case errors.Is(err, services.ErrValidationFailed):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		h.RespondWithError(c, http.StatusUnauthorized, "Unauthorized access")
	case errors.Is(err, services.ErrForbidden):
		h.RespondWithError(c, http.StatusForbidden, "Forbidden - insufficient permissions")
	case errors.Is(err, services.ErrNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrConflict):
		h.RespondWithError(c, http.StatusConflict, "Resource conflict")
	default:
		h.LogError(c, err, "Unexpected service error")
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// ===== REQUEST HELPERS =====

// currentUser returns the caller set by AuthMiddleware and answers 401 when
// there is none.
func currentUser(c *gin.Context) (models.User, bool) {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(models.User); ok {
			return user, true
		}
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	return models.User{}, false
}

func extractUserID(c *gin.Context) string {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(models.User); ok {
			return user.ID
		}
	}
	return ""
}

func parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func parseStringIDParam(c *gin.Context, param string) (string, bool) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return "", false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(param))
	if err != nil {
		return defaultValue
	}
	return value
}

// parseDateQuery reads an optional YYYY-MM-DD query value. ok is false after
// a 400 has been written.
func parseDateQuery(c *gin.Context, param string) (date *time.Time, ok bool) {
	raw := c.Query(param)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a date formatted as 2006-01-02",
		})
		return nil, false
	}
	t = models.CalendarDate(t)
	return &t, true
}

// requireDateRange reads the mandatory from/to pair of a read-out query.
func requireDateRange(c *gin.Context) (from, to time.Time, ok bool) {
	fromPtr, ok := parseDateQuery(c, "from")
	if !ok {
		return from, to, false
	}
	toPtr, ok := parseDateQuery(c, "to")
	if !ok {
		return from, to, false
	}
	if fromPtr == nil || toPtr == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing date range",
			Details: "from and to are required",
		})
		return from, to, false
	}
	return *fromPtr, *toPtr, true
}

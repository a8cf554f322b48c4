package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/assessment-scheduler/internal/services"
	"github.com/SAP-F-2025/assessment-scheduler/internal/utils"
	"github.com/gin-gonic/gin"
)

type NervousnessHandler struct {
	BaseHandler
	nervousnessService services.NervousnessService
}

func NewNervousnessHandler(nervousnessService services.NervousnessService, logger utils.Logger) *NervousnessHandler {
	return &NervousnessHandler{
		BaseHandler:        NewBaseHandler(logger),
		nervousnessService: nervousnessService,
	}
}

// GetDaily scores every date that has assessments
// @Summary Daily nervousness
// @Tags nervousness
// @Produce json
// @Success 200 {array} models.WindowScore
// @Router /nervousness/daily [get]
func (h *NervousnessHandler) GetDaily(c *gin.Context) {
	days, err := h.nervousnessService.Daily(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// GetWeekly scores [from, to] in 7-day chunks
// @Summary Weekly nervousness
// @Tags nervousness
// @Produce json
// @Param from query string true "Horizon start (YYYY-MM-DD)"
// @Param to query string true "Horizon end (YYYY-MM-DD)"
// @Success 200 {array} models.WindowScore
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /nervousness/weekly [get]
func (h *NervousnessHandler) GetWeekly(c *gin.Context) {
	from, to, ok := requireDateRange(c)
	if !ok {
		return
	}

	weeks, err := h.nervousnessService.Weekly(c.Request.Context(), from, to)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, weeks)
}

// GetSummary aggregates [from, to] into one score with its peak week
// @Summary Nervousness summary
// @Tags nervousness
// @Produce json
// @Param from query string true "Horizon start (YYYY-MM-DD)"
// @Param to query string true "Horizon end (YYYY-MM-DD)"
// @Success 200 {object} services.NervousnessSummary
// @Router /nervousness/summary [get]
func (h *NervousnessHandler) GetSummary(c *gin.Context) {
	from, to, ok := requireDateRange(c)
	if !ok {
		return
	}

	summary, err := h.nervousnessService.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

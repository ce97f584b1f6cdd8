package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-tracker-api/internal/response"
	"issue-tracker-api/internal/service"
)

// ReportHandler handles reporting and timeline endpoints
type ReportHandler struct {
	reportService   service.ReportService
	timelineService service.TimelineService
}

// NewReportHandler creates a new instance of ReportHandler
func NewReportHandler(reportService service.ReportService, timelineService service.TimelineService) *ReportHandler {
	return &ReportHandler{
		reportService:   reportService,
		timelineService: timelineService,
	}
}

// @Summary      Top assignees
// @Description  Active users ranked by open assignment count
// @Tags         reports
// @Produce      json
// @Param        limit query int false "Max entries (capped at 100)" default(10)
// @Param        projectId query string false "Project ID (UUID)"
// @Success      200 {object} map[string][]dto.TopAssigneeEntry
// @Failure      400 {object} response.ErrorBody
// @Router       /reports/top-assignees [get]
// @Security     BearerAuth
func (h *ReportHandler) TopAssignees(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid limit")
			return
		}
		limit = n
	}
	projectID, ok := h.parseProjectScope(c)
	if !ok {
		return
	}

	entries, err := h.reportService.TopAssignees(c.Request.Context(), limit, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"topAssignees": entries})
}

// @Summary      Resolution latency
// @Description  Average, fastest, and slowest time-to-resolution over a window
// @Tags         reports
// @Produce      json
// @Param        days query int false "Window in days"
// @Param        projectId query string false "Project ID (UUID)"
// @Success      200 {object} dto.ResolutionLatencyResponse
// @Failure      400 {object} response.ErrorBody
// @Router       /reports/resolution-latency [get]
// @Security     BearerAuth
func (h *ReportHandler) ResolutionLatency(c *gin.Context) {
	days, ok := h.parsePeriodDays(c)
	if !ok {
		return
	}
	projectID, ok := h.parseProjectScope(c)
	if !ok {
		return
	}

	result, err := h.reportService.ResolutionLatency(c.Request.Context(), days, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// @Summary      Velocity
// @Description  Created vs resolved counts and daily rates over a window
// @Tags         reports
// @Produce      json
// @Param        days query int false "Window in days"
// @Param        projectId query string false "Project ID (UUID)"
// @Success      200 {object} dto.VelocityResponse
// @Failure      400 {object} response.ErrorBody
// @Router       /reports/velocity [get]
// @Security     BearerAuth
func (h *ReportHandler) Velocity(c *gin.Context) {
	days, ok := h.parsePeriodDays(c)
	if !ok {
		return
	}
	projectID, ok := h.parseProjectScope(c)
	if !ok {
		return
	}

	result, err := h.reportService.Velocity(c.Request.Context(), days, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// @Summary      Issue timeline
// @Description  Event history reconstructed from the issue's current state
// @Tags         reports
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} dto.TimelineResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId}/timeline [get]
// @Security     BearerAuth
func (h *ReportHandler) GetIssueTimeline(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	timeline, err := h.timelineService.GetTimeline(c.Request.Context(), issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, timeline)
}

func (h *ReportHandler) parseProjectScope(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("projectId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid project ID")
		return nil, false
	}
	return &id, true
}

func (h *ReportHandler) parsePeriodDays(c *gin.Context) (int, bool) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid days")
			return 0, false
		}
		days = n
	}
	return days, true
}

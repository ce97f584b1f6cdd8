package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
	"issue-tracker-api/internal/service"
)

// IssueHandler handles issue endpoints, including bulk operations and
// CSV import
type IssueHandler struct {
	issueService  service.IssueService
	importService service.ImportService
}

// NewIssueHandler creates a new instance of IssueHandler
func NewIssueHandler(issueService service.IssueService, importService service.ImportService) *IssueHandler {
	return &IssueHandler{
		issueService:  issueService,
		importService: importService,
	}
}

// @Summary      Create issue
// @Description  Creates an issue in a project; status starts at open
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateIssueRequest true "Issue payload"
// @Success      201 {object} dto.IssueResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Failure      422 {object} response.ErrorBody
// @Router       /issues [post]
// @Security     BearerAuth
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	var req dto.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.CreateIssue(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, issue)
}

// @Summary      Get issue
// @Tags         issues
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} dto.IssueResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId} [get]
// @Security     BearerAuth
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	issue, err := h.issueService.GetIssue(c.Request.Context(), issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

// @Summary      Get issue with comments and labels
// @Tags         issues
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} dto.IssueDetailResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId}/detail [get]
// @Security     BearerAuth
func (h *IssueHandler) GetIssueDetail(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	detail, err := h.issueService.GetIssueDetail(c.Request.Context(), issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, detail)
}

// @Summary      List issues
// @Description  Paginated list, newest first, with optional equality filters
// @Tags         issues
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        size query int false "Page size" default(20)
// @Param        projectId query string false "Filter by project (UUID)"
// @Param        status query string false "Filter by status"
// @Param        assigneeId query string false "Filter by assignee (UUID)"
// @Param        creatorId query string false "Filter by creator (UUID)"
// @Success      200 {object} dto.Page[dto.IssueResponse]
// @Failure      400 {object} response.ErrorBody
// @Router       /issues [get]
// @Security     BearerAuth
func (h *IssueHandler) ListIssues(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid pagination parameters")
		return
	}
	var filters dto.IssueFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid filter parameters")
		return
	}

	page, err := h.issueService.ListIssues(c.Request.Context(), &query, &filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, page)
}

// @Summary      Search issues
// @Description  Case-insensitive substring match over title and description
// @Tags         issues
// @Produce      json
// @Param        q query string true "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        size query int false "Page size" default(20)
// @Success      200 {object} dto.Page[dto.IssueResponse]
// @Failure      400 {object} response.ErrorBody
// @Router       /issues/search [get]
// @Security     BearerAuth
func (h *IssueHandler) SearchIssues(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid pagination parameters")
		return
	}

	page, err := h.issueService.SearchIssues(c.Request.Context(), c.Query("q"), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, page)
}

// @Summary      Update issue
// @Description  Version-checked partial update; status changes must follow the workflow
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.UpdateIssueRequest true "Fields to change plus the expected version"
// @Success      200 {object} dto.IssueResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Router       /issues/{issueId} [put]
// @Security     BearerAuth
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	var req dto.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.UpdateIssue(c.Request.Context(), issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

// @Summary      Update issue status
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.UpdateIssueStatusRequest true "Target status plus the expected version"
// @Success      200 {object} dto.IssueResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Router       /issues/{issueId}/status [put]
// @Security     BearerAuth
func (h *IssueHandler) UpdateIssueStatus(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	var req dto.UpdateIssueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.UpdateIssueStatus(c.Request.Context(), issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

// @Summary      Delete issue
// @Tags         issues
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId} [delete]
// @Security     BearerAuth
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	if err := h.issueService.DeleteIssue(c.Request.Context(), issueID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Issue deleted"})
}

// @Summary      Restore a deleted issue
// @Tags         issues
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} dto.IssueResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId}/restore [put]
// @Security     BearerAuth
func (h *IssueHandler) RestoreIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	issue, err := h.issueService.RestoreIssue(c.Request.Context(), issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, issue)
}

// @Summary      Issue statistics
// @Description  Totals and per-status counts, optionally scoped to a project
// @Tags         issues
// @Produce      json
// @Param        projectId query string false "Project ID (UUID)"
// @Success      200 {object} dto.IssueStatisticsResponse
// @Failure      400 {object} response.ErrorBody
// @Router       /issues/statistics [get]
// @Security     BearerAuth
func (h *IssueHandler) GetIssueStatistics(c *gin.Context) {
	var projectID *uuid.UUID
	if raw := c.Query("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid project ID")
			return
		}
		projectID = &id
	}

	stats, err := h.issueService.GetIssueStatistics(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, stats)
}

// @Summary      Bulk status update
// @Description  Moves a batch of issues to one status; any invalid row rejects the whole batch
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        request body dto.BulkStatusUpdateRequest true "Issue IDs and target status"
// @Success      200 {object} dto.BulkStatusUpdateResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      422 {object} dto.BulkStatusUpdateResponse
// @Router       /issues/bulk-status [post]
// @Security     BearerAuth
func (h *IssueHandler) BulkUpdateStatus(c *gin.Context) {
	var req dto.BulkStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.issueService.BulkUpdateStatus(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// A rejected batch is still a well-formed response; the caller reads
	// the per-issue errors
	status := http.StatusOK
	if result.FailureCount > 0 {
		status = http.StatusUnprocessableEntity
	}
	response.SendSuccess(c, status, result)
}

// ImportIssues accepts a CSV upload (multipart "file" field or raw body)
// and imports its rows as issues
//
// @Summary      Import issues from CSV
// @Description  Parses the whole file first; rows are only written when parsing found no errors
// @Tags         issues
// @Accept       mpfd
// @Produce      json
// @Param        file formData file true "CSV file (header row required)"
// @Success      200 {object} dto.CSVImportResponse
// @Failure      400 {object} response.ErrorBody
// @Router       /issues/import [post]
// @Security     BearerAuth
func (h *IssueHandler) ImportIssues(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		// Fall back to the raw request body for text/csv uploads
		if c.Request.Body == nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Missing CSV payload")
			return
		}
		result, err := h.importService.ImportIssuesCSV(c.Request.Context(), c.Request.Body)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		response.SendSuccess(c, http.StatusOK, result)
		return
	}
	defer file.Close()

	result, err := h.importService.ImportIssuesCSV(c.Request.Context(), file)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
	"issue-tracker-api/internal/service"
)

// LabelHandler handles label endpoints, including issue assignments
type LabelHandler struct {
	labelService service.LabelService
}

// NewLabelHandler creates a new instance of LabelHandler
func NewLabelHandler(labelService service.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// @Summary      Create label
// @Tags         labels
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateLabelRequest true "Label payload"
// @Success      201 {object} dto.LabelResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Router       /labels [post]
// @Security     BearerAuth
func (h *LabelHandler) CreateLabel(c *gin.Context) {
	var req dto.CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	label, err := h.labelService.CreateLabel(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, label)
}

// @Summary      Get label
// @Tags         labels
// @Produce      json
// @Param        labelId path string true "Label ID (UUID)"
// @Success      200 {object} dto.LabelResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /labels/{labelId} [get]
// @Security     BearerAuth
func (h *LabelHandler) GetLabel(c *gin.Context) {
	labelID, err := uuid.Parse(c.Param("labelId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid label ID")
		return
	}

	label, err := h.labelService.GetLabel(c.Request.Context(), labelID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, label)
}

// @Summary      List labels
// @Description  Name ascending, optionally scoped to a project
// @Tags         labels
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        size query int false "Page size" default(20)
// @Param        projectId query string false "Project ID (UUID)"
// @Success      200 {object} dto.Page[dto.LabelResponse]
// @Failure      400 {object} response.ErrorBody
// @Router       /labels [get]
// @Security     BearerAuth
func (h *LabelHandler) ListLabels(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid pagination parameters")
		return
	}

	var projectID *uuid.UUID
	if raw := c.Query("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid project ID")
			return
		}
		projectID = &id
	}

	page, err := h.labelService.ListLabels(c.Request.Context(), &query, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, page)
}

// @Summary      Update label
// @Description  Version-checked partial update
// @Tags         labels
// @Accept       json
// @Produce      json
// @Param        labelId path string true "Label ID (UUID)"
// @Param        request body dto.UpdateLabelRequest true "Fields to change plus the expected version"
// @Success      200 {object} dto.LabelResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Router       /labels/{labelId} [put]
// @Security     BearerAuth
func (h *LabelHandler) UpdateLabel(c *gin.Context) {
	labelID, err := uuid.Parse(c.Param("labelId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid label ID")
		return
	}

	var req dto.UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	label, err := h.labelService.UpdateLabel(c.Request.Context(), labelID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, label)
}

// @Summary      Delete label
// @Description  Also detaches the label from every issue
// @Tags         labels
// @Produce      json
// @Param        labelId path string true "Label ID (UUID)"
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody
// @Router       /labels/{labelId} [delete]
// @Security     BearerAuth
func (h *LabelHandler) DeleteLabel(c *gin.Context) {
	labelID, err := uuid.Parse(c.Param("labelId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid label ID")
		return
	}

	if err := h.labelService.DeleteLabel(c.Request.Context(), labelID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Label deleted"})
}

// @Summary      Assign label to issue
// @Tags         labels
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        labelId path string true "Label ID (UUID)"
// @Success      201 {object} map[string]string
// @Failure      404 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Router       /issues/{issueId}/labels/{labelId} [post]
// @Security     BearerAuth
func (h *LabelHandler) AssignLabel(c *gin.Context) {
	issueID, labelID, ok := h.parseAssignmentIDs(c)
	if !ok {
		return
	}

	if err := h.labelService.AssignLabel(c.Request.Context(), issueID, labelID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, gin.H{"message": "Label assigned"})
}

// @Summary      Remove label from issue
// @Tags         labels
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        labelId path string true "Label ID (UUID)"
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId}/labels/{labelId} [delete]
// @Security     BearerAuth
func (h *LabelHandler) RemoveLabel(c *gin.Context) {
	issueID, labelID, ok := h.parseAssignmentIDs(c)
	if !ok {
		return
	}

	if err := h.labelService.RemoveLabel(c.Request.Context(), issueID, labelID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Label removed"})
}

// @Summary      Replace an issue's labels
// @Description  Swaps the whole label set in one transaction
// @Tags         labels
// @Accept       json
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.ReplaceLabelsRequest true "Full replacement label set"
// @Success      200 {object} map[string][]dto.LabelResponse
// @Failure      404 {object} response.ErrorBody
// @Failure      422 {object} response.ErrorBody
// @Router       /issues/{issueId}/labels [put]
// @Security     BearerAuth
func (h *LabelHandler) ReplaceLabels(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	var req dto.ReplaceLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	labels, err := h.labelService.ReplaceLabels(c.Request.Context(), issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"labels": labels})
}

// @Summary      List an issue's labels
// @Description  Name ascending
// @Tags         labels
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} map[string][]dto.LabelResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId}/labels [get]
// @Security     BearerAuth
func (h *LabelHandler) ListByIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}

	labels, err := h.labelService.ListByIssue(c.Request.Context(), issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"labels": labels})
}

func (h *LabelHandler) parseAssignmentIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return uuid.Nil, uuid.Nil, false
	}
	labelID, err := uuid.Parse(c.Param("labelId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid label ID")
		return uuid.Nil, uuid.Nil, false
	}
	return issueID, labelID, true
}

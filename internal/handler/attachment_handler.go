package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
	"issue-tracker-api/internal/service"
)

// AttachmentHandler handles attachment metadata endpoints
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new instance of AttachmentHandler
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// @Summary      Register attachment metadata
// @Description  Records metadata only; file content lives outside this service
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateAttachmentRequest true "Attachment metadata"
// @Success      201 {object} dto.AttachmentResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      422 {object} response.ErrorBody
// @Router       /attachments [post]
// @Security     BearerAuth
func (h *AttachmentHandler) CreateAttachment(c *gin.Context) {
	var req dto.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	attachment, err := h.attachmentService.CreateAttachment(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, attachment)
}

// @Summary      Get attachment
// @Tags         attachments
// @Produce      json
// @Param        attachmentId path string true "Attachment ID (UUID)"
// @Success      200 {object} dto.AttachmentResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /attachments/{attachmentId} [get]
// @Security     BearerAuth
func (h *AttachmentHandler) GetAttachment(c *gin.Context) {
	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid attachment ID")
		return
	}

	attachment, err := h.attachmentService.GetAttachment(c.Request.Context(), attachmentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, attachment)
}

// @Summary      List an issue's attachments
// @Tags         attachments
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        page query int false "Page number" default(1)
// @Param        size query int false "Page size" default(20)
// @Success      200 {object} dto.Page[dto.AttachmentResponse]
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId}/attachments [get]
// @Security     BearerAuth
func (h *AttachmentHandler) ListByIssue(c *gin.Context) {
	issueID, err := uuid.Parse(c.Param("issueId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid issue ID")
		return
	}
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid pagination parameters")
		return
	}

	page, err := h.attachmentService.ListByIssue(c.Request.Context(), issueID, &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, page)
}

// @Summary      Delete attachment
// @Tags         attachments
// @Produce      json
// @Param        attachmentId path string true "Attachment ID (UUID)"
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody
// @Router       /attachments/{attachmentId} [delete]
// @Security     BearerAuth
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid attachment ID")
		return
	}

	if err := h.attachmentService.DeleteAttachment(c.Request.Context(), attachmentID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Attachment deleted"})
}

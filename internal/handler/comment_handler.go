package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-tracker-api/internal/dto"
	"issue-tracker-api/internal/response"
	"issue-tracker-api/internal/service"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new instance of CommentHandler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// @Summary      Create comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCommentRequest true "Comment payload"
// @Success      201 {object} dto.CommentResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      422 {object} response.ErrorBody
// @Router       /comments [post]
// @Security     BearerAuth
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, comment)
}

// @Summary      Get comment
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} dto.CommentResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /comments/{commentId} [get]
// @Security     BearerAuth
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, comment)
}

// @Summary      List comments on an issue
// @Description  Oldest first (thread order)
// @Tags         comments
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        page query int false "Page number" default(1)
// @Param        size query int false "Page size" default(20)
// @Success      200 {object} dto.Page[dto.CommentResponse]
// @Failure      404 {object} response.ErrorBody
// @Router       /issues/{issueId}/comments [get]
// @Security     BearerAuth
func (h *CommentHandler) ListByIssue(c *gin.Context) {
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

	page, err := h.commentService.ListByIssue(c.Request.Context(), issueID, &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, page)
}

// @Summary      List a user's comments
// @Description  Newest first
// @Tags         comments
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Param        page query int false "Page number" default(1)
// @Param        size query int false "Page size" default(20)
// @Success      200 {object} dto.Page[dto.CommentResponse]
// @Failure      404 {object} response.ErrorBody
// @Router       /users/{userId}/comments [get]
// @Security     BearerAuth
func (h *CommentHandler) ListByAuthor(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid user ID")
		return
	}
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid pagination parameters")
		return
	}

	page, err := h.commentService.ListByAuthor(c.Request.Context(), authorID, &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, page)
}

// @Summary      Update comment
// @Description  Author-only, version-checked
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Param        request body dto.UpdateCommentRequest true "New content plus the expected version"
// @Success      200 {object} dto.CommentResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Failure      409 {object} response.ErrorBody
// @Router       /comments/{commentId} [put]
// @Security     BearerAuth
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), commentID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, comment)
}

// @Summary      Delete comment
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.ErrorBody
// @Router       /comments/{commentId} [delete]
// @Security     BearerAuth
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), commentID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Comment deleted"})
}

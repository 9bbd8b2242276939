package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-backend/internal/domains/reviewer/model"
	"journal-backend/internal/domains/reviewer/service"
	"journal-backend/internal/shared/response"
)

// ReviewerHandler handles HTTP requests for the reviewer registry
type ReviewerHandler struct {
	service service.ReviewerService
}

// NewReviewerHandler creates a new reviewer handler instance
func NewReviewerHandler(service service.ReviewerService) *ReviewerHandler {
	return &ReviewerHandler{service: service}
}

// CreateReviewer handles POST /reviewers
func (h *ReviewerHandler) CreateReviewer(c *gin.Context) {
	var req model.CreateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.CreateReviewer(c.Request.Context(), req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetReviewer handles GET /reviewers/:id
func (h *ReviewerHandler) GetReviewer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid reviewer id")
		return
	}

	result, err := h.service.GetReviewer(c.Request.Context(), id)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListReviewers handles GET /reviewers
func (h *ReviewerHandler) ListReviewers(c *gin.Context) {
	result, err := h.service.ListReviewers(c.Request.Context(), c.Query("status"))
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// UpdateReviewer handles PATCH /reviewers/:id
func (h *ReviewerHandler) UpdateReviewer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid reviewer id")
		return
	}

	var req model.UpdateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.UpdateReviewer(c.Request.Context(), id, req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// DeactivateReviewer handles DELETE /reviewers/:id
// Reviewers are deactivated, never removed, so assignment history stays
// intact.
func (h *ReviewerHandler) DeactivateReviewer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid reviewer id")
		return
	}

	if err := h.service.DeactivateReviewer(c.Request.Context(), id); err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// Certificate handles GET /reviewers/:id/certificate
func (h *ReviewerHandler) Certificate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid reviewer id")
		return
	}

	data, err := h.service.RenderCertificate(c.Request.Context(), id)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="certificate-of-reviewing.html"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

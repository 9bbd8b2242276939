package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-backend/internal/domains/submission/model"
	"journal-backend/internal/domains/submission/service"
	"journal-backend/internal/shared/response"
)

// SubmissionHandler handles HTTP requests for the submission domain
type SubmissionHandler struct {
	service service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler instance
func NewSubmissionHandler(service service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// CreateSubmission handles POST /submissions
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req model.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.CreateSubmission(c.Request.Context(), req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetSubmission handles GET /submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(model.ErrInvalidSubmissionID)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	result, err := h.service.GetSubmission(c.Request.Context(), id)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListSubmissions handles GET /submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var req model.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.ListSubmissions(c.Request.Context(), req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Submissions, &response.Meta{
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
	})
}

// UpdatePipeline handles PATCH /submissions/:id/pipeline
func (h *SubmissionHandler) UpdatePipeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(model.ErrInvalidSubmissionID)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	var req model.UpdatePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.service.UpdatePipeline(c.Request.Context(), id, req); err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// ExportSubmissions handles GET /submissions/export
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	data, err := h.service.ExportXLSX(c.Request.Context())
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	filename := fmt.Sprintf("submissions-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

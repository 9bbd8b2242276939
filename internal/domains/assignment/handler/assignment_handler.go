package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-backend/internal/domains/assignment/model"
	"journal-backend/internal/domains/assignment/service"
	"journal-backend/internal/shared/response"
)

// AssignmentHandler handles HTTP requests for review assignments
type AssignmentHandler struct {
	service service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler instance
func NewAssignmentHandler(service service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// CreateAssignment handles POST /assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req model.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetAssignment handles GET /assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid assignment id")
		return
	}

	result, err := h.service.GetAssignment(c.Request.Context(), id)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListAssignments handles GET /assignments?submission_id=
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	submissionID := uuid.Nil
	if raw := c.Query("submission_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid submission_id parameter")
			return
		}
		submissionID = parsed
	}

	result, err := h.service.ListAssignments(c.Request.Context(), submissionID)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// UpdateAssignment handles PATCH /assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid assignment id")
		return
	}

	var req model.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.UpdateAssignment(c.Request.Context(), id, req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

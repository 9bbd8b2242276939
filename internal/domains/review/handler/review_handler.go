package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-backend/internal/domains/review/model"
	"journal-backend/internal/domains/review/service"
	"journal-backend/internal/shared/response"
)

// ReviewHandler handles HTTP requests for review intake
type ReviewHandler struct {
	service service.ReviewService
}

// NewReviewHandler creates a new review handler instance
func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// SubmitReview handles POST /reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.SubmitReview(c.Request.Context(), req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetReview handles GET /reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review id")
		return
	}

	result, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListReviews handles GET /reviews?submission_id=
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	submissionID := uuid.Nil
	if raw := c.Query("submission_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid submission_id parameter")
			return
		}
		submissionID = parsed
	}

	result, err := h.service.ListReviews(c.Request.Context(), submissionID)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// FlagReview handles PATCH /reviews/:id
func (h *ReviewHandler) FlagReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review id")
		return
	}

	var req model.FlagReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.service.FlagReview(c.Request.Context(), id, req); err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-backend/internal/domains/decision/model"
	"journal-backend/internal/domains/decision/service"
	"journal-backend/internal/shared/response"
)

// DecisionHandler handles HTTP requests for editorial decisions
type DecisionHandler struct {
	service service.DecisionService
}

// NewDecisionHandler creates a new decision handler instance
func NewDecisionHandler(service service.DecisionService) *DecisionHandler {
	return &DecisionHandler{service: service}
}

// Decide handles POST /decisions
func (h *DecisionHandler) Decide(c *gin.Context) {
	var req model.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.Decide(c.Request.Context(), req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

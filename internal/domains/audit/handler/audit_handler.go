package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"journal-backend/internal/domains/audit/service"
	"journal-backend/internal/shared/response"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	service service.AuditService
}

// NewAuditHandler creates a new audit handler instance
func NewAuditHandler(service service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// ListRecent handles GET /audit
func (h *AuditHandler) ListRecent(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	events, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.InternalServerError(c, "Failed to load audit events")
		return
	}

	response.Success(c, http.StatusOK, events)
}

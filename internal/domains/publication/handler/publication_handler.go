package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-backend/internal/domains/publication/model"
	"journal-backend/internal/domains/publication/service"
	"journal-backend/internal/shared/response"
)

// PublicationHandler handles HTTP requests for the publication domain
type PublicationHandler struct {
	service service.PublicationService
}

// NewPublicationHandler creates a new publication handler instance
func NewPublicationHandler(service service.PublicationService) *PublicationHandler {
	return &PublicationHandler{service: service}
}

func respondError(c *gin.Context, err error) {
	if apErr, ok := model.IsAlreadyPublished(err); ok {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorWithDetails(c, statusCode, code, message, gin.H{
			"existing_id": apErr.ExistingID,
		})
		return
	}
	statusCode, message, code := model.GetErrorResponse(err)
	response.ErrorResponse(c, statusCode, code, message)
}

// Publish handles POST /publications
func (h *PublicationHandler) Publish(c *gin.Context) {
	var req model.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.Publish(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ListArticles handles GET /publications
func (h *PublicationHandler) ListArticles(c *gin.Context) {
	result, err := h.service.ListArticles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetArticle handles GET /publications/:id
func (h *PublicationHandler) GetArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, model.ErrArticleNotFound)
		return
	}

	result, err := h.service.GetArticle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// UpdateArticle handles PATCH /publications/:id
func (h *PublicationHandler) UpdateArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, model.ErrArticleNotFound)
		return
	}

	var req model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.service.UpdateArticle(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// ArchiveArticle handles DELETE /publications/:id
func (h *PublicationHandler) ArchiveArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, model.ErrArticleNotFound)
		return
	}

	if err := h.service.ArchiveArticle(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// GetBySubmission handles GET /publications/by-submission/:submissionId
func (h *PublicationHandler) GetBySubmission(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionId"))
	if err != nil {
		respondError(c, model.ErrArticleNotFound)
		return
	}

	result, err := h.service.GetBySubmission(c.Request.Context(), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SetStatusBySubmission handles PATCH /publications/by-submission/:submissionId
func (h *PublicationHandler) SetStatusBySubmission(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionId"))
	if err != nil {
		respondError(c, model.ErrArticleNotFound)
		return
	}

	var req model.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.service.SetStatusBySubmission(c.Request.Context(), submissionID, req); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// Deduplicate handles POST /publications/by-submission/:submissionId/deduplicate
func (h *PublicationHandler) Deduplicate(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submissionId"))
	if err != nil {
		respondError(c, model.ErrArticleNotFound)
		return
	}

	result, err := h.service.Deduplicate(c.Request.Context(), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Certificate handles GET /publications/:id/certificate
func (h *PublicationHandler) Certificate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, model.ErrArticleNotFound)
		return
	}

	data, err := h.service.RenderCertificate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "certificate-of-publication.html"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetArticleBySlug handles GET /articles/:slug (public, no auth)
func (h *PublicationHandler) GetArticleBySlug(c *gin.Context) {
	result, err := h.service.GetArticleBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

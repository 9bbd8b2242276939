package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// PUBLISH REQUEST
// =====================================================
type PublishRequest struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Volume       *string   `json:"volume,omitempty"`
	Issue        *string   `json:"issue,omitempty"`
	DOI          *string   `json:"doi,omitempty"`
}

// Validate validates PublishRequest
func (req PublishRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SubmissionID, validation.Required),
	)
}

// =====================================================
// UPDATE ARTICLE REQUEST
// =====================================================
// Nil fields are left untouched. Setting status to published stamps
// publishedAt.
type UpdateArticleRequest struct {
	Title       *string    `json:"title,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	Volume      *string    `json:"volume,omitempty"`
	Issue       *string    `json:"issue,omitempty"`
	Year        *int       `json:"year,omitempty"`
	DOI         *string    `json:"doi,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Visibility  *string    `json:"visibility,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// Validate validates UpdateArticleRequest
func (req UpdateArticleRequest) Validate() error {
	if req.Status != nil && !ArticleStatus(*req.Status).IsValid() {
		return ErrInvalidArticleStatus
	}
	if req.Visibility != nil && !Visibility(*req.Visibility).IsValid() {
		return ErrInvalidVisibility
	}
	if req.Title != nil && *req.Title == "" {
		return ErrInvalidArticle
	}
	if req.Slug != nil && *req.Slug == "" {
		return ErrInvalidArticle
	}
	return nil
}

// SetStatusRequest flips an article between draft and published by
// submission id (unpublish / republish).
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates SetStatusRequest
func (req SetStatusRequest) Validate() error {
	if !ArticleStatus(req.Status).IsValid() {
		return ErrInvalidArticleStatus
	}
	return nil
}

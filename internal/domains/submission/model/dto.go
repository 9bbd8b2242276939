package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// CREATE SUBMISSION REQUEST (intake)
// =====================================================
type CreateSubmissionRequest struct {
	Title          string     `json:"title"`
	Abstract       string     `json:"abstract"`
	Category       string     `json:"category"`
	ArticleType    string     `json:"article_type"`
	Keywords       string     `json:"keywords"`
	ManuscriptURL  *string    `json:"manuscript_url,omitempty"`
	ManuscriptName *string    `json:"manuscript_name,omitempty"`
	AuthorID       uuid.UUID  `json:"author_id"`
	AuthorORCID    *string    `json:"author_orcid,omitempty"`
	AuthorAffiliation *string `json:"author_affiliation,omitempty"`
	CoAuthors      []CoAuthor `json:"co_authors,omitempty"`

	Ethics           string `json:"ethics,omitempty"`
	Funding          string `json:"funding,omitempty"`
	DataAvailability string `json:"data_availability,omitempty"`
	ConflictInterest string `json:"conflict_interest,omitempty"`
	AIDisclosure     string `json:"ai_disclosure,omitempty"`
}

// Validate validates CreateSubmissionRequest
func (req CreateSubmissionRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Abstract, validation.Required),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.ArticleType, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.AuthorID, validation.Required),
	)
}

// =====================================================
// UPDATE PIPELINE REQUEST
// =====================================================
type UpdatePipelineRequest struct {
	PipelineStatus string `json:"pipeline_status"`
}

// Validate validates UpdatePipelineRequest
func (req UpdatePipelineRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.PipelineStatus, validation.Required, validation.In(
			StageSubmitted,
			StageDeskCheck,
			StageEditorAssigned,
			StageReviewerInvited,
			StageReviewsCompleted,
			StagePublished,
			StageArchived,
		)),
	)
}

// =====================================================
// LIST SUBMISSIONS REQUEST
// =====================================================
type ListSubmissionsRequest struct {
	Status         string `form:"status"`
	PipelineStatus string `form:"pipeline_status"`
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
}

// Validate normalizes pagination defaults
func (req *ListSubmissionsRequest) Validate() error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Status != "" && !Status(req.Status).IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// =====================================================
// SUBMISSION RESPONSE
// =====================================================
type SubmissionResponse struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Abstract       string       `json:"abstract"`
	Category       string       `json:"category"`
	ArticleType    string       `json:"article_type"`
	Keywords       string       `json:"keywords"`
	ManuscriptURL  *string      `json:"manuscript_url,omitempty"`
	ManuscriptName *string      `json:"manuscript_name,omitempty"`
	AuthorID       uuid.UUID    `json:"author_id"`
	CoAuthors      []CoAuthor   `json:"co_authors"`
	Declarations   Declarations `json:"declarations"`
	Status         string       `json:"status"`
	PipelineStatus *string      `json:"pipeline_status"`
	PaymentStatus  string       `json:"payment_status"`
	PaidAt         *time.Time   `json:"paid_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ToResponse converts a Submission to its API shape
func (s *Submission) ToResponse() *SubmissionResponse {
	return &SubmissionResponse{
		ID:             s.ID,
		Title:          s.Title,
		Abstract:       s.Abstract,
		Category:       s.Category,
		ArticleType:    s.ArticleType,
		Keywords:       s.Keywords,
		ManuscriptURL:  s.ManuscriptURL,
		ManuscriptName: s.ManuscriptName,
		AuthorID:       s.AuthorID,
		CoAuthors:      s.CoAuthors,
		Declarations:   s.Declarations,
		Status:         s.Status.String(),
		PipelineStatus: s.PipelineStatus,
		PaymentStatus:  s.PaymentStatus.String(),
		PaidAt:         s.PaidAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ListSubmissionsResponse is the paginated list payload
type ListSubmissionsResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

package model

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Recommendation values a reviewer can return
const (
	RecommendationAccept        = "accept"
	RecommendationMinorRevision = "minor_revision"
	RecommendationMajorRevision = "major_revision"
	RecommendationReject        = "reject"
)

// Review is the completed report for one assignment. The 1:1 link to the
// assignment is enforced with a UNIQUE constraint.
type Review struct {
	ID               uuid.UUID `json:"id" db:"id"`
	AssignmentID     uuid.UUID `json:"assignment_id" db:"assignment_id"`
	Recommendation   string    `json:"recommendation" db:"recommendation"`
	Score            *int      `json:"score" db:"score"`
	CommentsToAuthor string    `json:"comments_to_author" db:"comments_to_author"`
	CommentsToEditor string    `json:"comments_to_editor" db:"comments_to_editor"`
	NeedsWork        bool      `json:"needs_work" db:"needs_work"`
	EditorFeedback   *string   `json:"editor_feedback" db:"editor_feedback"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewWithDetails adds the columns the editor board shows
type ReviewWithDetails struct {
	Review
	ReviewerName    string    `json:"reviewer_name" db:"reviewer_name"`
	SubmissionID    uuid.UUID `json:"submission_id" db:"submission_id"`
	SubmissionTitle string    `json:"submission_title" db:"submission_title"`
}

// =====================================================
// REQUEST DTOs
// =====================================================
type SubmitReviewRequest struct {
	AssignmentID     uuid.UUID `json:"assignment_id"`
	Recommendation   string    `json:"recommendation"`
	Score            *int      `json:"score,omitempty"`
	CommentsToAuthor string    `json:"comments_to_author"`
	CommentsToEditor string    `json:"comments_to_editor"`
}

// Validate validates SubmitReviewRequest
func (req SubmitReviewRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.AssignmentID, validation.Required),
		validation.Field(&req.Recommendation, validation.Required, validation.In(
			RecommendationAccept,
			RecommendationMinorRevision,
			RecommendationMajorRevision,
			RecommendationReject,
		)),
		validation.Field(&req.Score, validation.Min(1), validation.Max(10)),
	)
}

// FlagReviewRequest marks or clears a review as needing editorial work
type FlagReviewRequest struct {
	NeedsWork      bool   `json:"needs_work"`
	EditorFeedback string `json:"editor_feedback"`
}

// =====================================================
// ERROR CODES & DEFINITIONS
// =====================================================
const (
	ErrCodeReviewNotFound   = "RVW001"
	ErrCodeInvalidReview    = "RVW002"
	ErrCodeReviewExists     = "RVW003"
	ErrCodeAssignmentClosed = "RVW004"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already submitted for this assignment")
)

type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// NewReviewError creates a new ReviewError
func NewReviewError(code, message string, err error) *ReviewError {
	return &ReviewError{Code: code, Message: message, Err: err}
}

// GetErrorResponse maps a review domain error to an HTTP response
func GetErrorResponse(err error) (statusCode int, message string, errorCode string) {
	switch {
	case errors.Is(err, ErrReviewNotFound):
		return http.StatusNotFound, "Review not found", ErrCodeReviewNotFound
	case errors.Is(err, ErrReviewExists):
		return http.StatusConflict, "Review already submitted for this assignment", ErrCodeReviewExists
	}

	var revErr *ReviewError
	if errors.As(err, &revErr) {
		switch revErr.Code {
		case ErrCodeInvalidReview:
			return http.StatusBadRequest, revErr.Message, revErr.Code
		case ErrCodeAssignmentClosed:
			return http.StatusConflict, revErr.Message, revErr.Code
		default:
			return http.StatusInternalServerError, revErr.Message, revErr.Code
		}
	}

	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}

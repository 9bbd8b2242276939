package model

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeArticleNotFound      = "PUB001"
	ErrCodeAlreadyPublished     = "PUB002"
	ErrCodeNotPromotable        = "PUB003"
	ErrCodeInvalidArticleStatus = "PUB004"
	ErrCodeInvalidVisibility    = "PUB005"
	ErrCodeInvalidArticle       = "PUB006"
	ErrCodeSlugExhausted        = "PUB007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrArticleNotFound      = errors.New("published article not found")
	ErrNotPromotable        = errors.New("manuscript format cannot be promoted")
	ErrInvalidArticleStatus = errors.New("invalid article status")
	ErrInvalidVisibility    = errors.New("invalid article visibility")
	ErrInvalidArticle       = errors.New("invalid article payload")
	ErrSlugTaken            = errors.New("slug already taken")
	ErrSlugExhausted        = errors.New("could not allocate a unique slug")
)

// AlreadyPublishedError carries the id of the existing non-archived
// article so the conflict response can point at it.
type AlreadyPublishedError struct {
	ExistingID uuid.UUID
}

func (e *AlreadyPublishedError) Error() string {
	return fmt.Sprintf("submission already published as article %s", e.ExistingID)
}

// IsAlreadyPublished extracts the conflict detail when present
func IsAlreadyPublished(err error) (*AlreadyPublishedError, bool) {
	var apErr *AlreadyPublishedError
	if errors.As(err, &apErr) {
		return apErr, true
	}
	return nil, false
}

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type PublicationError struct {
	Code    string
	Message string
	Err     error
}

func (e *PublicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PublicationError) Unwrap() error {
	return e.Err
}

// NewPublicationError creates a new PublicationError
func NewPublicationError(code, message string, err error) *PublicationError {
	return &PublicationError{Code: code, Message: message, Err: err}
}

// GetErrorResponse maps a publication domain error to an HTTP response
func GetErrorResponse(err error) (statusCode int, message string, errorCode string) {
	if _, ok := IsAlreadyPublished(err); ok {
		return http.StatusConflict, "This submission is already published.", ErrCodeAlreadyPublished
	}

	switch {
	case errors.Is(err, ErrArticleNotFound):
		return http.StatusNotFound, "Published article not found", ErrCodeArticleNotFound
	case errors.Is(err, ErrNotPromotable):
		return http.StatusBadRequest,
			"Only .docx manuscripts can be published. Upload the production file first.",
			ErrCodeNotPromotable
	case errors.Is(err, ErrInvalidArticleStatus):
		return http.StatusBadRequest, "Invalid article status", ErrCodeInvalidArticleStatus
	case errors.Is(err, ErrInvalidVisibility):
		return http.StatusBadRequest, "Invalid article visibility", ErrCodeInvalidVisibility
	case errors.Is(err, ErrInvalidArticle):
		return http.StatusBadRequest, "Invalid article payload", ErrCodeInvalidArticle
	case errors.Is(err, ErrSlugExhausted), errors.Is(err, ErrSlugTaken):
		return http.StatusConflict, "Could not allocate a unique slug, try again", ErrCodeSlugExhausted
	}

	var pubErr *PublicationError
	if errors.As(err, &pubErr) {
		return http.StatusInternalServerError, pubErr.Message, pubErr.Code
	}

	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}

package model

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ReviewerStatus marks whether a reviewer can still receive assignments
type ReviewerStatus string

const (
	ReviewerStatusActive   ReviewerStatus = "active"
	ReviewerStatusInactive ReviewerStatus = "inactive"
)

func (rs ReviewerStatus) IsValid() bool {
	return rs == ReviewerStatusActive || rs == ReviewerStatusInactive
}

// Reviewer is an external peer reviewer. Reviewers are deactivated, never
// hard-deleted, so past assignments keep their reference.
type Reviewer struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Email       string         `json:"email" db:"email"`
	Affiliation string         `json:"affiliation" db:"affiliation"`
	Expertise   string         `json:"expertise" db:"expertise"`
	Status      ReviewerStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// =====================================================
// REQUEST DTOs
// =====================================================
type CreateReviewerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
	Expertise   string `json:"expertise"`
}

// Validate validates CreateReviewerRequest
func (req CreateReviewerRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Affiliation, validation.Length(0, 300)),
		validation.Field(&req.Expertise, validation.Length(0, 500)),
	)
}

type UpdateReviewerRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Affiliation *string `json:"affiliation,omitempty"`
	Expertise   *string `json:"expertise,omitempty"`
}

// Validate validates UpdateReviewerRequest
func (req UpdateReviewerRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Email, validation.NilOrNotEmpty, is.Email),
	)
}

// =====================================================
// ERROR CODES & DEFINITIONS
// =====================================================
const (
	ErrCodeReviewerNotFound = "REV001"
	ErrCodeEmailTaken       = "REV002"
	ErrCodeInvalidReviewer  = "REV003"
	ErrCodeReviewerInactive = "REV004"
)

var (
	ErrReviewerNotFound = errors.New("reviewer not found")
	ErrEmailTaken       = errors.New("reviewer email already registered")
	ErrReviewerInactive = errors.New("reviewer is inactive")
)

type ReviewerError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReviewerError) Unwrap() error {
	return e.Err
}

// NewReviewerError creates a new ReviewerError
func NewReviewerError(code, message string, err error) *ReviewerError {
	return &ReviewerError{Code: code, Message: message, Err: err}
}

// GetErrorResponse maps a reviewer domain error to an HTTP response
func GetErrorResponse(err error) (statusCode int, message string, errorCode string) {
	switch {
	case errors.Is(err, ErrReviewerNotFound):
		return http.StatusNotFound, "Reviewer not found", ErrCodeReviewerNotFound
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, "Reviewer email already registered", ErrCodeEmailTaken
	case errors.Is(err, ErrReviewerInactive):
		return http.StatusConflict, "Reviewer is inactive", ErrCodeReviewerInactive
	}

	var revErr *ReviewerError
	if errors.As(err, &revErr) {
		if revErr.Code == ErrCodeInvalidReviewer {
			return http.StatusBadRequest, revErr.Message, revErr.Code
		}
		return http.StatusInternalServerError, revErr.Message, revErr.Code
	}

	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}

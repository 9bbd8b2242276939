package model

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// AssignmentStatus tracks a reviewer invitation
type AssignmentStatus string

const (
	AssignmentStatusInvited   AssignmentStatus = "invited"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
	AssignmentStatusSubmitted AssignmentStatus = "submitted"
)

func (as AssignmentStatus) IsValid() bool {
	switch as {
	case AssignmentStatusInvited, AssignmentStatusAccepted, AssignmentStatusDeclined, AssignmentStatusSubmitted:
		return true
	}
	return false
}

func (as AssignmentStatus) String() string {
	return string(as)
}

// Assignment links a reviewer to a submission
type Assignment struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	SubmissionID  uuid.UUID        `json:"submission_id" db:"submission_id"`
	ReviewerID    uuid.UUID        `json:"reviewer_id" db:"reviewer_id"`
	Status        AssignmentStatus `json:"status" db:"status"`
	InvitedAt     time.Time        `json:"invited_at" db:"invited_at"`
	DueAt         *time.Time       `json:"due_at" db:"due_at"`
	CompletedAt   *time.Time       `json:"completed_at" db:"completed_at"`
	Notes         *string          `json:"notes" db:"notes"`
	ReviewCopyURL *string          `json:"review_copy_url" db:"review_copy_url"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// AssignmentWithDetails carries the join columns the board view needs
type AssignmentWithDetails struct {
	Assignment
	ReviewerName    string `json:"reviewer_name" db:"reviewer_name"`
	ReviewerEmail   string `json:"reviewer_email" db:"reviewer_email"`
	SubmissionTitle string `json:"submission_title" db:"submission_title"`
}

// =====================================================
// REQUEST DTOs
// =====================================================
type CreateAssignmentRequest struct {
	SubmissionID uuid.UUID  `json:"submission_id"`
	ReviewerID   uuid.UUID  `json:"reviewer_id"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	EditorNote   string     `json:"editor_note,omitempty"`
}

// Validate validates CreateAssignmentRequest
func (req CreateAssignmentRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SubmissionID, validation.Required),
		validation.Field(&req.ReviewerID, validation.Required),
	)
}

// UpdateAssignmentRequest overwrites the provided fields unconditionally
type UpdateAssignmentRequest struct {
	Status      *string    `json:"status,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// Validate validates UpdateAssignmentRequest
func (req UpdateAssignmentRequest) Validate() error {
	if req.Status != nil && !AssignmentStatus(*req.Status).IsValid() {
		return ErrInvalidAssignmentStatus
	}
	return nil
}

// =====================================================
// ERROR CODES & DEFINITIONS
// =====================================================
const (
	ErrCodeAssignmentNotFound      = "ASG001"
	ErrCodeInvalidAssignment       = "ASG002"
	ErrCodeInvalidAssignmentStatus = "ASG003"
	ErrCodeSubmissionNotFound      = "ASG004"
	ErrCodeReviewerNotFound        = "ASG005"
	ErrCodeReviewerInactive        = "ASG006"
)

var (
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrInvalidAssignmentStatus = errors.New("invalid assignment status")
)

type AssignmentError struct {
	Code    string
	Message string
	Err     error
}

func (e *AssignmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AssignmentError) Unwrap() error {
	return e.Err
}

// NewAssignmentError creates a new AssignmentError
func NewAssignmentError(code, message string, err error) *AssignmentError {
	return &AssignmentError{Code: code, Message: message, Err: err}
}

// GetErrorResponse maps an assignment domain error to an HTTP response
func GetErrorResponse(err error) (statusCode int, message string, errorCode string) {
	switch {
	case errors.Is(err, ErrAssignmentNotFound):
		return http.StatusNotFound, "Assignment not found", ErrCodeAssignmentNotFound
	case errors.Is(err, ErrInvalidAssignmentStatus):
		return http.StatusBadRequest, "Invalid assignment status", ErrCodeInvalidAssignmentStatus
	}

	var asgErr *AssignmentError
	if errors.As(err, &asgErr) {
		switch asgErr.Code {
		case ErrCodeInvalidAssignment:
			return http.StatusBadRequest, asgErr.Message, asgErr.Code
		case ErrCodeSubmissionNotFound, ErrCodeReviewerNotFound:
			return http.StatusNotFound, asgErr.Message, asgErr.Code
		case ErrCodeReviewerInactive:
			return http.StatusConflict, asgErr.Message, asgErr.Code
		default:
			return http.StatusInternalServerError, asgErr.Message, asgErr.Code
		}
	}

	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}

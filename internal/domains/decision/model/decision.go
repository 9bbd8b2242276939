package model

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	submissionModel "journal-backend/internal/domains/submission/model"
)

// Decision values an editor can send
const (
	DecisionAccept        = "accept"
	DecisionMinorRevision = "minor_revision"
	DecisionMajorRevision = "major_revision"
	DecisionReject        = "reject"
)

// =====================================================
// REQUEST DTO
// =====================================================
type DecideRequest struct {
	SubmissionID     uuid.UUID  `json:"submission_id"`
	Decision         string     `json:"decision"`
	ReviewerComments string     `json:"reviewer_comments,omitempty"`
	EditorComments   string     `json:"editor_comments,omitempty"`
	RevisionDeadline *time.Time `json:"revision_deadline,omitempty"`
}

// Validate validates DecideRequest
func (req DecideRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SubmissionID, validation.Required),
		validation.Field(&req.Decision, validation.Required, validation.In(
			DecisionAccept,
			DecisionMinorRevision,
			DecisionMajorRevision,
			DecisionReject,
		)),
	)
}

// DecideResult reports what the decision did. NoOp is true when an
// already published submission was re-accepted.
type DecideResult struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Decision     string    `json:"decision"`
	Status       string    `json:"status"`
	NoOp         bool      `json:"no_op"`
}

// =====================================================
// ERROR CODES & DEFINITIONS
// =====================================================
const (
	ErrCodeInvalidDecision    = "DEC001"
	ErrCodeNotificationFailed = "DEC002"
)

var ErrNotificationFailed = errors.New("decision notification failed")

type DecisionError struct {
	Code    string
	Message string
	Err     error
}

func (e *DecisionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DecisionError) Unwrap() error {
	return e.Err
}

// NewDecisionError creates a new DecisionError
func NewDecisionError(code, message string, err error) *DecisionError {
	return &DecisionError{Code: code, Message: message, Err: err}
}

// GetErrorResponse maps a decision error to an HTTP response. Submission
// lifecycle errors keep their own mapping.
func GetErrorResponse(err error) (statusCode int, message string, errorCode string) {
	switch {
	case errors.Is(err, submissionModel.ErrDecisionOnPublished),
		errors.Is(err, submissionModel.ErrSubmissionNotFound),
		errors.Is(err, submissionModel.ErrInvalidDecision):
		return submissionModel.GetErrorResponse(err)
	case errors.Is(err, ErrNotificationFailed):
		return http.StatusBadGateway, "Failed to send decision notification", ErrCodeNotificationFailed
	}

	var decErr *DecisionError
	if errors.As(err, &decErr) {
		if decErr.Code == ErrCodeInvalidDecision {
			return http.StatusBadRequest, decErr.Message, decErr.Code
		}
		return http.StatusInternalServerError, decErr.Message, decErr.Code
	}

	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}

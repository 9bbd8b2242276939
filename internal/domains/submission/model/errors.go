package model

import (
	"errors"
	"fmt"
	"net/http"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeSubmissionNotFound    = "SUB001"
	ErrCodeInvalidSubmissionID   = "SUB002"
	ErrCodeInvalidStatus         = "SUB003"
	ErrCodeInvalidPipelineStage  = "SUB004"
	ErrCodeDecisionOnPublished   = "SUB005"
	ErrCodeInvalidDecision       = "SUB006"
	ErrCodeUnknownLifecycleEvent = "SUB007"
	ErrCodeInvalidRequest        = "SUB008"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrInvalidSubmissionID   = errors.New("invalid submission id")
	ErrInvalidStatus         = errors.New("invalid submission status")
	ErrInvalidPipelineStage  = errors.New("invalid pipeline stage")
	ErrDecisionOnPublished   = errors.New("cannot reject or request revisions on a published article")
	ErrInvalidDecision       = errors.New("invalid editorial decision")
	ErrUnknownLifecycleEvent = errors.New("unknown lifecycle event")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type SubmissionError struct {
	Code    string
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a new SubmissionError
func NewSubmissionError(code, message string, err error) *SubmissionError {
	return &SubmissionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetErrorResponse maps a submission domain error to an HTTP response
func GetErrorResponse(err error) (statusCode int, message string, errorCode string) {
	switch {
	case errors.Is(err, ErrSubmissionNotFound):
		return http.StatusNotFound, "Submission not found", ErrCodeSubmissionNotFound
	case errors.Is(err, ErrInvalidSubmissionID):
		return http.StatusBadRequest, "Invalid submission id", ErrCodeInvalidSubmissionID
	case errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest, "Invalid submission status", ErrCodeInvalidStatus
	case errors.Is(err, ErrInvalidPipelineStage):
		return http.StatusBadRequest, "Invalid pipeline stage", ErrCodeInvalidPipelineStage
	case errors.Is(err, ErrDecisionOnPublished):
		return http.StatusBadRequest,
			"Cannot reject or request revisions on a published article. Unpublish it first.",
			ErrCodeDecisionOnPublished
	case errors.Is(err, ErrInvalidDecision):
		return http.StatusBadRequest, "Invalid editorial decision", ErrCodeInvalidDecision
	}

	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		switch subErr.Code {
		case ErrCodeInvalidRequest:
			return http.StatusBadRequest, subErr.Message, subErr.Code
		default:
			return http.StatusInternalServerError, subErr.Message, subErr.Code
		}
	}

	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}

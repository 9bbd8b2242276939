package model

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	submissionModel "journal-backend/internal/domains/submission/model"
)

// minFeeCents matches Stripe's minimum charge for USD.
const MinFeeCents = 100

// =====================================================
// REQUEST / RESPONSE DTOs
// =====================================================
type CreatePaymentLinkRequest struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	AmountCents  int64     `json:"amount_cents"`
}

// Validate validates CreatePaymentLinkRequest
func (req CreatePaymentLinkRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SubmissionID, validation.Required),
		validation.Field(&req.AmountCents, validation.Required, validation.Min(MinFeeCents)),
	)
}

type PaymentLinkResult struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// WebhookEvent is the subset of Stripe's event envelope we route on.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// SubmissionID pulls the routing metadata the checkout session carries.
func (e *WebhookEvent) SubmissionID() string {
	return e.Data.Object.Metadata["submissionId"]
}

// =====================================================
// ERROR CODES & DEFINITIONS
// =====================================================
const (
	ErrCodeInvalidPayment     = "PAY001"
	ErrCodeAuthorNoEmail      = "PAY002"
	ErrCodeGatewayFailed      = "PAY003"
	ErrCodeInvalidSignature   = "PAY004"
	ErrCodeInvalidWebhookBody = "PAY005"
)

var (
	ErrAuthorNoEmail      = errors.New("author has no email address")
	ErrGatewayFailed      = errors.New("payment gateway request failed")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrInvalidWebhookBody = errors.New("invalid webhook body")
)

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new PaymentError
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{Code: code, Message: message, Err: err}
}

// GetErrorResponse maps a payment domain error to an HTTP response
func GetErrorResponse(err error) (statusCode int, message string, errorCode string) {
	switch {
	case errors.Is(err, submissionModel.ErrSubmissionNotFound):
		return http.StatusNotFound, "Submission not found", ErrCodeInvalidPayment
	case errors.Is(err, ErrAuthorNoEmail):
		return http.StatusBadRequest, "Author has no email address", ErrCodeAuthorNoEmail
	case errors.Is(err, ErrInvalidSignature):
		return http.StatusBadRequest, "Invalid signature", ErrCodeInvalidSignature
	case errors.Is(err, ErrInvalidWebhookBody):
		return http.StatusBadRequest, "Invalid webhook body", ErrCodeInvalidWebhookBody
	case errors.Is(err, ErrGatewayFailed):
		return http.StatusBadGateway, "Payment gateway request failed", ErrCodeGatewayFailed
	}

	var payErr *PaymentError
	if errors.As(err, &payErr) {
		if payErr.Code == ErrCodeInvalidPayment {
			return http.StatusBadRequest, payErr.Message, payErr.Code
		}
		return http.StatusInternalServerError, payErr.Message, payErr.Code
	}

	return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
}

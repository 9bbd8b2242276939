package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-backend/internal/domains/payment/model"
	"journal-backend/internal/domains/payment/service"
	"journal-backend/internal/shared/response"
)

// PaymentHandler handles HTTP requests for payments
type PaymentHandler struct {
	service service.PaymentService
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreatePaymentLink handles POST /payments/payment-link
func (h *PaymentHandler) CreatePaymentLink(c *gin.Context) {
	var req model.CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	result, err := h.service.CreatePaymentLink(c.Request.Context(), req)
	if err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// StripeWebhook handles POST /webhooks/stripe. Signature verification
// needs the raw body, so no binding here.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.BadRequest(c, "Failed to read body")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		statusCode, message, code := model.GetErrorResponse(err)
		response.ErrorResponse(c, statusCode, code, message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	auditModel "journal-backend/internal/domains/audit/model"
	audit "journal-backend/internal/domains/audit/service"
	"journal-backend/internal/domains/payment/model"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/infrastructure/stripe"
	"journal-backend/pkg/logger"
)

// PaymentService manages publication fee checkout sessions and the
// gateway webhook.
type PaymentService interface {
	CreatePaymentLink(ctx context.Context, req model.CreatePaymentLinkRequest) (*model.PaymentLinkResult, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type paymentService struct {
	submissionRepo submissionRepo.SubmissionRepository
	authors        accounts.AuthorDirectory
	gateway        stripe.Gateway
	emailService   email.EmailService
	audit          audit.Recorder
	webhookSecret  string
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	subRepo submissionRepo.SubmissionRepository,
	authors accounts.AuthorDirectory,
	gateway stripe.Gateway,
	emailService email.EmailService,
	auditRecorder audit.Recorder,
	webhookSecret string,
) PaymentService {
	return &paymentService{
		submissionRepo: subRepo,
		authors:        authors,
		gateway:        gateway,
		emailService:   emailService,
		audit:          auditRecorder,
		webhookSecret:  webhookSecret,
	}
}

func (s *paymentService) CreatePaymentLink(ctx context.Context, req model.CreatePaymentLinkRequest) (*model.PaymentLinkResult, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewPaymentError(model.ErrCodeInvalidPayment, "Invalid payment payload", err)
	}

	// Step 2: Load submission and author
	sub, err := s.submissionRepo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}
	author, err := s.authors.GetAuthor(ctx, sub.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}
	if author.Email == "" {
		return nil, model.ErrAuthorNoEmail
	}

	// Step 3: Open the checkout session
	session, err := s.gateway.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		SubmissionID:  sub.ID.String(),
		Title:         sub.Title,
		CustomerEmail: author.Email,
		AmountCents:   req.AmountCents,
	})
	if err != nil {
		return nil, model.NewPaymentError(model.ErrCodeGatewayFailed, "Payment gateway request failed", err)
	}

	// Step 4: Record the session and mark payment pending
	amount := decimal.NewFromInt(req.AmountCents)
	if err := s.submissionRepo.SetCheckoutSession(ctx, sub.ID, session.ID, amount); err != nil {
		return nil, err
	}

	// Step 5: Email the payment link, best-effort
	if emailErr := s.emailService.SendPaymentLink(ctx, email.PaymentLinkData{
		AuthorName:   author.Name,
		AuthorEmail:  author.Email,
		ArticleTitle: sub.Title,
		AmountCents:  req.AmountCents,
		CheckoutURL:  session.URL,
	}); emailErr != nil {
		logger.ErrorFields("Failed to send payment link email", emailErr, map[string]interface{}{
			"submission_id": sub.ID.String(),
		})
	}

	s.audit.Record(ctx, auditModel.ActionPaymentLinkSent, "submission", sub.ID.String(),
		fmt.Sprintf("Amount: $%.2f, Stripe session: %s", float64(req.AmountCents)/100, session.ID))

	return &model.PaymentLinkResult{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// HandleWebhook verifies and applies a gateway callback. Unknown event
// types acknowledge without side effects so Stripe stops redelivering.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if s.webhookSecret == "" || sigHeader == "" {
		return model.ErrInvalidSignature
	}
	if err := stripe.VerifySignature(payload, sigHeader, s.webhookSecret, time.Now()); err != nil {
		logger.Error("Webhook signature verification failed", err)
		return model.ErrInvalidSignature
	}

	var event model.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return model.ErrInvalidWebhookBody
	}

	submissionID := event.SubmissionID()
	logger.Info("Webhook received", map[string]interface{}{
		"type":          event.Type,
		"submission_id": submissionID,
	})
	if submissionID == "" {
		return nil
	}

	subID, err := uuid.Parse(submissionID)
	if err != nil {
		logger.Error("Webhook carries malformed submission id", err)
		return nil
	}

	sub, err := s.submissionRepo.GetByID(ctx, subID)
	if err != nil {
		// Session metadata pointing at a deleted submission is not
		// retryable, acknowledge it
		logger.Error("Webhook references unknown submission", err)
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		if err := s.submissionRepo.MarkPaymentPaid(ctx, sub.ID, time.Now()); err != nil {
			return err
		}
		s.audit.Record(ctx, auditModel.ActionPaymentCompleted, "submission", sub.ID.String(),
			fmt.Sprintf("Stripe session: %s", event.Data.Object.ID))
	case "checkout.session.expired":
		if err := s.submissionRepo.MarkPaymentFailed(ctx, sub.ID); err != nil {
			return err
		}
		s.audit.Record(ctx, auditModel.ActionPaymentExpired, "submission", sub.ID.String(),
			fmt.Sprintf("Stripe session: %s", event.Data.Object.ID))
	}
	return nil
}

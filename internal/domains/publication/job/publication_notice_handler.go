package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"journal-backend/internal/domains/publication/repository"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/shared"
)

// ============================================================
// PUBLICATION NOTICE HANDLER
// ============================================================
// Emails the lead author once their article goes live. Runs on the
// emails queue so a flaky SMTP server gets retried instead of blocking
// the publish request.
type PublicationNoticeHandler struct {
	articleRepo    repository.ArticleRepository
	submissionRepo submissionRepo.SubmissionRepository
	authors        accounts.AuthorDirectory
	emailService   email.EmailService
	publicBaseURL  string
}

func NewPublicationNoticeHandler(
	articleRepo repository.ArticleRepository,
	subRepo submissionRepo.SubmissionRepository,
	authors accounts.AuthorDirectory,
	emailService email.EmailService,
	publicBaseURL string,
) *PublicationNoticeHandler {
	return &PublicationNoticeHandler{
		articleRepo:    articleRepo,
		submissionRepo: subRepo,
		authors:        authors,
		emailService:   emailService,
		publicBaseURL:  publicBaseURL,
	}
}

func (h *PublicationNoticeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.PublicationNoticePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal publication notice payload: %w", err)
	}

	articleID, err := uuid.Parse(payload.ArticleID)
	if err != nil {
		return fmt.Errorf("invalid article id %q: %w", payload.ArticleID, err)
	}

	article, err := h.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to load article %s: %w", articleID, err)
	}
	if article.SubmissionID == nil {
		log.Warn().Str("article_id", articleID.String()).Msg("Article has no submission, skipping notice")
		return nil
	}

	sub, err := h.submissionRepo.GetByID(ctx, *article.SubmissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission %s: %w", *article.SubmissionID, err)
	}
	author, err := h.authors.GetAuthor(ctx, sub.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to resolve author %s: %w", sub.AuthorID, err)
	}

	pdfURL := ""
	if sub.ManuscriptURL != nil {
		pdfURL = *sub.ManuscriptURL
	}

	err = h.emailService.SendPublicationNotification(ctx, email.PublicationNotificationData{
		AuthorName:   author.Name,
		AuthorEmail:  author.Email,
		ArticleTitle: article.Title,
		ArticleURL:   fmt.Sprintf("%s/articles/%s", h.publicBaseURL, article.Slug),
		PDFURL:       pdfURL,
	})
	if err != nil {
		return fmt.Errorf("failed to send publication notice: %w", err)
	}

	log.Info().
		Str("article_id", articleID.String()).
		Str("slug", article.Slug).
		Str("author_email", author.Email).
		Msg("Publication notice sent")

	return nil
}

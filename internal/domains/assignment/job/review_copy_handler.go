package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"journal-backend/internal/domains/assignment/repository"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/docgen"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/infrastructure/storage"
	"journal-backend/internal/shared"
	"journal-backend/internal/shared/utils"
)

// ============================================
// Review Copy Handler
// ============================================
// Renders the review copy for an assignment, stores it, records the URL
// on the assignment and mails the copy to the reviewer.

type ReviewCopyHandler struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo submissionRepo.SubmissionRepository
	authors        accounts.AuthorDirectory
	storage        storage.ObjectStorage
	emailService   email.EmailService
	journalName    string
}

func NewReviewCopyHandler(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo submissionRepo.SubmissionRepository,
	authors accounts.AuthorDirectory,
	objectStorage storage.ObjectStorage,
	emailService email.EmailService,
	journalName string,
) *ReviewCopyHandler {
	return &ReviewCopyHandler{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		authors:        authors,
		storage:        objectStorage,
		emailService:   emailService,
		journalName:    journalName,
	}
}

func (h *ReviewCopyHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReviewCopyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ReviewCopy payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	assignmentID, err := uuid.Parse(payload.AssignmentID)
	if err != nil {
		return fmt.Errorf("invalid assignment id %q: %w", payload.AssignmentID, err)
	}

	asg, err := h.assignmentRepo.GetByIDWithDetails(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("load assignment: %w", err)
	}
	sub, err := h.submissionRepo.GetByID(ctx, asg.SubmissionID)
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}

	// Manuscript text when the stored file is readable, abstract only
	// otherwise.
	body := ""
	if sub.ManuscriptName != nil && docgen.PromotableManuscript(*sub.ManuscriptName) {
		key := fmt.Sprintf("manuscripts/%s/%s", sub.ID, *sub.ManuscriptName)
		if data, dlErr := h.storage.Download(ctx, key); dlErr == nil {
			if text, exErr := docgen.ExtractDocxText(data); exErr == nil {
				body = text
			} else {
				log.Warn().Err(exErr).Str("key", key).Msg("Manuscript text extraction failed, using abstract only")
			}
		} else {
			log.Warn().Err(dlErr).Str("key", key).Msg("Manuscript download failed, using abstract only")
		}
	}

	deadline := "to be agreed"
	if asg.DueAt != nil {
		deadline = utils.FormatDate(*asg.DueAt)
	}

	// Lead author plus co-authors, in submission order. A failed lead
	// lookup still renders the co-authors.
	var authorNames []string
	if author, lookupErr := h.authors.GetAuthor(ctx, sub.AuthorID); lookupErr == nil {
		authorNames = append(authorNames, author.Name)
	} else {
		log.Warn().Err(lookupErr).Str("author_id", sub.AuthorID.String()).Msg("Lead author lookup failed for review copy")
	}
	for _, co := range sub.CoAuthors {
		authorNames = append(authorNames, co.Name)
	}

	rendered, err := docgen.RenderReviewCopy(docgen.ReviewCopyData{
		ManuscriptID: sub.ID.String(),
		Title:        sub.Title,
		Authors:      strings.Join(authorNames, ", "),
		ArticleType:  sub.ArticleType,
		Abstract:     sub.Abstract,
		Keywords:     sub.Keywords,
		Category:     sub.Category,
		Body:         body,
		Reviewer:     asg.ReviewerName,
		ReceivedDate: utils.FormatDate(sub.CreatedAt),
		Deadline:     deadline,
		JournalName:  h.journalName,
	})
	if err != nil {
		return fmt.Errorf("render review copy: %w", err)
	}

	key := fmt.Sprintf("review-copies/%s.html", asg.ID)
	url, err := h.storage.Upload(ctx, key, rendered, "text/html; charset=utf-8")
	if err != nil {
		return fmt.Errorf("store review copy: %w", err)
	}
	if err := h.assignmentRepo.SetReviewCopyURL(ctx, asg.ID, url); err != nil {
		return fmt.Errorf("record review copy url: %w", err)
	}

	if err := h.emailService.SendReviewCopy(ctx, email.ReviewCopyData{
		ReviewerName:  asg.ReviewerName,
		ReviewerEmail: asg.ReviewerEmail,
		ArticleTitle:  sub.Title,
		Attachment: email.Attachment{
			Filename: fmt.Sprintf("review-copy-%s.html", sub.ID),
			Content:  rendered,
			MimeType: "text/html",
		},
	}); err != nil {
		return fmt.Errorf("send review copy: %w", err)
	}

	log.Info().
		Str("assignment_id", asg.ID.String()).
		Str("url", url).
		Msg("Review copy generated and sent")

	return nil
}

package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"journal-backend/internal/domains/assignment/repository"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/shared"
	"journal-backend/internal/shared/utils"
)

// ============================================
// Review Reminder Handler
// ============================================
// Daily sweep over invited assignments whose deadline passed. Each
// reviewer gets the invitation again with the original deadline.

type ReminderHandler struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo submissionRepo.SubmissionRepository
	emailService   email.EmailService
}

func NewReminderHandler(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo submissionRepo.SubmissionRepository,
	emailService email.EmailService,
) *ReminderHandler {
	return &ReminderHandler{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		emailService:   emailService,
	}
}

func (h *ReminderHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReviewReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ReviewReminder payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = 50
	}

	overdue, err := h.assignmentRepo.ListOverdue(ctx, time.Now(), limit)
	if err != nil {
		return fmt.Errorf("list overdue assignments: %w", err)
	}

	sent := 0
	for _, asg := range overdue {
		sub, err := h.submissionRepo.GetByID(ctx, asg.SubmissionID)
		if err != nil {
			log.Warn().Err(err).Str("assignment_id", asg.ID.String()).Msg("Skipping reminder, submission missing")
			continue
		}

		manuscriptURL := ""
		if asg.ReviewCopyURL != nil {
			manuscriptURL = *asg.ReviewCopyURL
		}
		err = h.emailService.SendReviewInvitation(ctx, email.ReviewInvitationData{
			ReviewerName:  asg.ReviewerName,
			ReviewerEmail: asg.ReviewerEmail,
			ArticleTitle:  sub.Title,
			ArticleID:     sub.ID.String(),
			Abstract:      sub.Abstract,
			Deadline:      utils.FormatDate(*asg.DueAt),
			ManuscriptURL: manuscriptURL,
			EditorNote:    "This is a reminder: the review deadline has passed.",
		})
		if err != nil {
			log.Warn().Err(err).Str("assignment_id", asg.ID.String()).Msg("Reminder send failed")
			continue
		}
		sent++
	}

	log.Info().Int("overdue", len(overdue)).Int("sent", sent).Msg("Review reminder sweep finished")
	return nil
}

package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	auditModel "journal-backend/internal/domains/audit/model"
	audit "journal-backend/internal/domains/audit/service"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/shared"
)

const (
	defaultCheckoutTTLHours = 24
	expireSweepLimit        = 100
)

// ============================================================
// EXPIRE STALE CHECKOUTS HANDLER
// ============================================================
// Safety net behind the checkout.session.expired webhook: sessions whose
// expiry event never arrived are failed here so the finance view does
// not show pending payments forever.
type ExpireCheckoutsHandler struct {
	submissionRepo submissionRepo.SubmissionRepository
	audit          audit.Recorder
}

func NewExpireCheckoutsHandler(subRepo submissionRepo.SubmissionRepository, auditRecorder audit.Recorder) *ExpireCheckoutsHandler {
	return &ExpireCheckoutsHandler{submissionRepo: subRepo, audit: auditRecorder}
}

func (h *ExpireCheckoutsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ExpireStaleCheckoutsPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal expire checkouts payload: %w", err)
		}
	}
	if payload.OlderThanHours <= 0 {
		payload.OlderThanHours = defaultCheckoutTTLHours
	}

	cutoff := time.Now().Add(-time.Duration(payload.OlderThanHours) * time.Hour)
	stale, err := h.submissionRepo.ListStaleCheckouts(ctx, cutoff, expireSweepLimit)
	if err != nil {
		return err
	}

	expired := 0
	for _, sub := range stale {
		if err := h.submissionRepo.MarkPaymentFailed(ctx, sub.ID); err != nil {
			log.Error().Err(err).Str("submission_id", sub.ID.String()).Msg("Failed to expire checkout")
			continue
		}
		h.audit.Record(ctx, auditModel.ActionPaymentExpired, "submission", sub.ID.String(),
			fmt.Sprintf("Stale checkout expired after %dh", payload.OlderThanHours))
		expired++
	}

	log.Info().Int("candidates", len(stale)).Int("expired", expired).Msg("Stale checkout sweep finished")
	return nil
}

package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"journal-backend/internal/domains/publication/repository"
	"journal-backend/internal/infrastructure/cache"
)

// ============================================================
// VIEW COUNT FLUSH HANDLER
// ============================================================
// Drains the Redis view counters into PostgreSQL. Scheduled every ten
// minutes on the maintenance queue.
type ViewCountFlushHandler struct {
	articleRepo repository.ArticleRepository
	views       *cache.ViewCounter
}

func NewViewCountFlushHandler(articleRepo repository.ArticleRepository, views *cache.ViewCounter) *ViewCountFlushHandler {
	return &ViewCountFlushHandler{articleRepo: articleRepo, views: views}
}

func (h *ViewCountFlushHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	counts, err := h.views.Drain(ctx)
	if err != nil {
		// Drained counters are already applied below; losing the rest
		// to a retry would double-count, so log and apply what we have.
		log.Error().Err(err).Int("drained", len(counts)).Msg("View counter drain incomplete")
	}
	if len(counts) == 0 {
		return nil
	}

	if err := h.articleRepo.AddViewCounts(ctx, counts); err != nil {
		return err
	}

	log.Info().Int("articles", len(counts)).Msg("Flushed article view counts")
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"journal-backend/internal/domains/submission/model"
	"journal-backend/pkg/cache"
)

const (
	submissionCachePrefix = "submission:"
	submissionCacheTTL    = 15 * time.Minute
)

const submissionColumns = `
  id, title, abstract, category, article_type, keywords,
  manuscript_url, manuscript_name,
  author_id, author_orcid, author_affiliation, co_authors, declarations,
  status, pipeline_status,
  payment_status, payment_amount, stripe_session_id, paid_at,
  created_at, updated_at
`

// postgresRepository implements SubmissionRepository
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new submission repository instance
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) SubmissionRepository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var sub model.Submission
	err := row.Scan(
		&sub.ID,
		&sub.Title,
		&sub.Abstract,
		&sub.Category,
		&sub.ArticleType,
		&sub.Keywords,
		&sub.ManuscriptURL,
		&sub.ManuscriptName,
		&sub.AuthorID,
		&sub.AuthorORCID,
		&sub.AuthorAffiliation,
		&sub.CoAuthors,
		&sub.Declarations,
		&sub.Status,
		&sub.PipelineStatus,
		&sub.PaymentStatus,
		&sub.PaymentAmount,
		&sub.StripeSessionID,
		&sub.PaidAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a new submission record
func (r *postgresRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	query := `
    INSERT INTO submissions (
      title, abstract, category, article_type, keywords,
      manuscript_url, manuscript_name,
      author_id, author_orcid, author_affiliation, co_authors, declarations,
      status, pipeline_status, payment_status,
      created_at, updated_at
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
    RETURNING ` + submissionColumns

	row := r.pool.QueryRow(ctx, query,
		sub.Title, sub.Abstract, sub.Category, sub.ArticleType, sub.Keywords,
		sub.ManuscriptURL, sub.ManuscriptName,
		sub.AuthorID, sub.AuthorORCID, sub.AuthorAffiliation, sub.CoAuthors, sub.Declarations,
		sub.Status, sub.PipelineStatus, sub.PaymentStatus,
	)

	created, err := scanSubmission(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	r.invalidateListCache(ctx)
	return created, nil
}

// GetByID retrieves a submission, Redis read-through
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	cacheKey := submissionCachePrefix + id.String()

	var cached model.Submission
	if found, _ := r.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission by id: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, sub, submissionCacheTTL)
	return sub, nil
}

// List returns a filtered, paginated page of submissions plus the total count
func (r *postgresRepository) List(ctx context.Context, req model.ListSubmissionsRequest) ([]model.Submission, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if req.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, req.Status)
		argIdx++
	}
	if req.PipelineStatus != "" {
		where += fmt.Sprintf(" AND pipeline_status = $%d", argIdx)
		args = append(args, req.PipelineStatus)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM submissions" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := "SELECT " + submissionColumns + " FROM submissions" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, total, rows.Err()
}

// ListAll returns every submission ordered oldest first, used by the
// editorial export.
func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// UpdatePipeline overwrites the pipeline stage only
func (r *postgresRepository) UpdatePipeline(ctx context.Context, id uuid.UUID, pipeline *string) error {
	query := `UPDATE submissions SET pipeline_status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, pipeline)
	if err != nil {
		return fmt.Errorf("failed to update pipeline status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateStatusPipeline overwrites status and pipeline together
func (r *postgresRepository) UpdateStatusPipeline(ctx context.Context, id uuid.UUID, status model.Status, pipeline *string) error {
	query := `UPDATE submissions SET status = $2, pipeline_status = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status, pipeline)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateStatusPipelineWithTx is the transactional variant used by the
// publication flows.
func (r *postgresRepository) UpdateStatusPipelineWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.Status, pipeline *string) error {
	query := `UPDATE submissions SET status = $2, pipeline_status = $3, updated_at = NOW() WHERE id = $1`
	tag, err := tx.Exec(ctx, query, id, status, pipeline)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

// SetCheckoutSession stores the gateway session and marks payment pending
func (r *postgresRepository) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string, amount decimal.Decimal) error {
	query := `
    UPDATE submissions
    SET stripe_session_id = $2, payment_status = $3, payment_amount = $4, updated_at = NOW()
    WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, sessionID, model.PaymentStatusPending, amount)
	if err != nil {
		return fmt.Errorf("failed to set checkout session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

// GetByStripeSessionID resolves the webhook session back to a submission
func (r *postgresRepository) GetByStripeSessionID(ctx context.Context, sessionID string) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE stripe_session_id = $1`
	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission by session: %w", err)
	}
	return sub, nil
}

// MarkPaymentPaid records a completed checkout. Amount stays as stored.
func (r *postgresRepository) MarkPaymentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	query := `UPDATE submissions SET payment_status = $2, paid_at = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, model.PaymentStatusPaid, paidAt)
	if err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

// MarkPaymentFailed records an expired checkout. Amount stays as stored.
func (r *postgresRepository) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE submissions SET payment_status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, model.PaymentStatusFailed)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSubmissionNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

// ListStaleCheckouts finds pending checkout sessions created before the
// cutoff. Stripe sessions expire after 24 hours, so these will never
// complete.
func (r *postgresRepository) ListStaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Submission, error) {
	query := `
    SELECT ` + submissionColumns + `
    FROM submissions
    WHERE payment_status = $1 AND stripe_session_id IS NOT NULL AND updated_at < $2
    ORDER BY updated_at ASC
    LIMIT $3`

	rows, err := r.pool.Query(ctx, query, model.PaymentStatusPending, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale checkouts: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	_ = r.cache.Delete(ctx, submissionCachePrefix+id.String())
	r.invalidateListCache(ctx)
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	_ = r.cache.DeletePattern(ctx, submissionCachePrefix+"list:*")
}

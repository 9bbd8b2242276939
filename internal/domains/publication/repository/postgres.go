package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/publication/model"
	"journal-backend/pkg/cache"
)

const (
	articleCachePrefix = "article:slug:"
	articleCacheTTL    = 15 * time.Minute
)

const articleColumns = `
  id, submission_id, title, slug, abstract,
  authors, affiliations, orcids, keywords, content,
  volume, issue, year, doi, status, visibility,
  scheduled_at, received_at, accepted_at, published_at,
  view_count, download_count, created_at, updated_at
`

// postgresRepository implements ArticleRepository
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new article repository instance
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) ArticleRepository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func scanArticle(row pgx.Row) (*model.PublishedArticle, error) {
	var art model.PublishedArticle
	err := row.Scan(
		&art.ID, &art.SubmissionID, &art.Title, &art.Slug, &art.Abstract,
		&art.Authors, &art.Affiliations, &art.ORCIDs, &art.Keywords, &art.Content,
		&art.Volume, &art.Issue, &art.Year, &art.DOI, &art.Status, &art.Visibility,
		&art.ScheduledAt, &art.ReceivedAt, &art.AcceptedAt, &art.PublishedAt,
		&art.ViewCount, &art.DownloadCount, &art.CreatedAt, &art.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// CreateWithTx inserts an article inside the publish transaction.
// UNIQUE(slug) and the partial unique index on submission_id turn races
// into typed errors the service can react to.
func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, art *model.PublishedArticle) (*model.PublishedArticle, error) {
	query := `
    INSERT INTO published_articles (
      submission_id, title, slug, abstract,
      authors, affiliations, orcids, keywords, content,
      volume, issue, year, doi, status, visibility,
      scheduled_at, received_at, accepted_at, published_at,
      created_at, updated_at
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())
    RETURNING ` + articleColumns

	created, err := scanArticle(tx.QueryRow(ctx, query,
		art.SubmissionID, art.Title, art.Slug, art.Abstract,
		art.Authors, art.Affiliations, art.ORCIDs, art.Keywords, art.Content,
		art.Volume, art.Issue, art.Year, art.DOI, art.Status, art.Visibility,
		art.ScheduledAt, art.ReceivedAt, art.AcceptedAt, art.PublishedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return nil, model.ErrSlugTaken
			}
			if strings.Contains(pgErr.ConstraintName, "submission") && art.SubmissionID != nil {
				return nil, &model.AlreadyPublishedError{}
			}
		}
		return nil, fmt.Errorf("failed to create published article: %w", err)
	}
	return created, nil
}

// GetByID retrieves an article by ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PublishedArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM published_articles WHERE id = $1`
	art, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}
	return art, nil
}

// GetBySlug retrieves an article by slug, Redis read-through
func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.PublishedArticle, error) {
	cacheKey := articleCachePrefix + slug

	var cached model.PublishedArticle
	if found, _ := r.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	query := `SELECT ` + articleColumns + ` FROM published_articles WHERE slug = $1`
	art, err := scanArticle(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, art, articleCacheTTL)
	return art, nil
}

// GetBySubmission returns all article rows for a submission, newest first
func (r *postgresRepository) GetBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.PublishedArticle, error) {
	query := `SELECT ` + articleColumns + `
    FROM published_articles WHERE submission_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles by submission: %w", err)
	}
	defer rows.Close()

	var articles []model.PublishedArticle
	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *art)
	}
	return articles, rows.Err()
}

// ActiveBySubmission returns the single non-archived article, if any
func (r *postgresRepository) ActiveBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.PublishedArticle, error) {
	query := `SELECT ` + articleColumns + `
    FROM published_articles
    WHERE submission_id = $1 AND status != $2
    ORDER BY created_at DESC
    LIMIT 1`

	art, err := scanArticle(r.pool.QueryRow(ctx, query, submissionID, model.ArticleStatusArchived))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get active article: %w", err)
	}
	return art, nil
}

// List returns every article ordered by creation time
func (r *postgresRepository) List(ctx context.Context) ([]model.PublishedArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM published_articles ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []model.PublishedArticle
	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *art)
	}
	return articles, rows.Err()
}

// Update overwrites the provided metadata fields
func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateArticleRequest, publishedAt *time.Time) error {
	query := `
    UPDATE published_articles
    SET title        = COALESCE($2, title),
        slug         = COALESCE($3, slug),
        volume       = COALESCE($4, volume),
        issue        = COALESCE($5, issue),
        year         = COALESCE($6, year),
        doi          = COALESCE($7, doi),
        status       = COALESCE($8, status),
        visibility   = COALESCE($9, visibility),
        scheduled_at = COALESCE($10, scheduled_at),
        published_at = COALESCE($11, published_at),
        updated_at   = NOW()
    WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id,
		req.Title, req.Slug, req.Volume, req.Issue, req.Year, req.DOI,
		req.Status, req.Visibility, req.ScheduledAt, publishedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "slug") {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}
	r.invalidateCache(ctx)
	return nil
}

// SetStatusWithTx updates status inside the archive transaction
func (r *postgresRepository) SetStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.ArticleStatus) error {
	query := `UPDATE published_articles SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := tx.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to set article status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}
	r.invalidateCache(ctx)
	return nil
}

// SetStatusBySubmission flips the article status for unpublish/republish
func (r *postgresRepository) SetStatusBySubmission(ctx context.Context, submissionID uuid.UUID, status model.ArticleStatus, publishedAt *time.Time) error {
	query := `
    UPDATE published_articles
    SET status = $2, published_at = COALESCE($3, published_at), updated_at = NOW()
    WHERE submission_id = $1`
	tag, err := r.pool.Exec(ctx, query, submissionID, status, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to set article status by submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}
	r.invalidateCache(ctx)
	return nil
}

// Delete hard-removes article rows. Only the dedupe repair uses this.
func (r *postgresRepository) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM published_articles WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to delete articles: %w", err)
	}
	r.invalidateCache(ctx)
	return nil
}

// MaxSlug returns the highest slug under a prefix, used by allocation
func (r *postgresRepository) MaxSlug(ctx context.Context, prefix string) (string, bool, error) {
	query := `
    SELECT slug FROM published_articles
    WHERE slug LIKE $1
    ORDER BY slug DESC
    LIMIT 1`

	var slug string
	err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to scan max slug: %w", err)
	}
	return slug, true, nil
}

// AddViewCounts applies drained view counters
func (r *postgresRepository) AddViewCounts(ctx context.Context, counts map[string]int64) error {
	for id, n := range counts {
		articleID, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		_, err = r.pool.Exec(ctx,
			`UPDATE published_articles SET view_count = view_count + $2 WHERE id = $1`,
			articleID, n,
		)
		if err != nil {
			return fmt.Errorf("failed to add view count for %s: %w", id, err)
		}
	}
	return nil
}

func (r *postgresRepository) invalidateCache(ctx context.Context) {
	_ = r.cache.DeletePattern(ctx, articleCachePrefix+"*")
}

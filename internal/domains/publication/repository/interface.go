package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"journal-backend/internal/domains/publication/model"
)

// =====================================================
// PUBLICATION REPOSITORY INTERFACE
// =====================================================
type ArticleRepository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, art *model.PublishedArticle) (*model.PublishedArticle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.PublishedArticle, error)
	GetBySlug(ctx context.Context, slug string) (*model.PublishedArticle, error)

	// GetBySubmission returns all article rows for a submission, newest
	// first. ActiveBySubmission returns only the non-archived one.
	GetBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.PublishedArticle, error)
	ActiveBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.PublishedArticle, error)

	List(ctx context.Context) ([]model.PublishedArticle, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateArticleRequest, publishedAt *time.Time) error
	SetStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.ArticleStatus) error
	SetStatusBySubmission(ctx context.Context, submissionID uuid.UUID, status model.ArticleStatus, publishedAt *time.Time) error
	Delete(ctx context.Context, ids []uuid.UUID) error

	// MaxSlug returns the highest existing slug with the given prefix.
	MaxSlug(ctx context.Context, prefix string) (string, bool, error)

	AddViewCounts(ctx context.Context, counts map[string]int64) error
}

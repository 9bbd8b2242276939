package service

import (
	"context"

	"github.com/google/uuid"

	"journal-backend/internal/domains/publication/model"
)

// =====================================================
// PUBLICATION SERVICE INTERFACE
// =====================================================
type PublicationService interface {
	// Publish promotes an accepted submission to a published article
	Publish(ctx context.Context, req model.PublishRequest) (*model.PublishedArticle, error)

	ListArticles(ctx context.Context) ([]model.PublishedArticle, error)
	GetArticle(ctx context.Context, id uuid.UUID) (*model.PublishedArticle, error)

	// GetArticleBySlug is the public read path: published articles only,
	// views buffered through Redis.
	GetArticleBySlug(ctx context.Context, slug string) (*model.PublishedArticle, error)

	UpdateArticle(ctx context.Context, id uuid.UUID, req model.UpdateArticleRequest) error

	// ArchiveArticle soft-archives the article and tears down the
	// submission's review state. Irreversible.
	ArchiveArticle(ctx context.Context, id uuid.UUID) error

	// Deduplicate keeps the newest article row for a submission and
	// hard-deletes the rest.
	Deduplicate(ctx context.Context, submissionID uuid.UUID) (*model.PublishedArticle, error)

	GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.PublishedArticle, error)
	SetStatusBySubmission(ctx context.Context, submissionID uuid.UUID, req model.SetStatusRequest) error

	// RenderCertificate renders the certificate of publication
	RenderCertificate(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// ViewRecorder buffers article views outside the request path
type ViewRecorder interface {
	Record(ctx context.Context, articleID string) error
}

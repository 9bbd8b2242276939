package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"journal-backend/internal/domains/submission/model"
)

// =====================================================
// SUBMISSION REPOSITORY INTERFACE
// =====================================================
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) (*model.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	List(ctx context.Context, req model.ListSubmissionsRequest) ([]model.Submission, int, error)
	ListAll(ctx context.Context) ([]model.Submission, error)

	// Lifecycle mutations. Callers go through model.Transition first.
	UpdatePipeline(ctx context.Context, id uuid.UUID, pipeline *string) error
	UpdateStatusPipeline(ctx context.Context, id uuid.UUID, status model.Status, pipeline *string) error
	UpdateStatusPipelineWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.Status, pipeline *string) error

	// Payment fields
	SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string, amount decimal.Decimal) error
	GetByStripeSessionID(ctx context.Context, sessionID string) (*model.Submission, error)
	MarkPaymentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) error
	ListStaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]model.Submission, error)
}

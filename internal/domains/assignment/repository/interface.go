package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"journal-backend/internal/domains/assignment/model"
)

// =====================================================
// ASSIGNMENT REPOSITORY INTERFACE
// =====================================================
type AssignmentRepository interface {
	Create(ctx context.Context, asg *model.Assignment) (*model.Assignment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.AssignmentWithDetails, error)

	// List returns assignments with reviewer/submission join columns,
	// ordered by invitation time. Zero submissionID means all.
	List(ctx context.Context, submissionID uuid.UUID) ([]model.AssignmentWithDetails, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.Assignment, error)

	Update(ctx context.Context, id uuid.UUID, req model.UpdateAssignmentRequest) (*model.Assignment, error)
	MarkSubmitted(ctx context.Context, id uuid.UUID, completedAt time.Time) error
	SetReviewCopyURL(ctx context.Context, id uuid.UUID, url string) error

	// ListOverdue feeds the reminder sweep: invited assignments past due.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.AssignmentWithDetails, error)

	DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error
}

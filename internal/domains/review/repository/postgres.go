package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/review/model"
)

// ReviewRepository is the review report store
type ReviewRepository interface {
	Create(ctx context.Context, rev *model.Review) (*model.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.ReviewWithDetails, error)
	List(ctx context.Context, submissionID uuid.UUID) ([]model.ReviewWithDetails, error)
	SetFlag(ctx context.Context, id uuid.UUID, needsWork bool, editorFeedback *string) error
	DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error
}

const reviewColumns = `
  id, assignment_id, recommendation, score,
  comments_to_author, comments_to_editor,
  needs_work, editor_feedback, created_at, updated_at
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new review repository instance
func NewPostgresRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresRepository{pool: pool}
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var rev model.Review
	err := row.Scan(
		&rev.ID, &rev.AssignmentID, &rev.Recommendation, &rev.Score,
		&rev.CommentsToAuthor, &rev.CommentsToEditor,
		&rev.NeedsWork, &rev.EditorFeedback, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// Create inserts a review. One review per assignment.
func (r *postgresRepository) Create(ctx context.Context, rev *model.Review) (*model.Review, error) {
	query := `
    INSERT INTO reviews
      (assignment_id, recommendation, score, comments_to_author, comments_to_editor, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
    RETURNING ` + reviewColumns

	created, err := scanReview(r.pool.QueryRow(ctx, query,
		rev.AssignmentID, rev.Recommendation, rev.Score,
		rev.CommentsToAuthor, rev.CommentsToEditor,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, model.ErrReviewExists
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return created, nil
}

// GetByID retrieves a review by ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	rev, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review by id: %w", err)
	}
	return rev, nil
}

// GetByIDWithDetails resolves the review through its assignment to the
// reviewer and submission.
func (r *postgresRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.ReviewWithDetails, error) {
	query := `
    SELECT rv.id, rv.assignment_id, rv.recommendation, rv.score,
           rv.comments_to_author, rv.comments_to_editor,
           rv.needs_work, rv.editor_feedback, rv.created_at, rv.updated_at,
           COALESCE(r.name, ''), a.submission_id, COALESCE(s.title, '')
    FROM reviews rv
    JOIN review_assignments a ON a.id = rv.assignment_id
    LEFT JOIN reviewers r ON r.id = a.reviewer_id
    LEFT JOIN submissions s ON s.id = a.submission_id
    WHERE rv.id = $1`

	var rev model.ReviewWithDetails
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID, &rev.AssignmentID, &rev.Recommendation, &rev.Score,
		&rev.CommentsToAuthor, &rev.CommentsToEditor,
		&rev.NeedsWork, &rev.EditorFeedback, &rev.CreatedAt, &rev.UpdatedAt,
		&rev.ReviewerName, &rev.SubmissionID, &rev.SubmissionTitle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review details: %w", err)
	}
	return &rev, nil
}

// List returns reviews with join columns, newest first. Zero
// submissionID means all.
func (r *postgresRepository) List(ctx context.Context, submissionID uuid.UUID) ([]model.ReviewWithDetails, error) {
	query := `
    SELECT rv.id, rv.assignment_id, rv.recommendation, rv.score,
           rv.comments_to_author, rv.comments_to_editor,
           rv.needs_work, rv.editor_feedback, rv.created_at, rv.updated_at,
           COALESCE(r.name, ''), a.submission_id, COALESCE(s.title, '')
    FROM reviews rv
    JOIN review_assignments a ON a.id = rv.assignment_id
    LEFT JOIN reviewers r ON r.id = a.reviewer_id
    LEFT JOIN submissions s ON s.id = a.submission_id`
	args := []interface{}{}
	if submissionID != uuid.Nil {
		query += ` WHERE a.submission_id = $1`
		args = append(args, submissionID)
	}
	query += ` ORDER BY rv.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.ReviewWithDetails
	for rows.Next() {
		var rev model.ReviewWithDetails
		err := rows.Scan(
			&rev.ID, &rev.AssignmentID, &rev.Recommendation, &rev.Score,
			&rev.CommentsToAuthor, &rev.CommentsToEditor,
			&rev.NeedsWork, &rev.EditorFeedback, &rev.CreatedAt, &rev.UpdatedAt,
			&rev.ReviewerName, &rev.SubmissionID, &rev.SubmissionTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// SetFlag updates the editorial quality flag
func (r *postgresRepository) SetFlag(ctx context.Context, id uuid.UUID, needsWork bool, editorFeedback *string) error {
	query := `UPDATE reviews SET needs_work = $2, editor_feedback = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, needsWork, editorFeedback)
	if err != nil {
		return fmt.Errorf("failed to flag review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

// DeleteBySubmissionWithTx removes every review for a submission as part
// of the archive cascade. Runs before the assignment delete so the FK
// never dangles.
func (r *postgresRepository) DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	query := `
    DELETE FROM reviews
    WHERE assignment_id IN (SELECT id FROM review_assignments WHERE submission_id = $1)`
	if _, err := tx.Exec(ctx, query, submissionID); err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	return nil
}

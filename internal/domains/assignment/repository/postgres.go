package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/assignment/model"
)

const assignmentColumns = `
  id, submission_id, reviewer_id, status,
  invited_at, due_at, completed_at, notes, review_copy_url,
  created_at, updated_at
`

const assignmentDetailColumns = `
  a.id, a.submission_id, a.reviewer_id, a.status,
  a.invited_at, a.due_at, a.completed_at, a.notes, a.review_copy_url,
  a.created_at, a.updated_at,
  COALESCE(r.name, ''), COALESCE(r.email, ''), COALESCE(s.title, '')
`

const assignmentDetailJoins = `
  LEFT JOIN reviewers r ON r.id = a.reviewer_id
  LEFT JOIN submissions s ON s.id = a.submission_id
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new assignment repository instance
func NewPostgresRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &postgresRepository{pool: pool}
}

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	var asg model.Assignment
	err := row.Scan(
		&asg.ID, &asg.SubmissionID, &asg.ReviewerID, &asg.Status,
		&asg.InvitedAt, &asg.DueAt, &asg.CompletedAt, &asg.Notes, &asg.ReviewCopyURL,
		&asg.CreatedAt, &asg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &asg, nil
}

func scanAssignmentWithDetails(row pgx.Row) (*model.AssignmentWithDetails, error) {
	var asg model.AssignmentWithDetails
	err := row.Scan(
		&asg.ID, &asg.SubmissionID, &asg.ReviewerID, &asg.Status,
		&asg.InvitedAt, &asg.DueAt, &asg.CompletedAt, &asg.Notes, &asg.ReviewCopyURL,
		&asg.CreatedAt, &asg.UpdatedAt,
		&asg.ReviewerName, &asg.ReviewerEmail, &asg.SubmissionTitle,
	)
	if err != nil {
		return nil, err
	}
	return &asg, nil
}

// Create inserts a new assignment with status invited
func (r *postgresRepository) Create(ctx context.Context, asg *model.Assignment) (*model.Assignment, error) {
	query := `
    INSERT INTO review_assignments
      (submission_id, reviewer_id, status, invited_at, due_at, notes, created_at, updated_at)
    VALUES ($1, $2, $3, NOW(), $4, $5, NOW(), NOW())
    RETURNING ` + assignmentColumns

	created, err := scanAssignment(r.pool.QueryRow(ctx, query,
		asg.SubmissionID, asg.ReviewerID, asg.Status, asg.DueAt, asg.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return created, nil
}

// GetByID retrieves an assignment by ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM review_assignments WHERE id = $1`
	asg, err := scanAssignment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment by id: %w", err)
	}
	return asg, nil
}

// GetByIDWithDetails retrieves an assignment plus its join columns
func (r *postgresRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.AssignmentWithDetails, error) {
	query := `SELECT ` + assignmentDetailColumns + `
    FROM review_assignments a` + assignmentDetailJoins + `
    WHERE a.id = $1`

	asg, err := scanAssignmentWithDetails(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment details: %w", err)
	}
	return asg, nil
}

// List returns assignments with join columns ordered by invitation time
func (r *postgresRepository) List(ctx context.Context, submissionID uuid.UUID) ([]model.AssignmentWithDetails, error) {
	query := `SELECT ` + assignmentDetailColumns + `
    FROM review_assignments a` + assignmentDetailJoins
	args := []interface{}{}
	if submissionID != uuid.Nil {
		query += ` WHERE a.submission_id = $1`
		args = append(args, submissionID)
	}
	query += ` ORDER BY a.invited_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.AssignmentWithDetails
	for rows.Next() {
		asg, err := scanAssignmentWithDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *asg)
	}
	return assignments, rows.Err()
}

// ListBySubmission returns the bare assignment rows for one submission
func (r *postgresRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
    FROM review_assignments WHERE submission_id = $1 ORDER BY invited_at ASC`

	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		asg, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *asg)
	}
	return assignments, rows.Err()
}

// Update overwrites the provided fields
func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateAssignmentRequest) (*model.Assignment, error) {
	query := `
    UPDATE review_assignments
    SET status       = COALESCE($2, status),
        due_at       = COALESCE($3, due_at),
        completed_at = COALESCE($4, completed_at),
        notes        = COALESCE($5, notes),
        updated_at   = NOW()
    WHERE id = $1
    RETURNING ` + assignmentColumns

	updated, err := scanAssignment(r.pool.QueryRow(ctx, query,
		id, req.Status, req.DueAt, req.CompletedAt, req.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	return updated, nil
}

// MarkSubmitted closes the assignment when its review arrives
func (r *postgresRepository) MarkSubmitted(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	query := `
    UPDATE review_assignments
    SET status = $2, completed_at = $3, updated_at = NOW()
    WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, model.AssignmentStatusSubmitted, completedAt)
	if err != nil {
		return fmt.Errorf("failed to mark assignment submitted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssignmentNotFound
	}
	return nil
}

// SetReviewCopyURL records where the generated review copy landed
func (r *postgresRepository) SetReviewCopyURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE review_assignments SET review_copy_url = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("failed to set review copy url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssignmentNotFound
	}
	return nil
}

// ListOverdue returns invited assignments whose deadline passed
func (r *postgresRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.AssignmentWithDetails, error) {
	query := `SELECT ` + assignmentDetailColumns + `
    FROM review_assignments a` + assignmentDetailJoins + `
    WHERE a.status = $1 AND a.due_at IS NOT NULL AND a.due_at < $2
    ORDER BY a.due_at ASC
    LIMIT $3`

	rows, err := r.pool.Query(ctx, query, model.AssignmentStatusInvited, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.AssignmentWithDetails
	for rows.Next() {
		asg, err := scanAssignmentWithDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *asg)
	}
	return assignments, rows.Err()
}

// DeleteBySubmissionWithTx removes every assignment for a submission as
// part of the archive cascade.
func (r *postgresRepository) DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM review_assignments WHERE submission_id = $1`, submissionID)
	if err != nil {
		return fmt.Errorf("failed to delete assignments: %w", err)
	}
	return nil
}


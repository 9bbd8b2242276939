package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/reviewer/model"
)

// ReviewerRepository is the reviewer registry store
type ReviewerRepository interface {
	Create(ctx context.Context, rev *model.Reviewer) (*model.Reviewer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reviewer, error)
	List(ctx context.Context, status string) ([]model.Reviewer, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateReviewerRequest) (*model.Reviewer, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.ReviewerStatus) error
	CountCompletedReviews(ctx context.Context, id uuid.UUID) (int, error)
}

const reviewerColumns = `id, name, email, affiliation, expertise, status, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new reviewer repository instance
func NewPostgresRepository(pool *pgxpool.Pool) ReviewerRepository {
	return &postgresRepository{pool: pool}
}

func scanReviewer(row pgx.Row) (*model.Reviewer, error) {
	var rev model.Reviewer
	err := row.Scan(
		&rev.ID, &rev.Name, &rev.Email, &rev.Affiliation,
		&rev.Expertise, &rev.Status, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new reviewer record
func (r *postgresRepository) Create(ctx context.Context, rev *model.Reviewer) (*model.Reviewer, error) {
	query := `
    INSERT INTO reviewers (name, email, affiliation, expertise, status, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
    RETURNING ` + reviewerColumns

	created, err := scanReviewer(r.pool.QueryRow(ctx, query,
		rev.Name, rev.Email, rev.Affiliation, rev.Expertise, rev.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create reviewer: %w", err)
	}
	return created, nil
}

// GetByID retrieves a reviewer by ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers WHERE id = $1`
	rev, err := scanReviewer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewerNotFound
		}
		return nil, fmt.Errorf("failed to get reviewer by id: %w", err)
	}
	return rev, nil
}

// List returns reviewers, optionally filtered by status, name order
func (r *postgresRepository) List(ctx context.Context, status string) ([]model.Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewers: %w", err)
	}
	defer rows.Close()

	var reviewers []model.Reviewer
	for rows.Next() {
		rev, err := scanReviewer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reviewer: %w", err)
		}
		reviewers = append(reviewers, *rev)
	}
	return reviewers, rows.Err()
}

// Update applies the non-nil fields and returns the updated row
func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateReviewerRequest) (*model.Reviewer, error) {
	query := `
    UPDATE reviewers
    SET name        = COALESCE($2, name),
        email       = COALESCE($3, email),
        affiliation = COALESCE($4, affiliation),
        expertise   = COALESCE($5, expertise),
        updated_at  = NOW()
    WHERE id = $1
    RETURNING ` + reviewerColumns

	updated, err := scanReviewer(r.pool.QueryRow(ctx, query,
		id, req.Name, req.Email, req.Affiliation, req.Expertise,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewerNotFound
		}
		if isUniqueViolation(err) {
			return nil, model.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update reviewer: %w", err)
	}
	return updated, nil
}

// SetStatus flips the active flag. Deactivation replaces deletion.
func (r *postgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ReviewerStatus) error {
	query := `UPDATE reviewers SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to set reviewer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewerNotFound
	}
	return nil
}

// CountCompletedReviews counts assignments the reviewer has turned in
func (r *postgresRepository) CountCompletedReviews(ctx context.Context, id uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM review_assignments WHERE reviewer_id = $1 AND status = 'submitted'`
	var count int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed reviews: %w", err)
	}
	return count, nil
}

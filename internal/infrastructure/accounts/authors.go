package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAuthorNotFound = errors.New("author not found")

// Author is a submitting author profile. Read-only here: registration and
// credential handling live outside the editorial backend.
type Author struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Affiliation string    `json:"affiliation"`
	ORCID       string    `json:"orcid"`
}

// AuthorDirectory looks up author profiles backing submissions.
type AuthorDirectory interface {
	GetAuthor(ctx context.Context, id uuid.UUID) (*Author, error)
}

type postgresAuthorDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresAuthorDirectory creates a read-only author lookup over the
// users table.
func NewPostgresAuthorDirectory(pool *pgxpool.Pool) AuthorDirectory {
	return &postgresAuthorDirectory{pool: pool}
}

func (d *postgresAuthorDirectory) GetAuthor(ctx context.Context, id uuid.UUID) (*Author, error) {
	query := `
    SELECT id, name, email, COALESCE(affiliation, ''), COALESCE(orcid, '')
    FROM users
    WHERE id = $1`

	var a Author
	err := d.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Email, &a.Affiliation, &a.ORCID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &a, nil
}

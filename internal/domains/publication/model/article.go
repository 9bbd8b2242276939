package model

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus of a published article record
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusScheduled ArticleStatus = "scheduled"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

func (as ArticleStatus) IsValid() bool {
	switch as {
	case ArticleStatusDraft, ArticleStatusScheduled, ArticleStatusPublished, ArticleStatusArchived:
		return true
	}
	return false
}

func (as ArticleStatus) String() string {
	return string(as)
}

// Visibility controls whether the public read path serves the article
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// PublishedArticle is the public record promoted from a submission.
// SubmissionID is nullable: articles can also be created standalone for
// back-catalogue imports.
type PublishedArticle struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	SubmissionID *uuid.UUID `json:"submission_id" db:"submission_id"`

	Title    string `json:"title" db:"title"`
	Slug     string `json:"slug" db:"slug"`
	Abstract string `json:"abstract" db:"abstract"`

	// Ordered author lists: index i of each slice describes author i.
	// Affiliations and ORCIDs have empty entries filtered out.
	Authors      []string `json:"authors" db:"authors"`
	Affiliations []string `json:"affiliations" db:"affiliations"`
	ORCIDs       []string `json:"orcids" db:"orcids"`

	Keywords string `json:"keywords" db:"keywords"`
	Content  string `json:"content" db:"content"`

	Volume *string `json:"volume" db:"volume"`
	Issue  *string `json:"issue" db:"issue"`
	Year   *int    `json:"year" db:"year"`
	DOI    *string `json:"doi" db:"doi"`

	Status     ArticleStatus `json:"status" db:"status"`
	Visibility Visibility    `json:"visibility" db:"visibility"`

	ScheduledAt *time.Time `json:"scheduled_at" db:"scheduled_at"`
	ReceivedAt  *time.Time `json:"received_at" db:"received_at"`
	AcceptedAt  *time.Time `json:"accepted_at" db:"accepted_at"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`

	ViewCount     int64 `json:"view_count" db:"view_count"`
	DownloadCount int64 `json:"download_count" db:"download_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

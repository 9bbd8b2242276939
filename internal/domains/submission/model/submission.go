package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the editorial status of a submission
type Status string

const (
	StatusSubmitted         Status = "submitted"
	StatusAccepted          Status = "accepted"
	StatusRejected          Status = "rejected"
	StatusRevisionRequested Status = "revision_requested"
	StatusPublished         Status = "published"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusAccepted, StatusRejected, StatusRevisionRequested, StatusPublished:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// PaymentStatus tracks the article processing charge
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusWaived  PaymentStatus = "waived"
)

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusWaived:
		return true
	}
	return false
}

func (ps PaymentStatus) String() string {
	return string(ps)
}

// CoAuthor is a contributing author in submission order.
// Stored as a JSONB array so the order survives round trips.
type CoAuthor struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	ORCID       string `json:"orcid,omitempty"`
}

// Declarations holds the compliance statements collected at intake
type Declarations struct {
	Ethics           string `json:"ethics,omitempty"`
	Funding          string `json:"funding,omitempty"`
	DataAvailability string `json:"dataAvailability,omitempty"`
	ConflictInterest string `json:"conflictInterest,omitempty"`
	AIDisclosure     string `json:"aiDisclosure,omitempty"`
}

// Submission represents a manuscript moving through the editorial pipeline
type Submission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Abstract    string    `json:"abstract" db:"abstract"`
	Category    string    `json:"category" db:"category"`
	ArticleType string    `json:"article_type" db:"article_type"`
	Keywords    string    `json:"keywords" db:"keywords"`

	// Manuscript file reference (object storage URL + original filename)
	ManuscriptURL  *string `json:"manuscript_url" db:"manuscript_url"`
	ManuscriptName *string `json:"manuscript_name" db:"manuscript_name"`

	// Lead author account + ordered co-authors
	AuthorID          uuid.UUID  `json:"author_id" db:"author_id"`
	AuthorORCID       *string    `json:"author_orcid" db:"author_orcid"`
	AuthorAffiliation *string    `json:"author_affiliation" db:"author_affiliation"`
	CoAuthors         []CoAuthor `json:"co_authors" db:"co_authors"`

	Declarations Declarations `json:"declarations" db:"declarations"`

	// Editorial state. PipelineStatus is the operational stage and stays
	// nullable for rows created before the pipeline existed.
	Status         Status  `json:"status" db:"status"`
	PipelineStatus *string `json:"pipeline_status" db:"pipeline_status"`

	// Article processing charge
	PaymentStatus    PaymentStatus    `json:"payment_status" db:"payment_status"`
	PaymentAmount    *decimal.Decimal `json:"payment_amount" db:"payment_amount"`
	StripeSessionID  *string          `json:"stripe_session_id" db:"stripe_session_id"`
	PaidAt           *time.Time       `json:"paid_at" db:"paid_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LeadAuthorORCID prefers the value captured on the submission over the
// account profile value.
func (s *Submission) LeadAuthorORCID(accountORCID string) string {
	if s.AuthorORCID != nil && *s.AuthorORCID != "" {
		return *s.AuthorORCID
	}
	return accountORCID
}

// LeadAuthorAffiliation prefers the value captured on the submission over
// the account profile value.
func (s *Submission) LeadAuthorAffiliation(accountAffiliation string) string {
	if s.AuthorAffiliation != nil && *s.AuthorAffiliation != "" {
		return *s.AuthorAffiliation
	}
	return accountAffiliation
}

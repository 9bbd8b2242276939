package model

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the editorial workflows.
const (
	ActionSubmissionCreated  = "submission.created"
	ActionAssignmentCreated  = "assignment.created"
	ActionAssignmentUpdated  = "assignment.updated"
	ActionReviewSubmitted    = "review.submitted"
	ActionReviewFlagged      = "review.flagged"
	ActionReviewCleared      = "review.cleared"
	ActionDecisionSent       = "decision.sent"
	ActionDecisionNoop       = "decision.noop"
	ActionPublishingCreated  = "publishing.created"
	ActionPublishingUpdated  = "publishing.updated"
	ActionPublishingArchived = "publishing.archived"
	ActionUnpublished        = "publishing.unpublished"
	ActionRepublished        = "publishing.republished"
	ActionPaymentLinkSent    = "payment_link_sent"
	ActionPaymentCompleted   = "payment.completed"
	ActionPaymentExpired     = "payment.expired"
)

// Event is a single append-only audit record. Events are never updated
// or deleted.
type Event struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Actor      string    `json:"actor" db:"actor"`
	Action     string    `json:"action" db:"action"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   *string   `json:"entity_id" db:"entity_id"`
	Detail     *string   `json:"detail" db:"detail"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

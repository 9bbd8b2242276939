package shared

// Task type names routed through asynq.
const (
	TypeGenerateReviewCopy     = "assignment:generate_review_copy"
	TypeSendPublicationNotice  = "publication:send_notice"
	TypeSendReviewReminders    = "assignment:send_reminders"
	TypeExpireStaleCheckouts   = "payment:expire_stale_checkouts"
	TypeFlushArticleViewCounts = "publication:flush_view_counts"
)

// Queue names, highest priority first.
const (
	QueueEmails      = "emails"
	QueueDocuments   = "documents"
	QueueMaintenance = "maintenance"
)

// ReviewCopyPayload triggers review copy generation and delivery
// for a single assignment.
type ReviewCopyPayload struct {
	AssignmentID string `json:"assignmentId"`
}

// PublicationNoticePayload triggers the author-facing publication email.
type PublicationNoticePayload struct {
	ArticleID string `json:"articleId"`
}

// ReviewReminderPayload sweeps assignments past their deadline.
type ReviewReminderPayload struct {
	Limit int `json:"limit"`
}

// ExpireStaleCheckoutsPayload marks checkout sessions that never completed.
type ExpireStaleCheckoutsPayload struct {
	OlderThanHours int `json:"olderThanHours"`
}

// FlushViewCountsPayload moves buffered article view counters from Redis
// into PostgreSQL.
type FlushViewCountsPayload struct{}

package model

// =====================================================
// PIPELINE STAGES
// =====================================================
// PipelineStatus on the submission row is a loose string: decision events
// mirror the editorial status into it, so it can also hold values like
// "accepted". The canonical stages below are the ones the advance guards
// reason about.
const (
	StageSubmitted        = "submitted"
	StageDeskCheck        = "desk_check"
	StageEditorAssigned   = "editor_assigned"
	StageReviewerInvited  = "reviewer_invited"
	StageReviewsCompleted = "reviews_completed"
	StagePublished        = "published"
	StageArchived         = "archived"
)

// stageRank orders the canonical stages so "advance only if earlier" is a
// single comparison. Unknown values (including the mirrored decision
// statuses) rank above every pre-review stage so they are never regressed.
var stageRank = map[string]int{
	StageSubmitted:        1,
	StageDeskCheck:        2,
	StageEditorAssigned:   3,
	StageReviewerInvited:  4,
	StageReviewsCompleted: 5,
	StagePublished:        6,
	StageArchived:         7,
}

// StageRank returns the ordering rank of a pipeline value. A nil pipeline
// ranks as 0 (pre-pipeline row). Unknown strings rank between the review
// stages and published.
func StageRank(pipeline *string) int {
	if pipeline == nil || *pipeline == "" {
		return 0
	}
	if rank, ok := stageRank[*pipeline]; ok {
		return rank
	}
	return stageRank[StageReviewsCompleted]
}

// =====================================================
// LIFECYCLE EVENTS
// =====================================================
type Event string

const (
	EventReviewerInvited     Event = "reviewer_invited"
	EventAllReviewsSubmitted Event = "all_reviews_submitted"
	EventDecisionAccept      Event = "decision_accept"
	EventDecisionReject      Event = "decision_reject"
	EventDecisionRevision    Event = "decision_revision"
	EventPublish             Event = "publish"
	EventArchive             Event = "archive"
)

// Snapshot is the slice of submission state the transition table consults
type Snapshot struct {
	Status   Status
	Pipeline *string
}

// TransitionResult describes the state mutation an event produces.
// Nil fields mean "leave as is". NoOp means the event is accepted but
// changes nothing (and callers skip their side effects).
type TransitionResult struct {
	Status   *Status
	Pipeline *string
	NoOp     bool
}

func statusPtr(s Status) *Status { return &s }
func stagePtr(s string) *string { return &s }

// Transition is the single state-transition guard consulted by every
// mutating entry point. It validates the event against the current
// snapshot and returns the resulting mutation.
func Transition(snap Snapshot, event Event) (TransitionResult, error) {
	switch event {
	case EventReviewerInvited:
		// Advance only from the pre-review stages. A second or later
		// invitation never regresses a submission already in review.
		if StageRank(snap.Pipeline) > stageRank[StageEditorAssigned] {
			return TransitionResult{NoOp: true}, nil
		}
		return TransitionResult{Pipeline: stagePtr(StageReviewerInvited)}, nil

	case EventAllReviewsSubmitted:
		if StageRank(snap.Pipeline) >= stageRank[StagePublished] {
			return TransitionResult{NoOp: true}, nil
		}
		return TransitionResult{Pipeline: stagePtr(StageReviewsCompleted)}, nil

	case EventDecisionAccept:
		// Re-accepting a published submission is a recorded no-op.
		if snap.Status == StatusPublished {
			return TransitionResult{NoOp: true}, nil
		}
		return TransitionResult{
			Status:   statusPtr(StatusAccepted),
			Pipeline: stagePtr(StatusAccepted.String()),
		}, nil

	case EventDecisionReject:
		if snap.Status == StatusPublished {
			return TransitionResult{}, ErrDecisionOnPublished
		}
		return TransitionResult{
			Status:   statusPtr(StatusRejected),
			Pipeline: stagePtr(StatusRejected.String()),
		}, nil

	case EventDecisionRevision:
		if snap.Status == StatusPublished {
			return TransitionResult{}, ErrDecisionOnPublished
		}
		return TransitionResult{
			Status:   statusPtr(StatusRevisionRequested),
			Pipeline: stagePtr(StatusRevisionRequested.String()),
		}, nil

	case EventPublish:
		return TransitionResult{
			Status:   statusPtr(StatusPublished),
			Pipeline: stagePtr(StagePublished),
		}, nil

	case EventArchive:
		// Archiving is idempotent: re-applying yields the same state.
		return TransitionResult{
			Status:   statusPtr(StatusRejected),
			Pipeline: stagePtr(StageArchived),
		}, nil
	}

	return TransitionResult{}, ErrUnknownLifecycleEvent
}

// DecisionEvent maps an editorial decision string to its lifecycle event
func DecisionEvent(decision string) (Event, error) {
	switch decision {
	case "accept":
		return EventDecisionAccept, nil
	case "reject":
		return EventDecisionReject, nil
	case "minor_revision", "major_revision":
		return EventDecisionRevision, nil
	}
	return "", ErrInvalidDecision
}

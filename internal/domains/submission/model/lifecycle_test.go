package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stage(s string) *string { return &s }

func TestTransition_ReviewerInvited(t *testing.T) {
	tests := []struct {
		name     string
		pipeline *string
		wantNoOp bool
	}{
		{"nil pipeline advances", nil, false},
		{"empty pipeline advances", stage(""), false},
		{"submitted advances", stage(StageSubmitted), false},
		{"desk check advances", stage(StageDeskCheck), false},
		{"editor assigned advances", stage(StageEditorAssigned), false},
		{"already in review is a no-op", stage(StageReviewerInvited), true},
		{"reviews completed is a no-op", stage(StageReviewsCompleted), true},
		{"mirrored decision status is a no-op", stage("accepted"), true},
		{"published is a no-op", stage(StagePublished), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Transition(Snapshot{Status: StatusSubmitted, Pipeline: tt.pipeline}, EventReviewerInvited)
			require.NoError(t, err)

			if tt.wantNoOp {
				assert.True(t, result.NoOp)
				assert.Nil(t, result.Pipeline)
			} else {
				assert.False(t, result.NoOp)
				require.NotNil(t, result.Pipeline)
				assert.Equal(t, StageReviewerInvited, *result.Pipeline)
				assert.Nil(t, result.Status)
			}
		})
	}
}

func TestTransition_AllReviewsSubmitted(t *testing.T) {
	result, err := Transition(Snapshot{Status: StatusSubmitted, Pipeline: stage(StageReviewerInvited)}, EventAllReviewsSubmitted)
	require.NoError(t, err)
	require.NotNil(t, result.Pipeline)
	assert.Equal(t, StageReviewsCompleted, *result.Pipeline)

	// A published submission is never regressed by a late review.
	result, err = Transition(Snapshot{Status: StatusPublished, Pipeline: stage(StagePublished)}, EventAllReviewsSubmitted)
	require.NoError(t, err)
	assert.True(t, result.NoOp)
}

func TestTransition_Decisions(t *testing.T) {
	t.Run("accept sets status and mirrors pipeline", func(t *testing.T) {
		result, err := Transition(Snapshot{Status: StatusSubmitted, Pipeline: stage(StageReviewsCompleted)}, EventDecisionAccept)
		require.NoError(t, err)
		require.NotNil(t, result.Status)
		assert.Equal(t, StatusAccepted, *result.Status)
		require.NotNil(t, result.Pipeline)
		assert.Equal(t, "accepted", *result.Pipeline)
	})

	t.Run("re-accept of published is a recorded no-op", func(t *testing.T) {
		result, err := Transition(Snapshot{Status: StatusPublished, Pipeline: stage(StagePublished)}, EventDecisionAccept)
		require.NoError(t, err)
		assert.True(t, result.NoOp)
		assert.Nil(t, result.Status)
	})

	t.Run("reject on published is refused", func(t *testing.T) {
		_, err := Transition(Snapshot{Status: StatusPublished, Pipeline: stage(StagePublished)}, EventDecisionReject)
		assert.ErrorIs(t, err, ErrDecisionOnPublished)
	})

	t.Run("revision on published is refused", func(t *testing.T) {
		_, err := Transition(Snapshot{Status: StatusPublished, Pipeline: stage(StagePublished)}, EventDecisionRevision)
		assert.ErrorIs(t, err, ErrDecisionOnPublished)
	})

	t.Run("reject sets status rejected", func(t *testing.T) {
		result, err := Transition(Snapshot{Status: StatusSubmitted, Pipeline: nil}, EventDecisionReject)
		require.NoError(t, err)
		require.NotNil(t, result.Status)
		assert.Equal(t, StatusRejected, *result.Status)
	})

	t.Run("revision sets revision_requested", func(t *testing.T) {
		result, err := Transition(Snapshot{Status: StatusAccepted, Pipeline: stage("accepted")}, EventDecisionRevision)
		require.NoError(t, err)
		require.NotNil(t, result.Status)
		assert.Equal(t, StatusRevisionRequested, *result.Status)
	})
}

func TestTransition_PublishAndArchive(t *testing.T) {
	result, err := Transition(Snapshot{Status: StatusAccepted, Pipeline: stage("accepted")}, EventPublish)
	require.NoError(t, err)
	require.NotNil(t, result.Status)
	assert.Equal(t, StatusPublished, *result.Status)
	require.NotNil(t, result.Pipeline)
	assert.Equal(t, StagePublished, *result.Pipeline)

	// Archive is idempotent: applying it twice yields the same state.
	first, err := Transition(Snapshot{Status: StatusPublished, Pipeline: stage(StagePublished)}, EventArchive)
	require.NoError(t, err)
	second, err := Transition(Snapshot{Status: *first.Status, Pipeline: first.Pipeline}, EventArchive)
	require.NoError(t, err)
	assert.Equal(t, *first.Status, *second.Status)
	assert.Equal(t, *first.Pipeline, *second.Pipeline)
	assert.Equal(t, StatusRejected, *first.Status)
	assert.Equal(t, StageArchived, *first.Pipeline)
}

func TestTransition_UnknownEvent(t *testing.T) {
	_, err := Transition(Snapshot{Status: StatusSubmitted}, Event("bogus"))
	assert.ErrorIs(t, err, ErrUnknownLifecycleEvent)
}

func TestDecisionEvent(t *testing.T) {
	tests := []struct {
		decision string
		want     Event
		wantErr  bool
	}{
		{"accept", EventDecisionAccept, false},
		{"reject", EventDecisionReject, false},
		{"minor_revision", EventDecisionRevision, false},
		{"major_revision", EventDecisionRevision, false},
		{"tabled", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		event, err := DecisionEvent(tt.decision)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDecision, tt.decision)
		} else {
			require.NoError(t, err, tt.decision)
			assert.Equal(t, tt.want, event)
		}
	}
}

func TestStageRank(t *testing.T) {
	assert.Equal(t, 0, StageRank(nil))
	assert.Equal(t, 0, StageRank(stage("")))
	assert.Less(t, StageRank(stage(StageSubmitted)), StageRank(stage(StageReviewerInvited)))
	assert.Less(t, StageRank(stage(StageReviewsCompleted)), StageRank(stage(StagePublished)))

	// Unknown values rank with the post-review stages so they are never
	// regressed by an invitation.
	assert.Equal(t, StageRank(stage(StageReviewsCompleted)), StageRank(stage("accepted")))
}

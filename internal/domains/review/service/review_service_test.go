package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assignmentModel "journal-backend/internal/domains/assignment/model"
	"journal-backend/internal/domains/review/model"
	submissionModel "journal-backend/internal/domains/submission/model"
	"journal-backend/internal/infrastructure/email"
)

// =====================================================
// FAKES
// =====================================================

type fakeReviewRepo struct {
	reviews   map[uuid.UUID]*model.Review
	details   map[uuid.UUID]*model.ReviewWithDetails
	createErr error

	flaggedID       *uuid.UUID
	flaggedNeeds    bool
	flaggedFeedback *string
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: map[uuid.UUID]*model.Review{},
		details: map[uuid.UUID]*model.ReviewWithDetails{},
	}
}

func (r *fakeReviewRepo) Create(ctx context.Context, rev *model.Review) (*model.Review, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	rev.ID = uuid.New()
	rev.CreatedAt = time.Now()
	r.reviews[rev.ID] = rev
	return rev, nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	if rev, ok := r.reviews[id]; ok {
		return rev, nil
	}
	return nil, model.ErrReviewNotFound
}

func (r *fakeReviewRepo) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.ReviewWithDetails, error) {
	if rev, ok := r.details[id]; ok {
		return rev, nil
	}
	return nil, model.ErrReviewNotFound
}

func (r *fakeReviewRepo) List(ctx context.Context, submissionID uuid.UUID) ([]model.ReviewWithDetails, error) {
	return nil, nil
}

func (r *fakeReviewRepo) SetFlag(ctx context.Context, id uuid.UUID, needsWork bool, editorFeedback *string) error {
	r.flaggedID = &id
	r.flaggedNeeds = needsWork
	r.flaggedFeedback = editorFeedback
	return nil
}

func (r *fakeReviewRepo) DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	return nil
}

type fakeAssignmentRepo struct {
	details     map[uuid.UUID]*assignmentModel.AssignmentWithDetails
	assignments []assignmentModel.Assignment

	submittedID *uuid.UUID
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{details: map[uuid.UUID]*assignmentModel.AssignmentWithDetails{}}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, asg *assignmentModel.Assignment) (*assignmentModel.Assignment, error) {
	return asg, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*assignmentModel.Assignment, error) {
	return nil, assignmentModel.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*assignmentModel.AssignmentWithDetails, error) {
	if asg, ok := r.details[id]; ok {
		return asg, nil
	}
	return nil, assignmentModel.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) List(ctx context.Context, submissionID uuid.UUID) ([]assignmentModel.AssignmentWithDetails, error) {
	return nil, nil
}

func (r *fakeAssignmentRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]assignmentModel.Assignment, error) {
	return r.assignments, nil
}

func (r *fakeAssignmentRepo) Update(ctx context.Context, id uuid.UUID, req assignmentModel.UpdateAssignmentRequest) (*assignmentModel.Assignment, error) {
	return nil, assignmentModel.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) MarkSubmitted(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	r.submittedID = &id
	for i := range r.assignments {
		if r.assignments[i].ID == id {
			r.assignments[i].Status = assignmentModel.AssignmentStatusSubmitted
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) SetReviewCopyURL(ctx context.Context, id uuid.UUID, url string) error {
	return nil
}

func (r *fakeAssignmentRepo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]assignmentModel.AssignmentWithDetails, error) {
	return nil, nil
}

func (r *fakeAssignmentRepo) DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*submissionModel.Submission

	lastPipeline    *string
	pipelineUpdated bool
}

func newFakeSubmissionRepo(subs ...*submissionModel.Submission) *fakeSubmissionRepo {
	r := &fakeSubmissionRepo{submissions: map[uuid.UUID]*submissionModel.Submission{}}
	for _, sub := range subs {
		r.submissions[sub.ID] = sub
	}
	return r
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, sub *submissionModel.Submission) (*submissionModel.Submission, error) {
	return sub, nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*submissionModel.Submission, error) {
	if sub, ok := r.submissions[id]; ok {
		return sub, nil
	}
	return nil, submissionModel.ErrSubmissionNotFound
}

func (r *fakeSubmissionRepo) List(ctx context.Context, req submissionModel.ListSubmissionsRequest) ([]submissionModel.Submission, int, error) {
	return nil, 0, nil
}

func (r *fakeSubmissionRepo) ListAll(ctx context.Context) ([]submissionModel.Submission, error) {
	return nil, nil
}

func (r *fakeSubmissionRepo) UpdatePipeline(ctx context.Context, id uuid.UUID, pipeline *string) error {
	r.lastPipeline = pipeline
	r.pipelineUpdated = true
	return nil
}

func (r *fakeSubmissionRepo) UpdateStatusPipeline(ctx context.Context, id uuid.UUID, status submissionModel.Status, pipeline *string) error {
	return nil
}

func (r *fakeSubmissionRepo) UpdateStatusPipelineWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status submissionModel.Status, pipeline *string) error {
	return nil
}

func (r *fakeSubmissionRepo) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string, amount decimal.Decimal) error {
	return nil
}

func (r *fakeSubmissionRepo) GetByStripeSessionID(ctx context.Context, sessionID string) (*submissionModel.Submission, error) {
	return nil, submissionModel.ErrSubmissionNotFound
}

func (r *fakeSubmissionRepo) MarkPaymentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	return nil
}

func (r *fakeSubmissionRepo) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeSubmissionRepo) ListStaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]submissionModel.Submission, error) {
	return nil, nil
}

type fakeEmailService struct {
	confirmations []email.ReviewSubmittedData
	feedback      []email.ReviewFeedbackData
	sendErr       error
}

func (e *fakeEmailService) SendSubmissionReceived(ctx context.Context, data email.SubmissionReceivedData) error {
	return nil
}
func (e *fakeEmailService) SendReviewInvitation(ctx context.Context, data email.ReviewInvitationData) error {
	return nil
}
func (e *fakeEmailService) SendReviewCopy(ctx context.Context, data email.ReviewCopyData) error {
	return nil
}
func (e *fakeEmailService) SendReviewSubmitted(ctx context.Context, data email.ReviewSubmittedData) error {
	if e.sendErr != nil {
		return e.sendErr
	}
	e.confirmations = append(e.confirmations, data)
	return nil
}
func (e *fakeEmailService) SendReviewFeedback(ctx context.Context, data email.ReviewFeedbackData) error {
	if e.sendErr != nil {
		return e.sendErr
	}
	e.feedback = append(e.feedback, data)
	return nil
}
func (e *fakeEmailService) SendEditorialDecision(ctx context.Context, data email.EditorialDecisionData) error {
	return nil
}
func (e *fakeEmailService) SendPaymentLink(ctx context.Context, data email.PaymentLinkData) error {
	return nil
}
func (e *fakeEmailService) SendPublicationNotification(ctx context.Context, data email.PublicationNotificationData) error {
	return nil
}

type fakeRecorder struct {
	actions []string
}

func (r *fakeRecorder) Record(ctx context.Context, action, entityType, entityID, detail string) {
	r.actions = append(r.actions, action)
}

// =====================================================
// FIXTURE
// =====================================================

type reviewFixture struct {
	svc     ReviewService
	reviews *fakeReviewRepo
	asgs    *fakeAssignmentRepo
	subs    *fakeSubmissionRepo
	emails  *fakeEmailService
	audit   *fakeRecorder
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviews: newFakeReviewRepo(),
		asgs:    newFakeAssignmentRepo(),
		subs:    newFakeSubmissionRepo(),
		emails:  &fakeEmailService{},
		audit:   &fakeRecorder{},
	}
	f.svc = NewReviewService(f.reviews, f.asgs, f.subs, f.emails, f.audit)
	return f
}

func stage(s string) *string { return &s }

// addAssignment registers an assignment with details and its row in the
// per-submission listing.
func (f *reviewFixture) addAssignment(submissionID uuid.UUID, status assignmentModel.AssignmentStatus) *assignmentModel.AssignmentWithDetails {
	asg := &assignmentModel.AssignmentWithDetails{
		Assignment: assignmentModel.Assignment{
			ID:           uuid.New(),
			SubmissionID: submissionID,
			ReviewerID:   uuid.New(),
			Status:       status,
		},
		ReviewerName:    "Grace Hopper",
		ReviewerEmail:   "grace@example.edu",
		SubmissionTitle: "Tidal Energy Forecasting",
	}
	f.asgs.details[asg.ID] = asg
	f.asgs.assignments = append(f.asgs.assignments, asg.Assignment)
	return asg
}

func (f *reviewFixture) addSubmission(pipeline *string) *submissionModel.Submission {
	sub := &submissionModel.Submission{
		ID:             uuid.New(),
		Title:          "Tidal Energy Forecasting",
		Status:         submissionModel.StatusSubmitted,
		PipelineStatus: pipeline,
	}
	f.subs.submissions[sub.ID] = sub
	return sub
}

// =====================================================
// TESTS
// =====================================================

func TestSubmitReview_FirstOfTwoDoesNotAdvance(t *testing.T) {
	f := newReviewFixture()
	sub := f.addSubmission(stage(submissionModel.StageReviewerInvited))
	asg1 := f.addAssignment(sub.ID, assignmentModel.AssignmentStatusAccepted)
	f.addAssignment(sub.ID, assignmentModel.AssignmentStatusInvited)

	review, err := f.svc.SubmitReview(context.Background(), model.SubmitReviewRequest{
		AssignmentID:   asg1.ID,
		Recommendation: model.RecommendationAccept,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, review.ID)

	// The assignment closed, but a sibling is still out.
	require.NotNil(t, f.asgs.submittedID)
	assert.Equal(t, asg1.ID, *f.asgs.submittedID)
	assert.False(t, f.subs.pipelineUpdated)

	require.Len(t, f.emails.confirmations, 1)
	assert.Equal(t, "grace@example.edu", f.emails.confirmations[0].ReviewerEmail)
	assert.Contains(t, f.audit.actions, "review.submitted")
}

func TestSubmitReview_LastOfTwoAdvancesPipeline(t *testing.T) {
	f := newReviewFixture()
	sub := f.addSubmission(stage(submissionModel.StageReviewerInvited))
	f.addAssignment(sub.ID, assignmentModel.AssignmentStatusSubmitted)
	asg2 := f.addAssignment(sub.ID, assignmentModel.AssignmentStatusAccepted)

	_, err := f.svc.SubmitReview(context.Background(), model.SubmitReviewRequest{
		AssignmentID:   asg2.ID,
		Recommendation: model.RecommendationMinorRevision,
	})
	require.NoError(t, err)

	require.True(t, f.subs.pipelineUpdated)
	require.NotNil(t, f.subs.lastPipeline)
	assert.Equal(t, submissionModel.StageReviewsCompleted, *f.subs.lastPipeline)
}

func TestSubmitReview_DeclinedSiblingBlocksAdvance(t *testing.T) {
	f := newReviewFixture()
	sub := f.addSubmission(stage(submissionModel.StageReviewerInvited))
	asg := f.addAssignment(sub.ID, assignmentModel.AssignmentStatusAccepted)
	f.addAssignment(sub.ID, assignmentModel.AssignmentStatusDeclined)

	_, err := f.svc.SubmitReview(context.Background(), model.SubmitReviewRequest{
		AssignmentID:   asg.ID,
		Recommendation: model.RecommendationAccept,
	})
	require.NoError(t, err)

	// A declined assignment still counts as outstanding.
	assert.False(t, f.subs.pipelineUpdated)
}

func TestSubmitReview_ConfirmationFailureTolerated(t *testing.T) {
	f := newReviewFixture()
	sub := f.addSubmission(stage(submissionModel.StageReviewerInvited))
	asg := f.addAssignment(sub.ID, assignmentModel.AssignmentStatusAccepted)
	f.emails.sendErr = assert.AnError

	review, err := f.svc.SubmitReview(context.Background(), model.SubmitReviewRequest{
		AssignmentID:   asg.ID,
		Recommendation: model.RecommendationReject,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, review.ID)
	assert.Contains(t, f.audit.actions, "review.submitted")
}

func TestSubmitReview_UnknownAssignment(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.SubmitReview(context.Background(), model.SubmitReviewRequest{
		AssignmentID:   uuid.New(),
		Recommendation: model.RecommendationAccept,
	})
	require.Error(t, err)

	var revErr *model.ReviewError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, model.ErrCodeInvalidReview, revErr.Code)
}

func TestSubmitReview_InvalidRecommendation(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.SubmitReview(context.Background(), model.SubmitReviewRequest{
		AssignmentID:   uuid.New(),
		Recommendation: "strong accept",
	})
	require.Error(t, err)

	var revErr *model.ReviewError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, model.ErrCodeInvalidReview, revErr.Code)
}

func TestFlagReview_NotifiesReviewer(t *testing.T) {
	f := newReviewFixture()
	sub := f.addSubmission(nil)
	asg := f.addAssignment(sub.ID, assignmentModel.AssignmentStatusSubmitted)

	reviewID := uuid.New()
	f.reviews.details[reviewID] = &model.ReviewWithDetails{
		Review: model.Review{ID: reviewID, AssignmentID: asg.ID},
	}

	err := f.svc.FlagReview(context.Background(), reviewID, model.FlagReviewRequest{
		NeedsWork:      true,
		EditorFeedback: "Please expand the methods critique.",
	})
	require.NoError(t, err)

	assert.True(t, f.reviews.flaggedNeeds)
	require.NotNil(t, f.reviews.flaggedFeedback)
	assert.Equal(t, "Please expand the methods critique.", *f.reviews.flaggedFeedback)

	require.Len(t, f.emails.feedback, 1)
	assert.Equal(t, "grace@example.edu", f.emails.feedback[0].ReviewerEmail)
	assert.Contains(t, f.audit.actions, "review.flagged")
}

func TestFlagReview_ClearWithoutFeedback(t *testing.T) {
	f := newReviewFixture()
	sub := f.addSubmission(nil)
	asg := f.addAssignment(sub.ID, assignmentModel.AssignmentStatusSubmitted)

	reviewID := uuid.New()
	f.reviews.details[reviewID] = &model.ReviewWithDetails{
		Review: model.Review{ID: reviewID, AssignmentID: asg.ID, NeedsWork: true},
	}

	err := f.svc.FlagReview(context.Background(), reviewID, model.FlagReviewRequest{NeedsWork: false})
	require.NoError(t, err)

	assert.False(t, f.reviews.flaggedNeeds)
	assert.Nil(t, f.reviews.flaggedFeedback)
	// Clearing a flag sends nothing.
	assert.Empty(t, f.emails.feedback)
	assert.Contains(t, f.audit.actions, "review.cleared")
}

func TestFlagReview_NotFound(t *testing.T) {
	f := newReviewFixture()
	err := f.svc.FlagReview(context.Background(), uuid.New(), model.FlagReviewRequest{NeedsWork: true})
	assert.ErrorIs(t, err, model.ErrReviewNotFound)
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assignmentModel "journal-backend/internal/domains/assignment/model"
	"journal-backend/internal/domains/publication/model"
	reviewModel "journal-backend/internal/domains/review/model"
	submissionModel "journal-backend/internal/domains/submission/model"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/queue"
)

// =====================================================
// FAKES
// =====================================================

type fakeArticleRepo struct {
	articles map[uuid.UUID]*model.PublishedArticle
	active   *model.PublishedArticle

	maxSlug      string
	maxSlugFound bool
	createErr    error
	createErrs   []error
	created      []*model.PublishedArticle
	deleted      []uuid.UUID
	setStatus    []model.ArticleStatus

	bySubmission []model.PublishedArticle

	lastStatusBySubmission    model.ArticleStatus
	lastPublishedBySubmission *time.Time
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: map[uuid.UUID]*model.PublishedArticle{}}
}

func (r *fakeArticleRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, art *model.PublishedArticle) (*model.PublishedArticle, error) {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return nil, err
		}
	} else if r.createErr != nil {
		return nil, r.createErr
	}
	art.ID = uuid.New()
	art.CreatedAt = time.Now()
	art.UpdatedAt = art.CreatedAt
	r.articles[art.ID] = art
	r.created = append(r.created, art)
	return art, nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.PublishedArticle, error) {
	if art, ok := r.articles[id]; ok {
		return art, nil
	}
	return nil, model.ErrArticleNotFound
}

func (r *fakeArticleRepo) GetBySlug(ctx context.Context, slug string) (*model.PublishedArticle, error) {
	for _, art := range r.articles {
		if art.Slug == slug {
			return art, nil
		}
	}
	return nil, model.ErrArticleNotFound
}

func (r *fakeArticleRepo) GetBySubmission(ctx context.Context, submissionID uuid.UUID) ([]model.PublishedArticle, error) {
	return r.bySubmission, nil
}

func (r *fakeArticleRepo) ActiveBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.PublishedArticle, error) {
	if r.active != nil {
		return r.active, nil
	}
	return nil, model.ErrArticleNotFound
}

func (r *fakeArticleRepo) List(ctx context.Context) ([]model.PublishedArticle, error) {
	out := make([]model.PublishedArticle, 0, len(r.articles))
	for _, art := range r.articles {
		out = append(out, *art)
	}
	return out, nil
}

func (r *fakeArticleRepo) Update(ctx context.Context, id uuid.UUID, req model.UpdateArticleRequest, publishedAt *time.Time) error {
	return nil
}

func (r *fakeArticleRepo) SetStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.ArticleStatus) error {
	r.setStatus = append(r.setStatus, status)
	if art, ok := r.articles[id]; ok {
		art.Status = status
	}
	return nil
}

func (r *fakeArticleRepo) SetStatusBySubmission(ctx context.Context, submissionID uuid.UUID, status model.ArticleStatus, publishedAt *time.Time) error {
	r.lastStatusBySubmission = status
	r.lastPublishedBySubmission = publishedAt
	return nil
}

func (r *fakeArticleRepo) Delete(ctx context.Context, ids []uuid.UUID) error {
	r.deleted = append(r.deleted, ids...)
	return nil
}

func (r *fakeArticleRepo) MaxSlug(ctx context.Context, prefix string) (string, bool, error) {
	return r.maxSlug, r.maxSlugFound, nil
}

func (r *fakeArticleRepo) AddViewCounts(ctx context.Context, counts map[string]int64) error {
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*submissionModel.Submission

	lastStatus   submissionModel.Status
	lastPipeline *string
	updated      bool
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
	return nil
}

func (r *fakeSubmissionRepo) UpdateStatusPipeline(ctx context.Context, id uuid.UUID, status submissionModel.Status, pipeline *string) error {
	r.lastStatus = status
	r.lastPipeline = pipeline
	r.updated = true
	return nil
}

func (r *fakeSubmissionRepo) UpdateStatusPipelineWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status submissionModel.Status, pipeline *string) error {
	return r.UpdateStatusPipeline(ctx, id, status, pipeline)
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

// fakeTeardownLog records the order archive teardown touches the review
// and assignment stores.
type fakeTeardownLog struct {
	order []string
}

type fakeReviewRepo struct {
	log *fakeTeardownLog
}

func (r *fakeReviewRepo) Create(ctx context.Context, rev *reviewModel.Review) (*reviewModel.Review, error) {
	return rev, nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*reviewModel.Review, error) {
	return nil, reviewModel.ErrReviewNotFound
}

func (r *fakeReviewRepo) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*reviewModel.ReviewWithDetails, error) {
	return nil, reviewModel.ErrReviewNotFound
}

func (r *fakeReviewRepo) List(ctx context.Context, submissionID uuid.UUID) ([]reviewModel.ReviewWithDetails, error) {
	return nil, nil
}

func (r *fakeReviewRepo) SetFlag(ctx context.Context, id uuid.UUID, needsWork bool, editorFeedback *string) error {
	return nil
}

func (r *fakeReviewRepo) DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	r.log.order = append(r.log.order, "reviews")
	return nil
}

type fakeAssignmentRepo struct {
	log *fakeTeardownLog
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, asg *assignmentModel.Assignment) (*assignmentModel.Assignment, error) {
	return asg, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*assignmentModel.Assignment, error) {
	return nil, assignmentModel.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*assignmentModel.AssignmentWithDetails, error) {
	return nil, assignmentModel.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) List(ctx context.Context, submissionID uuid.UUID) ([]assignmentModel.AssignmentWithDetails, error) {
	return nil, nil
}

func (r *fakeAssignmentRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]assignmentModel.Assignment, error) {
	return nil, nil
}

func (r *fakeAssignmentRepo) Update(ctx context.Context, id uuid.UUID, req assignmentModel.UpdateAssignmentRequest) (*assignmentModel.Assignment, error) {
	return nil, assignmentModel.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) MarkSubmitted(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	return nil
}

func (r *fakeAssignmentRepo) SetReviewCopyURL(ctx context.Context, id uuid.UUID, url string) error {
	return nil
}

func (r *fakeAssignmentRepo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]assignmentModel.AssignmentWithDetails, error) {
	return nil, nil
}

func (r *fakeAssignmentRepo) DeleteBySubmissionWithTx(ctx context.Context, tx pgx.Tx, submissionID uuid.UUID) error {
	r.log.order = append(r.log.order, "assignments")
	return nil
}

type fakeAuthorDirectory struct {
	authors map[uuid.UUID]*accounts.Author
}

func (d *fakeAuthorDirectory) GetAuthor(ctx context.Context, id uuid.UUID) (*accounts.Author, error) {
	if a, ok := d.authors[id]; ok {
		return a, nil
	}
	return nil, accounts.ErrAuthorNotFound
}

type fakeStorage struct {
	objects map[string][]byte
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "https://files.test/" + key, nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.objects[key]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("object %s not found", key)
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (s *fakeStorage) DeleteByPrefix(ctx context.Context, prefix string) error { return nil }

type enqueuedTask struct {
	taskType string
	payload  interface{}
	opts     []queue.Option
}

type fakeEnqueuer struct {
	tasks []enqueuedTask
}

func (e *fakeEnqueuer) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...queue.Option) error {
	e.tasks = append(e.tasks, enqueuedTask{taskType: taskType, payload: payload, opts: opts})
	return nil
}

type recordedAudit struct {
	action   string
	entityID string
	detail   string
}

type fakeRecorder struct {
	events []recordedAudit
}

func (r *fakeRecorder) Record(ctx context.Context, action, entityType, entityID, detail string) {
	r.events = append(r.events, recordedAudit{action: action, entityID: entityID, detail: detail})
}

type fakeViewRecorder struct {
	recorded []string
}

func (v *fakeViewRecorder) Record(ctx context.Context, articleID string) error {
	v.recorded = append(v.recorded, articleID)
	return nil
}

func passthroughTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

// =====================================================
// FIXTURE
// =====================================================

type publicationFixture struct {
	svc      PublicationService
	articles *fakeArticleRepo
	subs     *fakeSubmissionRepo
	reviews  *fakeReviewRepo
	asgs     *fakeAssignmentRepo
	authors  *fakeAuthorDirectory
	storage  *fakeStorage
	enqueuer *fakeEnqueuer
	audit    *fakeRecorder
	views    *fakeViewRecorder
	teardown *fakeTeardownLog
}

func newPublicationFixture(subs ...*submissionModel.Submission) *publicationFixture {
	log := &fakeTeardownLog{}
	f := &publicationFixture{
		articles: newFakeArticleRepo(),
		subs:     newFakeSubmissionRepo(subs...),
		reviews:  &fakeReviewRepo{log: log},
		asgs:     &fakeAssignmentRepo{log: log},
		authors:  &fakeAuthorDirectory{authors: map[uuid.UUID]*accounts.Author{}},
		storage:  &fakeStorage{objects: map[string][]byte{}},
		enqueuer: &fakeEnqueuer{},
		audit:    &fakeRecorder{},
		views:    &fakeViewRecorder{},
		teardown: log,
	}
	f.svc = NewPublicationService(
		f.articles, f.subs, f.reviews, f.asgs, f.authors, f.storage,
		f.enqueuer, f.audit, f.views, passthroughTx,
		"American Impact Review", "1234-5678",
	)
	return f
}

func strPtr(s string) *string { return &s }

func acceptedSubmission(authorID uuid.UUID) *submissionModel.Submission {
	accepted := "accepted"
	return &submissionModel.Submission{
		ID:             uuid.New(),
		Title:          "Tidal Energy Forecasting",
		Abstract:       "We forecast tides.",
		Keywords:       "tides, ml",
		AuthorID:       authorID,
		ManuscriptName: strPtr("final.docx"),
		Status:         submissionModel.StatusAccepted,
		PipelineStatus: &accepted,
		CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// =====================================================
// PUBLISH
// =====================================================

func TestPublish_FirstArticleOfYear(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	f := newPublicationFixture(sub)
	f.authors.authors[authorID] = &accounts.Author{
		ID: authorID, Name: "Ada Lovelace", Email: "ada@example.edu", Affiliation: "Analytical Engines Inc",
	}

	art, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("e%d001", year), art.Slug)
	assert.Equal(t, model.ArticleStatusPublished, art.Status)
	assert.Equal(t, model.VisibilityPrivate, art.Visibility)
	assert.Equal(t, sub.Title, art.Title)
	require.NotNil(t, art.SubmissionID)
	assert.Equal(t, sub.ID, *art.SubmissionID)
	require.NotNil(t, art.ReceivedAt)
	assert.Equal(t, sub.CreatedAt, *art.ReceivedAt)
	assert.NotNil(t, art.PublishedAt)

	// Submission moved to published in the same transaction.
	assert.True(t, f.subs.updated)
	assert.Equal(t, submissionModel.StatusPublished, f.subs.lastStatus)
	require.NotNil(t, f.subs.lastPipeline)
	assert.Equal(t, submissionModel.StagePublished, *f.subs.lastPipeline)

	// Author notification queued.
	require.Len(t, f.enqueuer.tasks, 1)
	assert.Equal(t, "publication:send_notice", f.enqueuer.tasks[0].taskType)

	// Audit trail.
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "publishing.created", f.audit.events[0].action)
}

func TestPublish_SlugSequenceAdvances(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	f := newPublicationFixture(sub)
	f.authors.authors[authorID] = &accounts.Author{ID: authorID, Name: "Ada"}

	year := time.Now().Year()
	f.articles.maxSlug = fmt.Sprintf("e%d007", year)
	f.articles.maxSlugFound = true

	art, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("e%d008", year), art.Slug)
}

func TestPublish_SlugRaceExhausted(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	f := newPublicationFixture(sub)
	f.authors.authors[authorID] = &accounts.Author{ID: authorID, Name: "Ada"}
	f.articles.createErr = model.ErrSlugTaken

	_, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	assert.ErrorIs(t, err, model.ErrSlugExhausted)
	assert.Len(t, f.enqueuer.tasks, 0)
}

func TestPublish_SlugRaceRecoversOnRetry(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	f := newPublicationFixture(sub)
	f.authors.authors[authorID] = &accounts.Author{ID: authorID, Name: "Ada"}
	f.articles.createErrs = []error{model.ErrSlugTaken, nil}

	art, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, art.Slug)
}

func TestPublish_AlreadyPublished(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	f := newPublicationFixture(sub)

	existingID := uuid.New()
	f.articles.active = &model.PublishedArticle{ID: existingID, Status: model.ArticleStatusPublished}

	_, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	apErr, ok := model.IsAlreadyPublished(err)
	require.True(t, ok)
	assert.Equal(t, existingID, apErr.ExistingID)
	assert.Empty(t, f.articles.created)
}

func TestPublish_PDFManuscriptRefused(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	sub.ManuscriptName = strPtr("review-copy.pdf")
	f := newPublicationFixture(sub)

	_, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	assert.ErrorIs(t, err, model.ErrNotPromotable)
}

func TestPublish_MissingManuscriptPublishesEmptyBody(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	f := newPublicationFixture(sub)
	f.authors.authors[authorID] = &accounts.Author{ID: authorID, Name: "Ada"}
	// No object in storage: download fails, publish proceeds.

	art, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	require.NoError(t, err)
	assert.Empty(t, art.Content)
}

func TestPublish_AuthorListsOrderedAndFiltered(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	sub.AuthorAffiliation = strPtr("Field Station B")
	sub.CoAuthors = []submissionModel.CoAuthor{
		{Name: "Grace Hopper", Affiliation: "Navy", ORCID: "0000-0002-0000-0000"},
		{Name: "Alan Turing"},
	}
	f := newPublicationFixture(sub)
	f.authors.authors[authorID] = &accounts.Author{
		ID: authorID, Name: "Ada Lovelace", Affiliation: "Analytical Engines Inc", ORCID: "0000-0001-0000-0000",
	}

	art, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: sub.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ada Lovelace", "Grace Hopper", "Alan Turing"}, art.Authors)
	// Submission-level affiliation wins over the profile value, and the
	// empty co-author entries are filtered out.
	assert.Equal(t, []string{"Field Station B", "Navy"}, art.Affiliations)
	assert.Equal(t, []string{"0000-0001-0000-0000", "0000-0002-0000-0000"}, art.ORCIDs)
}

func TestPublish_UnknownSubmission(t *testing.T) {
	f := newPublicationFixture()

	_, err := f.svc.Publish(context.Background(), model.PublishRequest{SubmissionID: uuid.New()})
	assert.ErrorIs(t, err, submissionModel.ErrSubmissionNotFound)
}

// =====================================================
// PUBLIC READ PATH
// =====================================================

func TestGetArticleBySlug(t *testing.T) {
	f := newPublicationFixture()
	art := &model.PublishedArticle{ID: uuid.New(), Slug: "e2026001", Status: model.ArticleStatusPublished}
	f.articles.articles[art.ID] = art

	got, err := f.svc.GetArticleBySlug(context.Background(), "e2026001")
	require.NoError(t, err)
	assert.Equal(t, art.ID, got.ID)

	// The view lands in the buffer, not the row.
	require.Len(t, f.views.recorded, 1)
	assert.Equal(t, art.ID.String(), f.views.recorded[0])
}

func TestGetArticleBySlug_DraftHidden(t *testing.T) {
	f := newPublicationFixture()
	art := &model.PublishedArticle{ID: uuid.New(), Slug: "e2026002", Status: model.ArticleStatusDraft}
	f.articles.articles[art.ID] = art

	_, err := f.svc.GetArticleBySlug(context.Background(), "e2026002")
	assert.ErrorIs(t, err, model.ErrArticleNotFound)
	assert.Empty(t, f.views.recorded)
}

// =====================================================
// ARCHIVE
// =====================================================

func TestArchiveArticle_TearsDownReviewState(t *testing.T) {
	authorID := uuid.New()
	sub := acceptedSubmission(authorID)
	sub.Status = submissionModel.StatusPublished
	sub.PipelineStatus = strPtr(submissionModel.StagePublished)
	f := newPublicationFixture(sub)

	art := &model.PublishedArticle{ID: uuid.New(), SubmissionID: &sub.ID, Status: model.ArticleStatusPublished}
	f.articles.articles[art.ID] = art

	require.NoError(t, f.svc.ArchiveArticle(context.Background(), art.ID))

	assert.Equal(t, []model.ArticleStatus{model.ArticleStatusArchived}, f.articles.setStatus)
	assert.Equal(t, submissionModel.StatusRejected, f.subs.lastStatus)
	require.NotNil(t, f.subs.lastPipeline)
	assert.Equal(t, submissionModel.StageArchived, *f.subs.lastPipeline)

	// Reviews reference assignments, so they go first.
	assert.Equal(t, []string{"reviews", "assignments"}, f.teardown.order)

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "publishing.archived", f.audit.events[0].action)
}

func TestArchiveArticle_StandaloneArticle(t *testing.T) {
	f := newPublicationFixture()
	art := &model.PublishedArticle{ID: uuid.New(), Status: model.ArticleStatusPublished}
	f.articles.articles[art.ID] = art

	require.NoError(t, f.svc.ArchiveArticle(context.Background(), art.ID))
	assert.False(t, f.subs.updated)
	assert.Empty(t, f.teardown.order)
}

func TestArchiveArticle_NotFound(t *testing.T) {
	f := newPublicationFixture()
	err := f.svc.ArchiveArticle(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrArticleNotFound)
}

// =====================================================
// DEDUPLICATION
// =====================================================

func TestDeduplicate_KeepsNewestRow(t *testing.T) {
	f := newPublicationFixture()
	subID := uuid.New()
	newest := model.PublishedArticle{ID: uuid.New(), SubmissionID: &subID}
	older := model.PublishedArticle{ID: uuid.New(), SubmissionID: &subID}
	oldest := model.PublishedArticle{ID: uuid.New(), SubmissionID: &subID}
	f.articles.bySubmission = []model.PublishedArticle{newest, older, oldest}

	kept, err := f.svc.Deduplicate(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, kept.ID)
	assert.ElementsMatch(t, []uuid.UUID{older.ID, oldest.ID}, f.articles.deleted)
}

func TestDeduplicate_SingleRowUntouched(t *testing.T) {
	f := newPublicationFixture()
	subID := uuid.New()
	only := model.PublishedArticle{ID: uuid.New(), SubmissionID: &subID}
	f.articles.bySubmission = []model.PublishedArticle{only}

	kept, err := f.svc.Deduplicate(context.Background(), subID)
	require.NoError(t, err)
	assert.Equal(t, only.ID, kept.ID)
	assert.Empty(t, f.articles.deleted)
}

func TestDeduplicate_NoArticles(t *testing.T) {
	f := newPublicationFixture()
	_, err := f.svc.Deduplicate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrArticleNotFound)
}

// =====================================================
// UNPUBLISH / REPUBLISH
// =====================================================

func TestSetStatusBySubmission_Republish(t *testing.T) {
	f := newPublicationFixture()
	subID := uuid.New()
	f.articles.bySubmission = []model.PublishedArticle{{ID: uuid.New(), SubmissionID: &subID}}

	err := f.svc.SetStatusBySubmission(context.Background(), subID, model.SetStatusRequest{Status: "published"})
	require.NoError(t, err)

	assert.Equal(t, model.ArticleStatusPublished, f.articles.lastStatusBySubmission)
	assert.NotNil(t, f.articles.lastPublishedBySubmission)
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "publishing.republished", f.audit.events[0].action)
}

func TestSetStatusBySubmission_Unpublish(t *testing.T) {
	f := newPublicationFixture()
	subID := uuid.New()
	f.articles.bySubmission = []model.PublishedArticle{{ID: uuid.New(), SubmissionID: &subID}}

	err := f.svc.SetStatusBySubmission(context.Background(), subID, model.SetStatusRequest{Status: "draft"})
	require.NoError(t, err)

	assert.Equal(t, model.ArticleStatusDraft, f.articles.lastStatusBySubmission)
	assert.Nil(t, f.articles.lastPublishedBySubmission)
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "publishing.unpublished", f.audit.events[0].action)
}

func TestSetStatusBySubmission_InvalidStatus(t *testing.T) {
	f := newPublicationFixture()
	err := f.svc.SetStatusBySubmission(context.Background(), uuid.New(), model.SetStatusRequest{Status: "retracted"})
	assert.ErrorIs(t, err, model.ErrInvalidArticleStatus)
}

// =====================================================
// CERTIFICATE
// =====================================================

func TestRenderCertificate(t *testing.T) {
	f := newPublicationFixture()
	received := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	published := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	art := &model.PublishedArticle{
		ID:          uuid.New(),
		Title:       "Tidal Energy Forecasting",
		Authors:     []string{"Ada Lovelace", "Grace Hopper"},
		ReceivedAt:  &received,
		PublishedAt: &published,
		Status:      model.ArticleStatusPublished,
	}
	f.articles.articles[art.ID] = art

	html, err := f.svc.RenderCertificate(context.Background(), art.ID)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Tidal Energy Forecasting")
	// Only the lead author appears on the certificate.
	assert.Contains(t, body, "Ada Lovelace")
	assert.NotContains(t, body, "Grace Hopper")
	// Missing DOI renders as Pending.
	assert.Contains(t, body, "Pending")
	assert.Contains(t, body, "American Impact Review")
}

package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-backend/internal/domains/payment/model"
	submissionModel "journal-backend/internal/domains/submission/model"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/infrastructure/stripe"
)

const testSecret = "whsec_test"

// =====================================================
// FAKES
// =====================================================

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*submissionModel.Submission

	checkoutSessionID string
	checkoutAmount    decimal.Decimal
	paidID            *uuid.UUID
	failedID          *uuid.UUID
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
	return nil
}

func (r *fakeSubmissionRepo) UpdateStatusPipeline(ctx context.Context, id uuid.UUID, status submissionModel.Status, pipeline *string) error {
	return nil
}

func (r *fakeSubmissionRepo) UpdateStatusPipelineWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status submissionModel.Status, pipeline *string) error {
	return nil
}

func (r *fakeSubmissionRepo) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string, amount decimal.Decimal) error {
	r.checkoutSessionID = sessionID
	r.checkoutAmount = amount
	if sub, ok := r.submissions[id]; ok {
		sub.PaymentStatus = submissionModel.PaymentStatusPending
		sub.StripeSessionID = &sessionID
	}
	return nil
}

func (r *fakeSubmissionRepo) GetByStripeSessionID(ctx context.Context, sessionID string) (*submissionModel.Submission, error) {
	for _, sub := range r.submissions {
		if sub.StripeSessionID != nil && *sub.StripeSessionID == sessionID {
			return sub, nil
		}
	}
	return nil, submissionModel.ErrSubmissionNotFound
}

func (r *fakeSubmissionRepo) MarkPaymentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	r.paidID = &id
	return nil
}

func (r *fakeSubmissionRepo) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	r.failedID = &id
	return nil
}

func (r *fakeSubmissionRepo) ListStaleCheckouts(ctx context.Context, olderThan time.Time, limit int) ([]submissionModel.Submission, error) {
	return nil, nil
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

type fakeGateway struct {
	session *stripe.CheckoutSession
	err     error
	params  *stripe.CheckoutParams
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params stripe.CheckoutParams) (*stripe.CheckoutSession, error) {
	g.params = &params
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

type fakeEmailService struct {
	paymentLinks []email.PaymentLinkData
	sendErr      error
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
	return nil
}
func (e *fakeEmailService) SendReviewFeedback(ctx context.Context, data email.ReviewFeedbackData) error {
	return nil
}
func (e *fakeEmailService) SendEditorialDecision(ctx context.Context, data email.EditorialDecisionData) error {
	return nil
}
func (e *fakeEmailService) SendPaymentLink(ctx context.Context, data email.PaymentLinkData) error {
	e.paymentLinks = append(e.paymentLinks, data)
	return e.sendErr
}
func (e *fakeEmailService) SendPublicationNotification(ctx context.Context, data email.PublicationNotificationData) error {
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

// =====================================================
// FIXTURE
// =====================================================

type paymentFixture struct {
	svc     PaymentService
	subs    *fakeSubmissionRepo
	authors *fakeAuthorDirectory
	gateway *fakeGateway
	emails  *fakeEmailService
	audit   *fakeRecorder
}

func newPaymentFixture(subs ...*submissionModel.Submission) *paymentFixture {
	f := &paymentFixture{
		subs:    newFakeSubmissionRepo(subs...),
		authors: &fakeAuthorDirectory{authors: map[uuid.UUID]*accounts.Author{}},
		gateway: &fakeGateway{session: &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/pay/cs_test_1"}},
		emails:  &fakeEmailService{},
		audit:   &fakeRecorder{},
	}
	f.svc = NewPaymentService(f.subs, f.authors, f.gateway, f.emails, f.audit, testSecret)
	return f
}

func submissionWithAuthor(f *paymentFixture, authorEmail string) *submissionModel.Submission {
	authorID := uuid.New()
	f.authors.authors[authorID] = &accounts.Author{ID: authorID, Name: "Ada Lovelace", Email: authorEmail}
	sub := &submissionModel.Submission{
		ID:       uuid.New(),
		Title:    "Tidal Energy Forecasting",
		AuthorID: authorID,
		Status:   submissionModel.StatusAccepted,
	}
	f.subs.submissions[sub.ID] = sub
	return sub
}

func signedHeader(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func webhookPayload(eventType, sessionID, submissionID string) []byte {
	return []byte(fmt.Sprintf(
		`{"type":%q,"data":{"object":{"id":%q,"metadata":{"submissionId":%q}}}}`,
		eventType, sessionID, submissionID))
}

// =====================================================
// PAYMENT LINK
// =====================================================

func TestCreatePaymentLink(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")

	result, err := f.svc.CreatePaymentLink(context.Background(), model.CreatePaymentLinkRequest{
		SubmissionID: sub.ID,
		AmountCents:  2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", result.CheckoutURL)

	// Gateway received the submission routing metadata.
	require.NotNil(t, f.gateway.params)
	assert.Equal(t, sub.ID.String(), f.gateway.params.SubmissionID)
	assert.Equal(t, "ada@example.edu", f.gateway.params.CustomerEmail)
	assert.Equal(t, int64(2500), f.gateway.params.AmountCents)

	// Session recorded, payment pending.
	assert.Equal(t, "cs_test_1", f.subs.checkoutSessionID)
	assert.True(t, f.subs.checkoutAmount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, submissionModel.PaymentStatusPending, sub.PaymentStatus)

	// Author got the link.
	require.Len(t, f.emails.paymentLinks, 1)
	assert.Equal(t, "ada@example.edu", f.emails.paymentLinks[0].AuthorEmail)

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "payment_link_sent", f.audit.events[0].action)
	assert.Equal(t, "Amount: $25.00, Stripe session: cs_test_1", f.audit.events[0].detail)
}

func TestCreatePaymentLink_BelowMinimum(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")

	_, err := f.svc.CreatePaymentLink(context.Background(), model.CreatePaymentLinkRequest{
		SubmissionID: sub.ID,
		AmountCents:  99,
	})
	require.Error(t, err)

	var payErr *model.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, model.ErrCodeInvalidPayment, payErr.Code)
	assert.Nil(t, f.gateway.params)
}

func TestCreatePaymentLink_AuthorWithoutEmail(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "")

	_, err := f.svc.CreatePaymentLink(context.Background(), model.CreatePaymentLinkRequest{
		SubmissionID: sub.ID,
		AmountCents:  2500,
	})
	assert.ErrorIs(t, err, model.ErrAuthorNoEmail)
}

func TestCreatePaymentLink_GatewayFailure(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")
	f.gateway.err = errors.New("stripe error: status 500")

	_, err := f.svc.CreatePaymentLink(context.Background(), model.CreatePaymentLinkRequest{
		SubmissionID: sub.ID,
		AmountCents:  2500,
	})
	require.Error(t, err)

	var payErr *model.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, model.ErrCodeGatewayFailed, payErr.Code)
	// Nothing recorded on failure.
	assert.Empty(t, f.subs.checkoutSessionID)
	assert.Empty(t, f.audit.events)
}

func TestCreatePaymentLink_EmailFailureTolerated(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")
	f.emails.sendErr = errors.New("smtp connection refused")

	result, err := f.svc.CreatePaymentLink(context.Background(), model.CreatePaymentLinkRequest{
		SubmissionID: sub.ID,
		AmountCents:  2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", result.SessionID)
	require.Len(t, f.audit.events, 1)
}

func TestCreatePaymentLink_UnknownSubmission(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.CreatePaymentLink(context.Background(), model.CreatePaymentLinkRequest{
		SubmissionID: uuid.New(),
		AmountCents:  2500,
	})
	assert.ErrorIs(t, err, submissionModel.ErrSubmissionNotFound)
}

// =====================================================
// WEBHOOK
// =====================================================

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")

	payload := webhookPayload("checkout.session.completed", "cs_test_1", sub.ID.String())
	header := signedHeader(payload, testSecret, time.Now().Unix())

	require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, header))

	require.NotNil(t, f.subs.paidID)
	assert.Equal(t, sub.ID, *f.subs.paidID)
	assert.Nil(t, f.subs.failedID)

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "payment.completed", f.audit.events[0].action)
	assert.Contains(t, f.audit.events[0].detail, "cs_test_1")
}

func TestHandleWebhook_CheckoutExpired(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")

	payload := webhookPayload("checkout.session.expired", "cs_test_1", sub.ID.String())
	header := signedHeader(payload, testSecret, time.Now().Unix())

	require.NoError(t, f.svc.HandleWebhook(context.Background(), payload, header))

	require.NotNil(t, f.subs.failedID)
	assert.Equal(t, sub.ID, *f.subs.failedID)
	assert.Nil(t, f.subs.paidID)

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "payment.expired", f.audit.events[0].action)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")

	payload := webhookPayload("checkout.session.completed", "cs_test_1", sub.ID.String())
	header := signedHeader(payload, "whsec_wrong", time.Now().Unix())

	err := f.svc.HandleWebhook(context.Background(), payload, header)
	assert.ErrorIs(t, err, model.ErrInvalidSignature)
	assert.Nil(t, f.subs.paidID)
}

func TestHandleWebhook_MissingHeader(t *testing.T) {
	f := newPaymentFixture()

	err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "")
	assert.ErrorIs(t, err, model.ErrInvalidSignature)
}

func TestHandleWebhook_MalformedBody(t *testing.T) {
	f := newPaymentFixture()
	payload := []byte(`{not json`)
	header := signedHeader(payload, testSecret, time.Now().Unix())

	err := f.svc.HandleWebhook(context.Background(), payload, header)
	assert.ErrorIs(t, err, model.ErrInvalidWebhookBody)
}

func TestHandleWebhook_UnknownSubmissionAcknowledged(t *testing.T) {
	f := newPaymentFixture()

	payload := webhookPayload("checkout.session.completed", "cs_test_1", uuid.NewString())
	header := signedHeader(payload, testSecret, time.Now().Unix())

	// Metadata pointing at a deleted submission is not retryable.
	assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, header))
	assert.Nil(t, f.subs.paidID)
	assert.Empty(t, f.audit.events)
}

func TestHandleWebhook_UnknownEventTypeIgnored(t *testing.T) {
	f := newPaymentFixture()
	sub := submissionWithAuthor(f, "ada@example.edu")

	payload := webhookPayload("payment_intent.created", "pi_1", sub.ID.String())
	header := signedHeader(payload, testSecret, time.Now().Unix())

	assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, header))
	assert.Nil(t, f.subs.paidID)
	assert.Nil(t, f.subs.failedID)
}

func TestHandleWebhook_NoMetadataAcknowledged(t *testing.T) {
	f := newPaymentFixture()

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{}}}}`)
	header := signedHeader(payload, testSecret, time.Now().Unix())

	assert.NoError(t, f.svc.HandleWebhook(context.Background(), payload, header))
	assert.Nil(t, f.subs.paidID)
}

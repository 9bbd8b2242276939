package service

import (
	"context"
	"fmt"

	auditModel "journal-backend/internal/domains/audit/model"
	audit "journal-backend/internal/domains/audit/service"
	"journal-backend/internal/domains/decision/model"
	submissionModel "journal-backend/internal/domains/submission/model"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/shared/utils"
)

// DecisionService sends editorial decisions
type DecisionService interface {
	Decide(ctx context.Context, req model.DecideRequest) (*model.DecideResult, error)
}

// =====================================================
// DECISION SERVICE IMPLEMENTATION
// =====================================================
type decisionService struct {
	submissionRepo submissionRepo.SubmissionRepository
	authors        accounts.AuthorDirectory
	email          email.EmailService
	audit          audit.Recorder
}

// NewDecisionService creates a new decision service
func NewDecisionService(
	subRepo submissionRepo.SubmissionRepository,
	authors accounts.AuthorDirectory,
	emailService email.EmailService,
	auditRecorder audit.Recorder,
) DecisionService {
	return &decisionService{
		submissionRepo: subRepo,
		authors:        authors,
		email:          emailService,
		audit:          auditRecorder,
	}
}

func (s *decisionService) Decide(ctx context.Context, req model.DecideRequest) (*model.DecideResult, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewDecisionError(model.ErrCodeInvalidDecision, "Invalid decision payload", err)
	}

	sub, err := s.submissionRepo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	// Step 2: Consult the transition table. Rejecting or requesting
	// revisions on a published article is refused outright.
	event, err := submissionModel.DecisionEvent(req.Decision)
	if err != nil {
		return nil, err
	}
	result, err := submissionModel.Transition(submissionModel.Snapshot{
		Status:   sub.Status,
		Pipeline: sub.PipelineStatus,
	}, event)
	if err != nil {
		return nil, err
	}

	// Re-accepting a published submission changes nothing and sends
	// nothing, but the attempt is kept in the audit trail.
	if result.NoOp {
		s.audit.Record(ctx, auditModel.ActionDecisionNoop, "submission", sub.ID.String(),
			fmt.Sprintf(`{"decision":%q}`, req.Decision))
		return &model.DecideResult{
			SubmissionID: sub.ID,
			Decision:     req.Decision,
			Status:       sub.Status.String(),
			NoOp:         true,
		}, nil
	}

	// Step 3: The author notification is a required step. It goes out
	// before any status change so a failed send leaves the submission
	// untouched.
	author, err := s.authors.GetAuthor(ctx, sub.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	deadline := ""
	if req.RevisionDeadline != nil {
		deadline = utils.FormatDate(*req.RevisionDeadline)
	}
	if err := s.email.SendEditorialDecision(ctx, email.EditorialDecisionData{
		AuthorName:       author.Name,
		AuthorEmail:      author.Email,
		ArticleTitle:     sub.Title,
		ArticleID:        sub.ID.String(),
		Decision:         req.Decision,
		ReviewerComments: req.ReviewerComments,
		EditorComments:   req.EditorComments,
		RevisionDeadline: deadline,
	}); err != nil {
		return nil, model.ErrNotificationFailed
	}

	// Step 4: Apply the transition
	if err := s.submissionRepo.UpdateStatusPipeline(ctx, sub.ID, *result.Status, result.Pipeline); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditModel.ActionDecisionSent, "submission", sub.ID.String(),
		fmt.Sprintf(`{"decision":%q}`, req.Decision))

	return &model.DecideResult{
		SubmissionID: sub.ID,
		Decision:     req.Decision,
		Status:       result.Status.String(),
	}, nil
}

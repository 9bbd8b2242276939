package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"journal-backend/internal/domains/assignment/model"
	"journal-backend/internal/domains/assignment/repository"
	auditModel "journal-backend/internal/domains/audit/model"
	audit "journal-backend/internal/domains/audit/service"
	reviewerModel "journal-backend/internal/domains/reviewer/model"
	reviewerRepo "journal-backend/internal/domains/reviewer/repository"
	submissionModel "journal-backend/internal/domains/submission/model"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/internal/infrastructure/queue"
	"journal-backend/internal/shared"
	"journal-backend/internal/shared/utils"
	"journal-backend/pkg/logger"
)

// AssignmentService manages reviewer invitations
type AssignmentService interface {
	CreateAssignment(ctx context.Context, req model.CreateAssignmentRequest) (*model.Assignment, error)
	GetAssignment(ctx context.Context, id uuid.UUID) (*model.AssignmentWithDetails, error)
	ListAssignments(ctx context.Context, submissionID uuid.UUID) ([]model.AssignmentWithDetails, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, req model.UpdateAssignmentRequest) (*model.Assignment, error)
}

// =====================================================
// ASSIGNMENT SERVICE IMPLEMENTATION
// =====================================================
type assignmentService struct {
	repo           repository.AssignmentRepository
	submissionRepo submissionRepo.SubmissionRepository
	reviewerRepo   reviewerRepo.ReviewerRepository
	email          email.EmailService
	enqueuer       queue.Enqueuer
	audit          audit.Recorder
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	repo repository.AssignmentRepository,
	subRepo submissionRepo.SubmissionRepository,
	revRepo reviewerRepo.ReviewerRepository,
	emailService email.EmailService,
	enqueuer queue.Enqueuer,
	auditRecorder audit.Recorder,
) AssignmentService {
	return &assignmentService{
		repo:           repo,
		submissionRepo: subRepo,
		reviewerRepo:   revRepo,
		email:          emailService,
		enqueuer:       enqueuer,
		audit:          auditRecorder,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, req model.CreateAssignmentRequest) (*model.Assignment, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewAssignmentError(model.ErrCodeInvalidAssignment, "Submission and reviewer are required", err)
	}

	// Step 2: Both sides must exist, reviewer must be active
	sub, err := s.submissionRepo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, model.NewAssignmentError(model.ErrCodeSubmissionNotFound, "Submission not found", err)
	}
	rev, err := s.reviewerRepo.GetByID(ctx, req.ReviewerID)
	if err != nil {
		return nil, model.NewAssignmentError(model.ErrCodeReviewerNotFound, "Reviewer not found", err)
	}
	if rev.Status != reviewerModel.ReviewerStatusActive {
		return nil, model.NewAssignmentError(model.ErrCodeReviewerInactive, "Reviewer is inactive", reviewerModel.ErrReviewerInactive)
	}

	// Step 3: Insert the invitation
	asg, err := s.repo.Create(ctx, &model.Assignment{
		SubmissionID: req.SubmissionID,
		ReviewerID:   req.ReviewerID,
		Status:       model.AssignmentStatusInvited,
		DueAt:        req.DueAt,
	})
	if err != nil {
		return nil, err
	}

	// Step 4: Best-effort invitation email. A failed send never blocks
	// the assignment.
	deadline := ""
	if req.DueAt != nil {
		deadline = utils.FormatDate(*req.DueAt)
	}
	manuscriptURL := ""
	if sub.ManuscriptURL != nil {
		manuscriptURL = *sub.ManuscriptURL
	}
	if sendErr := s.email.SendReviewInvitation(ctx, email.ReviewInvitationData{
		ReviewerName:  rev.Name,
		ReviewerEmail: rev.Email,
		ArticleTitle:  sub.Title,
		ArticleID:     sub.ID.String(),
		Abstract:      sub.Abstract,
		Deadline:      deadline,
		ManuscriptURL: manuscriptURL,
		EditorNote:    req.EditorNote,
	}); sendErr != nil {
		logger.ErrorFields("Failed to send review invitation", sendErr, map[string]interface{}{
			"assignment_id": asg.ID.String(),
		})
	}

	// Step 5: Queue review copy generation with retry
	if enqErr := s.enqueuer.Enqueue(ctx, shared.TypeGenerateReviewCopy,
		shared.ReviewCopyPayload{AssignmentID: asg.ID.String()},
		queue.Option{Queue: shared.QueueDocuments, MaxRetry: 3, Timeout: 5 * time.Minute},
	); enqErr != nil {
		logger.ErrorFields("Failed to enqueue review copy generation", enqErr, map[string]interface{}{
			"assignment_id": asg.ID.String(),
		})
	}

	// Step 6: Advance the pipeline only from the pre-review stages
	result, err := submissionModel.Transition(submissionModel.Snapshot{
		Status:   sub.Status,
		Pipeline: sub.PipelineStatus,
	}, submissionModel.EventReviewerInvited)
	if err == nil && !result.NoOp && result.Pipeline != nil {
		if updErr := s.submissionRepo.UpdatePipeline(ctx, sub.ID, result.Pipeline); updErr != nil {
			logger.ErrorFields("Failed to advance pipeline", updErr, map[string]interface{}{
				"submission_id": sub.ID.String(),
			})
		}
	}

	s.audit.Record(ctx, auditModel.ActionAssignmentCreated, "review_assignment", asg.ID.String(), "")

	return asg, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*model.AssignmentWithDetails, error) {
	return s.repo.GetByIDWithDetails(ctx, id)
}

func (s *assignmentService) ListAssignments(ctx context.Context, submissionID uuid.UUID) ([]model.AssignmentWithDetails, error) {
	return s.repo.List(ctx, submissionID)
}

// UpdateAssignment overwrites the provided fields unconditionally
func (s *assignmentService) UpdateAssignment(ctx context.Context, id uuid.UUID, req model.UpdateAssignmentRequest) (*model.Assignment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditModel.ActionAssignmentUpdated, "review_assignment", id.String(), "")
	return updated, nil
}

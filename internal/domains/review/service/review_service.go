package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	assignmentModel "journal-backend/internal/domains/assignment/model"
	assignmentRepo "journal-backend/internal/domains/assignment/repository"
	auditModel "journal-backend/internal/domains/audit/model"
	audit "journal-backend/internal/domains/audit/service"
	"journal-backend/internal/domains/review/model"
	"journal-backend/internal/domains/review/repository"
	submissionModel "journal-backend/internal/domains/submission/model"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/pkg/logger"
)

// ReviewService manages review intake and editorial quality flags
type ReviewService interface {
	SubmitReview(ctx context.Context, req model.SubmitReviewRequest) (*model.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*model.ReviewWithDetails, error)
	ListReviews(ctx context.Context, submissionID uuid.UUID) ([]model.ReviewWithDetails, error)
	FlagReview(ctx context.Context, id uuid.UUID, req model.FlagReviewRequest) error
}

// =====================================================
// REVIEW SERVICE IMPLEMENTATION
// =====================================================
type reviewService struct {
	repo           repository.ReviewRepository
	assignmentRepo assignmentRepo.AssignmentRepository
	submissionRepo submissionRepo.SubmissionRepository
	email          email.EmailService
	audit          audit.Recorder
}

// NewReviewService creates a new review service
func NewReviewService(
	repo repository.ReviewRepository,
	asgRepo assignmentRepo.AssignmentRepository,
	subRepo submissionRepo.SubmissionRepository,
	emailService email.EmailService,
	auditRecorder audit.Recorder,
) ReviewService {
	return &reviewService{
		repo:           repo,
		assignmentRepo: asgRepo,
		submissionRepo: subRepo,
		email:          emailService,
		audit:          auditRecorder,
	}
}

func (s *reviewService) SubmitReview(ctx context.Context, req model.SubmitReviewRequest) (*model.Review, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewReviewError(model.ErrCodeInvalidReview, "Invalid review payload", err)
	}

	asg, err := s.assignmentRepo.GetByIDWithDetails(ctx, req.AssignmentID)
	if err != nil {
		return nil, model.NewReviewError(model.ErrCodeInvalidReview, "Assignment not found", err)
	}

	// Step 2: Insert the review. UNIQUE(assignment_id) turns a double
	// submit into a conflict.
	review, err := s.repo.Create(ctx, &model.Review{
		AssignmentID:     req.AssignmentID,
		Recommendation:   req.Recommendation,
		Score:            req.Score,
		CommentsToAuthor: req.CommentsToAuthor,
		CommentsToEditor: req.CommentsToEditor,
	})
	if err != nil {
		return nil, err
	}

	// Step 3: Close out the assignment
	if err := s.assignmentRepo.MarkSubmitted(ctx, asg.ID, time.Now()); err != nil {
		return nil, err
	}

	// Step 4: Best-effort confirmation to the reviewer
	if sendErr := s.email.SendReviewSubmitted(ctx, email.ReviewSubmittedData{
		ReviewerName:     asg.ReviewerName,
		ReviewerEmail:    asg.ReviewerEmail,
		SubmissionTitle:  asg.SubmissionTitle,
		SubmissionID:     asg.SubmissionID.String(),
		Recommendation:   req.Recommendation,
		Score:            req.Score,
		CommentsToAuthor: req.CommentsToAuthor,
	}); sendErr != nil {
		logger.ErrorFields("Failed to send review confirmation", sendErr, map[string]interface{}{
			"review_id": review.ID.String(),
		})
	}

	// Step 5: Recompute the aggregate after the write. Only when every
	// assignment for the submission is submitted does the pipeline
	// advance.
	if err := s.advanceIfAllSubmitted(ctx, asg.SubmissionID); err != nil {
		logger.ErrorFields("Failed to advance pipeline after review", err, map[string]interface{}{
			"submission_id": asg.SubmissionID.String(),
		})
	}

	s.audit.Record(ctx, auditModel.ActionReviewSubmitted, "review", review.ID.String(), "")

	return review, nil
}

func (s *reviewService) advanceIfAllSubmitted(ctx context.Context, submissionID uuid.UUID) error {
	assignments, err := s.assignmentRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}
	for _, a := range assignments {
		if a.Status != assignmentModel.AssignmentStatusSubmitted {
			return nil
		}
	}

	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return err
	}
	result, err := submissionModel.Transition(submissionModel.Snapshot{
		Status:   sub.Status,
		Pipeline: sub.PipelineStatus,
	}, submissionModel.EventAllReviewsSubmitted)
	if err != nil || result.NoOp || result.Pipeline == nil {
		return err
	}
	return s.submissionRepo.UpdatePipeline(ctx, submissionID, result.Pipeline)
}

func (s *reviewService) GetReview(ctx context.Context, id uuid.UUID) (*model.ReviewWithDetails, error) {
	return s.repo.GetByIDWithDetails(ctx, id)
}

func (s *reviewService) ListReviews(ctx context.Context, submissionID uuid.UUID) ([]model.ReviewWithDetails, error) {
	return s.repo.List(ctx, submissionID)
}

// FlagReview marks or clears the editorial quality flag. Flagging with
// feedback notifies the reviewer, best-effort.
func (s *reviewService) FlagReview(ctx context.Context, id uuid.UUID, req model.FlagReviewRequest) error {
	review, err := s.repo.GetByIDWithDetails(ctx, id)
	if err != nil {
		return err
	}

	var feedback *string
	if req.EditorFeedback != "" {
		feedback = &req.EditorFeedback
	}
	if err := s.repo.SetFlag(ctx, id, req.NeedsWork, feedback); err != nil {
		return err
	}

	if req.NeedsWork && req.EditorFeedback != "" {
		asg, asgErr := s.assignmentRepo.GetByIDWithDetails(ctx, review.AssignmentID)
		if asgErr != nil {
			logger.ErrorFields("Failed to resolve assignment for feedback", asgErr, map[string]interface{}{
				"review_id": id.String(),
			})
		} else if sendErr := s.email.SendReviewFeedback(ctx, email.ReviewFeedbackData{
			ReviewerName:    asg.ReviewerName,
			ReviewerEmail:   asg.ReviewerEmail,
			SubmissionTitle: asg.SubmissionTitle,
			EditorFeedback:  req.EditorFeedback,
		}); sendErr != nil {
			logger.ErrorFields("Failed to send review feedback", sendErr, map[string]interface{}{
				"review_id": id.String(),
			})
		}
	}

	action := auditModel.ActionReviewCleared
	if req.NeedsWork {
		action = auditModel.ActionReviewFlagged
	}
	s.audit.Record(ctx, action, "review", id.String(), "")

	return nil
}

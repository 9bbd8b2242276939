package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"journal-backend/internal/domains/reviewer/model"
	"journal-backend/internal/domains/reviewer/repository"
	"journal-backend/internal/infrastructure/docgen"
	"journal-backend/internal/shared/utils"
)

// ReviewerService manages the reviewer registry
type ReviewerService interface {
	CreateReviewer(ctx context.Context, req model.CreateReviewerRequest) (*model.Reviewer, error)
	GetReviewer(ctx context.Context, id uuid.UUID) (*model.Reviewer, error)
	ListReviewers(ctx context.Context, status string) ([]model.Reviewer, error)
	UpdateReviewer(ctx context.Context, id uuid.UUID, req model.UpdateReviewerRequest) (*model.Reviewer, error)
	DeactivateReviewer(ctx context.Context, id uuid.UUID) error
	RenderCertificate(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type reviewerService struct {
	repo        repository.ReviewerRepository
	journalName string
}

// NewReviewerService creates a new reviewer service
func NewReviewerService(repo repository.ReviewerRepository, journalName string) ReviewerService {
	return &reviewerService{repo: repo, journalName: journalName}
}

func (s *reviewerService) CreateReviewer(ctx context.Context, req model.CreateReviewerRequest) (*model.Reviewer, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewReviewerError(model.ErrCodeInvalidReviewer, "Invalid reviewer payload", err)
	}

	return s.repo.Create(ctx, &model.Reviewer{
		Name:        req.Name,
		Email:       req.Email,
		Affiliation: req.Affiliation,
		Expertise:   req.Expertise,
		Status:      model.ReviewerStatusActive,
	})
}

func (s *reviewerService) GetReviewer(ctx context.Context, id uuid.UUID) (*model.Reviewer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reviewerService) ListReviewers(ctx context.Context, status string) ([]model.Reviewer, error) {
	return s.repo.List(ctx, status)
}

func (s *reviewerService) UpdateReviewer(ctx context.Context, id uuid.UUID, req model.UpdateReviewerRequest) (*model.Reviewer, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewReviewerError(model.ErrCodeInvalidReviewer, "Invalid reviewer payload", err)
	}
	return s.repo.Update(ctx, id, req)
}

// DeactivateReviewer retires a reviewer without touching their history
func (s *reviewerService) DeactivateReviewer(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, model.ReviewerStatusInactive)
}

// RenderCertificate renders the certificate of reviewing. The period
// runs from registration to the present day.
func (s *reviewerService) RenderCertificate(ctx context.Context, id uuid.UUID) ([]byte, error) {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountCompletedReviews(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return docgen.RenderReviewerCertificate(docgen.ReviewerCertificateData{
		ReviewerName: rev.Name,
		Expertise:    rev.Expertise,
		ReviewCount:  count,
		PeriodFrom:   utils.FormatDate(rev.CreatedAt),
		PeriodTo:     utils.FormatDate(now),
		IssuedDate:   utils.FormatDate(now),
		JournalName:  s.journalName,
	})
}

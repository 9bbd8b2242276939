package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	auditModel "journal-backend/internal/domains/audit/model"
	audit "journal-backend/internal/domains/audit/service"
	"journal-backend/internal/domains/submission/model"
	"journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/email"
	"journal-backend/pkg/logger"
)

// =====================================================
// SUBMISSION SERVICE IMPLEMENTATION
// =====================================================
type submissionService struct {
	repo    repository.SubmissionRepository
	authors accounts.AuthorDirectory
	email   email.EmailService
	audit   audit.Recorder
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	repo repository.SubmissionRepository,
	authors accounts.AuthorDirectory,
	emailService email.EmailService,
	auditRecorder audit.Recorder,
) SubmissionService {
	return &submissionService{
		repo:    repo,
		authors: authors,
		email:   emailService,
		audit:   auditRecorder,
	}
}

func (s *submissionService) CreateSubmission(ctx context.Context, req model.CreateSubmissionRequest) (*model.SubmissionResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewSubmissionError(model.ErrCodeInvalidRequest, "Invalid submission payload", err)
	}

	// Step 2: Insert as a fresh pipeline entry
	stage := model.StageSubmitted
	sub := &model.Submission{
		Title:             req.Title,
		Abstract:          req.Abstract,
		Category:          req.Category,
		ArticleType:       req.ArticleType,
		Keywords:          req.Keywords,
		ManuscriptURL:     req.ManuscriptURL,
		ManuscriptName:    req.ManuscriptName,
		AuthorID:          req.AuthorID,
		AuthorORCID:       req.AuthorORCID,
		AuthorAffiliation: req.AuthorAffiliation,
		CoAuthors:         req.CoAuthors,
		Declarations: model.Declarations{
			Ethics:           req.Ethics,
			Funding:          req.Funding,
			DataAvailability: req.DataAvailability,
			ConflictInterest: req.ConflictInterest,
			AIDisclosure:     req.AIDisclosure,
		},
		Status:         model.StatusSubmitted,
		PipelineStatus: &stage,
		PaymentStatus:  model.PaymentStatusUnpaid,
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}

	// Step 3: Best-effort intake confirmation to the author
	if author, lookupErr := s.authors.GetAuthor(ctx, created.AuthorID); lookupErr == nil {
		manuscriptName := ""
		if created.ManuscriptName != nil {
			manuscriptName = *created.ManuscriptName
		}
		if sendErr := s.email.SendSubmissionReceived(ctx, email.SubmissionReceivedData{
			AuthorName:     author.Name,
			AuthorEmail:    author.Email,
			SubmissionID:   created.ID.String(),
			Title:          created.Title,
			Category:       created.Category,
			ManuscriptName: manuscriptName,
		}); sendErr != nil {
			logger.ErrorFields("Failed to send submission confirmation", sendErr, map[string]interface{}{
				"submission_id": created.ID.String(),
			})
		}
	}

	s.audit.Record(ctx, auditModel.ActionSubmissionCreated, "submission", created.ID.String(),
		fmt.Sprintf(`{"title":%q}`, created.Title))

	return created.ToResponse(), nil
}

func (s *submissionService) GetSubmission(ctx context.Context, id uuid.UUID) (*model.SubmissionResponse, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sub.ToResponse(), nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, req model.ListSubmissionsRequest) (*model.ListSubmissionsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	subs, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	items := make([]model.SubmissionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, *subs[i].ToResponse())
	}

	return &model.ListSubmissionsResponse{
		Submissions: items,
		Total:       total,
		Page:        req.Page,
		Limit:       req.Limit,
	}, nil
}

func (s *submissionService) UpdatePipeline(ctx context.Context, id uuid.UUID, req model.UpdatePipelineRequest) error {
	if err := req.Validate(); err != nil {
		return model.NewSubmissionError(model.ErrCodeInvalidPipelineStage, "Invalid pipeline stage", err)
	}

	// Existence check keeps the 404 separate from the update error
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	stage := req.PipelineStatus
	return s.repo.UpdatePipeline(ctx, id, &stage)
}

// ExportXLSX renders every submission into a single-sheet workbook for
// the editorial report.
func (s *submissionService) ExportXLSX(ctx context.Context) ([]byte, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{
		"ID", "Title", "Category", "Type", "Status", "Pipeline",
		"Payment Status", "Amount", "Paid At", "Submitted At",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i, sub := range subs {
		pipeline := ""
		if sub.PipelineStatus != nil {
			pipeline = *sub.PipelineStatus
		}
		amount := ""
		if sub.PaymentAmount != nil {
			amount = sub.PaymentAmount.StringFixed(2)
		}
		paidAt := ""
		if sub.PaidAt != nil {
			paidAt = sub.PaidAt.Format("2006-01-02")
		}

		row := []interface{}{
			sub.ID.String(), sub.Title, sub.Category, sub.ArticleType,
			sub.Status.String(), pipeline,
			sub.PaymentStatus.String(), amount, paidAt,
			sub.CreatedAt.Format("2006-01-02"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render export workbook: %w", err)
	}
	return buf.Bytes(), nil
}

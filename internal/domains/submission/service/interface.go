package service

import (
	"context"

	"github.com/google/uuid"

	"journal-backend/internal/domains/submission/model"
)

// =====================================================
// SUBMISSION SERVICE INTERFACE
// =====================================================
type SubmissionService interface {
	// Intake a new manuscript
	CreateSubmission(ctx context.Context, req model.CreateSubmissionRequest) (*model.SubmissionResponse, error)

	// Get submission detail by ID
	GetSubmission(ctx context.Context, id uuid.UUID) (*model.SubmissionResponse, error)

	// List submissions filtered by status / pipeline stage, paginated
	ListSubmissions(ctx context.Context, req model.ListSubmissionsRequest) (*model.ListSubmissionsResponse, error)

	// Manually move a submission to a pipeline stage (editor override)
	UpdatePipeline(ctx context.Context, id uuid.UUID, req model.UpdatePipelineRequest) error

	// ExportXLSX renders the editorial report workbook
	ExportXLSX(ctx context.Context) ([]byte, error)
}

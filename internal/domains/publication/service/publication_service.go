package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	assignmentRepo "journal-backend/internal/domains/assignment/repository"
	auditModel "journal-backend/internal/domains/audit/model"
	audit "journal-backend/internal/domains/audit/service"
	"journal-backend/internal/domains/publication/model"
	"journal-backend/internal/domains/publication/repository"
	reviewRepo "journal-backend/internal/domains/review/repository"
	submissionModel "journal-backend/internal/domains/submission/model"
	submissionRepo "journal-backend/internal/domains/submission/repository"
	"journal-backend/internal/infrastructure/accounts"
	"journal-backend/internal/infrastructure/docgen"
	"journal-backend/internal/infrastructure/queue"
	"journal-backend/internal/infrastructure/storage"
	"journal-backend/internal/shared"
	"journal-backend/internal/shared/utils"
	"journal-backend/pkg/logger"
)

// TxRunner executes fn inside a database transaction. The container
// wires pkg/database.WithTransaction here.
type TxRunner func(ctx context.Context, fn func(pgx.Tx) error) error

// slugAttempts bounds the retry loop when concurrent publishes race on
// the same sequence number.
const slugAttempts = 3

// =====================================================
// PUBLICATION SERVICE IMPLEMENTATION
// =====================================================
type publicationService struct {
	repo           repository.ArticleRepository
	submissionRepo submissionRepo.SubmissionRepository
	reviewRepo     reviewRepo.ReviewRepository
	assignmentRepo assignmentRepo.AssignmentRepository
	authors        accounts.AuthorDirectory
	storage        storage.ObjectStorage
	enqueuer       queue.Enqueuer
	audit          audit.Recorder
	views          ViewRecorder
	runTx          TxRunner
	journalName    string
	issn           string
}

// NewPublicationService creates a new publication service
func NewPublicationService(
	repo repository.ArticleRepository,
	subRepo submissionRepo.SubmissionRepository,
	revRepo reviewRepo.ReviewRepository,
	asgRepo assignmentRepo.AssignmentRepository,
	authors accounts.AuthorDirectory,
	objectStorage storage.ObjectStorage,
	enqueuer queue.Enqueuer,
	auditRecorder audit.Recorder,
	views ViewRecorder,
	runTx TxRunner,
	journalName, issn string,
) PublicationService {
	return &publicationService{
		repo:           repo,
		submissionRepo: subRepo,
		reviewRepo:     revRepo,
		assignmentRepo: asgRepo,
		authors:        authors,
		storage:        objectStorage,
		enqueuer:       enqueuer,
		audit:          auditRecorder,
		views:          views,
		runTx:          runTx,
		journalName:    journalName,
		issn:           issn,
	}
}

func (s *publicationService) Publish(ctx context.Context, req model.PublishRequest) (*model.PublishedArticle, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewPublicationError(model.ErrCodeInvalidArticle, "Invalid publish payload", err)
	}

	sub, err := s.submissionRepo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	// Step 2: One live article per submission
	if existing, exErr := s.repo.ActiveBySubmission(ctx, sub.ID); exErr == nil {
		return nil, &model.AlreadyPublishedError{ExistingID: existing.ID}
	}

	// Step 3: Only the production format can be promoted. The review
	// preview PDF is refused.
	if sub.ManuscriptName != nil && !docgen.PromotableManuscript(*sub.ManuscriptName) {
		return nil, model.ErrNotPromotable
	}

	// Step 4: Best-effort body extraction. A missing or unreadable
	// manuscript publishes with empty content.
	content := s.extractContent(ctx, sub)

	// Step 5: Build the ordered author lists
	authorNames, affiliations, orcids, err := s.buildAuthorLists(ctx, sub)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	receivedAt := sub.CreatedAt
	if receivedAt.IsZero() {
		receivedAt = now
	}
	year := now.Year()

	// Step 6: Allocate the slug and insert, all in one transaction with
	// the submission state change. UNIQUE(slug) catches races; retry
	// with a fresh scan.
	var created *model.PublishedArticle
	for attempt := 1; attempt <= slugAttempts; attempt++ {
		slug, slugErr := s.nextSlug(ctx, year)
		if slugErr != nil {
			return nil, slugErr
		}

		txErr := s.runTx(ctx, func(tx pgx.Tx) error {
			art, insErr := s.repo.CreateWithTx(ctx, tx, &model.PublishedArticle{
				SubmissionID: &sub.ID,
				Title:        sub.Title,
				Slug:         slug,
				Abstract:     sub.Abstract,
				Authors:      authorNames,
				Affiliations: affiliations,
				ORCIDs:       orcids,
				Keywords:     sub.Keywords,
				Content:      content,
				Volume:       req.Volume,
				Issue:        req.Issue,
				Year:         &year,
				DOI:          req.DOI,
				Status:       model.ArticleStatusPublished,
				Visibility:   model.VisibilityPrivate,
				ReceivedAt:   &receivedAt,
				AcceptedAt:   &now,
				PublishedAt:  &now,
			})
			if insErr != nil {
				return insErr
			}

			result, trErr := submissionModel.Transition(submissionModel.Snapshot{
				Status:   sub.Status,
				Pipeline: sub.PipelineStatus,
			}, submissionModel.EventPublish)
			if trErr != nil {
				return trErr
			}
			if upErr := s.submissionRepo.UpdateStatusPipelineWithTx(ctx, tx, sub.ID, *result.Status, result.Pipeline); upErr != nil {
				return upErr
			}

			created = art
			return nil
		})

		if txErr == nil {
			break
		}
		if txErr == model.ErrSlugTaken {
			if attempt == slugAttempts {
				return nil, model.ErrSlugExhausted
			}
			continue
		}
		if apErr, ok := model.IsAlreadyPublished(txErr); ok {
			// Lost the race: resolve the winner for the conflict body
			if existing, exErr := s.repo.ActiveBySubmission(ctx, sub.ID); exErr == nil {
				apErr.ExistingID = existing.ID
			}
			return nil, apErr
		}
		return nil, txErr
	}

	// Step 7: Author notification goes through the queue with retry
	if enqErr := s.enqueuer.Enqueue(ctx, shared.TypeSendPublicationNotice,
		shared.PublicationNoticePayload{ArticleID: created.ID.String()},
		queue.Option{Queue: shared.QueueEmails, MaxRetry: 3, Timeout: time.Minute},
	); enqErr != nil {
		logger.ErrorFields("Failed to enqueue publication notice", enqErr, map[string]interface{}{
			"article_id": created.ID.String(),
		})
	}

	s.audit.Record(ctx, auditModel.ActionPublishingCreated, "published_article", created.ID.String(),
		fmt.Sprintf(`{"title":%q,"slug":%q,"contentLength":%d}`, created.Title, created.Slug, len(content)))

	return created, nil
}

// extractContent pulls plain text out of the stored manuscript. Failures
// are logged and result in an empty body.
func (s *publicationService) extractContent(ctx context.Context, sub *submissionModel.Submission) string {
	if sub.ManuscriptName == nil || !docgen.PromotableManuscript(*sub.ManuscriptName) {
		return ""
	}
	key := fmt.Sprintf("manuscripts/%s/%s", sub.ID, *sub.ManuscriptName)
	data, err := s.storage.Download(ctx, key)
	if err != nil {
		logger.ErrorFields("Manuscript download failed, publishing without content", err, map[string]interface{}{
			"submission_id": sub.ID.String(),
		})
		return ""
	}
	text, err := docgen.ExtractDocxText(data)
	if err != nil {
		logger.ErrorFields("Manuscript extraction failed, publishing without content", err, map[string]interface{}{
			"submission_id": sub.ID.String(),
		})
		return ""
	}
	return text
}

// buildAuthorLists resolves the lead author from the account directory
// and appends co-authors in submission order. Empty affiliations and
// ORCIDs are filtered out.
func (s *publicationService) buildAuthorLists(ctx context.Context, sub *submissionModel.Submission) ([]string, []string, []string, error) {
	author, err := s.authors.GetAuthor(ctx, sub.AuthorID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to resolve lead author: %w", err)
	}

	names := []string{author.Name}
	affiliations := []string{sub.LeadAuthorAffiliation(author.Affiliation)}
	orcids := []string{sub.LeadAuthorORCID(author.ORCID)}

	for _, co := range sub.CoAuthors {
		names = append(names, co.Name)
		affiliations = append(affiliations, co.Affiliation)
		orcids = append(orcids, co.ORCID)
	}

	return names, filterEmpty(affiliations), filterEmpty(orcids), nil
}

func filterEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// nextSlug allocates e<year><seq>: the first article of a year gets
// e<year>001, after that the highest existing sequence plus one.
func (s *publicationService) nextSlug(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("e%d", year)

	maxSlug, found, err := s.repo.MaxSlug(ctx, prefix)
	if err != nil {
		return "", err
	}
	if !found {
		return prefix + "001", nil
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(maxSlug, prefix))
	if err != nil {
		return "", model.NewPublicationError(model.ErrCodeSlugExhausted,
			fmt.Sprintf("unparseable slug %q in sequence", maxSlug), err)
	}
	return fmt.Sprintf("%s%03d", prefix, seq+1), nil
}

func (s *publicationService) ListArticles(ctx context.Context) ([]model.PublishedArticle, error) {
	return s.repo.List(ctx)
}

func (s *publicationService) GetArticle(ctx context.Context, id uuid.UUID) (*model.PublishedArticle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *publicationService) GetArticleBySlug(ctx context.Context, slug string) (*model.PublishedArticle, error) {
	art, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if art.Status != model.ArticleStatusPublished {
		return nil, model.ErrArticleNotFound
	}

	if s.views != nil {
		if recErr := s.views.Record(ctx, art.ID.String()); recErr != nil {
			logger.Error("Failed to buffer article view", recErr)
		}
	}
	return art, nil
}

func (s *publicationService) UpdateArticle(ctx context.Context, id uuid.UUID, req model.UpdateArticleRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	// Moving into published stamps the timestamp, like the original
	// publish action does.
	var publishedAt *time.Time
	if req.Status != nil && model.ArticleStatus(*req.Status) == model.ArticleStatusPublished {
		now := time.Now()
		publishedAt = &now
	}

	if err := s.repo.Update(ctx, id, req, publishedAt); err != nil {
		return err
	}

	s.audit.Record(ctx, auditModel.ActionPublishingUpdated, "published_article", id.String(), "")
	return nil
}

// ArchiveArticle retires the article and tears down the submission's
// review state in a single transaction: article to archived, submission
// to rejected with pipeline archived, reviews deleted, then assignments.
func (s *publicationService) ArchiveArticle(ctx context.Context, id uuid.UUID) error {
	art, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.SetStatusWithTx(ctx, tx, art.ID, model.ArticleStatusArchived); err != nil {
			return err
		}
		if art.SubmissionID == nil {
			return nil
		}

		sub, err := s.submissionRepo.GetByID(ctx, *art.SubmissionID)
		if err != nil {
			return err
		}
		result, err := submissionModel.Transition(submissionModel.Snapshot{
			Status:   sub.Status,
			Pipeline: sub.PipelineStatus,
		}, submissionModel.EventArchive)
		if err != nil {
			return err
		}
		if err := s.submissionRepo.UpdateStatusPipelineWithTx(ctx, tx, sub.ID, *result.Status, result.Pipeline); err != nil {
			return err
		}

		// Reviews first, they reference the assignments
		if err := s.reviewRepo.DeleteBySubmissionWithTx(ctx, tx, sub.ID); err != nil {
			return err
		}
		return s.assignmentRepo.DeleteBySubmissionWithTx(ctx, tx, sub.ID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditModel.ActionPublishingArchived, "published_article", art.ID.String(), "")
	return nil
}

// Deduplicate keeps the newest article row and hard-deletes the rest
func (s *publicationService) Deduplicate(ctx context.Context, submissionID uuid.UUID) (*model.PublishedArticle, error) {
	articles, err := s.repo.GetBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, model.ErrArticleNotFound
	}

	kept := articles[0]
	if len(articles) > 1 {
		stale := make([]uuid.UUID, 0, len(articles)-1)
		for _, art := range articles[1:] {
			stale = append(stale, art.ID)
		}
		if err := s.repo.Delete(ctx, stale); err != nil {
			return nil, err
		}
		logger.Info("Removed duplicate article rows", map[string]interface{}{
			"submission_id": submissionID.String(),
			"kept":          kept.ID.String(),
			"removed":       len(stale),
		})
	}
	return &kept, nil
}

// GetBySubmission runs the dedupe repair before returning the row
func (s *publicationService) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*model.PublishedArticle, error) {
	return s.Deduplicate(ctx, submissionID)
}

// SetStatusBySubmission unpublishes or republishes the article
func (s *publicationService) SetStatusBySubmission(ctx context.Context, submissionID uuid.UUID, req model.SetStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	// Repair duplicates before touching status
	if _, err := s.Deduplicate(ctx, submissionID); err != nil {
		return err
	}

	status := model.ArticleStatus(req.Status)
	var publishedAt *time.Time
	action := auditModel.ActionUnpublished
	if status == model.ArticleStatusPublished {
		now := time.Now()
		publishedAt = &now
		action = auditModel.ActionRepublished
	}

	if err := s.repo.SetStatusBySubmission(ctx, submissionID, status, publishedAt); err != nil {
		return err
	}

	s.audit.Record(ctx, action, "published_article", submissionID.String(),
		fmt.Sprintf(`{"status":%q}`, req.Status))
	return nil
}

// RenderCertificate renders the certificate of publication for the lead
// author.
func (s *publicationService) RenderCertificate(ctx context.Context, id uuid.UUID) ([]byte, error) {
	art, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	leadAuthor := ""
	if len(art.Authors) > 0 {
		leadAuthor = art.Authors[0]
	}
	received := ""
	if art.ReceivedAt != nil {
		received = utils.FormatDate(*art.ReceivedAt)
	}
	published := ""
	if art.PublishedAt != nil {
		published = utils.FormatDate(*art.PublishedAt)
	}
	doi := ""
	if art.DOI != nil {
		doi = *art.DOI
	}

	return docgen.RenderPublicationCertificate(docgen.PublicationCertificateData{
		Title:         art.Title,
		AuthorName:    leadAuthor,
		ReceivedDate:  received,
		PublishedDate: published,
		DOI:           doi,
		ISSN:          s.issn,
		JournalName:   s.journalName,
	})
}

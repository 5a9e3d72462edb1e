package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/publicpulse/publicpulse-api/internal/dto"
	"github.com/publicpulse/publicpulse-api/internal/models"
	"github.com/publicpulse/publicpulse-api/internal/repository"
)

var (
	// ErrIssueTitleTaken indicates a report reused an existing title.
	ErrIssueTitleTaken = errors.New("issue with this title already exists")
	// ErrIssueNotFound indicates the referenced issue does not exist.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrPhotoTooLarge indicates the uploaded photo exceeded the size limit.
	ErrPhotoTooLarge = errors.New("photo exceeds maximum allowed size")
	// ErrPhotoTypeNotAllowed indicates the upload is not an image.
	ErrPhotoTypeNotAllowed = errors.New("photo must be an image")
)

// Vote outcomes reported to the caller.
const (
	VoteActionIncremented = "incremented"
	VoteActionCreated     = "created"
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// IssueService exposes the issue reporting, voting and triage workflows.
type IssueService interface {
	SubmitReport(ctx context.Context, req dto.ReportRequest, photo *multipart.FileHeader) (uint, error)
	Vote(ctx context.Context, req dto.VoteRequest) (string, error)
	ListPublic(ctx context.Context) ([]dto.IssueResponse, error)
	ListAdmin(ctx context.Context) ([]dto.IssueResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) error
}

type issueService struct {
	issues    repository.IssueRepository
	logs      repository.ReportLogRepository
	storage   FileStorage
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
	maxPhoto  int64
	tracer    trace.Tracer
}

// NewIssueService constructs the issue service.
func NewIssueService(issues repository.IssueRepository, logs repository.ReportLogRepository, storage FileStorage, validate *validator.Validate, maxPhotoMB int, logger zerolog.Logger) IssueService {
	if maxPhotoMB <= 0 {
		maxPhotoMB = 16
	}
	return &issueService{
		issues:    issues,
		logs:      logs,
		storage:   storage,
		validator: validate,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "issue_service").Logger(),
		maxPhoto:  int64(maxPhotoMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/publicpulse/publicpulse-api/internal/service/issue"),
	}
}

func (s *issueService) SubmitReport(ctx context.Context, req dto.ReportRequest, photo *multipart.FileHeader) (uint, error) {
	ctx, span := s.tracer.Start(ctx, "issue.submit_report")
	defer span.End()

	// Sanitize before validating so markup-only input fails required
	// instead of persisting as an empty field.
	req.Title = s.cleanText(req.Title)
	req.Description = s.cleanText(req.Description)
	req.Location = s.cleanText(req.Location)

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return 0, err
	}

	issue := models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Status:      models.IssueStatusPending,
	}
	span.SetAttributes(attribute.String("issue.title", issue.Title))

	if photo != nil {
		stored, err := s.storePhoto(ctx, photo)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "photo rejected")
			return 0, err
		}
		issue.PhotoPath = stored
	}

	if err := s.issues.Create(ctx, &issue); err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "duplicate title")
			return 0, ErrIssueTitleTaken
		}
		span.SetStatus(codes.Error, "persistence failed")
		return 0, err
	}

	// The audit append is best-effort: the report itself is already
	// committed and must not be rolled back by a logging failure.
	entry := models.ReportLog{
		IssueID:  issue.ID,
		Action:   models.ReportLogActionCreated,
		Metadata: datatypes.JSONMap{"title": issue.Title},
	}
	if err := s.logs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Uint("issue_id", issue.ID).Msg("failed to append report log entry")
	}

	s.logger.Info().Uint("issue_id", issue.ID).Str("title", issue.Title).Msg("issue reported")
	span.SetStatus(codes.Ok, "created")

	return issue.ID, nil
}

// Vote increments the counter for an existing title or creates the issue with
// a single vote. Two concurrent first votes on an unseen title can both miss
// the increment and race into the unique title constraint; the loser retries
// as an increment so neither caller ever sees the constraint violation.
func (s *issueService) Vote(ctx context.Context, req dto.VoteRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "issue.vote")
	defer span.End()

	req.Title = s.cleanText(req.Title)
	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return "", err
	}

	title := req.Title
	span.SetAttributes(attribute.String("issue.title", title))

	rows, err := s.issues.IncrementVotes(ctx, title)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "increment failed")
		return "", err
	}
	if rows > 0 {
		span.SetStatus(codes.Ok, VoteActionIncremented)
		return VoteActionIncremented, nil
	}

	issue := models.Issue{
		Title:  title,
		Votes:  1,
		Status: models.IssueStatusPending,
	}
	err = s.issues.Create(ctx, &issue)
	if err == nil {
		s.logger.Info().Str("title", title).Msg("issue created by first vote")
		span.SetStatus(codes.Ok, VoteActionCreated)
		return VoteActionCreated, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if _, retryErr := s.issues.IncrementVotes(ctx, title); retryErr != nil {
			span.RecordError(retryErr)
			span.SetStatus(codes.Error, "retry increment failed")
			return "", retryErr
		}
		span.SetStatus(codes.Ok, VoteActionIncremented)
		return VoteActionIncremented, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "persistence failed")
	return "", err
}

func (s *issueService) ListPublic(ctx context.Context) ([]dto.IssueResponse, error) {
	issues, err := s.issues.ListByVotes(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewIssueResponses(issues), nil
}

func (s *issueService) ListAdmin(ctx context.Context) ([]dto.IssueResponse, error) {
	issues, err := s.issues.ListByCreated(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewIssueResponses(issues), nil
}

func (s *issueService) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest) error {
	ctx, span := s.tracer.Start(ctx, "issue.update_status")
	defer span.End()

	req.Status = s.cleanText(req.Status)
	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	status := req.Status
	span.SetAttributes(attribute.Int("issue.id", int(req.IssueID)), attribute.String("issue.status", status))

	rows, err := s.issues.UpdateStatus(ctx, req.IssueID, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}
	if rows == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrIssueNotFound
	}

	entry := models.ReportLog{
		IssueID:  req.IssueID,
		Action:   models.ReportLogActionStatusPrefix + status,
		Metadata: datatypes.JSONMap{"status": status},
	}
	if err := s.logs.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Uint("issue_id", req.IssueID).Msg("failed to append status log entry")
	}

	s.logger.Info().Uint("issue_id", req.IssueID).Str("status", status).Msg("issue status updated")
	span.SetStatus(codes.Ok, "updated")

	return nil
}

// storePhoto validates the upload and writes it under a randomized,
// collision-resistant name. The file write happens outside the database
// transaction, so a crash between write and commit can orphan a file; that
// matches the historical behavior.
func (s *issueService) storePhoto(ctx context.Context, photo *multipart.FileHeader) (string, error) {
	if photo.Size > s.maxPhoto {
		return "", ErrPhotoTooLarge
	}

	handle, err := photo.Open()
	if err != nil {
		return "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxPhoto+1)); err != nil {
		return "", err
	}
	if int64(buf.Len()) > s.maxPhoto {
		return "", ErrPhotoTooLarge
	}

	if !strings.HasPrefix(mimetype.Detect(buf.Bytes()).String(), "image/") {
		return "", ErrPhotoTypeNotAllowed
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	name := token + "_" + photo.Filename

	return s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
}

func (s *issueService) cleanText(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}

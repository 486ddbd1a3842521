package tailored

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/extract"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/storage/object"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/shared/util"
	"jobassist-backend/internal/tailored/render"
)

// keyRoot keeps tailored files apart from the "user-" directories that résumé
// replacement and the orphan sweeper own.
const keyRoot = "tailored/"

// JobResolver resolves a job id for a user.
type JobResolver interface {
	Lookup(ctx context.Context, userID, jobID string) (jobs.Job, error)
}

// TextFunc extracts plain text from a stored résumé file.
type TextFunc func(ctx context.Context, data []byte, fileType string) (string, error)

// Service renders, stores and serves tailored résumés.
type Service struct {
	Store object.BlobStore
	Repo  Repo
	Jobs  JobResolver
	Text  TextFunc
	Now   func() time.Time
}

// NewService constructs a Service with the default text extractor.
func NewService(store object.BlobStore, repo Repo, jobResolver JobResolver) *Service {
	return &Service{
		Store: store,
		Repo:  repo,
		Jobs:  jobResolver,
		Text:  extract.ExtractTextFromBytes,
		Now:   time.Now,
	}
}

// Prefix is the blob key directory holding a user's tailored files.
func Prefix(userID string) string {
	return keyRoot + resumes.UserPrefix(userID)
}

// Tailor builds the tailored résumé for app once. Later calls return the
// stored record so a retried application keeps the document it was sent with.
func (s *Service) Tailor(ctx context.Context, app applications.Application) (TailoredResume, error) {
	const op = "tailored.Tailor"
	existing, err := s.Repo.GetByApplication(ctx, app.UserID, app.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return TailoredResume{}, apperr.RemoteStore(op, "failed to read the tailored résumé", err)
	}

	job, err := s.Jobs.Lookup(ctx, app.UserID, app.JobID)
	if err != nil {
		return TailoredResume{}, err
	}
	snapshot := app.ResumeSnapshot
	plan := BuildPlan(snapshot, job, s.sourceText(ctx, snapshot))
	data, err := render.RenderDOCX(plan.Document)
	if err != nil {
		return TailoredResume{}, apperr.E(apperr.KindInternal, op, "failed to render the tailored résumé", err)
	}

	key := Prefix(app.UserID) + app.ID + ".docx"
	size, err := s.Store.Put(ctx, key, render.ContentType, bytes.NewReader(data))
	if err != nil {
		return TailoredResume{}, apperr.RemoteStore(op, "failed to store the tailored résumé", err)
	}

	t := TailoredResume{
		ID:            uuid.NewString(),
		UserID:        app.UserID,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		ResumeID:      snapshot.ID,
		FileName:      fileName(snapshot.FileName, job.Title),
		FileRef:       key,
		SizeBytes:     size,
		MatchedSkills: plan.Matched,
		MissingSkills: plan.Missing,
		Source:        plan.Source,
		CreatedAt:     s.Now().UTC(),
	}
	if err := s.Repo.Upsert(ctx, t); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("tailored.cleanup_failed", map[string]any{"user_id": app.UserID, "key": key, "error": delErr})
		}
		return TailoredResume{}, apperr.RemoteStore(op, "failed to save the tailored résumé", err)
	}

	metrics.IncTailoredResume()
	telemetry.Info("tailored.created", map[string]any{
		"user_id":        app.UserID,
		"application_id": app.ID,
		"job_id":         app.JobID,
		"matched":        len(plan.Matched),
		"missing":        len(plan.Missing),
		"source":         string(plan.Source),
	})
	return t, nil
}

// TailorApplication lets the application ledger trigger tailoring.
func (s *Service) TailorApplication(ctx context.Context, app applications.Application) error {
	_, err := s.Tailor(ctx, app)
	return err
}

// sourceText reads the snapshot's file. The file may already be gone after
// a replacement, in which case the plan falls back to keywords.
func (s *Service) sourceText(ctx context.Context, snapshot resumes.Resume) string {
	if snapshot.FileRef == "" || s.Text == nil {
		return ""
	}
	rc, err := s.Store.Open(ctx, snapshot.FileRef)
	if err != nil {
		if !errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("tailored.source_unavailable", map[string]any{"user_id": snapshot.UserID, "error": err})
		}
		return ""
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, resumes.MaxFileSize+1))
	if err != nil {
		telemetry.Warn("tailored.source_unavailable", map[string]any{"user_id": snapshot.UserID, "error": err})
		return ""
	}
	text, err := s.Text(ctx, data, string(snapshot.FileType))
	if err != nil {
		telemetry.Warn("tailored.extract_failed", map[string]any{"user_id": snapshot.UserID, "error": err})
		return ""
	}
	return text
}

func fileName(original, jobTitle string) string {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(original, "\\", "/")), path.Ext(original))
	if base == "" || base == "." || base == "/" {
		base = "resume"
	}
	return util.SanitizeKeyComponent(base) + "_" + util.SanitizeKeyComponent(jobTitle) + ".docx"
}

// Get returns the tailored résumé of one application.
func (s *Service) Get(ctx context.Context, userID, applicationID string) (TailoredResume, error) {
	const op = "tailored.Get"
	if strings.TrimSpace(userID) == "" {
		return TailoredResume{}, apperr.Validation(op, "user id is required")
	}
	t, err := s.Repo.GetByApplication(ctx, userID, applicationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TailoredResume{}, apperr.NotFound(op, "no tailored résumé for this application")
		}
		return TailoredResume{}, apperr.RemoteStore(op, "failed to read the tailored résumé", err)
	}
	return t, nil
}

// List returns the user's tailored résumés newest first.
func (s *Service) List(ctx context.Context, userID string) ([]TailoredResume, error) {
	const op = "tailored.List"
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation(op, "user id is required")
	}
	items, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.RemoteStore(op, "failed to list tailored résumés", err)
	}
	if items == nil {
		items = []TailoredResume{}
	}
	return items, nil
}

// Open streams the tailored file of one application.
func (s *Service) Open(ctx context.Context, userID, applicationID string) (io.ReadCloser, TailoredResume, error) {
	const op = "tailored.Open"
	t, err := s.Get(ctx, userID, applicationID)
	if err != nil {
		return nil, TailoredResume{}, err
	}
	rc, err := s.Store.Open(ctx, t.FileRef)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, TailoredResume{}, apperr.NotFound(op, "tailored résumé file is missing")
		}
		return nil, TailoredResume{}, apperr.RemoteStore(op, "failed to open the tailored résumé", err)
	}
	return rc, t, nil
}

// SignedURL returns a time-limited download link for a tailored résumé.
func (s *Service) SignedURL(ctx context.Context, t TailoredResume, ttl time.Duration) (string, time.Time, error) {
	const op = "tailored.SignedURL"
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	url, err := s.Store.SignedURL(ctx, t.FileRef, ttl)
	if err != nil {
		return "", time.Time{}, apperr.RemoteStore(op, "failed to sign the download link", err)
	}
	return url, s.Now().Add(ttl).UTC(), nil
}

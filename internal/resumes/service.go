package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/extract"
	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/storage/object"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/shared/util"
)

// Recomputer refreshes a user's recommendations after the résumé changes.
type Recomputer interface {
	Recompute(ctx context.Context, userID string, r *Resume) error
}

// Notifier appends a user notification.
type Notifier interface {
	Notify(ctx context.Context, userID, level, message string) error
}

// KeywordFunc derives search keywords from a file's content.
type KeywordFunc func(ctx context.Context, data []byte, fileType string) ([]string, error)

// Service owns the single active résumé per user.
type Service struct {
	Store       object.BlobStore
	Repo        Repo
	Recommender Recomputer
	Notifier    Notifier
	Keywords    KeywordFunc
	Now         func() time.Time

	stampMu   sync.Mutex
	lastStamp int64
}

// NewService constructs a Service with the default keyword extractor.
func NewService(store object.BlobStore, repo Repo, rec Recomputer, notifier Notifier) *Service {
	return &Service{
		Store:       store,
		Repo:        repo,
		Recommender: rec,
		Notifier:    notifier,
		Keywords:    extract.Keywords,
		Now:         time.Now,
	}
}

// UserPrefix is the blob key directory holding a user's files.
func UserPrefix(userID string) string {
	return "user-" + userID + "/"
}

// Replace validates the upload, removes every prior file and record for the
// user, stores the new file and record, then refreshes recommendations.
// On failure the user may be left with no résumé but never with two.
func (s *Service) Replace(ctx context.Context, userID, fileName string, data []byte) (Resume, error) {
	const op = "resumes.Replace"
	start := time.Now()

	fileType, err := Validate(userID, fileName, int64(len(data)))
	if err != nil {
		return Resume{}, err
	}

	res, err := s.replace(ctx, op, userID, fileName, fileType, data)
	if err != nil {
		metrics.IncResumeReplaceFailed()
		telemetry.Error("resume.replace_failed", map[string]any{
			"user_id":   userID,
			"file_name": fileName,
			"error":     err,
		})
		return Resume{}, err
	}

	metrics.IncResumeReplace()
	metrics.ObserveResumeReplaceDurationMs(metrics.SinceMillis(start))
	telemetry.Info("resume.replaced", map[string]any{
		"user_id":    userID,
		"resume_id":  res.ID,
		"file_ref":   res.FileRef,
		"size_bytes": res.SizeBytes,
		"keywords":   len(res.Keywords),
	})

	s.notify(ctx, userID, "info", fmt.Sprintf("Resume %q uploaded successfully.", fileName))
	return res, nil
}

func (s *Service) replace(ctx context.Context, op, userID, fileName string, fileType FileType, data []byte) (Resume, error) {
	keywords := s.extractKeywords(ctx, userID, data, fileType)

	existing, err := s.Repo.Get(ctx, userID)
	hasExisting := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Resume{}, apperr.RemoteStore(op, "failed to read the current résumé", err)
	}

	blobs, err := s.Store.List(ctx, UserPrefix(userID))
	if err != nil {
		return Resume{}, apperr.RemoteStore(op, "failed to list stored files", err)
	}
	stale := make([]string, 0, len(blobs)+1)
	seen := make(map[string]struct{}, len(blobs)+1)
	for _, b := range blobs {
		seen[b.Key] = struct{}{}
		stale = append(stale, b.Key)
	}
	if hasExisting && existing.FileRef != "" {
		if _, ok := seen[existing.FileRef]; !ok {
			stale = append(stale, existing.FileRef)
		}
	}

	if len(stale) > 0 {
		if err := s.Store.Delete(ctx, stale...); err != nil {
			return Resume{}, apperr.RemoteStore(op, "failed to delete the previous résumé file", err)
		}
	}
	if hasExisting {
		if err := s.Repo.Delete(ctx, userID); err != nil {
			return Resume{}, apperr.RemoteStore(op, "failed to delete the previous résumé record", err)
		}
	}

	key := fmt.Sprintf("%s%d_%s", UserPrefix(userID), s.nextStamp(), util.SanitizeKeyComponent(fileName))
	size, err := s.Store.Put(ctx, key, fileType.ContentType(), bytes.NewReader(data))
	if err != nil {
		return Resume{}, apperr.RemoteStore(op, "failed to store the résumé file", err)
	}

	res := Resume{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    fileName,
		FileRef:     key,
		FileType:    fileType,
		ContentType: fileType.ContentType(),
		SizeBytes:   size,
		Keywords:    keywords,
		UploadDate:  s.Now().UTC(),
	}
	if err := s.Repo.Insert(ctx, res); err != nil {
		return Resume{}, apperr.RemoteStore(op, "failed to save the résumé record", err)
	}

	if s.Recommender != nil {
		if err := s.Recommender.Recompute(ctx, userID, &res); err != nil {
			return Resume{}, apperr.RemoteStore(op, "résumé saved but recommendations were not refreshed", err)
		}
	}
	return res, nil
}

func (s *Service) extractKeywords(ctx context.Context, userID string, data []byte, fileType FileType) []string {
	if s.Keywords == nil {
		return []string{}
	}
	keywords, err := s.Keywords(ctx, data, string(fileType))
	if err != nil {
		telemetry.Warn("resume.keywords_failed", map[string]any{"user_id": userID, "error": err})
		return []string{}
	}
	if keywords == nil {
		return []string{}
	}
	return keywords
}

// nextStamp returns a millisecond timestamp that never repeats within the process.
func (s *Service) nextStamp() int64 {
	s.stampMu.Lock()
	defer s.stampMu.Unlock()
	now := s.Now().UnixMilli()
	if now <= s.lastStamp {
		now = s.lastStamp + 1
	}
	s.lastStamp = now
	return now
}

func (s *Service) notify(ctx context.Context, userID, level, message string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, userID, level, message); err != nil {
		telemetry.Warn("resume.notify_failed", map[string]any{"user_id": userID, "error": err})
	}
}

// GetActive returns the user's résumé, or nil when none is on file.
func (s *Service) GetActive(ctx context.Context, userID string) (*Resume, error) {
	const op = "resumes.GetActive"
	if userID == "" {
		return nil, apperr.Validation(op, "user id is required")
	}
	res, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.RemoteStore(op, "failed to read the current résumé", err)
	}
	return &res, nil
}

// Open streams the active résumé file.
func (s *Service) Open(ctx context.Context, userID string) (io.ReadCloser, Resume, error) {
	const op = "resumes.Open"
	res, err := s.requireActive(ctx, op, userID)
	if err != nil {
		return nil, Resume{}, err
	}
	rc, err := s.Store.Open(ctx, res.FileRef)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, Resume{}, apperr.NotFound(op, "résumé file is missing")
		}
		return nil, Resume{}, apperr.RemoteStore(op, "failed to open the résumé file", err)
	}
	return rc, res, nil
}

// SignedURL returns a time-limited download link for the active résumé.
func (s *Service) SignedURL(ctx context.Context, userID string, ttl time.Duration) (string, time.Time, error) {
	const op = "resumes.SignedURL"
	res, err := s.requireActive(ctx, op, userID)
	if err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	url, err := s.Store.SignedURL(ctx, res.FileRef, ttl)
	if err != nil {
		return "", time.Time{}, apperr.RemoteStore(op, "failed to sign the download link", err)
	}
	return url, s.Now().Add(ttl).UTC(), nil
}

func (s *Service) requireActive(ctx context.Context, op, userID string) (Resume, error) {
	res, err := s.GetActive(ctx, userID)
	if err != nil {
		return Resume{}, err
	}
	if res == nil {
		return Resume{}, apperr.NotFound(op, "no résumé on file")
	}
	return *res, nil
}

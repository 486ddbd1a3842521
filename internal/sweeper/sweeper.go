// Package sweeper removes résumé blobs that no metadata record references.
// They appear when a replace fails half-way or two replaces race.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/storage/object"
	"jobassist-backend/internal/shared/telemetry"
)

// DefaultGrace keeps blobs of an in-flight replace out of reach.
const DefaultGrace = 15 * time.Minute

const userDirPrefix = "user-"

// Result summarizes one sweep.
type Result struct {
	Users   int
	Scanned int
	Deleted int
	// Failed counts users skipped because their record could not be read.
	Failed int
}

// Sweeper compares stored blobs with the active résumé records.
type Sweeper struct {
	Store   object.BlobStore
	Resumes resumes.Repo
	Grace   time.Duration
	Now     func() time.Time
}

// New constructs a Sweeper. A non-positive grace uses DefaultGrace.
func New(store object.BlobStore, repo resumes.Repo, grace time.Duration) *Sweeper {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Sweeper{Store: store, Resumes: repo, Grace: grace, Now: time.Now}
}

// Sweep deletes every blob under user-*/ that is older than the grace period
// and is not the FileRef of its user's active résumé.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result
	objects, err := s.Store.List(ctx, userDirPrefix)
	if err != nil {
		return res, fmt.Errorf("list blobs: %w", err)
	}
	res.Scanned = len(objects)

	byUser := make(map[string][]object.ObjectInfo)
	for _, obj := range objects {
		userID, ok := ownerOf(obj.Key)
		if !ok {
			continue
		}
		byUser[userID] = append(byUser[userID], obj)
	}
	users := make([]string, 0, len(byUser))
	for userID := range byUser {
		users = append(users, userID)
	}
	sort.Strings(users)
	res.Users = len(users)

	cutoff := s.Now().Add(-s.Grace)
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		activeRef := ""
		rec, err := s.Resumes.Get(ctx, userID)
		switch {
		case err == nil:
			activeRef = rec.FileRef
		case errors.Is(err, resumes.ErrNotFound):
		default:
			res.Failed++
			telemetry.Warn("sweeper.record_lookup_failed", map[string]any{"user_id": userID, "error": err})
			continue
		}

		var stale []string
		for _, obj := range byUser[userID] {
			if obj.Key == activeRef || obj.LastModified.After(cutoff) {
				continue
			}
			stale = append(stale, obj.Key)
		}
		if len(stale) == 0 {
			continue
		}
		if err := s.Store.Delete(ctx, stale...); err != nil {
			res.Failed++
			telemetry.Warn("sweeper.delete_failed", map[string]any{"user_id": userID, "keys": stale, "error": err})
			continue
		}
		res.Deleted += len(stale)
		telemetry.Info("sweeper.orphans_deleted", map[string]any{"user_id": userID, "keys": stale})
	}

	metrics.AddOrphanBlobsDeleted(res.Deleted)
	return res, nil
}

// ownerOf extracts the user id from a key shaped user-{id}/{file}.
func ownerOf(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, userDirPrefix)
	if !ok {
		return "", false
	}
	userID, file, ok := strings.Cut(rest, "/")
	if !ok || userID == "" || file == "" {
		return "", false
	}
	return userID, true
}

package jobs

import (
	"context"
	"errors"
	"sort"
	"strings"

	"jobassist-backend/internal/extract"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/storage/kv"
	"jobassist-backend/internal/shared/telemetry"
)

// DefaultMaxResults caps a recommendation set.
const DefaultMaxResults = 20

const cacheEntity = "recommendations"

// Engine ranks catalog jobs against a résumé's keywords and caches the
// ranked set per user.
type Engine struct {
	Catalog    *Catalog
	Cache      kv.Store
	MaxResults int
}

// NewEngine constructs an Engine. maxResults <= 0 uses DefaultMaxResults.
func NewEngine(catalog *Catalog, cache kv.Store, maxResults int) *Engine {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Engine{Catalog: catalog, Cache: cache, MaxResults: maxResults}
}

type scoredJob struct {
	job   Job
	score int
}

// Recommend ranks the catalog for r. The result depends only on the catalog
// and r's keywords: score is the number of job skills present in the
// keywords, ties broken by newest posting then id. A nil résumé yields an
// empty set.
func (e *Engine) Recommend(ctx context.Context, r *resumes.Resume) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil || e.Catalog == nil {
		return []Job{}, nil
	}

	keywords := extract.KeywordSet(r.Keywords)

	all := e.Catalog.All()
	scored := make([]scoredJob, 0, len(all))
	for _, j := range all {
		scored = append(scored, scoredJob{job: j, score: skillScore(j.Skills, keywords)})
	}
	sortScored(scored)

	limit := e.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]Job, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.job)
	}
	return out, nil
}

// skillScore counts skills whose every normalized term appears in keywords.
func skillScore(skills []string, keywords map[string]struct{}) int {
	score := 0
	for _, skill := range skills {
		if extract.Covers(keywords, skill) {
			score++
		}
	}
	return score
}

func sortScored(items []scoredJob) {
	sort.SliceStable(items, func(i, j int) bool {
		a := items[i]
		b := items[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.job.PostedDate.Equal(b.job.PostedDate) {
			return a.job.PostedDate.After(b.job.PostedDate)
		}
		return a.job.ID < b.job.ID
	})
}

// Recompute ranks the catalog for r and replaces the user's cached set.
func (e *Engine) Recompute(ctx context.Context, userID string, r *resumes.Resume) error {
	const op = "jobs.Recompute"
	recs, err := e.Recommend(ctx, r)
	if err != nil {
		return err
	}
	if err := kv.SetJSON(ctx, e.Cache, kv.Key(cacheEntity, userID), recs); err != nil {
		return apperr.RemoteStore(op, "failed to store recommendations", err)
	}
	metrics.IncRecommendationRecompute()
	telemetry.Info("recommendations.recomputed", map[string]any{
		"user_id": userID,
		"count":   len(recs),
	})
	return nil
}

// ForUser returns the user's cached recommendation set, empty when none.
func (e *Engine) ForUser(ctx context.Context, userID string) ([]Job, error) {
	const op = "jobs.ForUser"
	var recs []Job
	found, err := kv.GetJSON(ctx, e.Cache, kv.Key(cacheEntity, userID), &recs)
	if err != nil {
		return nil, apperr.RemoteStore(op, "failed to read recommendations", err)
	}
	if !found || recs == nil {
		return []Job{}, nil
	}
	return recs, nil
}

// Lookup resolves jobID from the user's current set, falling back to the catalog.
func (e *Engine) Lookup(ctx context.Context, userID, jobID string) (Job, error) {
	const op = "jobs.Lookup"
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return Job{}, apperr.Validation(op, "job id is required")
	}
	recs, err := e.ForUser(ctx, userID)
	if err != nil {
		return Job{}, err
	}
	for _, j := range recs {
		if j.ID == jobID {
			return j, nil
		}
	}
	if e.Catalog != nil {
		j, err := e.Catalog.Get(jobID)
		if err == nil {
			return j, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Job{}, err
		}
	}
	return Job{}, apperr.NotFound(op, "job not found")
}

var _ resumes.Recomputer = (*Engine)(nil)

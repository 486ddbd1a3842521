package tailored

import (
	"context"
	"errors"
	"sort"
)

// ErrNotFound indicates no tailored résumé exists for the application.
var ErrNotFound = errors.New("not found")

// Repo persists tailored résumés. There is at most one per application.
type Repo interface {
	// Upsert stores t, replacing any record for the same application.
	Upsert(ctx context.Context, t TailoredResume) error
	GetByApplication(ctx context.Context, userID, applicationID string) (TailoredResume, error)
	// ListByUser returns the user's tailored résumés newest first.
	ListByUser(ctx context.Context, userID string) ([]TailoredResume, error)
}

func sortNewestFirst(items []TailoredResume) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func clone(t TailoredResume) TailoredResume {
	t.MatchedSkills = append([]string(nil), t.MatchedSkills...)
	t.MissingSkills = append([]string(nil), t.MissingSkills...)
	return t
}

package applications

import (
	"context"
	"sort"
	"time"
)

// StatusUpdate moves one application from an expected status.
type StatusUpdate struct {
	UserID    string
	ID        string
	From      Status
	To        Status
	Attempts  int
	UpdatedAt time.Time
}

// Repo persists applications per user.
type Repo interface {
	// Insert appends a and returns it with Seq assigned.
	Insert(ctx context.Context, a Application) (Application, error)
	// ListByUser returns the user's applications in insertion order.
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	Get(ctx context.Context, userID, id string) (Application, error)
	// UpdateStatus applies u only while the stored status equals u.From.
	// It returns ErrNotFound or ErrStatusChanged otherwise.
	UpdateStatus(ctx context.Context, u StatusUpdate) error
}

func sortBySeq(items []Application) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Seq < items[j].Seq })
}

package notifications

import (
	"context"
	"sort"
)

// Repo stores per-user notification logs.
type Repo interface {
	// Insert appends n and returns it with Seq assigned.
	Insert(ctx context.Context, n Notification) (Notification, error)
	// ListByUser returns the user's log newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	// MarkRead sets Read on one entry. ErrNotFound when the id is unknown.
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

func sortNewestFirst(items []Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].Seq > items[j].Seq
	})
}

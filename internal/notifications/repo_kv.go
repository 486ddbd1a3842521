package notifications

import (
	"context"
	"sync"

	"jobassist-backend/internal/shared/storage/kv"
)

const kvEntity = "notifications"

// KVRepo keeps each user's log as one JSON list under
// jobApp_notifications_{userId}, newest first.
type KVRepo struct {
	Store kv.Store

	// mu serializes read-modify-write cycles within the process.
	mu sync.Mutex
}

func (r *KVRepo) load(ctx context.Context, userID string) ([]Notification, error) {
	var items []Notification
	if _, err := kv.GetJSON(ctx, r.Store, kv.Key(kvEntity, userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *KVRepo) save(ctx context.Context, userID string, items []Notification) error {
	return kv.SetJSON(ctx, r.Store, kv.Key(kvEntity, userID), items)
}

func (r *KVRepo) Insert(ctx context.Context, n Notification) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx, n.UserID)
	if err != nil {
		return Notification{}, err
	}
	var maxSeq int64
	for _, it := range items {
		if it.Seq > maxSeq {
			maxSeq = it.Seq
		}
	}
	n.Seq = maxSeq + 1
	items = append([]Notification{n}, items...)
	sortNewestFirst(items)
	if err := r.save(ctx, n.UserID, items); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *KVRepo) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	items, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func (r *KVRepo) MarkRead(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			if items[i].Read {
				return nil
			}
			items[i].Read = true
			return r.save(ctx, userID, items)
		}
	}
	return ErrNotFound
}

func (r *KVRepo) MarkAllRead(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	changed := false
	for i := range items {
		if !items[i].Read {
			items[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(ctx, userID, items)
}

var _ Repo = (*KVRepo)(nil)

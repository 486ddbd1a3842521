package notifications

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	seq  int64
	data map[string][]Notification // userId -> log
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Notification)}
}

func (r *MemoryRepo) Insert(ctx context.Context, n Notification) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.Seq = r.seq
	r.data[n.UserID] = append(r.data[n.UserID], n)
	return n, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append([]Notification(nil), r.data[userID]...)
	r.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) MarkRead(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[userID]
	for i := range items {
		if items[i].ID == id {
			items[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) MarkAllRead(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[userID]
	for i := range items {
		items[i].Read = true
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)

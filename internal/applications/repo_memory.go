package applications

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	seq  int64
	data map[string][]Application // userId -> applications in insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Application)}
}

func (r *MemoryRepo) Insert(ctx context.Context, a Application) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a.Seq = r.seq
	r.data[a.UserID] = append(r.data[a.UserID], a.Clone())
	return a, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.data[userID]
	out := make([]Application, 0, len(items))
	for _, a := range items {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.data[userID] {
		if a.ID == id {
			return a.Clone(), nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, u StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[u.UserID]
	for i := range items {
		if items[i].ID != u.ID {
			continue
		}
		if items[i].Status != u.From {
			return ErrStatusChanged
		}
		items[i].Status = u.To
		items[i].Attempts = u.Attempts
		items[i].UpdatedAt = u.UpdatedAt
		return nil
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)

package tailored

import (
	"context"
	"sync"
)

// MemoryRepo stores tailored résumés in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]map[string]TailoredResume // userId -> applicationId -> record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]map[string]TailoredResume)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, t TailoredResume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.byUser[t.UserID]
	if !ok {
		items = make(map[string]TailoredResume)
		r.byUser[t.UserID] = items
	}
	items[t.ApplicationID] = clone(t)
	return nil
}

func (r *MemoryRepo) GetByApplication(ctx context.Context, userID, applicationID string) (TailoredResume, error) {
	if err := ctx.Err(); err != nil {
		return TailoredResume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byUser[userID][applicationID]
	if !ok {
		return TailoredResume{}, ErrNotFound
	}
	return clone(t), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]TailoredResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]TailoredResume, 0, len(r.byUser[userID]))
	for _, t := range r.byUser[userID] {
		out = append(out, clone(t))
	}
	r.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)

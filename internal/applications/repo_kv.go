package applications

import (
	"context"
	"sync"

	"jobassist-backend/internal/shared/storage/kv"
)

const kvEntity = "applications"

// KVRepo keeps each user's applications as one JSON list under
// jobApp_applications_{userId}, in insertion order.
type KVRepo struct {
	Store kv.Store

	// mu serializes read-modify-write cycles within the process.
	mu sync.Mutex
}

func (r *KVRepo) load(ctx context.Context, userID string) ([]Application, error) {
	var items []Application
	if _, err := kv.GetJSON(ctx, r.Store, kv.Key(kvEntity, userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *KVRepo) Insert(ctx context.Context, a Application) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx, a.UserID)
	if err != nil {
		return Application{}, err
	}
	a.Seq = 1
	if n := len(items); n > 0 {
		a.Seq = items[n-1].Seq + 1
	}
	items = append(items, a)
	if err := kv.SetJSON(ctx, r.Store, kv.Key(kvEntity, a.UserID), items); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (r *KVRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	items, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortBySeq(items)
	return items, nil
}

func (r *KVRepo) Get(ctx context.Context, userID, id string) (Application, error) {
	items, err := r.load(ctx, userID)
	if err != nil {
		return Application{}, err
	}
	for _, a := range items {
		if a.ID == id {
			return a, nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *KVRepo) UpdateStatus(ctx context.Context, u StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx, u.UserID)
	if err != nil {
		return err
	}
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
		return kv.SetJSON(ctx, r.Store, kv.Key(kvEntity, u.UserID), items)
	}
	return ErrNotFound
}

var _ Repo = (*KVRepo)(nil)

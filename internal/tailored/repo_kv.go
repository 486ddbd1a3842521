package tailored

import (
	"context"
	"sync"

	"jobassist-backend/internal/shared/storage/kv"
)

const kvEntity = "tailored"

// KVRepo keeps each user's tailored résumés as one JSON list under
// jobApp_tailored_{userId}.
type KVRepo struct {
	Store kv.Store

	mu sync.Mutex
}

func (r *KVRepo) load(ctx context.Context, userID string) ([]TailoredResume, error) {
	var items []TailoredResume
	if _, err := kv.GetJSON(ctx, r.Store, kv.Key(kvEntity, userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *KVRepo) Upsert(ctx context.Context, t TailoredResume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx, t.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if items[i].ApplicationID == t.ApplicationID {
			items[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, t)
	}
	return kv.SetJSON(ctx, r.Store, kv.Key(kvEntity, t.UserID), items)
}

func (r *KVRepo) GetByApplication(ctx context.Context, userID, applicationID string) (TailoredResume, error) {
	items, err := r.load(ctx, userID)
	if err != nil {
		return TailoredResume{}, err
	}
	for _, t := range items {
		if t.ApplicationID == applicationID {
			return t, nil
		}
	}
	return TailoredResume{}, ErrNotFound
}

func (r *KVRepo) ListByUser(ctx context.Context, userID string) ([]TailoredResume, error) {
	items, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []TailoredResume{}
	}
	sortNewestFirst(items)
	return items, nil
}

var _ Repo = (*KVRepo)(nil)

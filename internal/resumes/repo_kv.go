package resumes

import (
	"context"

	"jobassist-backend/internal/shared/storage/kv"
)

const kvEntity = "resume"

// KVRepo stores the active résumé as one JSON value under jobApp_resume_{userId}.
type KVRepo struct {
	Store kv.Store
}

func (r *KVRepo) Get(ctx context.Context, userID string) (Resume, error) {
	var res Resume
	found, err := kv.GetJSON(ctx, r.Store, kv.Key(kvEntity, userID), &res)
	if err != nil {
		return Resume{}, err
	}
	if !found {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

func (r *KVRepo) Insert(ctx context.Context, res Resume) error {
	return kv.SetJSON(ctx, r.Store, kv.Key(kvEntity, res.UserID), res)
}

func (r *KVRepo) Delete(ctx context.Context, userID string) error {
	return r.Store.Remove(ctx, kv.Key(kvEntity, userID))
}

var _ Repo = (*KVRepo)(nil)

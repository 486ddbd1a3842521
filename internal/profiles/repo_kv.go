package profiles

import (
	"context"

	"jobassist-backend/internal/shared/storage/kv"
)

// KVRepo stores one profile per user under jobApp_profile_{userId}.
type KVRepo struct {
	Store kv.Store
}

func (r *KVRepo) Upsert(ctx context.Context, p Profile) error {
	return kv.SetJSON(ctx, r.Store, kv.Key("profile", p.UserID), p)
}

func (r *KVRepo) Get(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	found, err := kv.GetJSON(ctx, r.Store, kv.Key("profile", userID), &p)
	if err != nil {
		return Profile{}, err
	}
	if !found {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

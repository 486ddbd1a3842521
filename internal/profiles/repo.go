package profiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

type Repo interface {
	Upsert(ctx context.Context, p Profile) error
	Get(ctx context.Context, userID string) (Profile, error)
}

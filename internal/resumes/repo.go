package resumes

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the user has no résumé record.
var ErrNotFound = errors.New("resume not found")

// Repo persists at most one résumé record per user. Insert replaces any
// record the user already has, so concurrent writers leave exactly one.
type Repo interface {
	Get(ctx context.Context, userID string) (Resume, error)
	Insert(ctx context.Context, r Resume) error
	// Delete removes the user's record. Deleting a missing record is not an error.
	Delete(ctx context.Context, userID string) error
}

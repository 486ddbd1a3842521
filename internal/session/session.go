// Package session carries the authenticated user identity through a
// request context. Establishing or refreshing sessions happens elsewhere.
package session

import (
	"context"
	"strings"

	"jobassist-backend/internal/shared/apperr"
)

type ctxKey struct{}

// Source supplies the current user or a NotAuthenticated error.
type Source interface {
	UserID(ctx context.Context) (string, error)
}

// WithUserID returns a context carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// FromContext returns the user stored by WithUserID.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// ContextSource reads the identity placed in the context by the auth middleware.
type ContextSource struct{}

func (ContextSource) UserID(ctx context.Context) (string, error) {
	return Require(ctx)
}

// Require returns the current user or a NotAuthenticated error.
func Require(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", apperr.E(apperr.KindNotAuthenticated, "session.Require", "no active session", nil)
	}
	return id, nil
}

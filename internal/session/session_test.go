package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobassist-backend/internal/shared/apperr"
)

func TestRequire(t *testing.T) {
	_, err := Require(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotAuthenticated))

	_, err = Require(WithUserID(context.Background(), "  "))
	assert.True(t, apperr.Is(err, apperr.KindNotAuthenticated))

	id, err := ContextSource{}.UserID(WithUserID(context.Background(), "u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}

package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobassist-backend/internal/shared/storage/kv"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "kv", "test.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "jobApp_resume_u1", []byte(`{"a":1}`)))
	require.NoError(t, s.Set(ctx, "jobApp_resume_u1", []byte(`{"a":2}`)))
	got, err := s.Get(ctx, "jobApp_resume_u1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	require.NoError(t, s.Remove(ctx, "jobApp_resume_u1"))
	_, err = s.Get(ctx, "jobApp_resume_u1")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.SetJSON(ctx, s, "k", map[string]int{"n": 7}))
	require.NoError(t, s.Close())

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()
	var got map[string]int
	found, err := kv.GetJSON(ctx, s2, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, got["n"])
}

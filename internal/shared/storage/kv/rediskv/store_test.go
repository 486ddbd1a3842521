package rediskv

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobassist-backend/internal/shared/storage/kv"
)

// Runs only when REDIS_TEST_URL points at a disposable instance.
func TestStoreAgainstRedis(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	s := New(client, 0)
	key := kv.Key("test", t.Name())
	defer s.Remove(ctx, key)

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, kv.ErrNotFound)
	require.NoError(t, s.Set(ctx, key, []byte("v")))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url")
	assert.Error(t, err)
}

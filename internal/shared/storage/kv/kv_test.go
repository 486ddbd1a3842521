package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "jobApp_notifications_u1", Key("notifications", "u1"))
}

func TestMemoryJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var got []string
	found, err := GetJSON(ctx, m, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, m, "k", []string{"a", "b"}))
	found, err = GetJSON(ctx, m, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, m.Remove(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", []byte("abc")))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	v[0] = 'z'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

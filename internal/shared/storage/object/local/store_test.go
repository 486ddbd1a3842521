package local

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobassist-backend/internal/shared/storage/object"
)

func TestPutListOpenDelete(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir(), "http://localhost:8080", []byte("secret"))

	n, err := s.Put(ctx, "user-u1/100_resume_v1.pdf", "application/pdf", strings.NewReader("v1"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	_, err = s.Put(ctx, "user-u10/100_other.pdf", "application/pdf", strings.NewReader("x"))
	require.NoError(t, err)

	infos, err := s.List(ctx, "user-u1/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "user-u1/100_resume_v1.pdf", infos[0].Key)
	assert.EqualValues(t, 2, infos[0].Size)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rc, err := s.Open(ctx, "user-u1/100_resume_v1.pdf")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "v1", string(body))

	require.NoError(t, s.Delete(ctx, "user-u1/100_resume_v1.pdf", "user-u1/missing.pdf"))
	_, err = s.Open(ctx, "user-u1/100_resume_v1.pdf")
	assert.ErrorIs(t, err, object.ErrNotFound)

	infos, err = s.List(ctx, "user-u1/")
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestListMissingPrefixIsEmpty(t *testing.T) {
	s := New(t.TempDir(), "", nil)
	infos, err := s.List(context.Background(), "user-nobody/")
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestRejectsTraversal(t *testing.T) {
	s := New(t.TempDir(), "", nil)
	_, err := s.Put(context.Background(), "../escape.pdf", "application/pdf", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestSignedURLVerify(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s := New(t.TempDir(), "http://localhost:8080/", []byte("secret"))
	s.now = func() time.Time { return now }

	_, err := s.SignedURL(ctx, "user-u1/1_a.pdf", time.Minute)
	require.ErrorIs(t, err, object.ErrNotFound)

	_, err = s.Put(ctx, "user-u1/1_a.pdf", "application/pdf", strings.NewReader("x"))
	require.NoError(t, err)

	raw, err := s.SignedURL(ctx, "user-u1/1_a.pdf", time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/blobs/user-u1/1_a.pdf", u.Path)

	q := u.Query()
	assert.NoError(t, s.Verify("user-u1/1_a.pdf", q.Get("expires"), q.Get("sig")))
	assert.ErrorIs(t, s.Verify("user-u1/other.pdf", q.Get("expires"), q.Get("sig")), ErrInvalidSignature)

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, s.Verify("user-u1/1_a.pdf", q.Get("expires"), q.Get("sig")), ErrInvalidSignature)
}

package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/storage/object"
	"jobassist-backend/internal/shared/storage/object/memory"
)

type recordingRecomputer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recordingRecomputer) Recompute(ctx context.Context, userID string, res *Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref := ""
	if res != nil {
		ref = res.FileRef
	}
	r.calls = append(r.calls, userID+"|"+ref)
	return r.err
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(ctx context.Context, userID, level, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, level+":"+message)
	return n.err
}

// failingStore wraps a BlobStore and fails the named operation.
type failingStore struct {
	object.BlobStore
	failOn string
}

var errStoreDown = errors.New("store unavailable")

func (f *failingStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if f.failOn == "put" {
		return 0, errStoreDown
	}
	return f.BlobStore.Put(ctx, key, contentType, r)
}

func (f *failingStore) Delete(ctx context.Context, keys ...string) error {
	if f.failOn == "delete" {
		return errStoreDown
	}
	return f.BlobStore.Delete(ctx, keys...)
}

func (f *failingStore) List(ctx context.Context, prefix string) ([]object.ObjectInfo, error) {
	if f.failOn == "list" {
		return nil, errStoreDown
	}
	return f.BlobStore.List(ctx, prefix)
}

func fixedKeywords(words ...string) KeywordFunc {
	return func(context.Context, []byte, string) ([]string, error) {
		return append([]string(nil), words...), nil
	}
}

func newTestService(store object.BlobStore) (*Service, *MemoryRepo, *recordingRecomputer, *recordingNotifier) {
	repo := NewMemoryRepo()
	rec := &recordingRecomputer{}
	notifier := &recordingNotifier{}
	svc := NewService(store, repo, rec, notifier)
	svc.Keywords = fixedKeywords("go", "kubernetes")
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }
	return svc, repo, rec, notifier
}

func TestReplaceStoresFileAndRecord(t *testing.T) {
	store := memory.New()
	svc, repo, rec, notifier := newTestService(store)
	ctx := context.Background()

	res, err := svc.Replace(ctx, "u1", "cv.pdf", []byte("%PDF-1.4 demo"))
	require.NoError(t, err)

	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "cv.pdf", res.FileName)
	assert.Equal(t, FileTypePDF, res.FileType)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, int64(13), res.SizeBytes)
	assert.Equal(t, []string{"go", "kubernetes"}, res.Keywords)
	assert.True(t, strings.HasPrefix(res.FileRef, "user-u1/"), res.FileRef)
	assert.True(t, strings.HasSuffix(res.FileRef, "_cv.pdf"), res.FileRef)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, res, stored)

	rc, err := store.Open(ctx, res.FileRef)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1.4 demo", string(data))

	assert.Equal(t, []string{"u1|" + res.FileRef}, rec.calls)
	assert.Equal(t, []string{`info:Resume "cv.pdf" uploaded successfully.`}, notifier.messages)
}

func TestReplaceRemovesPreviousFile(t *testing.T) {
	store := memory.New()
	svc, repo, rec, _ := newTestService(store)
	ctx := context.Background()

	first, err := svc.Replace(ctx, "u1", "old.docx", []byte("old"))
	require.NoError(t, err)
	second, err := svc.Replace(ctx, "u1", "new.pdf", []byte("new"))
	require.NoError(t, err)

	assert.NotEqual(t, first.FileRef, second.FileRef)

	blobs, err := store.List(ctx, UserPrefix("u1"))
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, second.FileRef, blobs[0].Key)

	active, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Len(t, rec.calls, 2)
}

func TestReplaceSameNameTwiceProducesDistinctKeys(t *testing.T) {
	svc, _, _, _ := newTestService(memory.New())
	ctx := context.Background()

	a, err := svc.Replace(ctx, "u1", "cv.pdf", []byte("a"))
	require.NoError(t, err)
	b, err := svc.Replace(ctx, "u1", "cv.pdf", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a.FileRef, b.FileRef)
}

func TestReplaceSanitizesFileNameInKey(t *testing.T) {
	svc, _, _, _ := newTestService(memory.New())

	res, err := svc.Replace(context.Background(), "u1", "my résumé (final).pdf", []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, "my résumé (final).pdf", res.FileName)
	assert.True(t, strings.HasSuffix(res.FileRef, "_my_r_sum___final_.pdf"), res.FileRef)
}

func TestReplaceValidationHasNoSideEffects(t *testing.T) {
	store := memory.New()
	svc, repo, rec, notifier := newTestService(store)
	ctx := context.Background()

	first, err := svc.Replace(ctx, "u1", "cv.pdf", []byte("keep"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		fileName string
		data     []byte
	}{
		{"unsupported extension", "cv.txt", []byte("x")},
		{"no extension", "resume", []byte("x")},
		{"too large", "cv.pdf", bytes.Repeat([]byte("a"), MaxFileSize+1)},
		{"empty", "cv.pdf", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Replace(ctx, "u1", tt.fileName, tt.data)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation), err)
		})
	}

	active, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
	blobs, err := store.List(ctx, UserPrefix("u1"))
	require.NoError(t, err)
	assert.Len(t, blobs, 1)
	assert.Len(t, rec.calls, 1)
	assert.Len(t, notifier.messages, 1)
}

func TestReplaceAcceptsExactLimit(t *testing.T) {
	svc, _, _, _ := newTestService(memory.New())

	res, err := svc.Replace(context.Background(), "u1", "cv.DOCX", bytes.Repeat([]byte("a"), MaxFileSize))
	require.NoError(t, err)
	assert.Equal(t, FileTypeDOCX, res.FileType)
	assert.Equal(t, int64(MaxFileSize), res.SizeBytes)
}

func TestReplaceKeywordFailureYieldsEmptyKeywords(t *testing.T) {
	svc, _, _, _ := newTestService(memory.New())
	svc.Keywords = func(context.Context, []byte, string) ([]string, error) {
		return nil, errors.New("unreadable")
	}

	res, err := svc.Replace(context.Background(), "u1", "cv.pdf", []byte("garbage"))
	require.NoError(t, err)
	assert.NotNil(t, res.Keywords)
	assert.Empty(t, res.Keywords)
}

func TestReplaceStoreFailures(t *testing.T) {
	for _, failOn := range []string{"list", "delete", "put"} {
		t.Run(failOn, func(t *testing.T) {
			base := memory.New()
			svc, repo, rec, notifier := newTestService(base)
			ctx := context.Background()
			_, err := svc.Replace(ctx, "u1", "cv.pdf", []byte("first"))
			require.NoError(t, err)

			svc.Store = &failingStore{BlobStore: base, failOn: failOn}
			_, err = svc.Replace(ctx, "u1", "next.pdf", []byte("second"))
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindRemoteStore), err)
			assert.ErrorIs(t, err, errStoreDown)

			// never two résumés
			if active, err := repo.Get(ctx, "u1"); err == nil {
				assert.Equal(t, "cv.pdf", active.FileName)
			}
			assert.Len(t, rec.calls, 1)
			assert.Len(t, notifier.messages, 1)
		})
	}
}

func TestReplaceRecomputeFailureIsRemoteStore(t *testing.T) {
	svc, repo, rec, notifier := newTestService(memory.New())
	rec.err = errors.New("cache down")

	_, err := svc.Replace(context.Background(), "u1", "cv.pdf", []byte("x"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindRemoteStore))

	_, err = repo.Get(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Empty(t, notifier.messages)
}

func TestReplaceNotifierFailureIsIgnored(t *testing.T) {
	svc, _, _, notifier := newTestService(memory.New())
	notifier.err = errors.New("mailbox full")

	_, err := svc.Replace(context.Background(), "u1", "cv.pdf", []byte("x"))
	assert.NoError(t, err)
}

func TestReplaceConcurrentLeavesOneRecord(t *testing.T) {
	store := memory.New()
	svc, repo, _, _ := newTestService(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, name := range []string{"a.pdf", "b.pdf"} {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = svc.Replace(ctx, "u1", name, []byte(name))
		}(i, name)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	active, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, []string{"a.pdf", "b.pdf"}, active.FileName)
}

func TestGetActive(t *testing.T) {
	svc, _, _, _ := newTestService(memory.New())
	ctx := context.Background()

	res, err := svc.GetActive(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = svc.GetActive(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stored, err := svc.Replace(ctx, "u1", "cv.pdf", []byte("x"))
	require.NoError(t, err)
	res, err = svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, stored.ID, res.ID)
}

func TestSignedURLAndOpen(t *testing.T) {
	svc, _, _, _ := newTestService(memory.New())
	ctx := context.Background()

	_, _, err := svc.SignedURL(ctx, "u1", time.Minute)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	stored, err := svc.Replace(ctx, "u1", "cv.pdf", []byte("body"))
	require.NoError(t, err)

	url, expiresAt, err := svc.SignedURL(ctx, "u1", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, stored.FileRef)
	assert.Equal(t, svc.Now().Add(time.Minute), expiresAt)

	rc, res, err := svc.Open(ctx, "u1")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "body", string(data))
	assert.Equal(t, stored.ID, res.ID)
}

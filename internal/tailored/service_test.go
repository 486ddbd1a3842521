package tailored

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/extract"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/storage/kv"
	"jobassist-backend/internal/shared/storage/object/memory"
	"jobassist-backend/internal/sweeper"
	"jobassist-backend/internal/tailored/render"
)

type fixture struct {
	store      *memory.Store
	resumeRepo *resumes.MemoryRepo
	resumes    *resumes.Service
	svc        *Service
	clock      time.Time
}

func newFixture(t *testing.T, repo Repo) *fixture {
	t.Helper()
	catalog, err := jobs.DemoCatalog()
	require.NoError(t, err)
	engine := jobs.NewEngine(catalog, kv.NewMemory(), 0)

	f := &fixture{clock: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	f.store = memory.NewWithClock(func() time.Time { return f.clock })
	f.resumeRepo = resumes.NewMemoryRepo()
	f.resumes = resumes.NewService(f.store, f.resumeRepo, nil, nil)
	f.resumes.Now = func() time.Time { return f.clock }
	f.svc = NewService(f.store, repo, engine)
	f.svc.Now = func() time.Time { return f.clock }
	return f
}

func sampleDocx(t *testing.T) []byte {
	t.Helper()
	data, err := render.RenderDOCX(render.Document{Paragraphs: []render.Paragraph{
		render.Text(render.StyleHeading, "EXPERIENCE"),
		render.Text(render.StyleBullet, "Ran Kubernetes clusters in Go"),
		render.Text(render.StyleNormal, "Prometheus alerting"),
	}})
	require.NoError(t, err)
	return data
}

func (f *fixture) apply(t *testing.T, appID string) applications.Application {
	t.Helper()
	active, err := f.resumes.GetActive(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	return applications.Application{
		ID:             appID,
		UserID:         "u1",
		JobID:          "42",
		Status:         applications.StatusProcessing,
		ResumeSnapshot: active.Clone(),
	}
}

func (f *fixture) readText(t *testing.T, key string) string {
	t.Helper()
	rc, err := f.store.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	text, err := extract.ExtractTextFromBytes(context.Background(), data, "docx")
	require.NoError(t, err)
	return text
}

func TestTailorRendersStoresAndLinks(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	ctx := context.Background()
	_, err := f.resumes.Replace(ctx, "u1", "cv.docx", sampleDocx(t))
	require.NoError(t, err)
	app := f.apply(t, "a1")

	got, err := f.svc.Tailor(ctx, app)
	require.NoError(t, err)

	assert.Equal(t, "a1", got.ApplicationID)
	assert.Equal(t, "42", got.JobID)
	assert.Equal(t, app.ResumeSnapshot.ID, got.ResumeID)
	assert.Equal(t, "tailored/user-u1/a1.docx", got.FileRef)
	assert.Equal(t, "cv_Site_Reliability_Engineer.docx", got.FileName)
	assert.Equal(t, []string{"Go", "Kubernetes", "Prometheus"}, got.MatchedSkills)
	assert.Equal(t, []string{"Linux"}, got.MissingSkills)
	assert.Equal(t, SourceFile, got.Source)
	assert.Positive(t, got.SizeBytes)

	text := f.readText(t, got.FileRef)
	assert.Contains(t, text, "Résumé for Site Reliability Engineer, Helios Cloud")
	assert.Contains(t, text, "KEY SKILLS")
	assert.Contains(t, text, "Ran Kubernetes clusters in Go")

	stored, err := f.svc.Get(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, got.ID, stored.ID)
}

func TestTailorIsIdempotentPerApplication(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	ctx := context.Background()
	_, err := f.resumes.Replace(ctx, "u1", "cv.docx", sampleDocx(t))
	require.NoError(t, err)
	app := f.apply(t, "a1")

	first, err := f.svc.Tailor(ctx, app)
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Hour)
	second, err := f.svc.Tailor(ctx, app)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	blobs, err := f.store.List(ctx, Prefix("u1"))
	require.NoError(t, err)
	assert.Len(t, blobs, 1)
}

func TestTailoredFilesSurviveReplaceAndSweep(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	ctx := context.Background()
	_, err := f.resumes.Replace(ctx, "u1", "cv.docx", sampleDocx(t))
	require.NoError(t, err)
	got, err := f.svc.Tailor(ctx, f.apply(t, "a1"))
	require.NoError(t, err)

	_, err = f.resumes.Replace(ctx, "u1", "cv2.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	sw := sweeper.New(f.store, f.resumeRepo, time.Minute)
	sw.Now = func() time.Time { return f.clock.Add(24 * time.Hour) }
	_, err = sw.Sweep(ctx)
	require.NoError(t, err)

	rc, _, err := f.svc.Open(ctx, "u1", "a1")
	require.NoError(t, err)
	rc.Close()
	assert.Contains(t, f.readText(t, got.FileRef), "KEY SKILLS")
}

func TestTailorFallsBackToKeywordsWhenFileIsGone(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	ctx := context.Background()
	_, err := f.resumes.Replace(ctx, "u1", "cv.docx", sampleDocx(t))
	require.NoError(t, err)
	app := f.apply(t, "a1")
	require.NoError(t, f.store.Delete(ctx, app.ResumeSnapshot.FileRef))

	got, err := f.svc.Tailor(ctx, app)
	require.NoError(t, err)

	assert.Equal(t, SourceKeywords, got.Source)
	assert.Equal(t, []string{"Go", "Kubernetes", "Prometheus"}, got.MatchedSkills)
	assert.Contains(t, f.readText(t, got.FileRef), "EXPERIENCE KEYWORDS")
}

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Upsert(context.Context, TailoredResume) error {
	return errors.New("connection refused")
}

func TestTailorRemovesBlobWhenRecordFails(t *testing.T) {
	f := newFixture(t, failingRepo{NewMemoryRepo()})
	ctx := context.Background()
	_, err := f.resumes.Replace(ctx, "u1", "cv.docx", sampleDocx(t))
	require.NoError(t, err)

	_, err = f.svc.Tailor(ctx, f.apply(t, "a1"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindRemoteStore), err)

	blobs, err := f.store.List(ctx, Prefix("u1"))
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestGetUnknownApplication(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())

	_, err := f.svc.Get(context.Background(), "u1", "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound), err)
}

func TestListIsNewestFirstAcrossBackends(t *testing.T) {
	backends := map[string]func() Repo{
		"memory": func() Repo { return NewMemoryRepo() },
		"kv":     func() Repo { return &KVRepo{Store: kv.NewMemory()} },
	}
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, newRepo())
			ctx := context.Background()
			_, err := f.resumes.Replace(ctx, "u1", "cv.docx", sampleDocx(t))
			require.NoError(t, err)

			for _, id := range []string{"a1", "a2"} {
				_, err := f.svc.Tailor(ctx, f.apply(t, id))
				require.NoError(t, err)
				f.clock = f.clock.Add(time.Minute)
			}

			items, err := f.svc.List(ctx, "u1")
			require.NoError(t, err)
			ids := make([]string, 0, len(items))
			for _, it := range items {
				ids = append(ids, it.ApplicationID)
			}
			assert.Equal(t, []string{"a2", "a1"}, ids)

			other, err := f.svc.List(ctx, "u2")
			require.NoError(t, err)
			assert.Empty(t, other)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "cv_Go_Developer.docx", fileName("cv.pdf", "Go Developer"))
	assert.Equal(t, "my_cv_SRE.docx", fileName(`C:\docs\my cv.docx`, "SRE"))
	assert.True(t, strings.HasPrefix(fileName("", "SRE"), "resume_"))
}

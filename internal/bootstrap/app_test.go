package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:                   "dev",
		LogLevel:              "error",
		RecordStore:           "kv",
		KVStore:               "memory",
		ObjectStoreType:       "local",
		LocalStoreDir:         t.TempDir(),
		BlobSigningSecret:     "test-secret",
		PublicBaseURL:         "http://jobassist.test",
		SignedURLTTL:          time.Minute,
		RecommendationLimit:   20,
		SubmissionFailureRate: 0,
		SweepGrace:            time.Minute,
		AllowGuests:           true,
	}
}

func upload(t *testing.T, router *gin.Engine, fileName string, size int) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Guest-Id", "u1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func call(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "u1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestReplaceThenApplyOverHTTP(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()
	router := app.Router

	resp := upload(t, router, "resume_v1.pdf", 2<<20)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	resp = upload(t, router, "resume_v2.docx", 1<<20)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = call(router, http.MethodGet, "/api/v1/resume", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var active struct {
		Resume struct {
			FileName  string `json:"fileName"`
			SizeBytes int64  `json:"sizeBytes"`
		} `json:"resume"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &active))
	assert.Equal(t, "resume_v2.docx", active.Resume.FileName)
	assert.Equal(t, int64(1<<20), active.Resume.SizeBytes)

	objects, err := app.Store.List(context.Background(), "user-guest:u1/")
	require.NoError(t, err)
	require.Len(t, objects, 1)

	resp = call(router, http.MethodPost, "/api/v1/applications", `{"jobId":"42"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var applied applications.Application
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &applied))
	assert.Equal(t, applications.StatusSubmittedSuccessfully, applied.Status)
	assert.Equal(t, "resume_v2.docx", applied.ResumeSnapshot.FileName)
	assert.Equal(t, "Site Reliability Engineer", applied.Job.Title)

	resp = call(router, http.MethodGet, "/api/v1/applications/"+applied.ID+"/tailored-resume", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	tailoredObjects, err := app.Store.List(context.Background(), "tailored/user-guest:u1/")
	require.NoError(t, err)
	require.Len(t, tailoredObjects, 1)
	assert.Equal(t, "tailored/user-guest:u1/"+applied.ID+".docx", tailoredObjects[0].Key)

	resp = call(router, http.MethodGet, "/api/v1/notifications", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Notifications []notifications.Notification `json:"notifications"`
		UnreadCount   int                          `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Notifications, 3)
	assert.Equal(t, notifications.TypeSuccess, list.Notifications[0].Type)
	assert.Equal(t, 3, list.UnreadCount)
}

func TestSignedURLIsServedByBlobRoute(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()
	router := app.Router

	require.Equal(t, http.StatusCreated, upload(t, router, "cv.pdf", 128).Code)

	resp := call(router, http.MethodGet, "/api/v1/resume/url", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var signed struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &signed))
	u, err := url.Parse(signed.URL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, u.RequestURI(), nil)
	blob := httptest.NewRecorder()
	router.ServeHTTP(blob, req)
	require.Equal(t, http.StatusOK, blob.Code)
	assert.Equal(t, 128, blob.Body.Len())
	assert.Contains(t, blob.Header().Get("Content-Disposition"), "cv.pdf")

	q := u.Query()
	q.Set("sig", "00")
	u.RawQuery = q.Encode()
	req = httptest.NewRequest(http.MethodGet, u.RequestURI(), nil)
	blob = httptest.NewRecorder()
	router.ServeHTTP(blob, req)
	assert.Equal(t, http.StatusForbidden, blob.Code)
}

func TestHealthAndReadinessArePublic(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	for _, path := range []string{"/api/v1/health", "/api/v1/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestBuildRejectsRedisWithoutURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.KVStore = "redis"
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RECORD_STORE", "")
	t.Setenv("ENV", "dev")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "kv", cfg.RecordStore)
	assert.Equal(t, "memory", cfg.KVStore)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, 20, cfg.RecommendationLimit)
	assert.Equal(t, "@every 1h", cfg.SweepSchedule)
	assert.Equal(t, 15*time.Minute, cfg.SweepGrace)
	assert.True(t, cfg.AllowGuests)
}

func TestLoadPicksPostgresWhenDatabaseURLSet(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobassist")
	t.Setenv("RECORD_STORE", "")

	assert.Equal(t, "postgres", Load().RecordStore)
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("OBJECT_STORE", "GCS")
	t.Setenv("KV_STORE", "redis")
	t.Setenv("SUBMISSION_FAILURE_RATE", "0.5")
	t.Setenv("SWEEP_GRACE", "30s")
	t.Setenv("RECOMMENDATION_LIMIT", "not-a-number")
	t.Setenv("ENV", "prod")
	t.Setenv("ALLOW_GUESTS", "")

	cfg := Load()
	assert.Equal(t, "gcs", cfg.ObjectStoreType)
	assert.Equal(t, "redis", cfg.KVStore)
	assert.InDelta(t, 0.5, cfg.SubmissionFailureRate, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.SweepGrace)
	assert.Equal(t, 20, cfg.RecommendationLimit)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.AllowGuests)
}

func TestLoadEnvFilesDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JOBASSIST_TEST_A=file\nJOBASSIST_TEST_B=\"quoted\"\n"), 0o600))

	t.Setenv("JOBASSIST_TEST_A", "env")
	t.Setenv("JOBASSIST_TEST_B", "")
	os.Unsetenv("JOBASSIST_TEST_B")

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "env", os.Getenv("JOBASSIST_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("JOBASSIST_TEST_B"))
}

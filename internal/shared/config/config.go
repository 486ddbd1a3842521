package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"jobassist-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	LogLevel        string

	// RecordStore selects the metadata backend: postgres, kv or memory.
	RecordStore string
	DatabaseURL string

	// KVStore selects the local durable fallback: memory, sqlite or redis.
	KVStore    string
	SQLitePath string
	RedisURL   string

	MongoURI      string
	MongoDatabase string

	ObjectStoreType   string
	LocalStoreDir     string
	BlobSigningSecret string
	PublicBaseURL     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	SSEKMSKeyID       string
	GCSBucket         string
	GCSPrefix         string
	GCSAccessID       string
	GCSPrivateKeyPath string
	SignedURLTTL      time.Duration

	JobCatalogPath      string
	RecommendationLimit int

	SubmissionFailureRate float64
	SeedWelcome           bool

	SweepSchedule string
	SweepGrace    time.Duration

	JWTSecret   string
	AllowGuests bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:                  getEnv("PORT", "8080"),
		CORSAllowOrigin:       splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:                   env,
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		RecordStore:           normalizeRecordStore(getEnv("RECORD_STORE", ""), dbURL),
		DatabaseURL:           dbURL,
		KVStore:               normalizeKVStore(getEnv("KV_STORE", "memory")),
		SQLitePath:            getEnv("SQLITE_PATH", "./data/jobassist.db"),
		RedisURL:              getEnv("REDIS_URL", ""),
		MongoURI:              getEnv("MONGO_URI", ""),
		MongoDatabase:         getEnv("MONGO_DATABASE", "jobassist"),
		ObjectStoreType:       normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:         getEnv("LOCAL_STORE_DIR", "./data/blobs"),
		BlobSigningSecret:     getEnv("BLOB_SIGNING_SECRET", "dev-blob-secret"),
		PublicBaseURL:         strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		AWSRegion:             getEnv("AWS_REGION", ""),
		S3Bucket:              getEnv("S3_BUCKET", ""),
		S3Prefix:              getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:           getEnv("SSE_KMS_KEY_ID", ""),
		GCSBucket:             getEnv("GCS_BUCKET", ""),
		GCSPrefix:             getEnv("GCS_PREFIX", ""),
		GCSAccessID:           getEnv("GCS_ACCESS_ID", ""),
		GCSPrivateKeyPath:     getEnv("GCS_PRIVATE_KEY_PATH", ""),
		SignedURLTTL:          getDuration("SIGNED_URL_TTL", 15*time.Minute),
		JobCatalogPath:        getEnv("JOB_CATALOG_PATH", ""),
		RecommendationLimit:   getInt("RECOMMENDATION_LIMIT", 20),
		SubmissionFailureRate: getFloat("SUBMISSION_FAILURE_RATE", 0.2),
		SeedWelcome:           getBool("SEED_WELCOME_NOTIFICATIONS", env != "production"),
		SweepSchedule:         getEnv("SWEEP_SCHEDULE", "@every 1h"),
		SweepGrace:            getDuration("SWEEP_GRACE", 15*time.Minute),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		AllowGuests:           getBool("ALLOW_GUESTS", env != "production"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid_float", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		telemetry.Warn("config.invalid_bool", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "gcs":
		return "gcs"
	case "memory":
		return "memory"
	default:
		return "local"
	}
}

func normalizeRecordStore(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "kv":
		return "kv"
	case "memory":
		return "memory"
	}
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	return "kv"
}

func normalizeKVStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqlite":
		return "sqlite"
	case "redis":
		return "redis"
	default:
		return "memory"
	}
}

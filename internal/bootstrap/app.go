package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/profiles"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/services/health"
	"jobassist-backend/internal/shared/auth"
	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/server"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/storage/db"
	"jobassist-backend/internal/shared/storage/kv"
	"jobassist-backend/internal/shared/storage/kv/rediskv"
	"jobassist-backend/internal/shared/storage/kv/sqlitekv"
	"jobassist-backend/internal/shared/storage/mongodb"
	"jobassist-backend/internal/shared/storage/object"
	gcsstore "jobassist-backend/internal/shared/storage/object/gcs"
	localstore "jobassist-backend/internal/shared/storage/object/local"
	memstore "jobassist-backend/internal/shared/storage/object/memory"
	s3store "jobassist-backend/internal/shared/storage/object/s3"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/sweeper"
	"jobassist-backend/internal/tailored"
)

// App holds the per-process object graph.
type App struct {
	Config config.Config
	Router *gin.Engine

	DB         *sql.DB
	KV         kv.Store
	Redis      *redis.Client
	Mongo      *mongo.Client
	Store      object.BlobStore
	LocalBlobs *localstore.Store
	Health     *health.Service
	Signer     *auth.Signer

	ResumeRepo    resumes.Repo
	Resumes       *resumes.Service
	Catalog       *jobs.Catalog
	Engine        *jobs.Engine
	Ledger        *applications.Ledger
	Notifications *notifications.Center
	Profiles      *profiles.Service
	Tailored      *tailored.Service
	Sweeper       *sweeper.Sweeper

	closers []func() error
}

type repos struct {
	resumes       resumes.Repo
	applications  applications.Repo
	notifications notifications.Repo
	profiles      profiles.Repo
	tailored      tailored.Repo
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	app := &App{Config: cfg, Health: health.NewService()}
	if err := app.build(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) build(ctx context.Context) error {
	cfg := app.Config

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return err
	}
	app.Signer = signer

	if err := app.buildKV(ctx); err != nil {
		return err
	}
	if err := app.buildDB(ctx); err != nil {
		return err
	}
	if err := app.buildMongo(ctx); err != nil {
		return err
	}
	if err := app.buildStore(ctx); err != nil {
		return err
	}

	r, err := app.buildRepos(ctx)
	if err != nil {
		return err
	}

	catalog, err := jobs.LoadCatalog(cfg.JobCatalogPath)
	if err != nil {
		return err
	}
	app.Catalog = catalog
	app.Engine = jobs.NewEngine(catalog, app.KV, cfg.RecommendationLimit)
	app.Notifications = notifications.NewCenter(r.notifications, cfg.SeedWelcome)
	app.ResumeRepo = r.resumes
	app.Resumes = resumes.NewService(app.Store, r.resumes, app.Engine, app.Notifications)
	app.Ledger = applications.NewLedger(
		r.applications,
		app.Resumes,
		app.Engine,
		applications.NewSimulatedSubmitter(cfg.SubmissionFailureRate, 0),
		app.Notifications,
	)
	app.Tailored = tailored.NewService(app.Store, r.tailored, app.Engine)
	app.Ledger.Tailor = app.Tailored
	app.Profiles = profiles.NewService(r.profiles)
	app.Sweeper = sweeper.New(app.Store, r.resumes, cfg.SweepGrace)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		Verifier:            signer,
		Health:              app.Health,
		ResumeHandler:       resumes.NewHandler(app.Resumes, cfg.SignedURLTTL),
		JobHandler:          jobs.NewHandler(app.Engine),
		ApplicationHandler:  applications.NewHandler(app.Ledger),
		NotificationHandler: notifications.NewHandler(app.Notifications),
		ProfileHandler:      profiles.NewHandler(app.Profiles),
		TailoredHandler:     tailored.NewHandler(app.Tailored, app.Ledger, cfg.SignedURLTTL),
		LocalBlobs:          app.LocalBlobs,
		RateLimiter:         middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"record_store": cfg.RecordStore,
		"kv_store":     cfg.KVStore,
		"object_store": cfg.ObjectStoreType,
		"mongo":        app.Mongo != nil,
		"jobs":         catalog.Len(),
	})
	return nil
}

func (app *App) buildKV(ctx context.Context) error {
	cfg := app.Config
	switch cfg.KVStore {
	case "sqlite":
		store, err := sqlitekv.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite kv: %w", err)
		}
		app.KV = store
		app.closers = append(app.closers, store.Close)
		app.Health.Register("sqlite", func(ctx context.Context) error { return store.DB.PingContext(ctx) })
	case "redis":
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return errors.New("KV_STORE=redis requires REDIS_URL")
		}
		client, err := rediskv.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		app.Redis = client
		app.KV = rediskv.New(client, 0)
		app.closers = append(app.closers, client.Close)
		app.Health.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
	default:
		app.KV = kv.NewMemory()
	}
	return nil
}

func (app *App) buildDB(ctx context.Context) error {
	cfg := app.Config
	if cfg.RecordStore != "postgres" {
		return nil
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("RECORD_STORE=postgres requires DATABASE_URL")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"error": err, "fallback": "kv"})
			app.Config.RecordStore = "kv"
			return nil
		}
		return err
	}
	app.DB = sqlDB
	app.closers = append(app.closers, sqlDB.Close)
	app.Health.Register("postgres", func(ctx context.Context) error { return db.Ping(ctx, sqlDB, 2*time.Second) })

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	return nil
}

func (app *App) buildMongo(ctx context.Context) error {
	cfg := app.Config
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return nil
	}
	client, err := mongodb.Connect(ctx, cfg.MongoURI, mongodb.DefaultOptions())
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	app.Mongo = client
	app.closers = append(app.closers, func() error { return client.Disconnect(context.Background()) })
	app.Health.Register("mongo", func(ctx context.Context) error { return client.Ping(ctx, nil) })
	return nil
}

func (app *App) buildStore(ctx context.Context) error {
	cfg := app.Config
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return err
		}
		app.Store = store
	case "gcs":
		store, err := gcsstore.New(ctx, gcsstore.Options{
			Bucket:         cfg.GCSBucket,
			Prefix:         cfg.GCSPrefix,
			AccessID:       cfg.GCSAccessID,
			PrivateKeyPath: cfg.GCSPrivateKeyPath,
		})
		if err != nil {
			return err
		}
		app.Store = store
		app.closers = append(app.closers, store.Close)
	case "memory":
		app.Store = memstore.New()
	default:
		store := localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL, []byte(cfg.BlobSigningSecret))
		app.Store = store
		app.LocalBlobs = store
	}
	return nil
}

func (app *App) buildRepos(ctx context.Context) (repos, error) {
	var r repos
	switch {
	case app.DB != nil:
		r = repos{
			resumes:       &resumes.PGRepo{DB: app.DB},
			applications:  &applications.PGRepo{DB: app.DB},
			notifications: &notifications.PGRepo{DB: app.DB},
			profiles:      &profiles.PGRepo{DB: app.DB},
			tailored:      &tailored.PGRepo{DB: app.DB},
		}
	case app.Config.RecordStore == "memory":
		r = repos{
			resumes:       resumes.NewMemoryRepo(),
			applications:  applications.NewMemoryRepo(),
			notifications: notifications.NewMemoryRepo(),
			profiles:      profiles.NewMemoryRepo(),
			tailored:      tailored.NewMemoryRepo(),
		}
	default:
		r = repos{
			resumes:       &resumes.KVRepo{Store: app.KV},
			applications:  &applications.KVRepo{Store: app.KV},
			notifications: &notifications.KVRepo{Store: app.KV},
			profiles:      &profiles.KVRepo{Store: app.KV},
			tailored:      &tailored.KVRepo{Store: app.KV},
		}
	}

	if app.Mongo != nil {
		mongoRepo := notifications.NewMongoRepo(app.Mongo.Database(app.Config.MongoDatabase))
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return repos{}, fmt.Errorf("mongo indexes: %w", err)
		}
		r.notifications = mongoRepo
	}
	return r, nil
}

// Close releases connections in reverse order of acquisition.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-feedback/internal/convert"
	"resume-feedback/internal/llm"
	"resume-feedback/internal/llm/gemini"
	"resume-feedback/internal/llm/openai"
	"resume-feedback/internal/shared/config"
	"resume-feedback/internal/shared/server"
	"resume-feedback/internal/shared/server/middleware"
	"resume-feedback/internal/shared/storage/db"
	"resume-feedback/internal/shared/storage/kv"
	"resume-feedback/internal/shared/storage/object"
	localstore "resume-feedback/internal/shared/storage/object/local"
	s3store "resume-feedback/internal/shared/storage/object/s3"
	"resume-feedback/internal/shared/telemetry"
	"resume-feedback/internal/submissions"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Redis      *redis.Client
	Store      object.ObjectStore
	Metadata   kv.Store
	AI         llm.Client
	Converter  convert.Converter
	Controller *submissions.Controller
	Service    *submissions.Service
	Handler    *submissions.Handler
}

// Build wires storage, the AI client and the submission flow, then mounts routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.Configure(cfg.LogLevel)

	app := &App{Config: cfg}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	if err := buildMetadata(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	ai, err := buildLLM(ctx, cfg, store)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.AI = ai

	converter, err := convert.NewPDFConverter(cfg.RenderWidth, cfg.UnidocLicenseKey)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Converter = converter

	app.Controller = submissions.NewController(app.Store, app.Converter, app.Metadata, app.AI)
	app.Service = submissions.NewService(app.Metadata)
	app.Handler = submissions.NewHandler(app.Controller, app.Service, app.Store)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		SubmissionHandler: app.Handler,
		SubmitLimit:       submitRule(cfg),
		Limiter:           middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"object_store":   cfg.ObjectStoreType,
		"metadata_store": cfg.MetadataStore,
		"llm_provider":   providerName(cfg.LLMProvider),
	})
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildMetadata(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.MetadataStore {
	case "redis":
		client, err := kv.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		app.Redis = client
		app.Metadata = kv.NewRedisStore(client, cfg.RedisKeyPrefix)
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return fmt.Errorf("METADATA_STORE=postgres requires DATABASE_URL")
		}
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return err
		}
		app.DB = sqlDB
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return err
		}
		app.Metadata = kv.NewPostgresStore(sqlDB)
	default:
		if !isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_metadata", map[string]any{"env": cfg.Env})
		}
		app.Metadata = kv.NewMemoryStore()
	}
	return nil
}

func buildLLM(ctx context.Context, cfg config.Config, store object.ObjectStore) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, store)
	case "gemini":
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, store)
	default:
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"env": cfg.Env})
		return llm.PlaceholderClient{}, nil
	}
}

func submitRule(cfg config.Config) middleware.RateLimitRule {
	if cfg.SubmitPerMinute <= 0 {
		return middleware.RateLimitRule{}
	}
	burst := cfg.SubmitBurst
	if burst <= 0 {
		burst = 1
	}
	return middleware.RateLimitRule{Rate: float64(cfg.SubmitPerMinute) / 60, Burst: burst}
}

func providerName(p string) string {
	if p == "" {
		return "placeholder"
	}
	return p
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// Package bootstrap wires configuration into the running application.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "jobfit-backend/internal/auth"
	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/intake"
	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/llm/gemini"
	"jobfit-backend/internal/llm/openai"
	"jobfit-backend/internal/notify"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/reports"
	"jobfit-backend/internal/services/health"
	"jobfit-backend/internal/shared/config"
	"jobfit-backend/internal/shared/server"
	"jobfit-backend/internal/shared/storage/db"
	"jobfit-backend/internal/shared/storage/object"
	localstore "jobfit-backend/internal/shared/storage/object/local"
	s3store "jobfit-backend/internal/shared/storage/object/s3"
	"jobfit-backend/internal/shared/telemetry"
	"jobfit-backend/internal/skills"
	"jobfit-backend/internal/workflow"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Store      object.ObjectStore
	LLM        llm.Client
	Notices    *notify.Bus
	Sessions   *workflow.Store
	Controller *workflow.Controller
	Reports    *reports.Service
	Skills     *skills.Extractor

	closers []io.Closer
}

// Build prepares every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	client, closer, err := BuildLLM(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.LLM = client
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	app.Notices = notify.NewBus(buildSinks(cfg, app)...)

	var repo reports.Repo = reports.NewMemoryRepo()
	if sqlDB != nil {
		repo = &reports.PGRepo{DB: sqlDB}
	}
	app.Reports = reports.NewService(repo, store)
	app.Skills = skills.NewExtractor(client)

	generator := quiz.NewGenerator(client)
	analyzer := compat.NewAnalyzer(client)
	app.Sessions = workflow.NewStore()
	app.Controller = workflow.NewController(app.Sessions, generator, analyzer, app.Reports, app.Notices)

	intakeSvc := intake.NewService(store)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Health:   health.NewService(sqlDB, providerName(cfg), app.Sessions),
		Google:   googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL),
		Sessions: workflow.NewHandler(app.Controller, intakeSvc, app.Notices),
		Assist:   workflow.NewAssistHandler(generator, analyzer, app.Skills),
		Intake:   intake.NewHandler(intakeSvc),
		Reports:  reports.NewHandler(app.Reports),
	})
	return app, nil
}

// BuildLLM selects the text-generation provider from config and wraps it
// with timeouts, logs and metrics. The closer is nil when nothing needs closing.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, io.Closer, error) {
	var (
		next   llm.Client = llm.PlaceholderClient{}
		closer io.Closer
	)
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": "gemini"})
			break
		}
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		next, closer = c, c
	case "none":
	default:
		if cfg.OpenAIAPIKey == "" {
			telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": "openai"})
			break
		}
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			return nil, nil, err
		}
		next = c
	}
	return &llm.Instrumented{Next: next, Provider: providerName(cfg), Timeout: cfg.LLMTimeout}, closer, nil
}

func providerName(cfg config.Config) string {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			return "gemini"
		}
	case "none":
	default:
		if cfg.OpenAIAPIKey != "" {
			return "openai"
		}
	}
	return "none"
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildSinks dials the AMQP exchange when RABBITMQ_URL is set. A broker that
// cannot be reached leaves notices in-process only.
func buildSinks(cfg config.Config, app *App) []notify.Sink {
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		return nil
	}
	sink, err := notify.DialAMQP(cfg.RabbitMQURL, notify.DefaultExchange)
	if err != nil {
		telemetry.Warn("bootstrap.amqp_unavailable", map[string]any{"error": err})
		return nil
	}
	app.closers = append(app.closers, sink)
	return []notify.Sink{sink}
}

// RunJanitor purges sessions idle for longer than the configured TTL until
// ctx is done.
func (a *App) RunJanitor(ctx context.Context) {
	ttl := a.Config.SessionTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	interval := ttl / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.purge(now.Add(-ttl))
		}
	}
}

func (a *App) purge(cutoff time.Time) int {
	removed := a.Sessions.PurgeIdle(cutoff)
	for _, id := range removed {
		a.Notices.Forget(id)
	}
	if len(removed) > 0 {
		telemetry.Info("workflow.sessions_purged", map[string]any{"count": len(removed)})
	}
	return len(removed)
}

// Close releases the database, broker connection and provider client.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
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

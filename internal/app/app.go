package app

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nnamdiokafor/foliobot/internal/config"
	"github.com/nnamdiokafor/foliobot/internal/core"
	db "github.com/nnamdiokafor/foliobot/internal/core/database"
	"github.com/nnamdiokafor/foliobot/internal/core/llm"
	"github.com/nnamdiokafor/foliobot/internal/core/logstore"
	objectclient "github.com/nnamdiokafor/foliobot/internal/core/object-client"
	"github.com/nnamdiokafor/foliobot/internal/core/pipeline"
	"github.com/nnamdiokafor/foliobot/internal/core/secrets"
	"github.com/nnamdiokafor/foliobot/internal/services"
)

type App struct {
	DBClient core.DbClient
	Gemini   *llm.GeminiClient
	Logs     *logstore.Store
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logs := setupLogging()

	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	var store core.DbClient
	if cfg.DatabaseURL != "" {
		dbClient, err := db.NewDatabaseClient(appCtx, cfg)
		if err != nil {
			return nil, err
		}
		slog.Info("database initialized and ready")
		store = dbClient
	} else {
		slog.Info("DATABASE_URL not set, using in-memory store (contents lost on restart)")
		store = db.NewMemoryClient()
	}

	var objects core.ObjectClient
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		objClient, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			return nil, err
		}
		objects = objClient
	} else {
		slog.Info("AWS credentials not set, avatar upload disabled")
	}

	keys := secrets.NewResolver(cfg.AIAPIKey, cfg.SecretBoxKey, store)
	gemini := llm.NewGeminiClient(keys.APIKey)
	orchestrator := llm.NewOrchestrator(gemini, modelCandidates(cfg))

	settings := services.NewSettingsService(store)
	snapshots := services.NewSnapshotCache(settings, time.Duration(cfg.SnapshotCacheSecs)*time.Second)
	integrations := pipeline.NewIntegrations(time.Duration(cfg.FeedTimeoutSecs) * time.Second)
	limiter := pipeline.NewRateLimiter(cfg.RateShortCap, cfg.RateDailyCap)

	chatPipeline := pipeline.New(limiter, snapshots, integrations, keys, orchestrator, store)

	server, err := NewServer(cfg, chatPipeline, settings, snapshots, keys, objects, logs)
	if err != nil {
		return nil, err
	}

	return &App{DBClient: store, Gemini: gemini, Logs: logs, Server: server}, nil
}

func (a *App) Close() {
	if a.Gemini != nil {
		_ = a.Gemini.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}

// setupLogging installs the redacting in-memory handler in front of stderr
// text output and returns the ring the dashboard reads.
func setupLogging() *logstore.Store {
	store := logstore.NewStore(500)
	text := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logstore.NewHandler(store, text)))
	return store
}

func modelCandidates(cfg *config.Config) []string {
	if cfg.ModelCandidates == "" {
		return nil
	}
	var out []string
	for _, m := range strings.Split(cfg.ModelCandidates, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

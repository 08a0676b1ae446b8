package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/replyforge/replyforge/internal/ai"
	"github.com/replyforge/replyforge/internal/config"
	"github.com/replyforge/replyforge/internal/embedcache"
	"github.com/replyforge/replyforge/internal/extract"
	"github.com/replyforge/replyforge/internal/filestore"
	"github.com/replyforge/replyforge/internal/handler"
	"github.com/replyforge/replyforge/internal/ingest"
	"github.com/replyforge/replyforge/internal/job"
	"github.com/replyforge/replyforge/internal/middleware"
	"github.com/replyforge/replyforge/internal/repo"
	"github.com/replyforge/replyforge/internal/schedule"
	"github.com/replyforge/replyforge/internal/service"
)

const embedLRUSize = 2048

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "replyforge",
		Short: "replyforge backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run replyforge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if cfg.MigrationsDir != "" {
				if err := repo.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
					return fmt.Errorf("migrations: %w", err)
				}
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	docRepo := repo.NewDocumentRepo(db)
	chunkRepo := repo.NewChunkRepo(db)
	voiceRepo := repo.NewVoiceRepo(db)
	cacheRepo := repo.NewEmbeddingCacheRepo(db)

	aiProvider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init embed provider: %w", err)
	}
	generator := ai.NewGenerator(aiProvider, cfg.AI.Model)
	embedder := ai.NewEmbedder(embedProvider, cfg.AI.EmbedModel)
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, cacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder, embedLRUSize, time.Hour)

	store, err := filestore.New(cfg.FileStore.Type, cfg.FileStore.Data)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	extractor := extract.NewExtractor()

	ingestService := service.NewIngestService(docRepo, chunkRepo, extractor, embedder, store, service.IngestConfig{
		TargetTokens:  cfg.Ingest.TargetTokens,
		OverlapTokens: cfg.Ingest.OverlapTokens,
	})
	pool := ingest.NewPool(ingestService, cfg.Ingest.Workers, cfg.Ingest.QueueSize)
	ingestService.AttachQueue(pool)

	ragService := service.NewRAGService(embedder, chunkRepo, voiceRepo, cfg.Retrieval.MaxChunks, cfg.Retrieval.SimilarityThreshold)
	replyService := service.NewReplyService(ragService, generator)
	voiceService := service.NewVoiceService(voiceRepo)

	deps := handler.RouterDeps{
		Documents:       handler.NewDocumentHandler(ingestService, cfg.Ingest.MaxUploadBytes),
		Voice:           handler.NewVoiceHandler(voiceService),
		Replies:         handler.NewReplyHandler(replyService),
		JWTSecret:       []byte(cfg.JWTSecret),
		RateLimitWindow: time.Duration(cfg.Jobs.RateLimitWindowMillis) * time.Millisecond,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			middleware.RequestID(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx)

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.Jobs.CacheTTLDays), cfg.Jobs.CacheCleanupSpec); err != nil {
		return fmt.Errorf("schedule cache cleanup: %w", err)
	}
	if err := scheduler.AddJob(job.NewIngestSweepJob(docRepo, cfg.Jobs.IngestTimeoutMinutes), cfg.Jobs.IngestSweepSpec); err != nil {
		return fmt.Errorf("schedule ingest sweep: %w", err)
	}
	scheduler.Start(ctx)

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	scheduler.Stop()
	pool.Stop()
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	DSN           string           `json:"dsn"`
	MigrationsDir string           `json:"migrations_dir"`
	JWTSecret     string           `json:"jwt_secret"`
	JWTTTLHours   int              `json:"jwt_ttl_hours"`
	LogConfig     logger.LogConfig `json:"log_config"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	FileStore     FileStoreConfig  `json:"file_store"`
	AI            AIConfig         `json:"ai"`
	Ingest        IngestConfig     `json:"ingest"`
	Retrieval     RetrievalConfig  `json:"retrieval"`
	Jobs          JobsConfig       `json:"jobs"`
}

type FileStoreConfig struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

type AIConfig struct {
	Provider   string                 `json:"provider"`
	Model      string                 `json:"model"`
	EmbedModel string                 `json:"embed_model"`
	Data       map[string]interface{} `json:"data"`
}

type IngestConfig struct {
	TargetTokens   int   `json:"target_tokens"`
	OverlapTokens  int   `json:"overlap_tokens"`
	Workers        int   `json:"workers"`
	QueueSize      int   `json:"queue_size"`
	MaxUploadBytes int64 `json:"max_upload_bytes"`
}

type RetrievalConfig struct {
	MaxChunks           int     `json:"max_chunks"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

type JobsConfig struct {
	CacheCleanupSpec      string `json:"cache_cleanup_spec"`
	CacheTTLDays          int    `json:"cache_ttl_days"`
	IngestSweepSpec       string `json:"ingest_sweep_spec"`
	IngestTimeoutMinutes  int    `json:"ingest_timeout_minutes"`
	RateLimitWindowMillis int64  `json:"rate_limit_window_millis"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.Ingest.TargetTokens == 0 {
		cfg.Ingest.TargetTokens = 500
	}
	if cfg.Ingest.OverlapTokens == 0 {
		cfg.Ingest.OverlapTokens = 100
	}
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = 2
	}
	if cfg.Ingest.QueueSize == 0 {
		cfg.Ingest.QueueSize = 64
	}
	if cfg.Ingest.MaxUploadBytes == 0 {
		cfg.Ingest.MaxUploadBytes = 20 << 20
	}
	if cfg.Retrieval.MaxChunks == 0 {
		cfg.Retrieval.MaxChunks = 10
	}
	if cfg.Retrieval.SimilarityThreshold == 0 {
		cfg.Retrieval.SimilarityThreshold = 0.7
	}
	if cfg.Jobs.CacheCleanupSpec == "" {
		cfg.Jobs.CacheCleanupSpec = "0 3 * * *"
	}
	if cfg.Jobs.CacheTTLDays == 0 {
		cfg.Jobs.CacheTTLDays = 30
	}
	if cfg.Jobs.IngestSweepSpec == "" {
		cfg.Jobs.IngestSweepSpec = "*/15 * * * *"
	}
	if cfg.Jobs.IngestTimeoutMinutes == 0 {
		cfg.Jobs.IngestTimeoutMinutes = 60
	}
	if cfg.Jobs.RateLimitWindowMillis == 0 {
		cfg.Jobs.RateLimitWindowMillis = 1000
	}
	return &cfg, nil
}

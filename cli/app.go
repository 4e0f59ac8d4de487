// Package cli wires configuration, storage and services into commands.
package cli

import (
	"context"
	"time"

	"metro-rent-assistant/cache"
	"metro-rent-assistant/config"
	"metro-rent-assistant/llm"
	"metro-rent-assistant/services"
	"metro-rent-assistant/storage"
	"metro-rent-assistant/utils"
)

// app holds everything a command needs. close releases connections.
type app struct {
	cfg       *config.Config
	logger    *utils.Logger
	store     *services.DatasetStore
	assistant *services.Assistant
	closers   []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("[cli] Close failed: %v", err)
		}
	}
	a.logger.Sync()
}

func loadConfig() (*config.Config, *utils.Logger, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	return cfg, utils.NewLoggerWithLevel(level), nil
}

func retryConfig(cfg *config.Config, logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Logger:      logger,
	}
}

// newApp builds the dataset store and assistant. Redis and the polisher are
// optional: when they fail to initialise the assistant runs without them.
func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	var source storage.MetroSource
	switch cfg.DataSource {
	case "postgres":
		logger.Info("[cli] Reading metros from %s", utils.SanitizeConnectionString(cfg.DSN()))
		pg, err := storage.NewPostgresStore(ctx, cfg.DSN(), retryConfig(cfg, logger))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		source = pg
	default:
		logger.Info("[cli] Reading metros from %s", cfg.DataPath)
		source = storage.NewCSVSource(cfg.DataPath)
	}

	a.store = services.NewDatasetStore(source, logger)
	recommender := services.NewRecommender(a.store, services.RecommenderOptions{
		RowLimit:           cfg.RowLimit,
		IncludeUSAggregate: cfg.IncludeUSAggregate,
	}, logger)

	opts := services.AssistantOptions{PolishTimeout: cfg.Polish.Timeout}

	polisher, err := llm.NewPolisher(cfg.Polish)
	if err != nil {
		logger.Warn("[cli] Polish disabled: %v", err)
	} else if polisher != nil {
		logger.Info("[cli] Polishing replies with %s", polisher.Name())
		opts.Polisher = polisher
	}

	if cfg.Redis.Enabled() {
		rc, err := cache.NewResponseCache(ctx, cfg.Redis, retryConfig(cfg, logger))
		if err != nil {
			logger.Warn("[cli] Response cache disabled: %v", err)
		} else {
			a.closers = append(a.closers, rc.Close)
			opts.Cache = rc
		}
	}

	a.assistant = services.NewAssistant(recommender, opts, logger)
	return a, nil
}

package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/filing-intake/internal/config"
	"github.com/sells-group/filing-intake/internal/convert"
	"github.com/sells-group/filing-intake/internal/docai"
	"github.com/sells-group/filing-intake/internal/fetcher"
	"github.com/sells-group/filing-intake/internal/pipeline"
	"github.com/sells-group/filing-intake/internal/progress"
	"github.com/sells-group/filing-intake/internal/resilience"
	"github.com/sells-group/filing-intake/internal/store"
	"github.com/sells-group/filing-intake/pkg/anthropic"
	"github.com/sells-group/filing-intake/pkg/filestore"
)

// env bundles the wired collaborators behind the CLI commands.
type env struct {
	Store    store.Store
	Emitter  *progress.Emitter
	Pipeline *pipeline.Pipeline
}

// initStore opens the configured database backend.
func initStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "postgres", "":
		return store.NewPostgres(ctx, cfg.DatabaseURL, &store.PoolConfig{
			MaxConns: int32(cfg.MaxConns),
			MinConns: int32(cfg.MinConns),
		})
	case "sqlite":
		return store.NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// initEnv wires the full pipeline from config.
func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	if cfg.FileStore.BaseURL == "" {
		_ = st.Close()
		return nil, eris.New("filestore.base_url is required")
	}
	files := filestore.NewClient(cfg.FileStore.BaseURL, cfg.FileStore.APIKey)

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	})
	ftpFetcher := fetcher.NewFTPFetcher(fetcher.FTPOptions{
		Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
	})
	dispatcher := fetcher.NewDispatcher(httpFetcher, ftpFetcher)

	converter, err := convert.NewConverter(cfg.Convert)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "init converter")
	}

	rules, err := docai.LoadRules(cfg.Classify.RulesPath)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "load classification rules")
	}

	aiClient := anthropic.NewClient(cfg.Anthropic.Key)
	classifier := docai.NewAnthropicClassifier(aiClient, cfg.Anthropic.ClassifyModel)
	extractor := docai.NewAnthropicExtractor(aiClient, cfg.Anthropic.ExtractModel)

	emitter := progress.NewEmitter(progress.DefaultBuffer)

	p := pipeline.New(
		files, dispatcher, converter, classifier, extractor,
		rules, st, emitter,
		resilience.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Delay:       cfg.Retry.Delay(),
		},
	)

	return &env{Store: st, Emitter: emitter, Pipeline: p}, nil
}

// Close releases held resources.
func (e *env) Close() {
	e.Emitter.Close()
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/certgen/internal/config"
	"github.com/abhisek/certgen/internal/llm"
	"github.com/abhisek/certgen/internal/logging"
	"github.com/abhisek/certgen/internal/store"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg   config.Config
	log   *zap.Logger
	store *store.Store
}

// setup loads configuration, builds the logger and opens the database.
func setup(cmd *cobra.Command) (*runtime, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("database opened", zap.String("path", dbPath))

	return &runtime{cfg: cfg, log: log, store: s}, nil
}

func (r *runtime) Close() {
	_ = r.store.Close()
	_ = r.log.Sync()
}

// provider builds the configured LLM provider with retry and event logging.
func (r *runtime) provider(ctx context.Context) (llm.Provider, error) {
	lc, err := r.cfg.ResolveLLM()
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return llm.NewProvider(ctx, lc, r.store.EventRepo(), r.log.Named("llm"))
}

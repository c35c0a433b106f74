package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stableScope/internal/batch"
	"stableScope/internal/config"
	"stableScope/internal/quote"
	"stableScope/internal/storage"
	"stableScope/internal/storage/postgres"
)

func runBatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}
	if cfg.Name == "" {
		return fmt.Errorf("batch name is required")
	}
	if cfg.PGDSN == "" && cfg.Out == "" {
		return fmt.Errorf("output path or pg dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink storage.Storage
	var stateStore batch.StateStore
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sink = store
		stateStore = &batch.DBStateStore{Store: store, Name: "batch:" + cfg.Name}
	} else {
		sink = storage.NewJsonlStorage(cfg.Out)
	}
	if cfg.StateFile != "" {
		stateStore = &batch.FileStateStore{Path: cfg.StateFile}
	}

	errWriter, err := storage.NewJSONLWriter(cfg.Errors, stateStore != nil)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	quoter := quote.NewQuoter(quote.Config{BatchName: cfg.Name, DefaultSlippageBps: cfg.SlippageBps}, logger)
	runner := batch.NewRunner(batch.RunConfig{
		Name:         cfg.Name,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		StateStore:   stateStore,
	}, quoter, sink, errWriter, logger)

	logger.Info("batch start",
		zap.String("input", cfg.Input),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("name", cfg.Name),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Bool("resumable", stateStore != nil),
	)

	_, err = runner.Run(ctx, cfg.Input)
	return err
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}

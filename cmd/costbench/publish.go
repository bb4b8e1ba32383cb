package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/costbench/internal/db"
	"github.com/gyeh/costbench/internal/exitcode"
	"github.com/gyeh/costbench/internal/logging"
	"github.com/gyeh/costbench/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Load a completed run's Parquet output into Postgres",
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&cfg.OutputDir, "from", "", "Run output directory to publish (required)")
	_ = publishCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if _, err := os.Stat(cfg.OutputDir); err != nil {
		log.Error().Err(err).Msg("output dir not accessible")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	stats, err := publish.Publish(ctx, pool, log, cfg.OutputDir)
	if err != nil {
		log.Error().Err(err).Msg("publish failed")
		os.Exit(exitcode.PublishError)
	}

	fmt.Printf("Publish complete: %d facts, %d KPI rows, %d benchmark rows\n",
		stats.FactRows, stats.KPIRows, stats.BenchmarkRows)
	return nil
}

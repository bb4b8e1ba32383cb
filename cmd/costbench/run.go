package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/costbench/internal/etl"
	"github.com/gyeh/costbench/internal/exitcode"
	"github.com/gyeh/costbench/internal/logging"
)

var configFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: parse, dedupe, facts, KPIs, benchmarks",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&cfg.InputDir, "input", "", "Directory holding the per-year alpha/nmrc/rpt CSV triples (required)")
	f.StringVar(&cfg.OutputDir, "output", "", "Output directory for Parquet tables (required)")
	f.IntSliceVar(&cfg.Years, "years", nil, "Fiscal years to process, e.g. 2021,2022")
	f.StringSliceVar(&cfg.Statements, "statements", nil, "Statements to extract (default: all)")
	f.StringSliceVar(&cfg.StateAllowlist, "states", nil, "Restrict output to these two-digit state codes")
	f.IntVar(&cfg.Workers, "workers", 0, "Concurrent fiscal-year workers")
	f.IntVar(&cfg.MinPeerGroup, "min-peer-group", 0, "Minimum benchmark peer-group size")
	f.StringVar(&configFile, "config", "", "YAML config file (flags take precedence)")
	_ = runCmd.MarkFlagRequired("input")
	_ = runCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	out, err := etl.Run(ctx, log, &cfg)
	if err != nil {
		var pe *etl.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("pipeline failed")
			os.Exit(phaseExitCode(pe.Phase))
		}
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(exitcode.ParseError)
	}

	s := out.Summary
	fmt.Printf("Run complete: %d facts, %d KPI rows, %d benchmark rows (%.1fs)\n",
		s.FactsWritten, s.KPIRows, s.BenchmarkRows, s.DurationTotal.Seconds())
	if s.YearsSkipped > 0 {
		fmt.Printf("Warning: %d of %d fiscal years skipped (missing input files)\n",
			s.YearsSkipped, len(cfg.Years))
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func phaseExitCode(phase string) int {
	switch phase {
	case "dictionaries", "join":
		return exitcode.ValidationError
	case "parse":
		return exitcode.ParseError
	case "dedupe", "benchmark":
		return exitcode.BarrierError
	default:
		return exitcode.PublishError
	}
}

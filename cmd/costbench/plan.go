package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/costbench/internal/dictionary"
	"github.com/gyeh/costbench/internal/exitcode"
	"github.com/gyeh/costbench/internal/hcris"
	"github.com/gyeh/costbench/internal/logging"
	"github.com/gyeh/costbench/internal/normalize"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run input validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.InputDir, "input", "", "Directory holding the per-year alpha/nmrc/rpt CSV triples (required)")
	f.IntSliceVar(&cfg.Years, "years", nil, "Fiscal years to check, e.g. 2021,2022")
	_ = planCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if cfg.InputDir == "" || len(cfg.Years) == 0 {
		log.Error().Msg("--input and --years are required")
		os.Exit(exitcode.UsageError)
	}
	cfg.ApplyDefaults()

	fmt.Println("=== costbench plan ===")

	// Dictionary sanity first: a dictionary problem fails every year.
	for _, ws := range cfg.Worksheets() {
		d, err := dictionary.Load(ws.Dictionary)
		if err != nil {
			log.Error().Err(err).Str("statement", ws.Statement).Msg("dictionary load failed")
			os.Exit(exitcode.ValidationError)
		}
		fmt.Printf("Dictionary %-22s %3d lines, %2d columns\n", ws.Statement, d.Lines(), d.Columns())
	}
	fmt.Println()

	missing := 0
	for _, year := range cfg.Years {
		triple, err := hcris.LocateTriple(cfg.InputDir, year)
		if err != nil {
			var mi *hcris.MissingInputError
			if errors.As(err, &mi) {
				fmt.Printf("FY %d: MISSING (%s)\n", year, mi.Error())
				missing++
				continue
			}
			log.Error().Err(err).Int("fiscal_year", year).Msg("input check failed")
			os.Exit(exitcode.ValidationError)
		}

		fmt.Printf("FY %d:\n", year)
		for _, item := range []struct{ kind, path string }{
			{"alpha", triple.Alpha},
			{"nmrc", triple.Nmrc},
			{"rpt", triple.Rpt},
		} {
			stat, err := os.Stat(item.path)
			if err != nil {
				log.Error().Err(err).Msg("stat failed")
				os.Exit(exitcode.ValidationError)
			}
			sha, err := normalize.FileHash(item.path)
			if err != nil {
				log.Error().Err(err).Msg("hash failed")
				os.Exit(exitcode.ValidationError)
			}
			fmt.Printf("  %-5s %12d bytes  sha256=%s\n", item.kind, stat.Size(), sha[:12])
		}
	}

	fmt.Println()
	if missing > 0 {
		fmt.Printf("%d of %d fiscal years missing; run would skip them\n", missing, len(cfg.Years))
	} else {
		fmt.Println("All inputs present")
	}
	return nil
}

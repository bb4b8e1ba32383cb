package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/costbench/internal/config"
	"github.com/gyeh/costbench/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "costbench",
	Short: "HCRIS cost-report ETL and benchmark engine",
	Long:  "Transforms CMS HCRIS hospital cost-report extracts into partitioned Parquet fact tables, derives financial KPIs, and computes peer-group benchmarks.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("COSTBENCH_DB_URL"), "Postgres connection string (or set COSTBENCH_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}

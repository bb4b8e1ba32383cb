// Package factwrite writes the pipeline's output tables as Parquet. Fact
// tables are Hive-partitioned by fiscal year and state so downstream query
// engines can prune partitions; KPI and benchmark tables are small and land
// as single files.
package factwrite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/gyeh/costbench/internal/model"
)

// WriteStatement writes one statement's fact rows under
// <root>/<statement>/fiscal_year=YYYY/state_code=SS/part-000.parquet.
// Exactly-zero values are dropped unless the worksheet keeps them; rows are
// assumed already sorted (the deduplicator emits them that way), which keeps
// partition contents deterministic. Returns the number of rows written.
func WriteStatement(root string, ws model.Worksheet, rows []model.FactRow, log zerolog.Logger) (int64, error) {
	type partKey struct {
		year  int32
		state string
	}

	parts := make(map[partKey][]model.FactRow)
	var filtered int64
	for _, row := range rows {
		if row.Value == 0 && !ws.KeepZeroValues {
			filtered++
			continue
		}
		k := partKey{year: row.FiscalYear, state: row.StateCode}
		parts[k] = append(parts[k], row)
	}

	var written int64
	for k, partRows := range parts {
		dir := filepath.Join(root, ws.Statement,
			fmt.Sprintf("fiscal_year=%d", k.year),
			fmt.Sprintf("state_code=%s", k.state))
		if err := writeParquet(filepath.Join(dir, "part-000.parquet"), partRows); err != nil {
			return written, fmt.Errorf("writing %s partition %d/%s: %w", ws.Statement, k.year, k.state, err)
		}
		written += int64(len(partRows))
	}

	log.Info().
		Str("statement", ws.Statement).
		Int("partitions", len(parts)).
		Int64("rows", written).
		Int64("zero_filtered", filtered).
		Msg("fact table written")
	return written, nil
}

// WriteKPIs writes the KPI table to <root>/kpi/kpi.parquet.
func WriteKPIs(root string, rows []model.KpiRow) error {
	return writeParquet(filepath.Join(root, "kpi", "kpi.parquet"), rows)
}

// WriteBenchmarks writes the benchmark table to <root>/benchmarks/benchmarks.parquet.
func WriteBenchmarks(root string, rows []model.BenchmarkRow) error {
	return writeParquet(filepath.Join(root, "benchmarks", "benchmarks.parquet"), rows)
}

func writeParquet[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := parquet.NewGenericWriter[T](f, parquet.Compression(&parquet.Zstd))
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return f.Close()
}

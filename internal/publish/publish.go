// Package publish loads a completed run's Parquet output into the Postgres
// serving schema. Each table is replaced in full inside one transaction, so
// readers switch from the previous run to the new one atomically.
package publish

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/costbench/internal/db"
	"github.com/gyeh/costbench/internal/model"
	"github.com/gyeh/costbench/internal/parquetread"
	embedsql "github.com/gyeh/costbench/internal/sql"
)

const copyBatchSize = 4096

// Stats reports rows loaded per table.
type Stats struct {
	FactRows      int64
	KPIRows       int64
	BenchmarkRows int64
}

// Publish loads every table from outputDir into the hcris schema under a
// fresh run id, replacing the previous contents table by table.
func Publish(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, outputDir string) (*Stats, error) {
	runID := uuid.New()
	log.Info().Str("run_id", runID.String()).Str("output_dir", outputDir).Msg("publishing run")

	stats := &Stats{}

	n, err := publishFacts(ctx, pool, log, outputDir, runID)
	if err != nil {
		return nil, fmt.Errorf("publish facts: %w", err)
	}
	stats.FactRows = n

	n, err = publishTable(ctx, pool, runID,
		filepath.Join(outputDir, "kpi", "kpi.parquet"),
		"kpi_values", model.KpiColumns(), embedsql.DeleteKPIValues,
		func(r model.KpiRow) []any { return r.CopyValues() })
	if err != nil {
		return nil, fmt.Errorf("publish kpi values: %w", err)
	}
	stats.KPIRows = n

	n, err = publishTable(ctx, pool, runID,
		filepath.Join(outputDir, "benchmarks", "benchmarks.parquet"),
		"benchmarks", model.BenchmarkColumns(), embedsql.DeleteBenchmarks,
		func(r model.BenchmarkRow) []any { return r.CopyValues() })
	if err != nil {
		return nil, fmt.Errorf("publish benchmarks: %w", err)
	}
	stats.BenchmarkRows = n

	// Read the counts back so the log reflects what the serving tables
	// actually hold, not just what we sent.
	var factCount, kpiCount, benchCount int64
	if err := pool.QueryRow(ctx, embedsql.TableCounts).Scan(&factCount, &kpiCount, &benchCount); err != nil {
		return nil, fmt.Errorf("verify counts: %w", err)
	}
	if factCount != stats.FactRows || kpiCount != stats.KPIRows || benchCount != stats.BenchmarkRows {
		return nil, fmt.Errorf("post-load count mismatch: facts %d/%d, kpis %d/%d, benchmarks %d/%d",
			factCount, stats.FactRows, kpiCount, stats.KPIRows, benchCount, stats.BenchmarkRows)
	}

	log.Info().
		Int64("fact_rows", stats.FactRows).
		Int64("kpi_rows", stats.KPIRows).
		Int64("benchmark_rows", stats.BenchmarkRows).
		Msg("publish complete")
	return stats, nil
}

// publishFacts replaces hcris.fact_rows with every statement's partitions.
// One transaction covers the delete and all statement COPYs.
func publishFacts(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, outputDir string, runID uuid.UUID) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, embedsql.DeleteFacts); err != nil {
		return 0, err
	}

	var total int64
	for _, ws := range model.AllWorksheets {
		stmtDir := filepath.Join(outputDir, ws.Statement)
		files, err := parquetread.PartitionFiles(stmtDir)
		if err != nil {
			return 0, err
		}
		if len(files) == 0 {
			log.Warn().Str("statement", ws.Statement).Msg("no partitions to publish")
			continue
		}

		n, err := copyStatement(ctx, tx, runID, ws.Statement, files)
		if err != nil {
			return 0, fmt.Errorf("statement %s: %w", ws.Statement, err)
		}
		log.Info().Str("statement", ws.Statement).Int64("rows", n).Msg("statement published")
		total += n
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return total, nil
}

// copyStatement streams one statement's partition files through a channel
// into COPY. The channel keeps the Parquet reader and the COPY writer in
// lockstep instead of materializing the statement in memory.
func copyStatement(ctx context.Context, tx pgx.Tx, runID uuid.UUID, statement string, files []string) (int64, error) {
	ch := make(chan model.FactRow, copyBatchSize)

	var copied int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		for _, path := range files {
			if err := streamFile(gctx, path, ch); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		src := db.NewChannelSource(ch, []any{runID, statement}, factCopyValues)
		n, err := tx.CopyFrom(gctx, pgx.Identifier{"hcris", "fact_rows"}, model.FactColumns(), src)
		copied = n
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return copied, nil
}

func streamFile(ctx context.Context, path string, ch chan<- model.FactRow) error {
	r, err := parquetread.Open[model.FactRow](path)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := parquetread.ValidateFactSchema(r.Schema()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	buf := make([]model.FactRow, copyBatchSize)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case ch <- buf[i]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// factCopyValues maps a fact row to COPY values, converting the ISO day
// strings into time.Time for the date columns. A report without a process
// date carries an empty string and lands as NULL.
func factCopyValues(r model.FactRow) []any {
	vals := r.CopyValues()
	vals[13] = isoToTime(r.FYBegin)
	vals[14] = isoToTime(r.FYEnd)
	vals[15] = isoToTime(&r.ProcessDate)
	return vals
}

func isoToTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

// publishTable replaces one single-file table inside a transaction.
func publishTable[T any](
	ctx context.Context,
	pool *pgxpool.Pool,
	runID uuid.UUID,
	path string,
	table string,
	columns []string,
	deleteQuery string,
	values func(T) []any,
) (int64, error) {
	rows, err := parquetread.ReadAll[T](path)
	if err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteQuery); err != nil {
		return 0, err
	}

	ch := make(chan T, copyBatchSize)
	go func() {
		defer close(ch)
		for _, row := range rows {
			ch <- row
		}
	}()

	src := db.NewChannelSource(ch, []any{runID}, values)
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"hcris", table}, columns, src)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

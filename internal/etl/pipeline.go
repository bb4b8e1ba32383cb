package etl

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/costbench/internal/benchmark"
	"github.com/gyeh/costbench/internal/config"
	"github.com/gyeh/costbench/internal/dictionary"
	"github.com/gyeh/costbench/internal/factwrite"
	"github.com/gyeh/costbench/internal/kpi"
	"github.com/gyeh/costbench/internal/model"
)

// Output is the in-memory result of a full pipeline run. The same rows are
// written to the partitioned Parquet output; Output exists so tests and the
// publish stage can work without re-reading files.
type Output struct {
	Facts      map[string][]model.FactRow
	KPIs       []model.KpiRow
	Benchmarks []model.BenchmarkRow
	Summary    *model.RunSummary
}

// Run executes the full pipeline: per-year parse/roll-up/join fan-out →
// dedupe barrier → fact write → KPI derivation → benchmark computation.
// Output files land in cfg.OutputDir atomically: the previous output is
// replaced only after every table has been written.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*Output, error) {
	totalStart := time.Now()
	runID := uuid.New()
	summary := &model.RunSummary{
		RunID:            runID.String(),
		FactsByStatement: make(map[string]int64),
	}

	// Phase 1: dictionaries
	dicts := make(map[string]*dictionary.Dictionary)
	for _, ws := range cfg.Worksheets() {
		d, err := dictionary.Load(ws.Dictionary)
		if err != nil {
			return nil, &PipelineError{Phase: "dictionaries", Err: err}
		}
		dicts[ws.Statement] = d
	}

	// Phase 2: per-year fan-out. Years are mutually independent through the
	// join; a year's failure to parse is isolated, a genuine fault is not.
	log.Info().Ints("years", cfg.Years).Int("workers", cfg.Workers).Msg("starting per-year parse")
	parseStart := time.Now()

	results := make([]*YearResult, len(cfg.Years))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, year := range cfg.Years {
		g.Go(func() error {
			res, err := ProcessYear(log, cfg, dicts, year)
			if err != nil {
				return fmt.Errorf("fiscal year %d: %w", year, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &PipelineError{Phase: "parse", Err: err}
	}

	// Merge per-year metrics and union fact rows per statement.
	union := make(map[string][]model.FactRow)
	for _, res := range results {
		summary.Years = append(summary.Years, res.Summary)
		if res.Skipped {
			summary.YearsSkipped++
			log.Warn().Int("fiscal_year", res.Year).Str("reason", res.SkipReason).Msg("fiscal year skipped")
			continue
		}
		summary.RowsParsed += res.Summary.AlphaRows + res.Summary.NumericRows + res.Summary.ReportRows
		summary.RowsMalformed += res.Summary.MalformedRows
		summary.NonNumericCodes += res.NonNumeric
		summary.JoinRows += res.Join.Rows
		summary.JoinMisses += res.Join.DictMisses + res.Join.MetaMisses
		for stmt, rows := range res.Facts {
			union[stmt] = append(union[stmt], rows...)
		}
	}
	summary.DurationParse = time.Since(parseStart)

	if summary.YearsSkipped == len(cfg.Years) {
		return nil, &PipelineError{Phase: "parse", Err: fmt.Errorf("all %d fiscal years skipped", len(cfg.Years))}
	}

	// Join-miss rate alarm: a high rate means the roll-up grid and the name
	// dictionaries disagree, which silently degrades every downstream table.
	if summary.JoinRows > 0 {
		missRate := float64(summary.JoinMisses) / float64(2*summary.JoinRows)
		if missRate > cfg.JoinMissThreshold {
			return nil, &PipelineError{Phase: "join", Err: fmt.Errorf(
				"dictionary miss rate %.1f%% exceeds threshold %.1f%%",
				100*missRate, 100*cfg.JoinMissThreshold)}
		}
	}

	// Phase 3: dedupe barrier. All years must be in; one survivor per
	// (provider, fiscal year, line, column) group per statement.
	log.Info().Msg("starting deduplication")
	dedupeStart := time.Now()
	rank := StatusRank(cfg.StatusOrder)
	facts := make(map[string][]model.FactRow, len(union))
	for stmt, rows := range union {
		summary.RowsBeforeDedupe += int64(len(rows))
		deduped := Deduplicate(rows, rank)
		if err := VerifyDeduped(deduped); err != nil {
			return nil, &PipelineError{Phase: "dedupe", Err: &BarrierStageFailure{Stage: "dedupe", Err: err}}
		}
		facts[stmt] = deduped
		summary.RowsDeduped += int64(len(deduped))
	}
	summary.DurationDedupe = time.Since(dedupeStart)
	log.Info().
		Int64("rows_in", summary.RowsBeforeDedupe).
		Int64("rows_out", summary.RowsDeduped).
		Dur("duration", summary.DurationDedupe).
		Msg("deduplication complete")

	// Optional state allowlist, applied before the fact write.
	if len(cfg.StateAllowlist) > 0 {
		allowed := make(map[string]bool, len(cfg.StateAllowlist))
		for _, s := range cfg.StateAllowlist {
			allowed[s] = true
		}
		for stmt, rows := range facts {
			kept := rows[:0]
			for _, row := range rows {
				if allowed[row.StateCode] {
					kept = append(kept, row)
				}
			}
			facts[stmt] = kept
		}
	}

	// Per-worksheet zero filter, applied before both the fact write and the
	// KPI derivation so they read the same cells. On most statements an
	// exact zero means the cell was not reported; fund-balance changes keep
	// real zero deltas.
	for _, ws := range cfg.Worksheets() {
		if ws.KeepZeroValues {
			continue
		}
		rows := facts[ws.Statement]
		kept := rows[:0]
		for _, row := range rows {
			if row.Value != 0 {
				kept = append(kept, row)
			}
		}
		summary.RowsZeroFiltered += int64(len(rows) - len(kept))
		facts[ws.Statement] = kept
	}

	// Phase 4: fact write into a staging directory; renamed into place only
	// after every table is complete so no partial output is ever published.
	log.Info().Msg("writing fact tables")
	factStart := time.Now()
	staging := cfg.OutputDir + ".staging"
	if err := os.RemoveAll(staging); err != nil {
		return nil, &PipelineError{Phase: "facts", Err: err}
	}
	for _, ws := range cfg.Worksheets() {
		n, err := factwrite.WriteStatement(staging, ws, facts[ws.Statement], log)
		if err != nil {
			return nil, &PipelineError{Phase: "facts", Err: err}
		}
		summary.FactsByStatement[ws.Statement] = n
		summary.FactsWritten += n
	}
	summary.DurationFacts = time.Since(factStart)

	// Phase 5: KPI derivation across the union of all fact tables.
	log.Info().Msg("computing KPIs")
	kpiStart := time.Now()
	kpis := kpi.Compute(facts, log)
	summary.KPIRows = int64(len(kpis))
	if err := factwrite.WriteKPIs(staging, kpis); err != nil {
		return nil, &PipelineError{Phase: "kpi", Err: err}
	}
	summary.DurationKPI = time.Since(kpiStart)

	// Phase 6: benchmark barrier. Each (kpi, level, year) fans out; the
	// subset invariants are checked against the complete set before any
	// row is written.
	log.Info().Msg("computing benchmarks")
	benchStart := time.Now()
	benchmarks, err := benchmark.Compute(ctx, log, kpis, cfg.MinPeerGroup)
	if err != nil {
		return nil, &PipelineError{Phase: "benchmark", Err: &BarrierStageFailure{Stage: "benchmark", Err: err}}
	}
	summary.BenchmarkRows = int64(len(benchmarks))
	if err := factwrite.WriteBenchmarks(staging, benchmarks); err != nil {
		return nil, &PipelineError{Phase: "benchmark", Err: err}
	}
	summary.DurationBenchmark = time.Since(benchStart)

	// Phase 7: atomic publish of the output directory.
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}
	if err := os.Rename(staging, cfg.OutputDir); err != nil {
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("run_id", summary.RunID).
		Int("years_skipped", summary.YearsSkipped).
		Int64("rows_malformed", summary.RowsMalformed).
		Int64("join_misses", summary.JoinMisses).
		Int64("rows_zero_filtered", summary.RowsZeroFiltered).
		Int64("facts_written", summary.FactsWritten).
		Int64("kpi_rows", summary.KPIRows).
		Int64("benchmark_rows", summary.BenchmarkRows).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("pipeline complete")

	return &Output{
		Facts:      facts,
		KPIs:       kpis,
		Benchmarks: benchmarks,
		Summary:    summary,
	}, nil
}

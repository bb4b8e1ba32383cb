package etl

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/gyeh/costbench/internal/config"
	"github.com/gyeh/costbench/internal/dictionary"
	"github.com/gyeh/costbench/internal/hcris"
	"github.com/gyeh/costbench/internal/model"
)

// YearResult is the outcome of one fiscal year's parse-through-join task.
// A missing file triple produces Skipped=true rather than an error, keeping
// the recoverable-skip vs fatal-failure distinction in the type system.
type YearResult struct {
	Year       int
	Skipped    bool
	SkipReason string

	// Facts maps statement name to joined (pre-dedupe) fact rows.
	Facts map[string][]model.FactRow

	Summary    model.YearSummary
	NonNumeric int64
	Join       JoinStats
}

// ProcessYear runs one fiscal year through parse, worksheet filter, roll-up
// and metadata join. Each year owns its tables privately; results are only
// merged read-only at the dedupe barrier.
func ProcessYear(
	log zerolog.Logger,
	cfg *config.Config,
	dicts map[string]*dictionary.Dictionary,
	year int,
) (*YearResult, error) {
	res := &YearResult{
		Year:    year,
		Facts:   make(map[string][]model.FactRow),
		Summary: model.YearSummary{Year: year},
	}

	triple, err := hcris.LocateTriple(cfg.InputDir, year)
	if err != nil {
		var missing *hcris.MissingInputError
		if errors.As(err, &missing) {
			res.Skipped = true
			res.SkipReason = missing.Error()
			res.Summary.Skipped = true
			res.Summary.SkipReason = missing.Error()
			return res, nil
		}
		return nil, err
	}

	ylog := log.With().Int("fiscal_year", year).Logger()

	alpha, alphaStats, err := hcris.ReadAlpha(triple.Alpha, ylog)
	if err != nil {
		return nil, err
	}
	numeric, nmrcStats, err := hcris.ReadNumeric(triple.Nmrc, ylog)
	if err != nil {
		return nil, err
	}
	reports, rptStats, err := hcris.ReadReports(triple.Rpt, ylog)
	if err != nil {
		return nil, err
	}

	res.Summary.AlphaRows = alphaStats.Rows
	res.Summary.NumericRows = nmrcStats.Rows
	res.Summary.ReportRows = rptStats.Rows
	res.Summary.MalformedRows = alphaStats.Malformed + nmrcStats.Malformed + rptStats.Malformed

	alphaIdx := BuildAlphaIndex(alpha)

	for _, ws := range cfg.Worksheets() {
		filtered := FilterWorksheet(numeric, ws.Code)

		if ws.RollUp {
			rolled := RollUp(filtered)
			res.NonNumeric += rolled.NonNumeric
			filtered = rolled.Records
			if ws.DeriveAllocationTotals {
				filtered = DeriveAllocationTotals(filtered)
			}
		}

		facts, stats := Join(filtered, reports, alphaIdx, dicts[ws.Statement])
		res.Join.Rows += stats.Rows
		res.Join.DictMisses += stats.DictMisses
		res.Join.MetaMisses += stats.MetaMisses
		res.Facts[ws.Statement] = facts
	}

	ylog.Info().
		Int64("alpha_rows", alphaStats.Rows).
		Int64("numeric_rows", nmrcStats.Rows).
		Int64("reports", rptStats.Rows).
		Int64("malformed", res.Summary.MalformedRows).
		Int64("join_rows", res.Join.Rows).
		Int64("dict_misses", res.Join.DictMisses).
		Msg("fiscal year processed")

	return res, nil
}

// FilterWorksheet restricts records to one worksheet code. A mismatch is
// not an error, only fewer rows.
func FilterWorksheet(records []model.NumericRecord, worksheetCode string) []model.NumericRecord {
	out := make([]model.NumericRecord, 0, len(records))
	for _, rec := range records {
		if rec.WorksheetCode == worksheetCode {
			out = append(out, rec)
		}
	}
	return out
}

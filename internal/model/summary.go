package model

import "time"

// YearSummary captures per-fiscal-year parse metrics.
type YearSummary struct {
	Year          int
	Skipped       bool
	SkipReason    string
	AlphaRows     int64
	NumericRows   int64
	ReportRows    int64
	MalformedRows int64
}

// RunSummary captures metrics from a full pipeline run, reported at the end
// per the failure-isolation policy: recovered problems show up here as
// counts, not as errors.
type RunSummary struct {
	RunID string

	Years        []YearSummary
	YearsSkipped int

	RowsParsed       int64
	RowsMalformed    int64
	NonNumericCodes  int64
	JoinRows         int64
	JoinMisses       int64
	RowsBeforeDedupe int64
	RowsDeduped      int64
	RowsZeroFiltered int64
	FactsByStatement map[string]int64
	FactsWritten     int64
	KPIRows          int64
	BenchmarkRows    int64

	DurationParse     time.Duration
	DurationDedupe    time.Duration
	DurationFacts     time.Duration
	DurationKPI       time.Duration
	DurationBenchmark time.Duration
	DurationTotal     time.Duration
}

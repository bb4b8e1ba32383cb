package etl

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/costbench/internal/config"
	"github.com/gyeh/costbench/internal/hcris"
	"github.com/gyeh/costbench/internal/model"
	"github.com/gyeh/costbench/internal/parquetread"
)

// balanceCells builds a minimal balance sheet giving the provider a known
// current ratio.
func balanceCells(currentAssets, currentLiabilities float64) []hcris.FixtureCell {
	return []hcris.FixtureCell{
		{Worksheet: "G000000", Line: "01100", Column: "00100", Value: currentAssets},
		{Worksheet: "G000000", Line: "04500", Column: "00100", Value: currentLiabilities},
	}
}

func writeEndToEndFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	reports2021 := []hcris.FixtureReport{
		{
			// As-submitted filing, later superseded cell by cell.
			RecordID: 1001, Provider: "310001", Status: "1",
			FYBegin: "01/01/2021", FYEnd: "12/31/2021", ProcessDate: "03/15/2022",
			Cells: append(balanceCells(2000000, 1000000), []hcris.FixtureCell{
				{Worksheet: "G000000", Line: "00200", Column: "00100", Value: 0},
				{Worksheet: "G100000", Line: "00500", Column: "00100", Value: 0},
				{Worksheet: "G300000", Line: "00300", Column: "00100", Value: 5000000},
				{Worksheet: "G300000", Line: "00400", Column: "00100", Value: 4600000},
				{Worksheet: "G300000", Line: "02500", Column: "00100", Value: 100000},
				{Worksheet: "G300000", Line: "03000", Column: "00100", Value: 200000},
				{Worksheet: "G300000", Line: "03100", Column: "00100", Value: 500000},
			}...),
		},
		{
			// Settled resubmission with revised current assets.
			RecordID: 1002, Provider: "310001", Status: "3",
			FYBegin: "01/01/2021", FYEnd: "12/31/2021", ProcessDate: "09/20/2022",
			Cells: balanceCells(2200000, 1000000),
		},
		{
			RecordID: 1003, Provider: "310002", Status: "1",
			FYBegin: "01/01/2021", FYEnd: "12/31/2021", ProcessDate: "03/16/2022",
			Cells: balanceCells(1500000, 1000000),
		},
		{
			RecordID: 1004, Provider: "310003", Status: "1",
			FYBegin: "01/01/2021", FYEnd: "12/31/2021", ProcessDate: "03/17/2022",
			Cells: balanceCells(3000000, 1000000),
		},
		{
			RecordID: 1005, Provider: "330001", Status: "1",
			FYBegin: "01/01/2021", FYEnd: "12/31/2021", ProcessDate: "03/18/2022",
			Cells: balanceCells(4000000, 1000000),
		},
	}
	if err := hcris.WriteFixtureTriple(dir, 2021, reports2021); err != nil {
		t.Fatal(err)
	}

	reports2022 := []hcris.FixtureReport{
		{
			RecordID: 2001, Provider: "310001", Status: "1",
			FYBegin: "01/01/2022", FYEnd: "12/31/2022", ProcessDate: "03/15/2023",
			Cells: append(balanceCells(2400000, 1100000), hcris.FixtureCell{
				Worksheet: "G300000", Line: "00300", Column: "00100", Value: 5500000,
			}),
		},
	}
	if err := hcris.WriteFixtureTriple(dir, 2022, reports2022); err != nil {
		t.Fatal(err)
	}

	return dir
}

func findFact(rows []model.FactRow, provider string, year int32, line string) *model.FactRow {
	for i := range rows {
		r := &rows[i]
		if r.ProviderNumber == provider && r.FiscalYear == year && r.LineCode == line {
			return r
		}
	}
	return nil
}

func TestRun_EndToEnd(t *testing.T) {
	inputDir := writeEndToEndFixture(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	cfg := &config.Config{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Years:     []int{2021, 2022, 2023}, // 2023 has no files
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	out, err := Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Summary.YearsSkipped != 1 {
		t.Errorf("years skipped = %d, want 1", out.Summary.YearsSkipped)
	}

	// Settled resubmission supersedes the as-submitted filing per cell.
	bs := out.Facts["balance_sheet"]
	assets := findFact(bs, "310001", 2021, "01100")
	if assets == nil {
		t.Fatal("current-assets fact missing")
	}
	if assets.Value != 2200000 || assets.ReportRecordID != 1002 || assets.ReportStatus != "3" {
		t.Errorf("settled value not retained: %+v", assets)
	}

	// Cells only the original filing reported survive from it.
	re := out.Facts["revenue_expenses"]
	npr := findFact(re, "310001", 2021, "00300")
	if npr == nil || npr.ReportRecordID != 1001 {
		t.Errorf("original-only cell lost: %+v", npr)
	}

	// Zero filter: dropped from the balance sheet partition, kept in the
	// fund-balance-changes partition.
	bsDisk, err := parquetread.ReadStatement[model.FactRow](filepath.Join(outputDir, "balance_sheet"))
	if err != nil {
		t.Fatal(err)
	}
	if z := findFact(bsDisk, "310001", 2021, "00200"); z != nil {
		t.Errorf("zero balance-sheet cell written to parquet: %+v", z)
	}
	fbDisk, err := parquetread.ReadStatement[model.FactRow](filepath.Join(outputDir, "fund_balance_changes"))
	if err != nil {
		t.Fatal(err)
	}
	z := findFact(fbDisk, "310001", 2021, "00500")
	if z == nil || z.Value != 0 {
		t.Errorf("legitimate zero delta missing from fund-balance changes: %+v", z)
	}

	// KPIs computed from the retained cells.
	var currentRatio, growth *float64
	for _, r := range out.KPIs {
		if r.ProviderNumber != "310001" {
			continue
		}
		if r.KPIName == "Current_Ratio" && r.FiscalYear == 2021 {
			currentRatio = r.Value
		}
		if r.KPIName == "Revenue_Growth" && r.FiscalYear == 2022 {
			growth = r.Value
		}
	}
	if currentRatio == nil || math.Abs(*currentRatio-2.2) > 1e-9 {
		t.Errorf("Current_Ratio = %v, want 2.2", currentRatio)
	}
	if growth == nil || math.Abs(*growth-0.1) > 1e-9 {
		t.Errorf("Revenue_Growth = %v, want 0.1", growth)
	}

	// National cohort covers all four providers with a 2021 ratio.
	var national *model.BenchmarkRow
	for i := range out.Benchmarks {
		b := &out.Benchmarks[i]
		if b.KPIName == "Current_Ratio" && b.Level == model.LevelNational && b.FiscalYear == 2021 {
			national = b
		}
	}
	if national == nil || national.PeerCount != 4 {
		t.Fatalf("national benchmark = %+v, want peer count 4", national)
	}
	// Ratios 1.5, 2.2, 3.0, 4.0.
	if math.Abs(national.Median-2.6) > 1e-9 {
		t.Errorf("national median = %v, want 2.6", national.Median)
	}

	// Staging directory renamed away; only the final output remains.
	if _, err := os.Stat(outputDir + ".staging"); !os.IsNotExist(err) {
		t.Errorf("staging directory left behind: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "kpi", "kpi.parquet")); err != nil {
		t.Errorf("kpi table missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "benchmarks", "benchmarks.parquet")); err != nil {
		t.Errorf("benchmark table missing: %v", err)
	}
}

func TestRun_ZeroCellTreatedAsUnreported(t *testing.T) {
	dir := t.TempDir()
	reports := []hcris.FixtureReport{{
		RecordID: 3001, Provider: "310001", Status: "1",
		FYBegin: "01/01/2021", FYEnd: "12/31/2021", ProcessDate: "03/15/2022",
		Cells: balanceCells(0, 1000000),
	}}
	if err := hcris.WriteFixtureTriple(dir, 2021, reports); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		InputDir:  dir,
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Years:     []int{2021},
	}
	cfg.ApplyDefaults()

	out, err := Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// A zero balance-sheet cell is "not reported": it must vanish from the
	// fact rows and leave the dependent indicators null rather than feed a
	// real zero into them.
	if f := findFact(out.Facts["balance_sheet"], "310001", 2021, "01100"); f != nil {
		t.Errorf("zero current-assets cell retained: %+v", f)
	}
	var currentRatio *model.KpiRow
	for i := range out.KPIs {
		r := &out.KPIs[i]
		if r.KPIName == "Current_Ratio" && r.FiscalYear == 2021 {
			currentRatio = r
		}
	}
	if currentRatio == nil {
		t.Fatal("Current_Ratio row missing")
	}
	if currentRatio.Value != nil {
		t.Errorf("Current_Ratio = %v, want null for an unreported numerator", *currentRatio.Value)
	}
}

func TestRun_AllYearsMissingFails(t *testing.T) {
	cfg := &config.Config{
		InputDir:  t.TempDir(),
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Years:     []int{2021},
	}
	cfg.ApplyDefaults()

	_, err := Run(context.Background(), zerolog.Nop(), cfg)
	if err == nil {
		t.Fatal("expected error when every year is missing")
	}
}

func TestRun_StateAllowlist(t *testing.T) {
	inputDir := writeEndToEndFixture(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	cfg := &config.Config{
		InputDir:       inputDir,
		OutputDir:      outputDir,
		Years:          []int{2021},
		StateAllowlist: []string{"33"},
		MinPeerGroup:   1,
	}
	cfg.ApplyDefaults()

	out, err := Run(context.Background(), zerolog.Nop(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, r := range out.Facts["balance_sheet"] {
		if r.StateCode != "33" {
			t.Fatalf("allowlist leak: %+v", r)
		}
	}
}

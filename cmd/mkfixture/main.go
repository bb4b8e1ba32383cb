// mkfixture generates a synthetic HCRIS extract triple set for local runs
// and demos. Values are drawn from a seeded generator so repeated runs
// produce identical files.
// Usage: go run ./cmd/mkfixture --out testdata/fixture --years 2021,2022 --providers 12
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/gyeh/costbench/internal/hcris"
)

// Provider pool spans several states and CCN ranges so every benchmark
// level gets non-trivial peer groups.
var providerPool = []string{
	"310001", "310012", "310025", "310090",
	"330101", "330145", "330204",
	"450026", "450348", "451300",
	"050145", "052000", "053025",
	"100007", "104000",
}

func main() {
	out := flag.String("out", "testdata/fixture", "output directory")
	yearsFlag := flag.String("years", "2021,2022", "fiscal years, comma separated")
	providers := flag.Int("providers", 12, "number of providers (max 15)")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	var years []int
	for _, tok := range strings.Split(*yearsFlag, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad year %q: %v\n", tok, err)
			os.Exit(1)
		}
		years = append(years, y)
	}
	if *providers > len(providerPool) {
		*providers = len(providerPool)
	}

	rng := rand.New(rand.NewSource(*seed))
	recordID := int64(100000)

	for _, year := range years {
		var reports []hcris.FixtureReport
		for _, provider := range providerPool[:*providers] {
			recordID++
			rpt := hcris.FixtureReport{
				RecordID:    recordID,
				Provider:    provider,
				Status:      "1",
				FYBegin:     fmt.Sprintf("01/01/%d", year),
				FYEnd:       fmt.Sprintf("12/31/%d", year),
				ProcessDate: fmt.Sprintf("03/15/%d", year+1),
				Cells:       statementCells(rng),
				Texts:       lineLabels(),
			}
			reports = append(reports, rpt)

			// A third of the providers resubmit with settled values.
			if rng.Intn(3) == 0 {
				recordID++
				amended := rpt
				amended.RecordID = recordID
				amended.Status = "3"
				amended.ProcessDate = fmt.Sprintf("09/20/%d", year+1)
				amended.Cells = statementCells(rng)
				reports = append(reports, amended)
			}
		}

		if err := hcris.WriteFixtureTriple(*out, year, reports); err != nil {
			fmt.Fprintf(os.Stderr, "write fixture for %d: %v\n", year, err)
			os.Exit(1)
		}
		fmt.Printf("FY %d: %d reports written\n", year, len(reports))
	}
	fmt.Printf("Fixture written to %s\n", *out)
}

// lineLabels writes the provider's own labels for the subscripted cost
// centers, as real extracts do.
func lineLabels() []hcris.FixtureText {
	return []hcris.FixtureText{
		{Worksheet: "A000000", Line: "00401", Column: "00000", Text: "Cafeteria - East Campus"},
		{Worksheet: "A000000", Line: "00402", Column: "00000", Text: "Cafeteria - West Campus"},
	}
}

// statementCells produces a plausible cell set covering every extracted
// worksheet, including the cells the KPI formulas read.
func statementCells(rng *rand.Rand) []hcris.FixtureCell {
	scale := 1_000_000 * (1 + rng.Float64()*9)
	round := func(v float64) float64 { return float64(int64(v)) }

	cash := round(scale * (0.05 + rng.Float64()*0.10))
	investments := round(scale * rng.Float64() * 0.05)
	receivables := round(scale * (0.10 + rng.Float64()*0.10))
	allowance := round(receivables * rng.Float64() * 0.3)
	currentAssets := round(cash + investments + receivables - allowance + scale*0.02)
	accumDepr := round(scale * (0.3 + rng.Float64()*0.4))
	totalAssets := round(scale * (1.5 + rng.Float64()))
	currentLiab := round(scale * (0.08 + rng.Float64()*0.12))
	fundBalances := round(totalAssets * (0.3 + rng.Float64()*0.4))

	revenue := round(scale * (0.9 + rng.Float64()*0.4))
	expenses := round(revenue * (0.85 + rng.Float64()*0.2))
	otherIncome := round(revenue * rng.Float64() * 0.05)
	deprExpense := round(expenses * (0.04 + rng.Float64()*0.03))
	netIncome := round(revenue - expenses + otherIncome)

	cells := []hcris.FixtureCell{
		{Worksheet: "G000000", Line: "00100", Column: "00100", Value: cash},
		{Worksheet: "G000000", Line: "00200", Column: "00100", Value: investments},
		{Worksheet: "G000000", Line: "00400", Column: "00100", Value: receivables},
		{Worksheet: "G000000", Line: "00600", Column: "00100", Value: allowance},
		{Worksheet: "G000000", Line: "01100", Column: "00100", Value: currentAssets},
		{Worksheet: "G000000", Line: "02000", Column: "00100", Value: accumDepr},
		{Worksheet: "G000000", Line: "03600", Column: "00100", Value: totalAssets},
		{Worksheet: "G000000", Line: "04500", Column: "00100", Value: currentLiab},
		{Worksheet: "G000000", Line: "05900", Column: "00100", Value: fundBalances},

		{Worksheet: "G100000", Line: "00100", Column: "00100", Value: round(fundBalances * 0.95)},
		{Worksheet: "G100000", Line: "00500", Column: "00100", Value: 0}, // legitimate zero delta

		{Worksheet: "G200000", Line: "00100", Column: "00100", Value: round(revenue * 0.6)},
		{Worksheet: "G200000", Line: "00200", Column: "00100", Value: round(revenue * 0.4)},

		{Worksheet: "G300000", Line: "00300", Column: "00100", Value: revenue},
		{Worksheet: "G300000", Line: "00400", Column: "00100", Value: expenses},
		{Worksheet: "G300000", Line: "02500", Column: "00100", Value: otherIncome},
		{Worksheet: "G300000", Line: "03000", Column: "00100", Value: deprExpense},
		{Worksheet: "G300000", Line: "03100", Column: "00100", Value: netIncome},
	}

	// Cost centers with subscripted lines to exercise the roll-up.
	for _, line := range []string{"00400", "00401", "00402", "00500", "01000"} {
		cells = append(cells, hcris.FixtureCell{
			Worksheet: "A000000", Line: line, Column: "00100",
			Value: round(expenses * rng.Float64() * 0.05),
		})
	}
	for _, col := range []string{"00000", "00100", "00200", "01000"} {
		cells = append(cells, hcris.FixtureCell{
			Worksheet: "B000001", Line: "03000", Column: col,
			Value: round(expenses * rng.Float64() * 0.02),
		})
	}
	return cells
}

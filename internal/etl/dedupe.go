package etl

import (
	"fmt"
	"sort"

	"github.com/gyeh/costbench/internal/model"
)

// StatusRank builds the retention ordinal from the configured status order
// (lowest to highest precedence). Unknown status codes rank below every
// configured one so a stale unknown submission can never displace a known
// resubmission.
func StatusRank(order []string) map[string]int {
	rank := make(map[string]int, len(order))
	for i, s := range order {
		rank[s] = i
	}
	return rank
}

// Deduplicate retains exactly one fact row per (provider, fiscal year,
// line, column) group across all report submissions. Retention order:
// higher status ordinal wins, then later process date, then higher report
// record id. The result is deterministic regardless of input order.
//
// This is the most failure-prone step of the pipeline: a wrong sort key
// silently admits a stale resubmission with no runtime error, so the tests
// assert the retained (status, date) pair, not just group sizes.
func Deduplicate(rows []model.FactRow, statusRank map[string]int) []model.FactRow {
	best := make(map[model.GroupKey]model.FactRow, len(rows))
	for _, row := range rows {
		k := row.Key()
		cur, ok := best[k]
		if !ok || supersedes(row, cur, statusRank) {
			best[k] = row
		}
	}

	out := make([]model.FactRow, 0, len(best))
	for _, row := range best {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProviderNumber != b.ProviderNumber {
			return a.ProviderNumber < b.ProviderNumber
		}
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear < b.FiscalYear
		}
		if a.LineCode != b.LineCode {
			return a.LineCode < b.LineCode
		}
		return a.ColumnCode < b.ColumnCode
	})
	return out
}

// supersedes reports whether a should replace b as the retained row.
func supersedes(a, b model.FactRow, statusRank map[string]int) bool {
	ra, okA := statusRank[a.ReportStatus]
	rb, okB := statusRank[b.ReportStatus]
	if !okA {
		ra = -1
	}
	if !okB {
		rb = -1
	}
	if ra != rb {
		return ra > rb
	}
	// ISO day strings order lexicographically.
	if a.ProcessDate != b.ProcessDate {
		return a.ProcessDate > b.ProcessDate
	}
	return a.ReportRecordID > b.ReportRecordID
}

// VerifyDeduped checks the exactly-one-survivor property on deduplicator
// output. A violation is an internal inconsistency, fatal to the run.
func VerifyDeduped(rows []model.FactRow) error {
	seen := make(map[model.GroupKey]int64, len(rows))
	for _, row := range rows {
		seen[row.Key()]++
	}
	for k, n := range seen {
		if n != 1 {
			return fmt.Errorf("group %s/%d/%s/%s has %d survivors, want 1",
				k.ProviderNumber, k.FiscalYear, k.LineCode, k.ColumnCode, n)
		}
	}
	return nil
}

package etl

import (
	"sort"

	"github.com/gyeh/costbench/internal/model"
	"github.com/gyeh/costbench/internal/normalize"
)

// RollupResult holds the rolled records plus the count of rows excluded for
// non-numeric line or column codes (subscripted lines), which are logged as
// a count rather than failing the run.
type RollupResult struct {
	Records    []model.NumericRecord
	NonNumeric int64
}

// RollUp collapses line and column codes to the nearest lower multiple of
// 100, summing values within each (report, worksheet, line, column) cell.
// The total value per report is conserved; only granularity is lost.
// Applying RollUp to already-rolled data is a no-op because codes on the
// rolled grid map to themselves.
func RollUp(records []model.NumericRecord) RollupResult {
	type cellKey struct {
		reportRecordID int64
		worksheetCode  string
		lineCode       string
		columnCode     string
	}

	sums := make(map[cellKey]float64)
	var nonNumeric int64

	for _, rec := range records {
		line, lineOK := normalize.RollDown(rec.LineCode)
		col, colOK := normalize.RollDown(rec.ColumnCode)
		if !lineOK || !colOK {
			nonNumeric++
			continue
		}
		k := cellKey{
			reportRecordID: rec.ReportRecordID,
			worksheetCode:  rec.WorksheetCode,
			lineCode:       line,
			columnCode:     col,
		}
		sums[k] += rec.Value
	}

	out := make([]model.NumericRecord, 0, len(sums))
	for k, v := range sums {
		out = append(out, model.NumericRecord{
			ReportRecordID: k.reportRecordID,
			WorksheetCode:  k.worksheetCode,
			LineCode:       k.lineCode,
			ColumnCode:     k.columnCode,
			Value:          v,
		})
	}
	sortRecords(out)
	return RollupResult{Records: out, NonNumeric: nonNumeric}
}

// Overhead-allocation derived columns. The Subtotal column sums the direct
// cost and stepdown allocation columns; the Total column adds the
// post-stepdown adjustment column on top.
var allocationSubtotalColumns = []string{
	"00000", "00100", "00200", "00300", "00400",
	"00500", "00600", "00700", "00800", "00900",
}

const (
	allocationAdjustmentColumn = "01000"
	subtotalColumnCode         = "09800"
	totalColumnCode            = "09900"
)

// DeriveAllocationTotals appends Subtotal and Total rows per (report, line)
// after roll-up. Derived rows get their own column codes so existing cells
// are never overwritten; zero-valued derived rows are suppressed.
func DeriveAllocationTotals(records []model.NumericRecord) []model.NumericRecord {
	type lineKey struct {
		reportRecordID int64
		worksheetCode  string
		lineCode       string
	}

	inSubtotal := make(map[string]bool, len(allocationSubtotalColumns))
	for _, c := range allocationSubtotalColumns {
		inSubtotal[c] = true
	}

	subtotals := make(map[lineKey]float64)
	adjustments := make(map[lineKey]float64)
	for _, rec := range records {
		k := lineKey{rec.ReportRecordID, rec.WorksheetCode, rec.LineCode}
		if inSubtotal[rec.ColumnCode] {
			subtotals[k] += rec.Value
		}
		if rec.ColumnCode == allocationAdjustmentColumn {
			adjustments[k] += rec.Value
		}
	}

	keys := make(map[lineKey]bool, len(subtotals)+len(adjustments))
	for k := range subtotals {
		keys[k] = true
	}
	for k := range adjustments {
		keys[k] = true
	}

	out := records
	derived := make([]model.NumericRecord, 0, 2*len(keys))
	for k := range keys {
		sub := subtotals[k]
		if sub != 0 {
			derived = append(derived, model.NumericRecord{
				ReportRecordID: k.reportRecordID,
				WorksheetCode:  k.worksheetCode,
				LineCode:       k.lineCode,
				ColumnCode:     subtotalColumnCode,
				Value:          sub,
			})
		}
		if total := sub + adjustments[k]; total != 0 {
			derived = append(derived, model.NumericRecord{
				ReportRecordID: k.reportRecordID,
				WorksheetCode:  k.worksheetCode,
				LineCode:       k.lineCode,
				ColumnCode:     totalColumnCode,
				Value:          total,
			})
		}
	}
	sortRecords(derived)
	return append(out, derived...)
}

func sortRecords(recs []model.NumericRecord) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.ReportRecordID != b.ReportRecordID {
			return a.ReportRecordID < b.ReportRecordID
		}
		if a.LineCode != b.LineCode {
			return a.LineCode < b.LineCode
		}
		return a.ColumnCode < b.ColumnCode
	})
}

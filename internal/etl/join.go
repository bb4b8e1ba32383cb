package etl

import (
	"github.com/gyeh/costbench/internal/dictionary"
	"github.com/gyeh/costbench/internal/model"
	"github.com/gyeh/costbench/internal/normalize"
)

// JoinStats counts join outcomes. Dictionary misses are retained and
// counted; a high miss rate usually means a roll-up/dictionary granularity
// mismatch and is alarmed at the barrier. Metadata misses are dropped:
// without a report record there is no provider, fiscal year, or state to
// key the row by.
type JoinStats struct {
	Rows       int64
	DictMisses int64
	MetaMisses int64
}

// labelColumnCode is the alpha column carrying a line's display label.
const labelColumnCode = "00000"

type alphaKey struct {
	reportRecordID int64
	worksheetCode  string
	lineCode       string
}

// AlphaIndex resolves report-local line labels from the alphanumeric file.
// Providers label their own nonstandard lines there, so it serves as the
// name fallback when the static dictionary has no entry for a code.
type AlphaIndex map[alphaKey]string

// BuildAlphaIndex indexes label cells by (report, worksheet, line). The
// first label per cell wins; non-label columns are ignored.
func BuildAlphaIndex(records []model.AlphaRecord) AlphaIndex {
	idx := make(AlphaIndex)
	for _, rec := range records {
		if rec.ColumnCode != labelColumnCode || rec.Description == "" {
			continue
		}
		k := alphaKey{rec.ReportRecordID, rec.WorksheetCode, rec.LineCode}
		if _, ok := idx[k]; !ok {
			idx[k] = rec.Description
		}
	}
	return idx
}

func (a AlphaIndex) label(reportRecordID int64, worksheetCode, lineCode string) (string, bool) {
	v, ok := a[alphaKey{reportRecordID, worksheetCode, lineCode}]
	return v, ok
}

// Join attaches display names and report metadata to numeric records,
// producing the long-format fact rows for one worksheet. A dictionary miss
// still counts toward the miss-rate alarm even when the alpha label fills
// the name.
func Join(
	records []model.NumericRecord,
	reports map[int64]*model.ReportRecord,
	alpha AlphaIndex,
	dict *dictionary.Dictionary,
) ([]model.FactRow, JoinStats) {
	var stats JoinStats
	out := make([]model.FactRow, 0, len(records))

	for _, rec := range records {
		rpt, ok := reports[rec.ReportRecordID]
		if !ok {
			stats.MetaMisses++
			continue
		}
		stats.Rows++

		var lineName, columnName *string
		if name, ok := dict.LineName(rec.LineCode); ok {
			lineName = &name
		} else {
			stats.DictMisses++
			if desc, ok := alpha.label(rec.ReportRecordID, rec.WorksheetCode, rec.LineCode); ok {
				lineName = &desc
			}
		}
		if name, ok := dict.ColumnName(rec.ColumnCode); ok {
			columnName = &name
		} else {
			stats.DictMisses++
		}

		processDate := ""
		if s := normalize.ISODate(rpt.ProcessDate); s != nil {
			processDate = *s
		}

		out = append(out, model.FactRow{
			ReportRecordID: rec.ReportRecordID,
			ProviderNumber: rpt.ProviderNumber,
			StateCode:      model.StateCode(rpt.ProviderNumber),
			FiscalYear:     int32(rpt.FiscalYear()),
			WorksheetCode:  rec.WorksheetCode,
			LineCode:       rec.LineCode,
			ColumnCode:     rec.ColumnCode,
			LineName:       lineName,
			ColumnName:     columnName,
			Value:          rec.Value,
			ControlType:    optStr(rpt.ControlType),
			NPI:            rpt.NPI,
			ReportStatus:   rpt.ReportStatus,
			FYBegin:        normalize.ISODate(rpt.FYBegin),
			FYEnd:          normalize.ISODate(rpt.FYEnd),
			ProcessDate:    processDate,
		})
	}
	return out, stats
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

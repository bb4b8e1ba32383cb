package model

// FactRow is the long-format output unit: one (possibly rolled-up) cell
// value joined with display names and report metadata. Dates are ISO-8601
// strings so Parquet consumers and the deduplicator can order them
// lexicographically.
type FactRow struct {
	ReportRecordID int64  `parquet:"report_record_id"`
	ProviderNumber string `parquet:"provider_number"`
	StateCode      string `parquet:"state_code"`
	FiscalYear     int32  `parquet:"fiscal_year"`

	WorksheetCode string  `parquet:"worksheet_code"`
	LineCode      string  `parquet:"line_code"`
	ColumnCode    string  `parquet:"column_code"`
	LineName      *string `parquet:"line_name,optional"`
	ColumnName    *string `parquet:"column_name,optional"`

	Value float64 `parquet:"value"`

	ControlType  *string `parquet:"control_type,optional"`
	NPI          *string `parquet:"npi,optional"`
	ReportStatus string  `parquet:"report_status"`
	FYBegin      *string `parquet:"fy_begin,optional"`
	FYEnd        *string `parquet:"fy_end,optional"`
	ProcessDate  string  `parquet:"process_date"`
}

// GroupKey identifies the dedup group: exactly one FactRow per key survives
// deduplication.
type GroupKey struct {
	ProviderNumber string
	FiscalYear     int32
	LineCode       string
	ColumnCode     string
}

// Key returns the dedup group key for the row.
func (r *FactRow) Key() GroupKey {
	return GroupKey{
		ProviderNumber: r.ProviderNumber,
		FiscalYear:     r.FiscalYear,
		LineCode:       r.LineCode,
		ColumnCode:     r.ColumnCode,
	}
}

// FactColumns returns the ordered column names for COPY into hcris.fact_rows.
// run_id and statement are prepended by the publisher.
func FactColumns() []string {
	return []string{
		"run_id",
		"statement",
		"report_record_id",
		"provider_number",
		"state_code",
		"fiscal_year",
		"worksheet_code",
		"line_code",
		"column_code",
		"line_name",
		"column_name",
		"value",
		"control_type",
		"npi",
		"report_status",
		"fy_begin",
		"fy_end",
		"process_date",
	}
}

// CopyValues returns the row values in FactColumns order minus the
// publisher-owned prefix columns.
func (r *FactRow) CopyValues() []any {
	return []any{
		r.ReportRecordID,
		r.ProviderNumber,
		r.StateCode,
		r.FiscalYear,
		r.WorksheetCode,
		r.LineCode,
		r.ColumnCode,
		r.LineName,
		r.ColumnName,
		r.Value,
		r.ControlType,
		r.NPI,
		r.ReportStatus,
		r.FYBegin,
		r.FYEnd,
		r.ProcessDate,
	}
}

package model

import "time"

// AlphaRecord is one row of the HCRIS alphanumeric file: a free-text cell
// value for a (report, worksheet, line, column) address.
type AlphaRecord struct {
	ReportRecordID int64
	WorksheetCode  string
	LineCode       string // 5-digit zero-padded
	ColumnCode     string // 5-digit zero-padded
	Description    string
}

// NumericRecord is one row of the HCRIS numeric-value file: a dollar or
// statistic value for a (report, worksheet, line, column) address.
type NumericRecord struct {
	ReportRecordID int64
	WorksheetCode  string
	LineCode       string
	ColumnCode     string
	Value          float64
}

// ReportRecord is one row of the HCRIS report file: metadata for a single
// submitted cost report. A provider-year may carry several of these when
// the report was resubmitted.
type ReportRecord struct {
	ReportRecordID  int64
	ControlType     string
	ProviderNumber  string // 6-digit CCN, zero-padded
	NPI             *string
	ReportStatus    string // RPT_STUS_CD, ordinal per config
	FYBegin         *time.Time
	FYEnd           *time.Time
	ProcessDate     *time.Time
	InitialReport   *string
	LastReport      *string
	TransmitNumber  *string
	GeographicCode  *string
	UtilizationCode *string
}

// FiscalYear derives the reporting fiscal year from the fiscal-year end
// date. Reports without an end date have no fiscal year and are dropped
// upstream.
func (r *ReportRecord) FiscalYear() int {
	if r.FYEnd == nil {
		return 0
	}
	return r.FYEnd.Year()
}

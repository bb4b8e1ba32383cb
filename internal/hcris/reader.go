package hcris

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/costbench/internal/model"
	"github.com/gyeh/costbench/internal/normalize"
)

// Report file fixed 18-column layout (CMS HCRIS HOSP10 RPT spec).
const (
	rptColRecordID = iota
	rptColControlType
	rptColProviderNumber
	rptColNPI
	rptColStatus
	rptColFYBegin
	rptColFYEnd
	rptColProcessDate
	rptColInitialReport
	rptColLastReport
	rptColTransmitNumber
	rptColFINumber
	rptColVendorCode
	rptColFICreateDate
	rptColUtilCode
	rptColNPRDate
	rptColSpecIndicator
	rptColFIReceiptDate

	rptColumnCount = 18
)

// ParseStats counts rows dropped during parsing. Malformed rows are never
// silently included as zero; they surface here and in warning logs.
type ParseStats struct {
	Rows      int64
	Malformed int64
}

// ReadAlpha parses the alphanumeric file into typed records. Rows with the
// wrong column count are dropped and counted.
func ReadAlpha(path string, log zerolog.Logger) ([]model.AlphaRecord, *ParseStats, error) {
	stats := &ParseStats{}
	var out []model.AlphaRecord

	err := readCSV(path, func(lineNo int, fields []string) {
		if len(fields) < 5 {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("expected 5 columns, got %d", len(fields)))
			return
		}
		id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
		if err != nil {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("report_record_id: %w", err))
			return
		}
		stats.Rows++
		out = append(out, model.AlphaRecord{
			ReportRecordID: id,
			WorksheetCode:  strings.TrimSpace(fields[1]),
			LineCode:       normalize.PadCode(fields[2]),
			ColumnCode:     normalize.PadCode(fields[3]),
			Description:    strings.TrimSpace(fields[4]),
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return out, stats, nil
}

// ReadNumeric parses the numeric-value file. Unparsable values are dropped
// and counted rather than coerced to zero.
func ReadNumeric(path string, log zerolog.Logger) ([]model.NumericRecord, *ParseStats, error) {
	stats := &ParseStats{}
	var out []model.NumericRecord

	err := readCSV(path, func(lineNo int, fields []string) {
		if len(fields) < 5 {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("expected 5 columns, got %d", len(fields)))
			return
		}
		id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
		if err != nil {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("report_record_id: %w", err))
			return
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
		if err != nil {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("value: %w", err))
			return
		}
		stats.Rows++
		out = append(out, model.NumericRecord{
			ReportRecordID: id,
			WorksheetCode:  strings.TrimSpace(fields[1]),
			LineCode:       normalize.PadCode(fields[2]),
			ColumnCode:     normalize.PadCode(fields[3]),
			Value:          val,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return out, stats, nil
}

// ReadReports parses the report-metadata file, keyed by report_record_id.
// Reports without a parseable record id or fiscal-year end are dropped; a
// report we cannot place in a fiscal year can never produce fact rows.
func ReadReports(path string, log zerolog.Logger) (map[int64]*model.ReportRecord, *ParseStats, error) {
	stats := &ParseStats{}
	out := make(map[int64]*model.ReportRecord)

	err := readCSV(path, func(lineNo int, fields []string) {
		if len(fields) < rptColumnCount {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("expected %d columns, got %d", rptColumnCount, len(fields)))
			return
		}
		id, err := strconv.ParseInt(strings.TrimSpace(fields[rptColRecordID]), 10, 64)
		if err != nil {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("report_record_id: %w", err))
			return
		}
		fyEnd := normalize.ParseDate(fields[rptColFYEnd])
		if fyEnd == nil {
			stats.Malformed++
			warnRow(log, path, lineNo, fmt.Errorf("unparseable fy_end %q", fields[rptColFYEnd]))
			return
		}
		stats.Rows++
		out[id] = &model.ReportRecord{
			ReportRecordID:  id,
			ControlType:     strings.TrimSpace(fields[rptColControlType]),
			ProviderNumber:  model.PadProviderNumber(fields[rptColProviderNumber]),
			NPI:             optField(fields[rptColNPI]),
			ReportStatus:    strings.TrimSpace(fields[rptColStatus]),
			FYBegin:         normalize.ParseDate(fields[rptColFYBegin]),
			FYEnd:           fyEnd,
			ProcessDate:     normalize.ParseDate(fields[rptColProcessDate]),
			InitialReport:   optField(fields[rptColInitialReport]),
			LastReport:      optField(fields[rptColLastReport]),
			TransmitNumber:  optField(fields[rptColTransmitNumber]),
			GeographicCode:  optField(fields[rptColFINumber]),
			UtilizationCode: optField(fields[rptColUtilCode]),
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return out, stats, nil
}

// readCSV streams a headerless CSV file row by row. Quote handling is
// relaxed because HCRIS alpha descriptions embed stray quotes.
func readCSV(path string, handle func(lineNo int, fields []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	lineNo := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		lineNo++
		if err != nil {
			return fmt.Errorf("read %s line %d: %w", filepath.Base(path), lineNo, err)
		}
		handle(lineNo, fields)
	}
}

func warnRow(log zerolog.Logger, path string, lineNo int, err error) {
	mre := &MalformedRowError{File: filepath.Base(path), Line: lineNo, Err: err}
	log.Warn().Err(mre).Msg("row dropped")
}

func optField(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

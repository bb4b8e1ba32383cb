package hcris

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FixtureCell is one numeric cell in a synthetic cost report.
type FixtureCell struct {
	Worksheet string
	Line      string
	Column    string
	Value     float64
}

// FixtureText is one alphanumeric cell in a synthetic cost report.
type FixtureText struct {
	Worksheet string
	Line      string
	Column    string
	Text      string
}

// FixtureReport is one synthetic report submission. Dates use the MM/DD/YYYY
// casing of real extracts.
type FixtureReport struct {
	RecordID    int64
	Provider    string
	ControlType string
	Status      string
	FYBegin     string
	FYEnd       string
	ProcessDate string
	Cells       []FixtureCell
	Texts       []FixtureText
}

// WriteFixtureTriple writes a complete alpha/nmrc/rpt triple for one fiscal
// year under dir, in the standard file naming. Shared by the mkfixture tool
// and the end-to-end tests.
func WriteFixtureTriple(dir string, year int, reports []FixtureReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var alphaRows, nmrcRows, rptRows [][]string
	for _, rpt := range reports {
		for _, t := range rpt.Texts {
			alphaRows = append(alphaRows, []string{
				strconv.FormatInt(rpt.RecordID, 10), t.Worksheet, t.Line, t.Column, t.Text,
			})
		}
		for _, c := range rpt.Cells {
			nmrcRows = append(nmrcRows, []string{
				strconv.FormatInt(rpt.RecordID, 10), c.Worksheet, c.Line, c.Column,
				strconv.FormatFloat(c.Value, 'f', -1, 64),
			})
		}

		control := rpt.ControlType
		if control == "" {
			control = "2"
		}
		row := make([]string, rptColumnCount)
		row[rptColRecordID] = strconv.FormatInt(rpt.RecordID, 10)
		row[rptColControlType] = control
		row[rptColProviderNumber] = rpt.Provider
		row[rptColStatus] = rpt.Status
		row[rptColFYBegin] = rpt.FYBegin
		row[rptColFYEnd] = rpt.FYEnd
		row[rptColProcessDate] = rpt.ProcessDate
		rptRows = append(rptRows, row)
	}

	for _, f := range []struct {
		kind string
		rows [][]string
	}{
		{"alpha", alphaRows},
		{"nmrc", nmrcRows},
		{"rpt", rptRows},
	} {
		path := filepath.Join(dir, fmt.Sprintf(tripleNamePatterns[0], year, f.kind))
		if err := writeCSV(path, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

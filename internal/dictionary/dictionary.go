// Package dictionary provides the static per-worksheet line/column display
// names joined onto fact rows. Dictionaries are embedded CSVs keyed at the
// granularity the worksheet reports at (rolled codes for rolled worksheets).
package dictionary

import (
	"embed"
	"fmt"

	"github.com/gocarina/gocsv"
)

//go:embed data/*.csv
var files embed.FS

// Entry is one dictionary row.
type Entry struct {
	Kind     string `csv:"kind"` // "line" or "column"
	Code     string `csv:"code"` // 5-digit zero-padded
	Name     string `csv:"name"`
	Category string `csv:"category"`
}

// Dictionary maps line and column codes to display names for one worksheet.
type Dictionary struct {
	lines   map[string]Entry
	columns map[string]Entry
}

// Load reads an embedded dictionary file by name (e.g. "g_balance_sheet.csv").
func Load(name string) (*Dictionary, error) {
	data, err := files.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", name, err)
	}

	var entries []Entry
	if err := gocsv.UnmarshalBytes(data, &entries); err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", name, err)
	}

	d := &Dictionary{
		lines:   make(map[string]Entry),
		columns: make(map[string]Entry),
	}
	for _, e := range entries {
		switch e.Kind {
		case "line":
			d.lines[e.Code] = e
		case "column":
			d.columns[e.Code] = e
		default:
			return nil, fmt.Errorf("dictionary %s: unknown kind %q for code %s", name, e.Kind, e.Code)
		}
	}
	return d, nil
}

// LineName returns the display name for a line code, or ok=false on a miss.
func (d *Dictionary) LineName(code string) (string, bool) {
	e, ok := d.lines[code]
	return e.Name, ok
}

// ColumnName returns the display name for a column code, or ok=false on a miss.
func (d *Dictionary) ColumnName(code string) (string, bool) {
	e, ok := d.columns[code]
	return e.Name, ok
}

// Lines returns the number of line entries (used by coverage reporting).
func (d *Dictionary) Lines() int { return len(d.lines) }

// Columns returns the number of column entries.
func (d *Dictionary) Columns() int { return len(d.columns) }

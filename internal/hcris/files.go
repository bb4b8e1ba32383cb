package hcris

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileTriple holds the three extract files for one fiscal year.
type FileTriple struct {
	Year  int
	Alpha string
	Nmrc  string
	Rpt   string
}

// Casings seen in HCRIS distributions over the years.
var tripleNamePatterns = []string{
	"hosp10_%d_%s.csv",
	"HOSP10_%d_%s.CSV",
	"hosp_%d_%s.csv",
}

var tripleKinds = [3]string{"alpha", "nmrc", "rpt"}

// LocateTriple finds the alpha/nmrc/rpt files for a fiscal year under dir.
// Returns a MissingInputError naming the first absent file so the caller
// can skip the year.
func LocateTriple(dir string, year int) (*FileTriple, error) {
	paths := [3]string{}
	for i, kind := range tripleKinds {
		found := ""
		for _, pattern := range tripleNamePatterns {
			candidate := filepath.Join(dir, fmt.Sprintf(pattern, year, kindToken(pattern, kind)))
			if _, err := os.Stat(candidate); err == nil {
				found = candidate
				break
			}
		}
		if found == "" {
			return nil, &MissingInputError{
				Year: year,
				Kind: kind,
				Path: filepath.Join(dir, fmt.Sprintf(tripleNamePatterns[0], year, kind)),
			}
		}
		paths[i] = found
	}
	return &FileTriple{Year: year, Alpha: paths[0], Nmrc: paths[1], Rpt: paths[2]}, nil
}

// kindToken matches the kind token's case to the pattern's case.
func kindToken(pattern, kind string) string {
	if pattern[0] == 'H' {
		switch kind {
		case "alpha":
			return "ALPHA"
		case "nmrc":
			return "NMRC"
		default:
			return "RPT"
		}
	}
	return kind
}

package hcris

import "fmt"

// MissingInputError reports that one of a fiscal year's three extract files
// is absent. The caller skips that year and continues; it is not fatal to
// the run.
type MissingInputError struct {
	Year int
	Kind string // "alpha", "nmrc", or "rpt"
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("fiscal year %d: missing %s file at %s", e.Year, e.Kind, e.Path)
}

// MalformedRowError reports a row that could not be parsed. Such rows are
// dropped and counted; the error carries context for the warning log.
type MalformedRowError struct {
	File string
	Line int
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

package dataset

import "fmt"

// CellError reports a cell that could not be parsed as a number. Row is
// 1-based and counts the header row, matching what a user sees in a
// spreadsheet.
type CellError struct {
	File   string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: cannot parse %q: %v",
		e.File, e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

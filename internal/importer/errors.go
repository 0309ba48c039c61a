package importer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHeaders is returned for a file without a header row.
var ErrNoHeaders = errors.New("no header row")

// DuplicateHeaderError is returned when a header row names a column twice.
type DuplicateHeaderError struct {
	Header string
}

func (e *DuplicateHeaderError) Error() string {
	return fmt.Sprintf("duplicate header %q", e.Header)
}

// RowError is returned for a data row whose field count differs from the
// header's. The import of the file is aborted.
type RowError struct {
	Row  int // 1-based line number
	Want int
	Got  int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: expected %d fields, got %d", e.Row, e.Want, e.Got)
}

// UnrecognizedFormatError is returned when no registered format matches the
// header row. Report carries the payload for manual resolution.
type UnrecognizedFormatError struct {
	Headers []string
	Report  *Report
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized format with headers [%s]", strings.Join(e.Headers, "; "))
}

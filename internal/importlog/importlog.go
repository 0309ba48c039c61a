// Package importlog keeps an append-only record of every bank export imported
// into a project.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	ImportID  string
	Account   string
	File      string
	Format    string
	Rows      int
	Added     int
	Warnings  int
	Caveats   []string
}

// NewEntry starts an entry for importing file into account, stamped with a
// fresh import ID.
func NewEntry(at time.Time, account, file string) Entry {
	return Entry{
		Timestamp: at.UTC().Truncate(time.Second),
		ImportID:  uuid.NewString(),
		Account:   account,
		File:      file,
	}
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,import_id,account,file,format,rows,added,warnings,caveats"

const (
	numFields    = 9
	logFile      = "import-log.csv"
	caveatSep    = " | "
	colTimestamp = 0
	colImportID  = 1
	colAccount   = 2
	colFile      = 3
	colFormat    = 4
	colRows      = 5
	colAdded     = 6
	colWarnings  = 7
	colCaveats   = 8
)

// Path returns the import log location under a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "logs", logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colImportID] = e.ImportID
	row[colAccount] = e.Account
	row[colFile] = e.File
	row[colFormat] = e.Format
	row[colRows] = strconv.Itoa(e.Rows)
	row[colAdded] = strconv.Itoa(e.Added)
	row[colWarnings] = strconv.Itoa(e.Warnings)
	row[colCaveats] = strings.Join(e.Caveats, caveatSep)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp: ts,
		ImportID:  record[colImportID],
		Account:   record[colAccount],
		File:      record[colFile],
		Format:    record[colFormat],
	}
	counts := []struct {
		col int
		dst *int
	}{{colRows, &e.Rows}, {colAdded, &e.Added}, {colWarnings, &e.Warnings}}
	for _, c := range counts {
		n, err := strconv.Atoi(record[c.col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s %q: %w", strings.Split(Header, ",")[c.col], record[c.col], err)
		}
		*c.dst = n
	}
	if record[colCaveats] != "" {
		e.Caveats = strings.Split(record[colCaveats], caveatSep)
	}
	return e, nil
}

// Append writes entries to <dataDir>/logs/import-log.csv, creating the file
// and header if needed.
func Append(dataDir string, entries []Entry) error {
	path := Path(dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(Path(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// ForAccount returns the entries of one account (case-insensitive), oldest
// first.
func ForAccount(entries []Entry, account string) []Entry {
	var out []Entry
	for _, e := range entries {
		if strings.EqualFold(e.Account, account) {
			out = append(out, e)
		}
	}
	return out
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Package store persists each account's normalized transactions as CSV.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// Service reads and writes accounts/<slug>/transactions.csv under a data
// directory.
type Service struct {
	dataDir string
}

// NewService creates a store Service.
func NewService(dataDir string) *Service {
	return &Service{dataDir: dataDir}
}

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// Slug turns an account name into a directory name.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range umlauts.Replace(strings.ToLower(strings.TrimSpace(name))) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Path returns the transactions file of an account.
func (s *Service) Path(accountName string) string {
	return filepath.Join(s.dataDir, "accounts", Slug(accountName), "transactions.csv")
}

// Read returns the stored transactions of an account, or nil if none exist.
func (s *Service) Read(accountName string) (model.Transactions, error) {
	path := s.Path(accountName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions %s: %w", path, err)
	}
	return txns, nil
}

// Write validates txns and replaces the account's transactions file.
func (s *Service) Write(accountName string, txns model.Transactions) error {
	if verrs := Validate(txns, accountName); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	path := s.Path(accountName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating account dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating transactions file: %w", err)
	}
	if err := WriteTransactions(f, txns); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing transactions: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing transactions file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing transactions file: %w", err)
	}
	return nil
}

// Import merges incoming into the account's stored history and writes the
// result. It returns the transactions that were new.
func (s *Service) Import(accountName string, incoming model.Transactions) (added model.Transactions, err error) {
	existing, err := s.Read(accountName)
	if err != nil {
		return nil, err
	}
	merged, added := Merge(existing, incoming)
	if len(added) == 0 {
		return nil, nil
	}
	if err := s.Write(accountName, merged); err != nil {
		return nil, err
	}
	return added, nil
}

// Merge appends the incoming transactions whose fingerprint is not yet in
// existing (or earlier in incoming) and sorts the result by booking date,
// keeping the relative order of equal dates. Existing tags are kept.
func Merge(existing, incoming model.Transactions) (merged, added model.Transactions) {
	merged = existing.Clone()
	seen := merged.ByHash()
	for _, t := range id.Dedup(incoming) {
		if _, ok := seen[t.Hash]; ok {
			continue
		}
		added = append(added, t)
	}
	merged = append(merged, added.Clone()...)
	slices.SortStableFunc(merged, func(a, b model.Transaction) int {
		return a.BookingDate.Compare(b.BookingDate)
	})
	return merged, added
}

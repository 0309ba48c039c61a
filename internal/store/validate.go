package store

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// ValidationError describes a stored transaction that breaks an invariant.
type ValidationError struct {
	Row         int // 1-based position in the collection
	Hash        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("transaction %d [%s]: %s", e.Row, e.Hash, e.Description)
}

// Validate checks that every transaction carries the fingerprint it would get
// from accountName, that fingerprints are unique, and that a currency is set.
func Validate(txns model.Transactions, accountName string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int, len(txns))
	for i, t := range txns {
		row := i + 1
		want := id.Fingerprint(t, accountName)
		switch {
		case t.Hash == "":
			errs = append(errs, ValidationError{Row: row, Description: "missing fingerprint"})
		case t.Hash != want:
			errs = append(errs, ValidationError{
				Row: row, Hash: t.Hash,
				Description: fmt.Sprintf("fingerprint does not match contents (want %s)", want),
			})
		}
		if prev, dup := seen[t.Hash]; dup {
			errs = append(errs, ValidationError{
				Row: row, Hash: t.Hash,
				Description: fmt.Sprintf("duplicate of transaction %d", prev),
			})
		} else if t.Hash != "" {
			seen[t.Hash] = row
		}
		if t.Currency == "" {
			errs = append(errs, ValidationError{Row: row, Hash: t.Hash, Description: "missing currency"})
		}
	}
	return errs
}

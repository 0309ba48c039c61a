package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Service provides in-memory lookup over the account registry.
type Service struct {
	accounts model.Accounts
	byName   map[string]int
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts model.Accounts) *Service {
	s := &Service{byName: make(map[string]int, len(accounts))}
	for _, a := range accounts {
		s.Upsert(a)
	}
	return s
}

// Path returns the location of accounts.csv under a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "accounts", "accounts.csv")
}

// Load reads accounts/accounts.csv from a data directory and returns a
// Service. A missing file yields an empty registry.
func Load(dataDir string) (*Service, error) {
	f, err := os.Open(Path(dataDir))
	if os.IsNotExist(err) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in registration order.
func (s *Service) All() model.Accounts {
	return s.accounts
}

// Get returns an account by name (case-insensitive).
func (s *Service) Get(name string) (model.Account, bool) {
	i, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account name exists.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[strings.ToLower(name)]
	return ok
}

// Upsert adds acct or replaces the account of the same name. Empty fields of
// acct keep the stored value. It returns the stored account.
func (s *Service) Upsert(acct model.Account) model.Account {
	key := strings.ToLower(acct.Name)
	i, ok := s.byName[key]
	if !ok {
		acct.Transactions = nil
		s.byName[key] = len(s.accounts)
		s.accounts = append(s.accounts, acct)
		return acct
	}
	cur := &s.accounts[i]
	if acct.IBAN != "" {
		cur.IBAN = acct.IBAN
	}
	if acct.Bank != "" {
		cur.Bank = acct.Bank
	}
	if acct.Format != "" {
		cur.Format = acct.Format
	}
	if acct.Currency != "" {
		cur.Currency = acct.Currency
	}
	return *cur
}

// Save writes the registry to accounts/accounts.csv.
func (s *Service) Save(dataDir string) error {
	dir := filepath.Join(dataDir, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(Path(dataDir))
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

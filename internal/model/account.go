package model

import "strings"

// Account is one imported bank account and its transactions.
type Account struct {
	Name         string
	IBAN         string
	Bank         string
	Format       string // name of the format the account was last imported with
	Currency     string // fallback currency for formats without a currency column
	Transactions Transactions
}

// Accounts is an ordered collection of accounts.
type Accounts []Account

// Find returns the account with the given name (case-insensitive).
func (as Accounts) Find(name string) (Account, bool) {
	for _, a := range as {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Account{}, false
}

// Names returns the account names in order.
func (as Accounts) Names() []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

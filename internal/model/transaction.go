package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical, format-independent bank transaction.
type Transaction struct {
	BookingDate     time.Time
	ValueDate       time.Time
	ParticipantName string
	ParticipantIBAN string
	ParticipantBIC  string
	Type            string          // bank transaction type label (Lastschrift, Gutschrift, ...)
	Purpose         string          // free-text Verwendungszweck
	Amount          decimal.Decimal // negative = debit, positive = credit
	Currency        string
	Balance         decimal.Decimal // balance after this transaction
	AccountIBAN     string          // owning account
	Hash            string          // content fingerprint, see id.Fingerprint
	Tag             *Tag
}

// Tag is the categorization stamped on a transaction by a TagRule.
type Tag struct {
	Category    string
	Subcategory string
	Months      int  // spread the amount over this many months; 0 = don't spread
	Ignore      bool // exclude from analysis
	RuleID      string
	RuleName    string
}

// Category returns the tag's category, or "" for an untagged transaction.
func (t Transaction) Category() string {
	if t.Tag == nil {
		return ""
	}
	return t.Tag.Category
}

// Subcategory returns the tag's subcategory, or "".
func (t Transaction) Subcategory() string {
	if t.Tag == nil {
		return ""
	}
	return t.Tag.Subcategory
}

// Transactions is an ordered transaction collection.
type Transactions []Transaction

// Clone returns a copy that shares no tags with the receiver.
func (ts Transactions) Clone() Transactions {
	if ts == nil {
		return nil
	}
	out := make(Transactions, len(ts))
	for i, t := range ts {
		if t.Tag != nil {
			tag := *t.Tag
			t.Tag = &tag
		}
		out[i] = t
	}
	return out
}

// ByHash indexes positions by fingerprint. Transactions sharing a fingerprint
// map to all of their positions.
func (ts Transactions) ByHash() map[string][]int {
	idx := make(map[string][]int, len(ts))
	for i, t := range ts {
		idx[t.Hash] = append(idx[t.Hash], i)
	}
	return idx
}

// Sum returns the total of all amounts.
func (ts Transactions) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		total = total.Add(t.Amount)
	}
	return total
}

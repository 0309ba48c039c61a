package id

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

const (
	pseudoCountry    = "DE"
	pseudoCheck      = "00" // no check digits are computed
	routingLen       = 8
	accountNumberLen = 10
	fingerprintBytes = 8
	fieldSep         = "\x1f"
)

// PseudoIBAN derives a stable IBAN-shaped identifier from a German account
// number and BLZ: "DE00" + BLZ (8 digits) + account number (10 digits).
// Non-digits are dropped, short parts are zero-padded, overlong parts keep
// their trailing digits. Returns "" when both inputs are empty.
func PseudoIBAN(routing, account string) string {
	routing = digits(routing)
	account = digits(account)
	if routing == "" && account == "" {
		return ""
	}
	return pseudoCountry + pseudoCheck + leftPad(routing, routingLen) + leftPad(account, accountNumberLen)
}

// IsIBAN reports whether s looks like an IBAN (spaces ignored).
func IsIBAN(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) < 15 || len(s) > 34 {
		return false
	}
	for i, r := range s {
		switch {
		case i < 2:
			if r < 'A' || r > 'Z' {
				return false
			}
		case i < 4:
			if r < '0' || r > '9' {
				return false
			}
		default:
			if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				return false
			}
		}
	}
	return true
}

// AccountIdentifier returns iban if it looks like one, otherwise a pseudo
// IBAN built from the account number (which may be in the iban field) and BLZ.
func AccountIdentifier(iban, routing string) string {
	if IsIBAN(iban) {
		return strings.ReplaceAll(iban, " ", "")
	}
	return PseudoIBAN(routing, iban)
}

// Key is the canonical subset of transaction fields that determines identity.
type Key struct {
	AccountID   string
	BookingDate time.Time
	Amount      decimal.Decimal
	Participant string
	Purpose     string
	Type        string
	AccountName string
}

// KeyOf extracts the fingerprint key of t as owned by the named account.
func KeyOf(t model.Transaction, accountName string) Key {
	return Key{
		AccountID:   t.AccountIBAN,
		BookingDate: t.BookingDate,
		Amount:      t.Amount,
		Participant: t.ParticipantName,
		Purpose:     t.Purpose,
		Type:        t.Type,
		AccountName: accountName,
	}
}

// Fingerprint returns the first 64 bits of the SHA-256 over the key fields,
// hex-encoded. Changing this encoding changes identity of every stored
// transaction.
func (k Key) Fingerprint() string {
	fields := []string{
		k.AccountID,
		k.BookingDate.Format("2006-01-02"),
		k.Amount.StringFixed(2),
		k.Participant,
		k.Purpose,
		k.Type,
		k.AccountName,
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, fieldSep)))
	return hex.EncodeToString(sum[:fingerprintBytes])
}

// Fingerprint computes the fingerprint of t owned by the named account.
func Fingerprint(t model.Transaction, accountName string) string {
	return KeyOf(t, accountName).Fingerprint()
}

// Assign sets Hash on every transaction in place.
func Assign(txns model.Transactions, accountName string) {
	for i := range txns {
		txns[i].Hash = Fingerprint(txns[i], accountName)
	}
}

// Dedup drops transactions whose fingerprint was already seen, keeping the
// first occurrence and the original order.
func Dedup(txns model.Transactions) model.Transactions {
	seen := make(map[string]bool, len(txns))
	var out model.Transactions
	for _, t := range txns {
		if seen[t.Hash] {
			continue
		}
		seen[t.Hash] = true
		out = append(out, t)
	}
	return out
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s[len(s)-n:]
	}
	return strings.Repeat("0", n-len(s)) + s
}

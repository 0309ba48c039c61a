package importer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// FallbackCurrency is assumed when nothing else names a currency.
const FallbackCurrency = "EUR"

// Options tunes an import.
type Options struct {
	// SampleRows is the number of anonymized rows in an unrecognized-format
	// report. Zero means DefaultSampleRows; negative means none.
	SampleRows int
	// Currency is assumed for rows without one when neither the format nor
	// the account names a currency.
	Currency string
}

// Result is a normalized import.
type Result struct {
	Format       Format
	Bank         string
	Transactions model.Transactions
	Warnings     []model.Warning
	// Caveats lists every approximation applied to this import.
	Caveats []string

	BalanceReconstructed bool
	CurrencyAssumed      bool
}

// Import detects the format of a semicolon-separated export and normalizes it
// for account. On a detection miss the error is an *UnrecognizedFormatError
// carrying a Report.
func Import(reg *Registry, text string, account model.Account, opts Options) (*Result, error) {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return nil, ErrNoHeaders
	}
	headers := Headers(lines[0])

	f, err := reg.Detect(headers)
	if err != nil {
		var unrec *UnrecognizedFormatError
		if errors.As(err, &unrec) {
			n := opts.SampleRows
			if n == 0 {
				n = DefaultSampleRows
			}
			unrec.Report = NewReport(headers, lines[1:], n)
		}
		return nil, err
	}
	return Normalize(f, lines, account, opts)
}

// Normalize maps the rows of lines, header line first, to fingerprinted
// transactions of format f. A row whose field count differs from the header
// aborts with a *RowError. Rows may end in as many empty fields as the header
// line does.
func Normalize(f Format, lines []Line, account model.Account, opts Options) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrNoHeaders
	}
	dec, err := f.decode(Headers(lines[0]), trailingDelimiters(lines[0]), lines[1:])
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", f.Name(), err)
	}

	res := &Result{
		Format:       f,
		Bank:         dec.bank,
		Transactions: dec.txns,
		Warnings:     dec.warnings,
	}
	if c := f.Caveat(); c != "" {
		res.Caveats = append(res.Caveats, c)
	}

	currency := firstNonEmpty(f.Currency(), account.Currency, opts.Currency, FallbackCurrency)
	for i := range res.Transactions {
		t := &res.Transactions[i]
		if t.Currency == "" {
			t.Currency = currency
			res.CurrencyAssumed = true
		}
		if t.AccountIBAN == "" {
			t.AccountIBAN = account.IBAN
		}
	}
	if res.CurrencyAssumed {
		res.Caveats = append(res.Caveats, "currency assumed: "+currency)
	}

	if f.Balance() != BalanceNative && len(res.Transactions) > 0 {
		ReconstructBalances(res.Transactions, f.Balance())
		res.BalanceReconstructed = true
		res.Caveats = append(res.Caveats, "balance reconstructed from 0.00 in "+f.Balance().String()+" order")
	}

	id.Assign(res.Transactions, account.Name)
	if dups := len(res.Transactions) - len(id.Dedup(res.Transactions)); dups > 0 {
		res.Caveats = append(res.Caveats, fmt.Sprintf("rows identical to an earlier row, stored once: %d", dups))
	}
	return res, nil
}

// ReconstructBalances stable-sorts txns ascending by the given date and
// writes the running total, starting at 0 and including each transaction's
// own amount, into Balance.
func ReconstructBalances(txns model.Transactions, by BalanceSource) {
	date := func(t model.Transaction) time.Time { return t.BookingDate }
	if by == BalanceByValueDate {
		date = func(t model.Transaction) time.Time { return t.ValueDate }
	}
	slices.SortStableFunc(txns, func(a, b model.Transaction) int {
		return date(a).Compare(date(b))
	})

	running := decimal.Zero
	for i := range txns {
		running = running.Add(txns[i].Amount)
		txns[i].Balance = running
	}
}

package importer

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/value"
)

// BalanceSource says where balance-after-transaction comes from.
type BalanceSource int

const (
	// BalanceNative means the export has a balance column.
	BalanceNative BalanceSource = iota
	// BalanceByBookingDate reconstructs balances in booking-date order.
	BalanceByBookingDate
	// BalanceByValueDate reconstructs balances in value-date order.
	BalanceByValueDate
)

func (b BalanceSource) String() string {
	switch b {
	case BalanceNative:
		return "native"
	case BalanceByBookingDate:
		return "booking date"
	case BalanceByValueDate:
		return "value date"
	default:
		return fmt.Sprintf("BalanceSource(%d)", int(b))
	}
}

// Format describes one supported bank export layout. The set of formats is
// closed: implementations live in this package.
type Format interface {
	Name() string
	DisplayName() string
	// Columns is the exact header set the export must have.
	Columns() []string
	// Currency is assumed for rows without a currency; "" if the export has
	// a currency column.
	Currency() string
	// Caveat is shown to the user whenever this format is imported.
	Caveat() string
	Balance() BalanceSource

	decode(headers []string, trailing int, rows []Line) (decoded, error)
}

type decoded struct {
	txns     model.Transactions
	bank     string
	warnings []model.Warning
}

// layout is a Format over the typed row schema R. R is a struct whose string,
// time.Time and decimal.Decimal fields carry `col:"<header>"` tags; the tags
// are the format's required columns. `col:"<header>,optional"` on a date
// field turns an empty cell into the zero time instead of a parse fallback.
type layout[R any] struct {
	name     string
	display  string
	bank     string
	currency string
	caveat   string
	balance  BalanceSource
	mapRow   func(R) model.Transaction
	bankFrom func([]R) string // overrides bank when set

	columns []string
	fields  []schemaField
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindDate
	kindAmount
)

type schemaField struct {
	index    int
	column   string
	kind     fieldKind
	optional bool
}

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
)

// newLayout derives the column set from R. It panics on a malformed schema,
// which can only happen at package init.
func newLayout[R any](l layout[R]) *layout[R] {
	rt := reflect.TypeFor[R]()
	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("format %s: row schema %s is not a struct", l.name, rt))
	}
	seen := make(map[string]bool)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag, ok := sf.Tag.Lookup("col")
		if !ok {
			panic(fmt.Sprintf("format %s: field %s has no col tag", l.name, sf.Name))
		}
		column, opts, _ := strings.Cut(tag, ",")
		if seen[column] {
			panic(fmt.Sprintf("format %s: duplicate column %q", l.name, column))
		}
		seen[column] = true

		f := schemaField{index: i, column: column, optional: opts == "optional"}
		switch sf.Type {
		case timeType:
			f.kind = kindDate
		case decimalType:
			f.kind = kindAmount
		default:
			if sf.Type.Kind() != reflect.String {
				panic(fmt.Sprintf("format %s: field %s has unsupported type %s", l.name, sf.Name, sf.Type))
			}
			f.kind = kindString
		}
		l.fields = append(l.fields, f)
		l.columns = append(l.columns, column)
	}
	if l.mapRow == nil {
		panic(fmt.Sprintf("format %s: no row mapper", l.name))
	}
	return &l
}

func (l *layout[R]) Name() string           { return l.name }
func (l *layout[R]) DisplayName() string    { return l.display }
func (l *layout[R]) Currency() string       { return l.currency }
func (l *layout[R]) Caveat() string         { return l.caveat }
func (l *layout[R]) Balance() BalanceSource { return l.balance }

func (l *layout[R]) Columns() []string {
	return append([]string(nil), l.columns...)
}

func (l *layout[R]) decode(headers []string, trailing int, rows []Line) (decoded, error) {
	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		pos[h] = i
	}
	for _, f := range l.fields {
		if _, ok := pos[f.column]; !ok {
			return decoded{}, fmt.Errorf("format %s: missing column %q", l.name, f.column)
		}
	}

	var out decoded
	records := make([]R, 0, len(rows))
	for _, line := range rows {
		tokens := dropTrailing(Tokenize(line.Text), len(headers), trailing)
		if len(tokens) != len(headers) {
			return decoded{}, &RowError{Row: line.Num, Want: len(headers), Got: len(tokens)}
		}

		var rec R
		rv := reflect.ValueOf(&rec).Elem()
		for _, f := range l.fields {
			raw := tokens[pos[f.column]]
			fv := rv.Field(f.index)
			switch f.kind {
			case kindString:
				fv.SetString(raw)
			case kindDate:
				if raw == "" && f.optional {
					continue
				}
				t, ok := value.TryParseDate(raw)
				if !ok {
					out.warnings = append(out.warnings, model.Warning{
						Row: line.Num, Column: f.column, Value: raw,
						Message: "unparseable date, using import time",
					})
				}
				fv.Set(reflect.ValueOf(t))
			case kindAmount:
				d, ok := value.TryParseAmount(raw)
				if !ok {
					out.warnings = append(out.warnings, model.Warning{
						Row: line.Num, Column: f.column, Value: raw,
						Message: "unparseable amount, using 0",
					})
				}
				fv.Set(reflect.ValueOf(d))
			}
		}
		records = append(records, rec)
		out.txns = append(out.txns, l.mapRow(rec))
	}

	out.bank = l.bank
	if l.bankFrom != nil {
		if b := l.bankFrom(records); b != "" {
			out.bank = b
		}
	}
	return out, nil
}

// trimTrailingEmpty drops empty tokens produced by a trailing delimiter, but
// never below want.
func trimTrailingEmpty(tokens []string, want int) []string {
	for len(tokens) > want && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// dropTrailing removes the trailing empty tokens a row carries when the header
// line ends with the same number of delimiters. Any other width is left alone
// so the caller reports it.
func dropTrailing(tokens []string, width, trailing int) []string {
	if trailing == 0 || len(tokens) != width+trailing {
		return tokens
	}
	for _, tok := range tokens[width:] {
		if tok != "" {
			return tokens
		}
	}
	return tokens[:width]
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// orDate returns t, or fallback when t is zero.
func orDate(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

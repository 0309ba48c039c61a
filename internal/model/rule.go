package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueType classifies filter values and transaction attributes.
type ValueType string

const (
	TypeText   ValueType = "text"
	TypeNumber ValueType = "number"
	TypeDate   ValueType = "date"
	TypeList   ValueType = "list"
)

// FilterValue is a typed comparison value. Exactly one of the payload fields
// is meaningful, selected by Type.
type FilterValue struct {
	Type   ValueType
	Text   string
	Number decimal.Decimal
	Date   time.Time
	List   []string
}

// TextValue returns a text FilterValue.
func TextValue(s string) FilterValue { return FilterValue{Type: TypeText, Text: s} }

// NumberValue returns a number FilterValue.
func NumberValue(d decimal.Decimal) FilterValue { return FilterValue{Type: TypeNumber, Number: d} }

// DateValue returns a date FilterValue.
func DateValue(t time.Time) FilterValue { return FilterValue{Type: TypeDate, Date: t} }

// ListValue returns a list FilterValue.
func ListValue(items ...string) FilterValue { return FilterValue{Type: TypeList, List: items} }

func (v FilterValue) String() string {
	switch v.Type {
	case TypeText:
		return v.Text
	case TypeNumber:
		return v.Number.String()
	case TypeDate:
		return v.Date.Format("2006-01-02")
	case TypeList:
		return strings.Join(v.List, ",")
	default:
		return fmt.Sprintf("<%s>", v.Type)
	}
}

// FilterRule compares one transaction attribute against a value.
type FilterRule struct {
	Attribute string
	Operator  string
	Value     FilterValue
}

func (r FilterRule) String() string {
	return fmt.Sprintf("%s %s %q", r.Attribute, r.Operator, r.Value.String())
}

// TagRule stamps Tag on every transaction matching all of Filters.
type TagRule struct {
	ID      string
	Name    string
	Filters []FilterRule
	Tag     Tag
}

// Warning reports a value that could not be parsed and was replaced by a
// fallback during normalization.
type Warning struct {
	Row     int // 1-based line number in the source file
	Column  string
	Value   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d, %s %q: %s", w.Row, w.Column, w.Value, w.Message)
}

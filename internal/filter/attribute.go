package filter

import (
	"sort"

	"github.com/cleared-dev/tally/internal/model"
)

type attribute func(model.Transaction) model.FilterValue

func text(f func(model.Transaction) string) attribute {
	return func(t model.Transaction) model.FilterValue { return model.TextValue(f(t)) }
}

var attributes = map[string]attribute{
	"bookingDate":     func(t model.Transaction) model.FilterValue { return model.DateValue(t.BookingDate) },
	"valueDate":       func(t model.Transaction) model.FilterValue { return model.DateValue(t.ValueDate) },
	"participantName": text(func(t model.Transaction) string { return t.ParticipantName }),
	"participantIban": text(func(t model.Transaction) string { return t.ParticipantIBAN }),
	"participantBic":  text(func(t model.Transaction) string { return t.ParticipantBIC }),
	"type":            text(func(t model.Transaction) string { return t.Type }),
	"purpose":         text(func(t model.Transaction) string { return t.Purpose }),
	"amount":          func(t model.Transaction) model.FilterValue { return model.NumberValue(t.Amount) },
	"currency":        text(func(t model.Transaction) string { return t.Currency }),
	"balance":         func(t model.Transaction) model.FilterValue { return model.NumberValue(t.Balance) },
	"accountIban":     text(func(t model.Transaction) string { return t.AccountIBAN }),
	"category":        text(model.Transaction.Category),
	"subcategory":     text(model.Transaction.Subcategory),
}

// Value reads the named attribute of t. ok is false for unknown attributes.
func Value(t model.Transaction, name string) (v model.FilterValue, ok bool) {
	attr, ok := attributes[name]
	if !ok {
		return model.FilterValue{}, false
	}
	return attr(t), true
}

// Attributes returns the filterable attribute names, sorted.
func Attributes() []string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

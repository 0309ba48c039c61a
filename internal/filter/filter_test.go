package filter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample() model.Transactions {
	return model.Transactions{
		{
			BookingDate: date(2025, 1, 1), ValueDate: date(2025, 1, 2),
			ParticipantName: "Vermieter GmbH", Purpose: "Rent January", Type: "Dauerauftrag",
			Amount: decimal.NewFromInt(-850), Currency: "EUR", Hash: "a",
		},
		{
			BookingDate: date(2025, 1, 5), ValueDate: date(2025, 1, 5),
			ParticipantName: "Coffee Fellows", Purpose: "Coffee shop", Type: "Kartenzahlung",
			Amount: decimal.RequireFromString("-6.50"), Currency: "EUR", Hash: "b",
			Tag: &model.Tag{Category: "Food", Subcategory: "Coffee"},
		},
		{
			BookingDate: date(2025, 1, 28), ValueDate: date(2025, 1, 28),
			ParticipantName: "ACME GmbH", Purpose: "Gehalt", Type: "Gutschrift",
			Amount: decimal.NewFromInt(2500), Currency: "EUR", Hash: "c",
		},
	}
}

func rule(attr, op string, v model.FilterValue) model.FilterRule {
	return model.FilterRule{Attribute: attr, Operator: op, Value: v}
}

func TestMatch(t *testing.T) {
	txn := sample()[1]
	at := time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule model.FilterRule
		want bool
	}{
		{"text equals ignores case", rule("participantName", "equals", model.TextValue("coffee fellows")), true},
		{"text equals", rule("participantName", "equals", model.TextValue("Coffee")), false},
		{"notEquals", rule("type", "notEquals", model.TextValue("Gutschrift")), true},
		{"includes", rule("purpose", "includes", model.TextValue("SHOP")), true},
		{"includes miss", rule("purpose", "includes", model.TextValue("tea")), false},
		{"startsWith", rule("purpose", "startsWith", model.TextValue("coffee")), true},
		{"oneOf", rule("currency", "oneOf", model.ListValue("usd", "eur")), true},
		{"oneOf miss", rule("currency", "oneOf", model.ListValue("USD")), false},
		{"number less", rule("amount", "less", model.NumberValue(decimal.NewFromInt(-5))), true},
		{"number greater", rule("amount", "greater", model.NumberValue(decimal.NewFromInt(-5))), false},
		{"number equals", rule("amount", "equals", model.NumberValue(decimal.RequireFromString("-6.5"))), true},
		{"date equals same day", rule("bookingDate", "equals", model.DateValue(at)), true},
		{"date greater", rule("valueDate", "greater", model.DateValue(date(2025, 1, 4))), true},
		{"date less same day", rule("valueDate", "less", model.DateValue(at)), false},
		{"category", rule("category", "equals", model.TextValue("food")), true},
		{"subcategory", rule("subcategory", "equals", model.TextValue("Coffee")), true},

		{"unknown attribute", rule("merchant", "equals", model.TextValue("x")), false},
		{"unknown operator", rule("purpose", "matches", model.TextValue("coffee")), false},
		{"operator not defined for type", rule("amount", "includes", model.TextValue("6")), false},
		{"number value on text attribute", rule("purpose", "equals", model.NumberValue(decimal.NewFromInt(1))), false},
		{"text value on number attribute", rule("amount", "equals", model.TextValue("-6.50")), false},
		{"list value for equals", rule("currency", "equals", model.ListValue("EUR")), false},
		{"untyped value", rule("purpose", "equals", model.FilterValue{Text: "Coffee shop"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(txn, tt.rule))
		})
	}
}

func TestMatch_UntaggedCategoryIsEmpty(t *testing.T) {
	txn := sample()[0]
	assert.True(t, Match(txn, rule("category", "equals", model.TextValue(""))))
	assert.False(t, Match(txn, rule("category", "notEquals", model.TextValue(""))))
}

func TestMatch_CaseInsensitive(t *testing.T) {
	txns := sample()
	upper := Filter(txns, []model.FilterRule{rule("purpose", "includes", model.TextValue("Rent"))})
	lower := Filter(txns, []model.FilterRule{rule("purpose", "includes", model.TextValue("rent"))})
	require.Len(t, upper, 1)
	assert.Equal(t, upper, lower)
}

func TestMatchAll_IsConjunction(t *testing.T) {
	txn := sample()[1]
	hit := rule("purpose", "includes", model.TextValue("coffee"))
	miss := rule("amount", "greater", model.NumberValue(decimal.Zero))

	assert.True(t, MatchAll(txn, nil))
	assert.True(t, MatchAll(txn, []model.FilterRule{hit}))
	assert.False(t, MatchAll(txn, []model.FilterRule{hit, miss}))
	assert.False(t, MatchAll(txn, []model.FilterRule{miss, hit}))
}

func TestFilter_NoRulesIsIdentity(t *testing.T) {
	txns := sample()
	assert.Equal(t, txns, Filter(txns, nil))
	assert.Nil(t, Filter(nil, nil))
}

func TestFilter_Idempotent(t *testing.T) {
	txns := sample()
	rules := []model.FilterRule{rule("amount", "less", model.NumberValue(decimal.Zero))}
	once := Filter(txns, rules)
	require.Len(t, once, 2)
	assert.Equal(t, once, Filter(once, rules))
}

func TestSplit_PreservesOrder(t *testing.T) {
	txns := sample()
	matches, rest := Split(txns, []model.FilterRule{rule("type", "oneOf", model.ListValue("dauerauftrag", "gutschrift"))})

	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Hash)
	assert.Equal(t, "c", matches[1].Hash)
	require.Len(t, rest, 1)
	assert.Equal(t, "b", rest[0].Hash)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	op := Operator{Name: "equals", Type: model.TypeText, Compare: func(_, _ model.FilterValue) bool { return true }}
	r.Register(op)
	assert.PanicsWithValue(t, "duplicate operator: equals/text", func() { r.Register(op) })
	assert.Panics(t, func() { r.Register(Operator{Name: "x", Type: model.TypeText}) })

	// The same name over another type is a different operator.
	assert.NotPanics(t, func() {
		r.Register(Operator{Name: "equals", Type: model.TypeNumber, Compare: op.Compare})
	})
}

func TestRegistry_Custom(t *testing.T) {
	r := NewRegistry()
	r.Register(Operator{Name: "isEmpty", Type: model.TypeText, Compare: func(_, a model.FilterValue) bool { return a.Text == "" }})

	txn := sample()[0]
	assert.True(t, r.Match(txn, rule("participantBic", "isEmpty", model.TextValue(""))))
	assert.False(t, r.Match(txn, rule("purpose", "includes", model.TextValue("Rent"))), "built-ins are not implied")
}

func TestDefaultOperators(t *testing.T) {
	ops := DefaultOperators().Operators()
	assert.Len(t, ops, 11)
	for _, op := range ops {
		if op.Name == "oneOf" {
			assert.Equal(t, model.TypeList, op.Accepts)
			continue
		}
		assert.Equal(t, op.Type, op.Accepts, op.Name)
	}
}

func TestAttributes(t *testing.T) {
	names := Attributes()
	assert.Len(t, names, 13)
	assert.Contains(t, names, "participantIban")
	assert.IsIncreasing(t, names)

	v, ok := Value(sample()[2], "amount")
	require.True(t, ok)
	assert.Equal(t, model.TypeNumber, v.Type)
	assert.True(t, v.Number.Equal(decimal.NewFromInt(2500)))

	_, ok = Value(sample()[2], "nope")
	assert.False(t, ok)
}

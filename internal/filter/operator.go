package filter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// Operator compares a rule's value against a transaction attribute value.
// Type is the attribute type the operator applies to; Accepts is the type of
// value the rule must carry.
type Operator struct {
	Name    string
	Type    model.ValueType
	Accepts model.ValueType
	Compare func(user, actual model.FilterValue) bool
}

type opKey struct {
	name string
	typ  model.ValueType
}

// Registry holds operators keyed by name and attribute type.
type Registry struct {
	ops   map[opKey]Operator
	order []opKey
}

// NewRegistry returns an empty operator registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[opKey]Operator)}
}

// Register adds an operator. It panics if the same name is already
// registered for the same type.
func (r *Registry) Register(op Operator) {
	if op.Compare == nil {
		panic(fmt.Sprintf("operator %s/%s has no compare function", op.Name, op.Type))
	}
	if op.Accepts == "" {
		op.Accepts = op.Type
	}
	k := opKey{op.Name, op.Type}
	if _, exists := r.ops[k]; exists {
		panic(fmt.Sprintf("duplicate operator: %s/%s", op.Name, op.Type))
	}
	r.ops[k] = op
	r.order = append(r.order, k)
}

// Lookup returns the operator registered for name and typ.
func (r *Registry) Lookup(name string, typ model.ValueType) (Operator, bool) {
	op, ok := r.ops[opKey{name, typ}]
	return op, ok
}

// Operators returns all operators in registration order.
func (r *Registry) Operators() []Operator {
	out := make([]Operator, len(r.order))
	for i, k := range r.order {
		out[i] = r.ops[k]
	}
	return out
}

// DefaultOperators returns a registry with the built-in comparisons.
// Text comparisons ignore case; date comparisons look at the calendar day only.
func DefaultOperators() *Registry {
	r := NewRegistry()

	r.Register(Operator{Name: "equals", Type: model.TypeText, Compare: func(u, a model.FilterValue) bool {
		return strings.EqualFold(a.Text, u.Text)
	}})
	r.Register(Operator{Name: "notEquals", Type: model.TypeText, Compare: func(u, a model.FilterValue) bool {
		return !strings.EqualFold(a.Text, u.Text)
	}})
	r.Register(Operator{Name: "includes", Type: model.TypeText, Compare: func(u, a model.FilterValue) bool {
		return strings.Contains(strings.ToLower(a.Text), strings.ToLower(u.Text))
	}})
	r.Register(Operator{Name: "startsWith", Type: model.TypeText, Compare: func(u, a model.FilterValue) bool {
		return strings.HasPrefix(strings.ToLower(a.Text), strings.ToLower(u.Text))
	}})
	r.Register(Operator{Name: "oneOf", Type: model.TypeText, Accepts: model.TypeList, Compare: func(u, a model.FilterValue) bool {
		return slices.ContainsFunc(u.List, func(s string) bool { return strings.EqualFold(s, a.Text) })
	}})

	r.Register(Operator{Name: "equals", Type: model.TypeNumber, Compare: func(u, a model.FilterValue) bool {
		return a.Number.Equal(u.Number)
	}})
	r.Register(Operator{Name: "greater", Type: model.TypeNumber, Compare: func(u, a model.FilterValue) bool {
		return a.Number.GreaterThan(u.Number)
	}})
	r.Register(Operator{Name: "less", Type: model.TypeNumber, Compare: func(u, a model.FilterValue) bool {
		return a.Number.LessThan(u.Number)
	}})

	r.Register(Operator{Name: "equals", Type: model.TypeDate, Compare: func(u, a model.FilterValue) bool {
		return day(a.Date).Equal(day(u.Date))
	}})
	r.Register(Operator{Name: "greater", Type: model.TypeDate, Compare: func(u, a model.FilterValue) bool {
		return day(a.Date).After(day(u.Date))
	}})
	r.Register(Operator{Name: "less", Type: model.TypeDate, Compare: func(u, a model.FilterValue) bool {
		return day(a.Date).Before(day(u.Date))
	}})

	return r
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

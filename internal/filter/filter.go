// Package filter evaluates typed filter rules against transactions.
package filter

import (
	"github.com/cleared-dev/tally/internal/model"
)

var defaultRegistry = DefaultOperators()

// Match reports whether t satisfies rule under the built-in operators.
func Match(t model.Transaction, rule model.FilterRule) bool {
	return defaultRegistry.Match(t, rule)
}

// MatchAll reports whether t satisfies every rule.
func MatchAll(t model.Transaction, rules []model.FilterRule) bool {
	return defaultRegistry.MatchAll(t, rules)
}

// Filter returns the transactions matching all rules, in order.
func Filter(txns model.Transactions, rules []model.FilterRule) model.Transactions {
	return defaultRegistry.Filter(txns, rules)
}

// Split partitions txns into those matching all rules and the rest.
func Split(txns model.Transactions, rules []model.FilterRule) (matches, rest model.Transactions) {
	return defaultRegistry.Split(txns, rules)
}

// Match evaluates one rule. An unknown attribute or operator, or a value of
// the wrong type, never matches.
func (r *Registry) Match(t model.Transaction, rule model.FilterRule) bool {
	actual, ok := Value(t, rule.Attribute)
	if !ok {
		return false
	}
	op, ok := r.Lookup(rule.Operator, actual.Type)
	if !ok || rule.Value.Type != op.Accepts {
		return false
	}
	return op.Compare(rule.Value, actual)
}

// MatchAll is the conjunction of rules. An empty rule set matches everything.
func (r *Registry) MatchAll(t model.Transaction, rules []model.FilterRule) bool {
	for _, rule := range rules {
		if !r.Match(t, rule) {
			return false
		}
	}
	return true
}

// Filter returns the transactions matching all rules, in order.
func (r *Registry) Filter(txns model.Transactions, rules []model.FilterRule) model.Transactions {
	matches, _ := r.Split(txns, rules)
	return matches
}

// Split partitions txns in one pass, keeping relative order in both halves.
func (r *Registry) Split(txns model.Transactions, rules []model.FilterRule) (matches, rest model.Transactions) {
	for _, t := range txns {
		if r.MatchAll(t, rules) {
			matches = append(matches, t)
		} else {
			rest = append(rest, t)
		}
	}
	return matches, rest
}

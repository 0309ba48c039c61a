// Package tagging applies ordered tag rules to transactions.
package tagging

import (
	"sync"

	"github.com/cleared-dev/tally/internal/filter"
	"github.com/cleared-dev/tally/internal/model"
)

// Apply runs rules in order over a copy of txns and returns the tagged copy.
// Each rule sees the categories stamped by the rules before it, so the last
// matching rule wins. txns and its tags are not modified.
func Apply(txns model.Transactions, rules []model.TagRule) model.Transactions {
	work := txns.Clone()
	for _, rule := range rules {
		matches, _ := filter.Split(work, rule.Filters)
		if len(matches) == 0 {
			continue
		}
		for i := range matches {
			matches[i].Tag = stamp(rule)
		}
		merge(work, matches, rule.Filters)
	}
	return work
}

func stamp(rule model.TagRule) *model.Tag {
	tag := rule.Tag
	tag.RuleID = rule.ID
	tag.RuleName = rule.Name
	return &tag
}

// merge writes tagged transactions back into work by fingerprint. Matches
// sharing a fingerprint are written back in order, onto the entries that
// matched.
func merge(work, tagged model.Transactions, filters []model.FilterRule) {
	positions := work.ByHash()
	next := make(map[string]int, len(tagged))
	for _, t := range tagged {
		idx := positions[t.Hash]
		for c := next[t.Hash]; c < len(idx); c++ {
			i := idx[c]
			if len(idx) > 1 && !filter.MatchAll(work[i], filters) {
				continue
			}
			work[i].Tag = t.Tag
			next[t.Hash] = c + 1
			break
		}
	}
}

// Retag drops every existing tag and applies rules from scratch, so the result
// depends only on rules. txns is not modified.
func Retag(txns model.Transactions, rules []model.TagRule) model.Transactions {
	clean := txns.Clone()
	for i := range clean {
		clean[i].Tag = nil
	}
	return Apply(clean, rules)
}

// ApplyAccounts retags every account's transactions, one goroutine per
// account. The returned accounts hold tagged copies; the input is not modified.
func ApplyAccounts(accounts model.Accounts, rules []model.TagRule) model.Accounts {
	out := make(model.Accounts, len(accounts))
	var wg sync.WaitGroup
	for i, acct := range accounts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acct.Transactions = Retag(acct.Transactions, rules)
			out[i] = acct
		}()
	}
	wg.Wait()
	return out
}

// Untagged returns the transactions no rule has tagged.
func Untagged(txns model.Transactions) model.Transactions {
	var out model.Transactions
	for _, t := range txns {
		if t.Tag == nil {
			out = append(out, t)
		}
	}
	return out
}

// Ignored returns the transactions tagged to be left out of reports.
func Ignored(txns model.Transactions) model.Transactions {
	var out model.Transactions
	for _, t := range txns {
		if t.Tag != nil && t.Tag.Ignore {
			out = append(out, t)
		}
	}
	return out
}

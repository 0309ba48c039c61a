// Package rules reads and writes the YAML tag-rule file.
package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/filter"
	"github.com/cleared-dev/tally/internal/model"
)

const dateFormat = "2006-01-02"

type file struct {
	Rules []rule `yaml:"rules"`
}

type rule struct {
	ID      string       `yaml:"id,omitempty"`
	Name    string       `yaml:"name"`
	Filters []filterRule `yaml:"filters"`
	Tag     tag          `yaml:"tag"`
}

type filterRule struct {
	Attribute string    `yaml:"attribute"`
	Operator  string    `yaml:"operator"`
	Type      string    `yaml:"type"`
	Value     yaml.Node `yaml:"value"`
}

type tag struct {
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory,omitempty"`
	Months      int    `yaml:"months,omitempty"`
	Ignore      bool   `yaml:"ignore,omitempty"`
}

// Load reads tag rules from path. Rules without an ID get a new one;
// assigned reports whether that happened so the caller can persist them.
// A missing file holds no rules.
func Load(path string) (rules []model.TagRule, assigned bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading rules: %w", err)
	}
	return Parse(data)
}

// Parse decodes a tag-rule document.
func Parse(data []byte) (rules []model.TagRule, assigned bool, err error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("parsing rules: %w", err)
	}

	ids := make(map[string]int, len(f.Rules))
	for i, r := range f.Rules {
		tr, err := r.toModel()
		if err != nil {
			return nil, false, fmt.Errorf("rule %d (%s): %w", i+1, r.Name, err)
		}
		if tr.ID == "" {
			tr.ID = uuid.NewString()
			assigned = true
		}
		if prev, dup := ids[tr.ID]; dup {
			return nil, false, fmt.Errorf("rule %d (%s): duplicate id %s (also rule %d)", i+1, r.Name, tr.ID, prev)
		}
		ids[tr.ID] = i + 1
		rules = append(rules, tr)
	}
	return rules, assigned, nil
}

// Save writes rules to path, creating its directory.
func Save(path string, rules []model.TagRule) error {
	data, err := Marshal(rules)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// Marshal encodes rules as a tag-rule document.
func Marshal(rules []model.TagRule) ([]byte, error) {
	f := file{Rules: make([]rule, 0, len(rules))}
	for _, tr := range rules {
		r := rule{
			ID:   tr.ID,
			Name: tr.Name,
			Tag: tag{
				Category:    tr.Tag.Category,
				Subcategory: tr.Tag.Subcategory,
				Months:      tr.Tag.Months,
				Ignore:      tr.Tag.Ignore,
			},
		}
		for _, fr := range tr.Filters {
			out := filterRule{Attribute: fr.Attribute, Operator: fr.Operator, Type: string(fr.Value.Type)}
			if err := out.Value.Encode(encodeValue(fr.Value)); err != nil {
				return nil, fmt.Errorf("encoding %s: %w", fr, err)
			}
			r.Filters = append(r.Filters, out)
		}
		f.Rules = append(f.Rules, r)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshaling rules: %w", err)
	}
	return data, nil
}

func encodeValue(v model.FilterValue) any {
	switch v.Type {
	case model.TypeNumber:
		return v.Number.String()
	case model.TypeDate:
		return v.Date.Format(dateFormat)
	case model.TypeList:
		return v.List
	default:
		return v.Text
	}
}

func (r rule) toModel() (model.TagRule, error) {
	if r.Tag.Category == "" {
		return model.TagRule{}, errors.New("tag category is required")
	}
	tr := model.TagRule{
		ID:   r.ID,
		Name: r.Name,
		Tag: model.Tag{
			Category:    r.Tag.Category,
			Subcategory: r.Tag.Subcategory,
			Months:      r.Tag.Months,
			Ignore:      r.Tag.Ignore,
		},
	}
	for j, fr := range r.Filters {
		v, err := fr.value()
		if err != nil {
			return model.TagRule{}, fmt.Errorf("filter %d: %w", j+1, err)
		}
		if err := check(fr.Attribute, fr.Operator, v.Type); err != nil {
			return model.TagRule{}, fmt.Errorf("filter %d: %w", j+1, err)
		}
		tr.Filters = append(tr.Filters, model.FilterRule{Attribute: fr.Attribute, Operator: fr.Operator, Value: v})
	}
	return tr, nil
}

func (fr filterRule) value() (model.FilterValue, error) {
	switch model.ValueType(fr.Type) {
	case model.TypeText:
		var s string
		if err := fr.Value.Decode(&s); err != nil {
			return model.FilterValue{}, fmt.Errorf("text value: %w", err)
		}
		return model.TextValue(s), nil
	case model.TypeNumber:
		var s string
		if err := fr.Value.Decode(&s); err != nil {
			return model.FilterValue{}, fmt.Errorf("number value: %w", err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return model.FilterValue{}, fmt.Errorf("number value %q: %w", s, err)
		}
		return model.NumberValue(d), nil
	case model.TypeDate:
		var s string
		if err := fr.Value.Decode(&s); err != nil {
			return model.FilterValue{}, fmt.Errorf("date value: %w", err)
		}
		t, err := time.Parse(dateFormat, s)
		if err != nil {
			return model.FilterValue{}, fmt.Errorf("date value %q: %w", s, err)
		}
		return model.DateValue(t), nil
	case model.TypeList:
		var items []string
		if err := fr.Value.Decode(&items); err != nil {
			return model.FilterValue{}, fmt.Errorf("list value: %w", err)
		}
		return model.ListValue(items...), nil
	default:
		return model.FilterValue{}, fmt.Errorf("unknown value type %q", fr.Type)
	}
}

var operators = filter.DefaultOperators()

// check rejects filters that could never match: unknown attributes and
// operators that take no value of the given type.
func check(attribute, operator string, typ model.ValueType) error {
	if !slices.Contains(filter.Attributes(), attribute) {
		return fmt.Errorf("unknown attribute %q", attribute)
	}
	for _, op := range operators.Operators() {
		if op.Name == operator && op.Accepts == typ {
			return nil
		}
	}
	return fmt.Errorf("no operator %q takes a %s value", operator, typ)
}

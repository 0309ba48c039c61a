package importer

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// DefaultSampleRows is the number of sample rows put into a Report when the
// caller does not choose.
const DefaultSampleRows = 3

// Report describes a file no format matched, for a developer to add support.
// Samples are anonymized: no name, IBAN or amount survives.
type Report struct {
	Headers []string   `yaml:"headers"`
	Samples [][]string `yaml:"samples,omitempty"`
}

// NewReport builds a Report from the header and up to n data rows.
func NewReport(headers []string, rows []Line, n int) *Report {
	r := &Report{Headers: append([]string(nil), headers...)}
	for i := 0; i < len(rows) && i < n; i++ {
		tokens := Tokenize(rows[i].Text)
		sample := make([]string, len(tokens))
		for j, tok := range tokens {
			sample[j] = Anonymize(tok)
		}
		r.Samples = append(r.Samples, sample)
	}
	return r
}

// Anonymize keeps the shape of s (punctuation, length, letter case) and
// replaces its content: letters become x/X, digits become 0.
func Anonymize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return '0'
		case unicode.IsUpper(r):
			return 'X'
		case unicode.IsLetter(r):
			return 'x'
		default:
			return r
		}
	}, s)
}

// YAML renders the report for pasting into a bug report.
func (r *Report) YAML() (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	return string(data), nil
}

package importer

import "strings"

const (
	fieldSep = ';'
	quote    = '"'
	bom      = "\ufeff"
)

// Tokenize splits one semicolon-delimited line into trimmed fields. A field
// fully wrapped in double quotes loses the wrapping quotes and has "" collapsed
// to ". Anything else is returned verbatim after trimming. A semicolon inside
// a field that opens with a quote does not split.
func Tokenize(line string) []string {
	var fields []string
	start := 0
	started, quoted, inQuotes := false, false, false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == fieldSep && !inQuotes:
			fields = append(fields, unquote(line[start:i]))
			start = i + 1
			started, quoted = false, false
		case !started && (c == ' ' || c == '\t'):
		case !started:
			started = true
			// Only a field that opens with a quote is a quoted span.
			if c == quote {
				quoted, inQuotes = true, true
			}
		case quoted && c == quote:
			inQuotes = !inQuotes
		}
	}
	return append(fields, unquote(line[start:]))
}

func unquote(field string) string {
	field = strings.TrimSpace(field)
	if len(field) < 2 || field[0] != quote || field[len(field)-1] != quote {
		return field
	}
	inner := field[1 : len(field)-1]
	// A lone inner quote means the field is not one quoted span ("a"b"c").
	if strings.Count(strings.ReplaceAll(inner, `""`, ""), `"`) > 0 {
		return field
	}
	return strings.ReplaceAll(inner, `""`, `"`)
}

// SplitLines splits file text into lines, dropping a leading BOM, carriage
// returns and blank lines. Line numbers are kept so errors can point at the
// source row.
func SplitLines(text string) []Line {
	text = strings.TrimPrefix(text, bom)
	var lines []Line
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lines = append(lines, Line{Num: i + 1, Text: raw})
	}
	return lines
}

// Line is one non-blank line of an import file.
type Line struct {
	Num  int // 1-based
	Text string
}

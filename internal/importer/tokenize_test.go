package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`a;b;c`, []string{"a", "b", "c"}},
		{` a ; b ;c `, []string{"a", "b", "c"}},
		{`"a";"b"`, []string{"a", "b"}},
		{`"say ""hi""";x`, []string{`say "hi"`, "x"}},
		{`"";x`, []string{"", "x"}},
		{`""""`, []string{`"`}},
		{`a;;b`, []string{"a", "", "b"}},
		{`a;`, []string{"a", ""}},
		{`"a;b";c`, []string{"a;b", "c"}},
		{`  "padded"  ;x`, []string{"padded", "x"}},
		{`half"quoted;x`, []string{`half"quoted`, "x"}},
		{`5" screen;x`, []string{`5" screen`, "x"}},
		{`abc"`, []string{`abc"`}},
		{`"a"b"c";x`, []string{`"a"b"c"`, "x"}},
		{``, []string{""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.line), "Tokenize(%q)", tt.line)
	}
}

func TestSplitLines(t *testing.T) {
	text := "\ufeffh1;h2\r\n\r\na;b\r\n   \nc;d"
	lines := SplitLines(text)
	assert.Equal(t, []Line{
		{Num: 1, Text: "h1;h2"},
		{Num: 3, Text: "a;b"},
		{Num: 5, Text: "c;d"},
	}, lines)
	assert.Nil(t, SplitLines(""))
}

func TestHeaders_TrailingDelimiter(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Headers(Line{Text: `"a";"b";`}))
	assert.Empty(t, Headers(Line{Text: `;;`}))
}

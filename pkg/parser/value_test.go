package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/gofilter/pkg/types"
)

func TestParseValueSpan(t *testing.T) {
	tests := []struct {
		input  string
		lexeme string
		offset int
	}{
		{"channel", "channel", 0},
		{".private", ".private", 0},
		{"I-love-kebab", "I-love-kebab", 0},
		{"but_snakes_is_also_good", "but_snakes_is_also_good", 0},
		{"parens(", "parens", 0},
		{"parens)", "parens", 0},
		{"not!", "not", 0},
		{"    channel", "channel", 4},
		{"channel     ", "channel", 0},
		{"    channel     ", "channel", 4},
		{"'channel'", "channel", 1},
		{`"channel"`, "channel", 1},
		{"'cha)nnel'", "cha)nnel", 1},
		{`'cha"nnel'`, `cha"nnel`, 1},
		{`"cha'nnel"`, "cha'nnel", 1},
		{`" some spaces "`, " some spaces ", 1},
		{"I'm tamo", "I", 0},
		{`"I'm \"super\" tamo"`, `I'm \"super\" tamo`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, token, perr := parseValue(types.NewSpan(tt.input))
			require.Nil(t, perr)
			assert.Equal(t, tt.lexeme, token.Lexeme())
			assert.Equal(t, tt.offset, token.Span().Offset())
		})
	}
}

func TestParseValueDecoding(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		decoded  bool
	}{
		{"channel", "channel", false},
		{".private", ".private", false},
		{"parens(", "parens", false},
		{"    channel     ", "channel", false},
		{"'cha)nnel'", "cha)nnel", false},
		{`" some spaces "`, " some spaces ", false},
		{"I'm tamo", "I", false},
		// escaped, but not the quote
		{`"\\"`, `\`, true},
		{`"\\\\\\"`, `\\\`, true},
		{`"aa\\aa"`, `aa\aa`, true},
		// escaped double quote
		{`"Hello \"world\""`, `Hello "world"`, true},
		{`"Hello \\\"world\\\""`, `Hello \"world\"`, true},
		{`"I'm \"super\" tamo"`, `I'm "super" tamo`, true},
		{`"\"\""`, `""`, true},
		// escaped single quote
		{`'Hello \'world\''`, `Hello 'world'`, true},
		{`'Hello \\\'world\\\''`, `Hello \'world\'`, true},
		{`'I\'m "super" tamo'`, `I'm "super" tamo`, true},
		{`'\'\''`, `''`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, token, perr := parseValue(types.NewSpan(tt.input))
			require.Nil(t, perr)
			assert.Equal(t, tt.decoded, token.Decoded())
			assert.Equal(t, tt.expected, token.Value())
		})
	}
}

func TestQuotedBy(t *testing.T) {
	tests := []struct {
		input     string
		remaining string
		lexeme    string
		value     string
	}{
		{"aaaa", "", "aaaa", "aaaa"},
		{`aa"aa`, `"aa`, "aa", "aa"},
		{`aa\"aa`, "", `aa\"aa`, `aa"aa`},
		{`aa\\\aa`, "", `aa\\\aa`, `aa\\\aa`},
		{`aa\\"\aa`, `"\aa`, `aa\\`, `aa\\`},
		{`aa\\\"\aa`, "", `aa\\\"\aa`, `aa\\"\aa`},
		{`\"\"`, "", `\"\"`, `""`},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rest, token, perr := quotedBy(types.NewSpan(tt.input), '"')
			require.Nil(t, perr)
			assert.Equal(t, tt.remaining, rest.Fragment())
			assert.Equal(t, tt.lexeme, token.Lexeme())
			assert.Equal(t, tt.value, token.Value())
		})
	}

	_, _, perr := quotedBy(types.NewSpan(`abc\`), '"')
	require.NotNil(t, perr)
	assert.Equal(t, types.ErrMalformedValue, perr.kind())
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		kind     types.ErrorKind
	}{
		{"plain", "hello", "hello", ""},
		{"controls", `a\nb\tc\rd\be\ff`, "a\nb\tc\rd\be\ff", ""},
		{"quotes", `\'\"`, `'"`, ""},
		{"slashes", `\\\/`, `\/`, ""},
		{"byte", `\x41\x7a`, "Az", ""},
		{"unicode", `\u00e9`, "é", ""},
		{"braced unicode", `\u{1F43B}`, "🐻", ""},
		{"octal", `\0\101\7`, "\x00A\a", ""},
		{"octal stops at three digits", `\1012`, "A2", ""},
		{"unknown escape", `\q`, "", types.ErrMalformedValue},
		{"dangling backslash", `abc\`, "", types.ErrMalformedValue},
		{"short byte", `\x4`, "", types.ErrMalformedValue},
		{"bad byte", `\xzz`, "", types.ErrInvalidEscapedNumber},
		{"bad unicode", `\uzzzz`, "", types.ErrInvalidEscapedNumber},
		{"unclosed braced unicode", `\u{41`, "", types.ErrMalformedValue},
		{"surrogate", `\u{D800}`, "", types.ErrMalformedValue},
		{"octal overflow", `\400`, "", types.ErrInvalidEscapedNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := unescape(tt.input)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRecognizeFloat(t *testing.T) {
	tests := []struct {
		input  string
		number string
		ok     bool
	}{
		{"12", "12", true},
		{"-12.5,", "-12.5", true},
		{"+.5", "+.5", true},
		{"3.", "3.", true},
		{"1e10", "1e10", true},
		{"1.5E-3)", "1.5E-3", true},
		{"1e", "", false},
		{".", "", false},
		{"abc", "", false},
		{"-", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, number, ok := recognizeFloat(types.NewSpan(tt.input))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.number, number.Fragment())
			}
		})
	}
}

func TestWordExact(t *testing.T) {
	rest, word, ok := wordExact(types.NewSpan("OR x"), "OR")
	require.True(t, ok)
	assert.Equal(t, "OR", word.Fragment())
	assert.Equal(t, " x", rest.Fragment())

	_, _, ok = wordExact(types.NewSpan("ORdog"), "OR")
	assert.False(t, ok)

	rest, _, ok = wsWordExact(types.NewSpan("  AND  y"), "AND")
	require.True(t, ok)
	assert.Equal(t, "y", rest.Fragment())
}

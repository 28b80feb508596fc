package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/gofilter/pkg/types"
)

const eof = -1

// cursor scans a Span rune by rune.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique:
// every accepted rune advances the cursor, backup undoes the last read.
type cursor struct {
	span    types.Span // Input being scanned
	current int        // Bytes consumed from span
	width   int        // Width of last rune read
}

func newCursor(span types.Span) cursor {
	return cursor{span: span}
}

func (c *cursor) nextRune() rune {
	fragment := c.span.Fragment()
	if c.current >= len(fragment) {
		c.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(fragment[c.current:])
	c.width = w
	c.current += w
	return r
}

func (c *cursor) backup() {
	c.current -= c.width
}

func (c *cursor) acceptRune(r rune) bool {
	return c.accept(func(ch rune) bool {
		return ch == r
	})
}

func (c *cursor) accept(isValid func(rune) bool) bool {
	r := c.nextRune()
	if r != eof && isValid(r) {
		return true
	}
	c.backup()
	return false
}

func (c *cursor) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for c.accept(isValid) {
		matched = true
	}
	return matched
}

// acceptString consumes s if the remaining input starts with it.
func (c *cursor) acceptString(s string) bool {
	if !strings.HasPrefix(c.span.Fragment()[c.current:], s) {
		return false
	}
	c.current += len(s)
	c.width = 0
	return true
}

// taken returns the consumed part of the input.
func (c *cursor) taken() types.Span {
	return c.span.Take(c.current)
}

// rest returns the input that has not been consumed yet.
func (c *cursor) rest() types.Span {
	return c.span.Advance(c.current)
}

// Span level helpers built on the cursor. They return the remaining input
// first, like every rule of the grammar.

func takeWhile(in types.Span, isValid func(rune) bool) (types.Span, types.Span) {
	c := newCursor(in)
	c.acceptAll(isValid)
	return c.rest(), c.taken()
}

func takeWhile1(in types.Span, isValid func(rune) bool) (types.Span, types.Span, bool) {
	rest, taken := takeWhile(in, isValid)
	return rest, taken, !taken.IsEmpty()
}

func takeTill(in types.Span, isStop func(rune) bool) (types.Span, types.Span) {
	return takeWhile(in, func(r rune) bool { return !isStop(r) })
}

// tag matches the literal s at the start of in.
func tag(in types.Span, s string) (types.Span, types.Span, bool) {
	c := newCursor(in)
	if !c.acceptString(s) {
		return in, types.Span{}, false
	}
	return c.rest(), c.taken(), true
}

func char(in types.Span, r rune) (types.Span, bool) {
	c := newCursor(in)
	if !c.acceptRune(r) {
		return in, false
	}
	return c.rest(), true
}

func multispace0(in types.Span) types.Span {
	rest, _ := takeWhile(in, isMultispace)
	return rest
}

func multispace1(in types.Span) (types.Span, bool) {
	rest, _, ok := takeWhile1(in, isMultispace)
	return rest, ok
}

// wordExact matches a whole word equal to word. The following rune must not
// be a value component, so "ORdog" is not the keyword OR.
func wordExact(in types.Span, word string) (types.Span, types.Span, bool) {
	rest, taken, ok := takeWhile1(in, isValueComponent)
	if !ok || taken.Fragment() != word {
		return in, types.Span{}, false
	}
	return rest, taken, true
}

// wsWordExact is wordExact surrounded by optional whitespace.
func wsWordExact(in types.Span, word string) (types.Span, types.Span, bool) {
	rest, taken, ok := wordExact(multispace0(in), word)
	if !ok {
		return in, types.Span{}, false
	}
	return multispace0(rest), taken, true
}

// wsTag is tag surrounded by optional whitespace.
func wsTag(in types.Span, s string) (types.Span, bool) {
	rest, _, ok := tag(multispace0(in), s)
	if !ok {
		return in, false
	}
	return multispace0(rest), true
}

// keywords matches words separated by mandatory whitespace, as in
// "IS NOT NULL", and returns the span of each word.
func keywords(in types.Span, words ...string) (types.Span, []types.Span, bool) {
	spans := make([]types.Span, 0, len(words))
	rest := in
	for i, word := range words {
		if i > 0 {
			var ok bool
			if rest, ok = multispace1(rest); !ok {
				return in, nil, false
			}
		}
		var matched types.Span
		var ok bool
		if rest, matched, ok = tag(rest, word); !ok {
			return in, nil, false
		}
		spans = append(spans, matched)
	}
	return rest, spans, true
}

// Character classification functions

func isMultispace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isValueComponent(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r) ||
		r == '_' || r == '-' || r == '.'
}

func isSyntaxComponent(r rune) bool {
	switch r {
	case '(', ')', '=', '<', '>', '!':
		return true
	default:
		return unicode.IsSpace(r)
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isKeyword(s string) bool {
	switch s {
	case "AND", "OR", "IN", "NOT", "TO", "EXISTS", "IS", "NULL", "EMPTY",
		"CONTAINS", "STARTS", "WITH", "_geoRadius", "_geoBoundingBox":
		return true
	default:
		return false
	}
}

package types

import (
	"strings"
	"unicode/utf8"
)

// Span is a view over a contiguous region of a filter source string.
//
// A Span never copies text: it stores the whole source together with the
// byte offsets of the region, so every Span produced by a parse shares the
// caller's input. Spans are values and are safe to copy.
type Span struct {
	input string
	start int
	end   int
}

// NewSpan returns a Span covering the whole input.
func NewSpan(input string) Span {
	return Span{input: input, end: len(input)}
}

// Fragment returns the text covered by the span.
func (s Span) Fragment() string {
	return s.input[s.start:s.end]
}

// Input returns the complete source the span points into.
func (s Span) Input() string {
	return s.input
}

// Offset returns the byte offset of the span start.
func (s Span) Offset() int {
	return s.start
}

// End returns the byte offset just past the span.
func (s Span) End() int {
	return s.end
}

// Len returns the length of the fragment in bytes.
func (s Span) Len() int {
	return s.end - s.start
}

// IsEmpty reports whether the fragment is empty.
func (s Span) IsEmpty() bool {
	return s.start == s.end
}

// Line returns the 1-based line of the span start.
func (s Span) Line() int {
	return strings.Count(s.input[:s.start], "\n") + 1
}

// Column returns the 1-based column of the span start, counted in
// characters from the beginning of its line.
func (s Span) Column() int {
	lineStart := strings.LastIndexByte(s.input[:s.start], '\n') + 1
	return utf8.RuneCountInString(s.input[lineStart:s.start]) + 1
}

// Width returns the length of the fragment in characters.
func (s Span) Width() int {
	return utf8.RuneCountInString(s.Fragment())
}

// Advance returns the span with its first n bytes removed.
func (s Span) Advance(n int) Span {
	s.start += n
	return s
}

// Take returns the first n bytes of the span.
func (s Span) Take(n int) Span {
	s.end = s.start + n
	return s
}

// Until returns the part of s that lies before rest. rest must be a
// suffix of s obtained by advancing it.
func (s Span) Until(rest Span) Span {
	s.end = rest.start
	return s
}

// Rest returns the span reaching from the start of s to the end of the input.
func (s Span) Rest() Span {
	s.end = len(s.input)
	return s
}

// String implements fmt.Stringer.
func (s Span) String() string {
	return s.Fragment()
}

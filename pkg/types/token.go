package types

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Token is a leaf of the filter AST: a Span of the source plus an optional
// decoded value, set when the source text had to be unescaped.
type Token struct {
	span    Span
	value   string
	decoded bool
}

// NewToken creates a Token backed only by its span.
func NewToken(span Span) Token {
	return Token{span: span}
}

// NewDecodedToken creates a Token whose value differs from its source text.
func NewDecodedToken(span Span, value string) Token {
	return Token{span: span, value: value, decoded: true}
}

// TokenFromString creates a Token spanning the whole of s.
func TokenFromString(s string) Token {
	return NewToken(NewSpan(s))
}

// Value returns the decoded value if any, otherwise the source text.
func (t Token) Value() string {
	if t.decoded {
		return t.value
	}
	return t.span.Fragment()
}

// Lexeme returns the source text of the token.
func (t Token) Lexeme() string {
	return t.span.Fragment()
}

// Decoded reports whether the token carries a value distinct from its source.
func (t Token) Decoded() bool {
	return t.decoded
}

// Span returns the span the token was created with.
func (t Token) Span() Span {
	return t.span
}

// Equal compares the source text of two tokens. The decoded value is
// ignored.
func (t Token) Equal(other Token) bool {
	return t.span.Fragment() == other.span.Fragment()
}

// AsExternalError attaches err to the token position.
func (t Token) AsExternalError(err error) *Error {
	return NewExternalError(t.span, err)
}

// ParseFiniteFloat parses the token value as a finite float64.
//
// Only decimal notation is accepted: hexadecimal floats such as 0x1p4 are
// rejected with strconv.ErrSyntax.
func (t Token) ParseFiniteFloat() (float64, error) {
	s := t.Value()
	if isHexFloat(s) {
		return 0, t.AsExternalError(&strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax})
	}
	value, err := strconv.ParseFloat(s, 64)
	// ParseFloat reports overflow as ErrRange with an infinite value.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, t.AsExternalError(err)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, NewError(t.span, ErrNonFiniteFloat)
	}
	return value, nil
}

func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// String renders the token in canonical form: {value}.
func (t Token) String() string {
	return "{" + t.Value() + "}"
}

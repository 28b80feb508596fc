package types

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrorKind identifies the class of a filter error.
type ErrorKind string

// Error kinds reported by the filter parser and its consumers.
const (
	ErrDepthLimitReached       ErrorKind = "depth_limit_reached"
	ErrMissingClosingDelimiter ErrorKind = "missing_closing_delimiter"
	ErrReservedGeo             ErrorKind = "reserved_geo"
	ErrGeoRadius               ErrorKind = "geo_radius"
	ErrGeoBoundingBox          ErrorKind = "geo_bounding_box"
	ErrMisusedGeoRadius        ErrorKind = "misused_geo_radius"
	ErrMisusedGeoBoundingBox   ErrorKind = "misused_geo_bounding_box"
	ErrInvalidPrimary          ErrorKind = "invalid_primary"
	ErrInvalidEscapedNumber    ErrorKind = "invalid_escaped_number"
	ErrExpectedEOF             ErrorKind = "expected_eof"
	ErrExpectedValue           ErrorKind = "expected_value"
	ErrMalformedValue          ErrorKind = "malformed_value"
	ErrInOpeningBracket        ErrorKind = "in_opening_bracket"
	ErrInClosingBracket        ErrorKind = "in_closing_bracket"
	ErrInExpectedValue         ErrorKind = "in_expected_value"
	ErrNonFiniteFloat          ErrorKind = "non_finite_float"
	ErrReservedKeyword         ErrorKind = "reserved_keyword"
	ErrExternal                ErrorKind = "external"

	// ErrExpectedChar and ErrInternal describe low-level mismatches. The
	// parser relabels them before they reach a caller.
	ErrExpectedChar ErrorKind = "expected_char"
	ErrInternal     ErrorKind = "internal"
)

// ExpectedValueKind refines ErrExpectedValue and ErrInExpectedValue.
type ExpectedValueKind uint8

const (
	ExpectedValueOther ExpectedValueKind = iota
	ExpectedValueReservedKeyword
)

// Error is a filter error located at a Span of the source.
//
// Errors are never modified once returned by the parser.
type Error struct {
	Span Span
	Kind ErrorKind
	// Char is the delimiter for ErrMissingClosingDelimiter and ErrExpectedChar.
	Char rune
	// Name is the construct for ErrReservedGeo, the word for
	// ErrReservedKeyword and the keyword-shaped value errors, and the failing
	// primitive for ErrInternal.
	Name string
	// ValueKind refines ErrExpectedValue and ErrInExpectedValue.
	ValueKind ExpectedValueKind
	// Err is the wrapped error of ErrExternal.
	Err error
}

// NewError creates an error of the given kind at span.
func NewError(span Span, kind ErrorKind) *Error {
	return &Error{Span: span, Kind: kind}
}

// NewExternalError wraps err, located at span.
func NewExternalError(span Span, err error) *Error {
	return &Error{Span: span, Kind: ErrExternal, Err: err}
}

// WithChar sets the delimiter carried by the error.
func (e *Error) WithChar(c rune) *Error {
	e.Char = c
	return e
}

// WithName sets the construct or keyword name carried by the error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithValueKind sets the expected value refinement.
func (e *Error) WithValueKind(kind ExpectedValueKind) *Error {
	e.ValueKind = kind
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error implements the error interface: the message on the first line,
// followed by the position of the span and the filter it belongs to.
func (e *Error) Error() string {
	return e.Message() + "\n" + e.Position() + " " + e.Span.Input()
}

// Position returns "start:end", the 1-based character columns bounding the span.
func (e *Error) Position() string {
	col := e.Span.Column()
	return strconv.Itoa(col) + ":" + strconv.Itoa(col+e.Span.Width())
}

// Message returns the human readable description of the error.
func (e *Error) Message() string {
	input := e.Span.Fragment()
	escaped := escapeDebug(input)

	switch e.Kind {
	case ErrExpectedValue:
		if strings.TrimSpace(input) == "" {
			return "Was expecting a value but instead got nothing."
		}
		if e.ValueKind == ExpectedValueReservedKeyword {
			return fmt.Sprintf("Was expecting a value but instead got `%s`, which is a reserved keyword. To use `%s` as a field name or a value, surround it by quotes.", escaped, e.keyword(escaped))
		}
		return fmt.Sprintf("Was expecting a value but instead got `%s`.", escaped)
	case ErrMalformedValue:
		return fmt.Sprintf("Malformed value: `%s`.", escaped)
	case ErrMissingClosingDelimiter:
		return fmt.Sprintf("Expression `%s` is missing the following closing delimiter: `%c`.", escaped, e.Char)
	case ErrInvalidPrimary:
		text := fmt.Sprintf("at `%s`.", escaped)
		if strings.TrimSpace(input) == "" {
			text = "but instead got nothing."
		}
		return "Was expecting an operation `=`, `!=`, `>=`, `>`, `<=`, `<`, `IN`, `NOT IN`, `TO`, `EXISTS`, `NOT EXISTS`, `IS NULL`, `IS NOT NULL`, `IS EMPTY`, `IS NOT EMPTY`, `CONTAINS`, `NOT CONTAINS`, `STARTS WITH`, `NOT STARTS WITH`, `_geoRadius`, or `_geoBoundingBox` " + text
	case ErrInvalidEscapedNumber:
		return fmt.Sprintf("Found an invalid escaped sequence number: `%s`.", escaped)
	case ErrExpectedEOF:
		return fmt.Sprintf("Found unexpected characters at the end of the filter: `%s`. You probably forgot an `OR` or an `AND` rule.", escaped)
	case ErrGeoRadius:
		return "The `_geoRadius` filter expects three arguments: `_geoRadius(latitude, longitude, radius)`."
	case ErrGeoBoundingBox:
		return "The `_geoBoundingBox` filter expects two pairs of arguments: `_geoBoundingBox([latitude, longitude], [latitude, longitude])`."
	case ErrReservedGeo:
		return fmt.Sprintf("`%s` is a reserved keyword and thus can't be used as a filter expression. Use the `_geoRadius(latitude, longitude, distance)` or `_geoBoundingBox([latitude, longitude], [latitude, longitude])` built-in rules to filter on `_geo` coordinates.", escapeDebug(e.Name))
	case ErrMisusedGeoRadius:
		return "The `_geoRadius` filter is an operation and can't be used as a value."
	case ErrMisusedGeoBoundingBox:
		return "The `_geoBoundingBox` filter is an operation and can't be used as a value."
	case ErrReservedKeyword:
		return fmt.Sprintf("`%s` is a reserved keyword and thus cannot be used as a field name unless it is put inside quotes. Use \"%s\" or '%s' instead.", e.Name, e.Name, e.Name)
	case ErrInOpeningBracket:
		return "Expected `[` after `IN` keyword."
	case ErrInClosingBracket:
		return "Expected matching `]` after the list of field names given to `IN[`"
	case ErrInExpectedValue:
		if e.ValueKind == ExpectedValueReservedKeyword {
			return fmt.Sprintf("Expected only comma-separated field names inside `IN[..]` but instead found `%s`, which is a keyword. To use `%s` as a field name or a value, surround it by quotes.", escaped, e.keyword(escaped))
		}
		return fmt.Sprintf("Expected only comma-separated field names inside `IN[..]` but instead found `%s`.", escaped)
	case ErrNonFiniteFloat:
		return "Non finite floats are not supported"
	case ErrDepthLimitReached:
		return "The filter exceeded the maximum depth limit. Try rewriting the filter so that it contains fewer nested conditions."
	case ErrExternal:
		if e.Err == nil {
			return "unknown error"
		}
		return e.Err.Error()
	case ErrExpectedChar:
		return fmt.Sprintf("Was expecting `%c` at `%s`.", e.Char, escaped)
	default:
		return fmt.Sprintf("Encountered an internal `%s` error while parsing your filter. Please fill an issue", e.Name)
	}
}

// escapeDebug escapes quotes, backslashes and non-printable characters so
// that the quoted text always fits on a single line.
func escapeDebug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		case '\\', '\'', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			if unicode.IsPrint(r) || r == ' ' {
				b.WriteRune(r)
				continue
			}
			fmt.Fprintf(&b, `\u{%x}`, r)
		}
	}
	return b.String()
}

// keyword returns the offending keyword, falling back to the escaped
// fragment when the error carries no name.
func (e *Error) keyword(fallback string) string {
	if e.Name == "" {
		return fallback
	}
	return escapeDebug(e.Name)
}

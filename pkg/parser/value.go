package parser

import (
	"strings"
	"unicode"

	"github.com/sandrolain/gofilter/pkg/types"
)

// geoTraps recognise the reserved geo keywords. They never match: once
// their keyword is found they fail with a forced error.
var geoTraps = []rule{parseGeoPoint, parseGeoDistance, parseGeo}

// parseValue parses a bare word or a quoted string, then skips the
// whitespace following it.
//
//	value = WS* (word | singleQuoted | doubleQuoted) WS*
func parseValue(in types.Span) (types.Span, types.Token, *parseError) {
	// Leading whitespace is dropped first so that errors point at the value.
	in, _ = takeWhile(in, unicode.IsSpace)

	for _, trap := range geoTraps {
		if _, _, perr := trap(in); perr != nil && perr.forced {
			return in, types.Token{}, perr
		}
	}

	// A geo operation is never a value, even a malformed one.
	if _, _, perr := parseGeoRadius(in); perr == nil || perr.forced {
		return in, types.Token{}, failure(in, types.ErrMisusedGeoRadius)
	}
	if _, _, perr := parseGeoBoundingBox(in); perr == nil || perr.forced {
		return in, types.Token{}, failure(in, types.ErrMisusedGeoBoundingBox)
	}

	rest, token, perr := parseRawValue(in)
	if perr != nil {
		if !perr.forced {
			// Report the largest run of text holding no syntax, so that
			// "name = 🦀 AND x = 1" blames the crab only.
			_, word := takeTill(in, isSyntaxComponent)
			valueKind, name := types.ExpectedValueOther, ""
			if perr.kind() == types.ErrReservedKeyword {
				valueKind, name = types.ExpectedValueReservedKeyword, perr.err.Name
			}
			return in, types.Token{}, &parseError{
				err: types.NewError(word, types.ErrExpectedValue).WithValueKind(valueKind).WithName(name),
			}
		}
		if perr.kind() == types.ErrExpectedChar {
			return in, types.Token{}, forcedFrom(
				types.NewError(in, types.ErrMissingClosingDelimiter).WithChar(perr.err.Char))
		}
		return in, types.Token{}, perr
	}
	rest = multispace0(rest)

	content, kind := unescape(token.Value())
	switch {
	case kind != "":
		return in, types.Token{}, mismatch(token.Span(), kind)
	case len(content) != len(token.Value()):
		return rest, types.NewDecodedToken(token.Span(), content), nil
	default:
		return rest, token, nil
	}
}

// parseRawValue parses a value without decoding escape sequences.
func parseRawValue(in types.Span) (types.Span, types.Token, *parseError) {
	if r := firstRune(in); r == '\'' || r == '"' {
		return parseQuoted(in, r)
	}
	return wordNotKeyword(in)
}

// parseQuoted parses a string delimited by quote. Once the opening quote
// is found the rest of the string is mandatory.
func parseQuoted(in types.Span, quote rune) (types.Span, types.Token, *parseError) {
	rest, ok := char(in, quote)
	if !ok {
		return in, types.Token{}, mismatch(in, types.ErrExpectedChar)
	}
	rest, token, perr := quotedBy(rest, quote)
	if perr != nil {
		return in, types.Token{}, perr.cut()
	}
	rest, ok = char(rest, quote)
	if !ok {
		return in, types.Token{}, forcedFrom(types.NewError(rest, types.ErrExpectedChar).WithChar(quote))
	}
	return rest, token, nil
}

// quotedBy reads up to the first unescaped quote. Escaped quotes are
// replaced in the token value; other escapes are left to unescape.
func quotedBy(in types.Span, quote rune) (types.Span, types.Token, *parseError) {
	// Empty values are valid.
	if in.IsEmpty() {
		return in, types.NewToken(in), nil
	}

	c := newCursor(in)
	escaped := false
Loop:
	for {
		switch c.nextRune() {
		case quote:
			c.backup()
			break Loop
		case '\\':
			r := c.nextRune()
			if r == eof {
				return in, types.Token{}, mismatch(in, types.ErrMalformedValue)
			}
			escaped = escaped || r == quote
		case eof:
			break Loop
		}
	}

	content := c.taken()
	if !escaped {
		return c.rest(), types.NewToken(content), nil
	}
	q := string(quote)
	return c.rest(), types.NewDecodedToken(content, strings.ReplaceAll(content.Fragment(), `\`+q, q)), nil
}

// wordNotKeyword parses a bare word that is not a reserved keyword.
//
//	word = (alphanumeric | _ | - | .)+
func wordNotKeyword(in types.Span) (types.Span, types.Token, *parseError) {
	rest, word, ok := takeWhile1(in, isValueComponent)
	if !ok {
		return in, types.Token{}, mismatch(in, types.ErrInternal)
	}
	if isKeyword(word.Fragment()) {
		return in, types.Token{}, &parseError{
			err: types.NewError(rest, types.ErrReservedKeyword).WithName(word.Fragment()),
		}
	}
	return rest, types.NewToken(word), nil
}

func firstRune(in types.Span) rune {
	c := newCursor(in)
	return c.nextRune()
}

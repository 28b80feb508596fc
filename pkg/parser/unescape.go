package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/gofilter/pkg/types"
)

// unescape decodes the escape sequences of a quoted value.
//
// Supported sequences are \b \f \n \r \t \' \" \\ \/, \xHH, \uHHHH,
// \u{H...} and up to three octal digits. A malformed number yields
// ErrInvalidEscapedNumber, any other unknown sequence ErrMalformedValue.
func unescape(s string) (string, types.ErrorKind) {
	if !strings.Contains(s, `\`) {
		return s, "" // Fast path: no escapes
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			continue
		}

		i++ // Skip backslash
		if i >= len(s) {
			return "", types.ErrMalformedValue
		}

		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case 'b':
			result.WriteByte('\b')
		case 'f':
			result.WriteByte('\f')
		case '\\':
			result.WriteByte('\\')
		case '"':
			result.WriteByte('"')
		case '\'':
			result.WriteByte('\'')
		case '/':
			result.WriteByte('/')
		case 'x':
			// Byte escape: \xHH
			if i+3 > len(s) {
				return "", types.ErrMalformedValue
			}
			code, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", types.ErrInvalidEscapedNumber
			}
			result.WriteRune(rune(code))
			i += 2
		case 'u':
			r, n, kind := unescapeUnicode(s[i+1:])
			if kind != "" {
				return "", kind
			}
			result.WriteRune(r)
			i += n
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Octal escape: up to three digits, at most \377
			end := i + 1
			for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			code, err := strconv.ParseUint(s[i:end], 8, 8)
			if err != nil {
				return "", types.ErrInvalidEscapedNumber
			}
			result.WriteRune(rune(code))
			i = end - 1
		default:
			return "", types.ErrMalformedValue
		}
	}

	return result.String(), ""
}

// unescapeUnicode decodes the part of a \u escape following the u, either
// four hex digits or a braced code point. It returns the rune and the
// number of bytes consumed.
func unescapeUnicode(s string) (rune, int, types.ErrorKind) {
	var hex string
	var n int
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, types.ErrMalformedValue
		}
		hex, n = s[1:end], end+1
	} else {
		if len(s) < 4 {
			return 0, 0, types.ErrMalformedValue
		}
		hex, n = s[:4], 4
	}

	code, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, types.ErrInvalidEscapedNumber
	}
	r := rune(code)
	if !utf8.ValidRune(r) {
		return 0, 0, types.ErrMalformedValue
	}
	return r, n, ""
}

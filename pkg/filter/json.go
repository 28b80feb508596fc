package filter

import (
	"fmt"
	"strings"

	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// InvalidExpressionError reports a JSON value of an unexpected type.
type InvalidExpressionError struct {
	Expected []string
	Found    string
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("Invalid syntax for the filter parameter: `expected %s, found: %s`.", strings.Join(e.Expected, ", "), e.Found)
}

// FromJSON builds a filter from a JSON string or array of rules, where each
// rule is a string or an array of strings.
func FromJSON(data []byte, opts ...Option) (*Filter, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid filter JSON: %w", err)
	}
	return FromValue(v, opts...)
}

// FromValue builds a filter from a parsed JSON value. A nil value or JSON
// null is no filter.
func FromValue(v *fastjson.Value, opts ...Option) (*Filter, error) {
	if v == nil {
		return nil, nil
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeString:
		return FromString(string(v.GetStringBytes()), opts...)
	case fastjson.TypeArray:
		rules, err := rulesFromJSON(v.GetArray())
		if err != nil {
			return nil, err
		}
		return FromArray(rules, opts...)
	default:
		return nil, invalidExpression(v, "String", "Array")
	}
}

func rulesFromJSON(values []*fastjson.Value) ([]Rule, error) {
	rules := make([]Rule, 0, len(values))
	for _, v := range values {
		switch v.Type() {
		case fastjson.TypeString:
			rules = append(rules, Is(string(v.GetStringBytes())))
		case fastjson.TypeArray:
			group := v.GetArray()
			filters := make([]string, 0, len(group))
			for _, el := range group {
				if el.Type() != fastjson.TypeString {
					return nil, invalidExpression(el, "String")
				}
				filters = append(filters, string(el.GetStringBytes()))
			}
			rules = append(rules, AnyOf(filters...))
		default:
			return nil, invalidExpression(v, "String", "[String]")
		}
	}
	return rules, nil
}

func invalidExpression(v *fastjson.Value, expected ...string) error {
	return &InvalidExpressionError{Expected: expected, Found: v.String()}
}

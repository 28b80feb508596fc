package parser

import "github.com/sandrolain/gofilter/pkg/types"

// Leaf conditions. Each rule starts with the field value; once the operator
// is matched the operand is mandatory.

// parseCondition parses a comparison.
//
//	condition = value ("<=" | ">=" | "!=" | "<" | ">" | "=") value
func parseCondition(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	rest, fid, perr := parseValue(in)
	if perr != nil {
		return in, nil, perr
	}
	rest, op, ok := parseOperator(rest)
	if !ok {
		return in, nil, mismatch(rest, types.ErrInternal).withName("operator")
	}
	rest, value, perr := parseValue(rest)
	if perr != nil {
		return in, nil, perr.cut()
	}

	var cond types.Condition
	switch op {
	case "<=":
		cond = &types.LowerThanOrEqual{Value: value}
	case ">=":
		cond = &types.GreaterThanOrEqual{Value: value}
	case "!=":
		cond = &types.NotEqual{Value: value}
	case "<":
		cond = &types.LowerThan{Value: value}
	case ">":
		cond = &types.GreaterThan{Value: value}
	default:
		cond = &types.Equal{Value: value}
	}
	return rest, &types.FieldCondition{Fid: fid, Op: cond}, nil
}

var operators = []string{"<=", ">=", "!=", "<", ">", "="}

func parseOperator(in types.Span) (types.Span, string, bool) {
	for _, op := range operators {
		if rest, _, ok := tag(in, op); ok {
			return rest, op, true
		}
	}
	return in, "", false
}

// parseIsNull parses value "IS" WS+ "NULL".
func parseIsNull(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseSuffix(in, &types.Null{}, false, "IS", "NULL")
}

// parseIsNotNull parses value "IS" WS+ "NOT" WS+ "NULL".
func parseIsNotNull(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseSuffix(in, &types.Null{}, true, "IS", "NOT", "NULL")
}

// parseIsEmpty parses value "IS" WS+ "EMPTY".
func parseIsEmpty(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseSuffix(in, &types.Empty{}, false, "IS", "EMPTY")
}

// parseIsNotEmpty parses value "IS" WS+ "NOT" WS+ "EMPTY".
func parseIsNotEmpty(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseSuffix(in, &types.Empty{}, true, "IS", "NOT", "EMPTY")
}

// parseExists parses value "EXISTS".
func parseExists(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseSuffix(in, &types.Exists{}, false, "EXISTS")
}

// parseNotExists parses value "NOT" WS+ "EXISTS".
func parseNotExists(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseSuffix(in, &types.Exists{}, true, "NOT", "EXISTS")
}

// parseSuffix parses a field value followed by the keywords of an operator
// that takes no operand.
func parseSuffix(in types.Span, op types.Condition, negate bool, words ...string) (types.Span, types.FilterCondition, *parseError) {
	rest, fid, perr := parseValue(in)
	if perr != nil {
		return in, nil, perr
	}
	rest, _, ok := keywords(rest, words...)
	if !ok {
		return in, nil, mismatch(rest, types.ErrInternal).withName("tag")
	}
	return rest, negateIf(negate, &types.FieldCondition{Fid: fid, Op: op}), nil
}

// parseTo parses a range.
//
//	to = value value "TO" WS+ value
func parseTo(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	rest, fid, perr := parseValue(in)
	if perr != nil {
		return in, nil, perr
	}
	rest, from, perr := parseValue(rest)
	if perr != nil {
		return in, nil, perr
	}
	rest, _, ok := tag(rest, "TO")
	if ok {
		rest, ok = multispace1(rest)
	}
	if !ok {
		return in, nil, mismatch(rest, types.ErrInternal).withName("tag")
	}
	rest, to, perr := parseValue(rest)
	if perr != nil {
		return in, nil, perr.cut()
	}
	return rest, &types.FieldCondition{Fid: fid, Op: &types.Between{From: from, To: to}}, nil
}

// parseContains parses value "CONTAINS" value.
func parseContains(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseWordOperator(in, false, 0, newContains, "CONTAINS")
}

// parseNotContains parses value "NOT" WS+ "CONTAINS" value.
func parseNotContains(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseWordOperator(in, true, 1, newContains, "NOT", "CONTAINS")
}

// parseStartsWith parses value "STARTS" WS+ "WITH" value.
func parseStartsWith(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseWordOperator(in, false, 0, newStartsWith, "STARTS", "WITH")
}

// parseNotStartsWith parses value "NOT" WS+ "STARTS" WS+ "WITH" value.
func parseNotStartsWith(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	return parseWordOperator(in, true, 1, newStartsWith, "NOT", "STARTS", "WITH")
}

func newContains(keyword, word types.Token) types.Condition {
	return &types.Contains{Keyword: keyword, Word: word}
}

func newStartsWith(keyword, word types.Token) types.Condition {
	return &types.StartsWith{Keyword: keyword, Word: word}
}

// parseWordOperator parses a field value, the keywords of a text operator
// and its mandatory operand. The keyword token is the words[keyword] span.
func parseWordOperator(
	in types.Span,
	negate bool,
	keyword int,
	build func(keyword, word types.Token) types.Condition,
	words ...string,
) (types.Span, types.FilterCondition, *parseError) {
	rest, fid, perr := parseValue(in)
	if perr != nil {
		return in, nil, perr
	}
	rest, spans, ok := keywords(rest, words...)
	if !ok {
		return in, nil, mismatch(rest, types.ErrInternal).withName("tag")
	}
	rest, word, perr := parseValue(rest)
	if perr != nil {
		return in, nil, perr.cut()
	}
	cond := &types.FieldCondition{Fid: fid, Op: build(types.NewToken(spans[keyword]), word)}
	return rest, negateIf(negate, cond), nil
}

func negateIf(negate bool, f types.FilterCondition) types.FilterCondition {
	if negate {
		return &types.Not{Filter: f}
	}
	return f
}

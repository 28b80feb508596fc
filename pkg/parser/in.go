package parser

import "github.com/sandrolain/gofilter/pkg/types"

// parseIn parses value "IN" "[" value_list "]".
func parseIn(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	rest, fid, perr := parseValue(in)
	if perr != nil {
		return in, nil, perr
	}
	rest, els, perr := parseInBody(rest)
	if perr != nil {
		return in, nil, perr
	}
	return rest, &types.In{Fid: fid, Els: els}, nil
}

// parseNotIn parses value "NOT" WS* "IN" "[" value_list "]".
func parseNotIn(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	rest, fid, perr := parseValue(in)
	if perr != nil {
		return in, nil, perr
	}
	rest, _, ok := wordExact(rest, "NOT")
	if !ok {
		return in, nil, mismatch(rest, types.ErrInternal).withName("tag")
	}
	rest, els, perr := parseInBody(rest)
	if perr != nil {
		return in, nil, perr
	}
	return rest, &types.Not{Filter: &types.In{Fid: fid, Els: els}}, nil
}

// parseInBody parses the part following the field: everything after the IN
// keyword is mandatory.
func parseInBody(in types.Span) (types.Span, []types.Token, *parseError) {
	rest, _, ok := wsWordExact(in, "IN")
	if !ok {
		return in, nil, mismatch(in, types.ErrInternal).withName("tag")
	}

	in = rest
	rest, ok = char(in, '[')
	if !ok {
		return in, nil, failure(in, types.ErrInOpeningBracket)
	}

	in, els, perr := parseValueList(rest)
	if perr != nil {
		return in, nil, perr.cut()
	}

	rest, ok = wsTag(in, "]")
	if !ok {
		if in.IsEmpty() {
			return in, nil, failure(in, types.ErrInClosingBracket)
		}
		valueKind, name := types.ExpectedValueOther, ""
		if _, _, perr := parseValue(in); perr != nil && !perr.forced &&
			perr.kind() == types.ErrExpectedValue && perr.err.ValueKind == types.ExpectedValueReservedKeyword {
			valueKind, name = types.ExpectedValueReservedKeyword, perr.err.Name
		}
		return in, nil, forcedFrom(types.NewError(in, types.ErrInExpectedValue).WithValueKind(valueKind).WithName(name))
	}
	return rest, els, nil
}

// parseValueList parses a possibly empty list of values with an optional
// trailing comma.
//
//	value_list = (value ("," value)* ","?)?
func parseValueList(in types.Span) (types.Span, []types.Token, *parseError) {
	rest, first, perr := parseValue(in)
	if perr != nil {
		if perr.forced {
			return in, nil, perr
		}
		return in, []types.Token{}, nil
	}

	values := []types.Token{first}
	for {
		next, ok := wsTag(rest, ",")
		if !ok {
			break
		}
		next, value, perr := parseValue(next)
		if perr != nil {
			if perr.forced {
				return in, nil, perr
			}
			break
		}
		values = append(values, value)
		rest = next
	}

	if next, ok := wsTag(rest, ","); ok {
		rest = next
	}
	return rest, values, nil
}

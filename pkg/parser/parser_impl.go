package parser

import (
	"strings"

	"github.com/sandrolain/gofilter/pkg/types"
)

// Parser implements a recursive descent parser for filter expressions.
//
// The grammar has four precedence levels, loosest first:
//
//	expression = or
//	or         = and ("OR" and)*
//	and        = not ("AND" not)*
//	not        = ("NOT" not) | primary
//
// Every level receives the current depth and passes depth+1 to the next
// one. A level entered deeper than MaxDepth fails immediately.
type Parser struct {
	source string
	opts   CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Parser{
		source: input,
		opts:   options,
	}
}

// Parse parses the entire input and returns the parsed Expression.
// A blank input yields an Expression without root.
func (p *Parser) Parse() (*types.Expression, error) {
	if strings.TrimSpace(p.source) == "" {
		return types.NewExpression(nil, p.source), nil
	}

	root, perr := p.parseFilter(types.NewSpan(p.source))
	if perr != nil {
		return nil, perr.err
	}
	return types.NewExpression(root, p.source), nil
}

// parseFilter parses an expression that must span the whole input.
//
//	filter = expression EOF
func (p *Parser) parseFilter(in types.Span) (types.FilterCondition, *parseError) {
	rest, root, perr := p.parseExpression(in, 0)
	if perr != nil {
		return nil, perr
	}
	if !rest.IsEmpty() {
		return nil, failure(rest, types.ErrExpectedEOF)
	}
	return root, nil
}

func (p *Parser) parseExpression(in types.Span, depth int) (types.Span, types.FilterCondition, *parseError) {
	return p.parseOr(in, depth)
}

func (p *Parser) checkDepth(in types.Span, depth int) *parseError {
	if depth > p.opts.MaxDepth {
		return failure(in, types.ErrDepthLimitReached)
	}
	return nil
}

// parseOr parses and ("OR" and)*. Once OR is found the right operand is
// mandatory.
func (p *Parser) parseOr(in types.Span, depth int) (types.Span, types.FilterCondition, *parseError) {
	return p.parseChain(in, depth, "OR", p.parseAnd, func(filters []types.FilterCondition) types.FilterCondition {
		return &types.Or{Filters: filters}
	})
}

// parseAnd parses not ("AND" not)*. Once AND is found the right operand is
// mandatory.
func (p *Parser) parseAnd(in types.Span, depth int) (types.Span, types.FilterCondition, *parseError) {
	return p.parseChain(in, depth, "AND", p.parseNot, func(filters []types.FilterCondition) types.FilterCondition {
		return &types.And{Filters: filters}
	})
}

type level func(in types.Span, depth int) (types.Span, types.FilterCondition, *parseError)

func (p *Parser) parseChain(
	in types.Span,
	depth int,
	keyword string,
	next level,
	build func([]types.FilterCondition) types.FilterCondition,
) (types.Span, types.FilterCondition, *parseError) {
	if perr := p.checkDepth(in, depth); perr != nil {
		return in, nil, perr
	}
	rest, first, perr := next(in, depth+1)
	if perr != nil {
		return in, nil, perr
	}

	var filters []types.FilterCondition
	for {
		after, _, ok := wsWordExact(rest, keyword)
		if !ok {
			break
		}
		after, operand, perr := next(after, depth+1)
		if perr != nil {
			return in, nil, perr.cut()
		}
		if filters == nil {
			filters = []types.FilterCondition{first}
		}
		filters = append(filters, operand)
		rest = after
	}

	if filters == nil {
		return rest, first, nil
	}
	return rest, build(filters), nil
}

// parseNot parses ("NOT" not) | primary. Double negations cancel out.
func (p *Parser) parseNot(in types.Span, depth int) (types.Span, types.FilterCondition, *parseError) {
	if perr := p.checkDepth(in, depth); perr != nil {
		return in, nil, perr
	}
	if rest, _, ok := wsWordExact(in, "NOT"); ok {
		rest, operand, perr := p.parseNot(rest, depth+1)
		if perr != nil {
			return in, nil, perr.cut()
		}
		if not, ok := operand.(*types.Not); ok {
			return rest, not.Filter, nil
		}
		return rest, &types.Not{Filter: operand}, nil
	}
	return p.parsePrimary(in, depth+1)
}

// primaryRules are the alternatives of primary after the parenthesised
// expression, in the order they are tried. The reserved geo keywords and
// the reserved keyword check come last: they only improve error messages.
var primaryRules = []rule{
	parseGeoRadius,
	parseGeoBoundingBox,
	parseIn,
	parseNotIn,
	parseCondition,
	parseIsNull,
	parseIsNotNull,
	parseIsEmpty,
	parseIsNotEmpty,
	parseExists,
	parseNotExists,
	parseTo,
	parseContains,
	parseNotContains,
	parseStartsWith,
	parseNotStartsWith,
	parseGeo,
	parseGeoDistance,
	parseGeoPoint,
	parseErrorReservedKeyword,
}

// parsePrimary parses a parenthesised expression or a leaf condition.
// When no alternative applies the error points at the whole primary.
func (p *Parser) parsePrimary(in types.Span, depth int) (types.Span, types.FilterCondition, *parseError) {
	if perr := p.checkDepth(in, depth); perr != nil {
		return in, nil, perr
	}

	if rest, ok := wsTag(in, "("); ok {
		rest, expr, perr := p.parseExpression(rest, depth+1)
		if perr != nil {
			return in, nil, perr.cut()
		}
		rest, ok = wsTag(rest, ")")
		if !ok {
			return in, nil, forcedFrom(types.NewError(in, types.ErrMissingClosingDelimiter).WithChar(')'))
		}
		return rest, expr, nil
	}

	rest, node, perr := alt(in, primaryRules...)
	if perr != nil && !perr.forced {
		return in, nil, mismatch(in, types.ErrInvalidPrimary)
	}
	return rest, node, perr
}

// parseErrorReservedKeyword turns a reserved keyword used as a value into
// a forced error, so "x = EXISTS" explains the keyword instead of
// reporting an invalid primary.
func parseErrorReservedKeyword(in types.Span) (types.Span, types.FilterCondition, *parseError) {
	rest, node, perr := parseCondition(in)
	if perr == nil {
		return rest, node, nil
	}
	if perr.kind() == types.ErrExpectedValue && perr.err.ValueKind == types.ExpectedValueReservedKeyword {
		return in, nil, forcedFrom(perr.err)
	}
	return in, nil, &parseError{err: perr.err}
}

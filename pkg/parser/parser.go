// Package parser implements the parser of the filter language.
//
// The parser is a hand-written recursive descent parser working directly on
// spans of the source: no token stream is built and every token of the
// resulting tree points into the caller's input.
//
// # Architecture
//
// The parser consists of three main components:
//   - Scanner: rune level primitives over spans (lexer.go)
//   - Leaf rules: values, comparisons, IN lists and geo constructs
//   - Precedence chain: or, and, not and primary, guarded by a depth limit
//
// Every rule either matches, fails recoverably (the next alternative is
// tried) or fails with a forced error that aborts the whole parse.
//
// # Example
//
//	expr, err := parser.Parse("genre = fantasy AND price < 20")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr) // AND[{genre} = {fantasy}, {price} < {20}, ]
package parser

import (
	"github.com/sandrolain/gofilter/pkg/types"
)

// DefaultMaxDepth is the default nesting limit of the precedence chain.
const DefaultMaxDepth = 200

// Parse parses a filter and returns the parsed Expression.
//
// A blank filter yields an Expression whose Root is nil. On failure the
// returned error is a *types.Error locating the problem in the input.
//
// Example:
//
//	expr, err := parser.Parse("channel = 'Mister Mv'")
//	if err != nil {
//	    var perr *types.Error
//	    if errors.As(err, &perr) {
//	        fmt.Printf("error at column %d\n", perr.Span.Column())
//	    }
//	    return
//	}
func Parse(filter string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(filter, opts...)
	return p.Parse()
}

// Compile is an alias for Parse, provided for API consistency.
func Compile(filter string, opts ...CompileOption) (*types.Expression, error) {
	return Parse(filter, opts...)
}

// ParseCondition parses a filter and returns its AST, or nil for a blank
// filter.
func ParseCondition(filter string, opts ...CompileOption) (types.FilterCondition, error) {
	expr, err := Parse(filter, opts...)
	if err != nil {
		return nil, err
	}
	return expr.Root(), nil
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits recursion depth to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}

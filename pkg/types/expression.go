// Package types defines the data model of the filter language.
//
// This package contains type definitions for:
//   - Span and Token: zero-copy views over the filter source
//   - Condition: the operator of a field condition
//   - FilterCondition: the filter AST and its canonical rendering
//   - Error: positional parse errors with kinds
//   - Expression: a parsed filter together with its source
package types

import "iter"

// Expression is a parsed filter.
//
// A nil root means the filter was blank. Expressions are immutable and safe
// for concurrent use by multiple goroutines.
type Expression struct {
	root   FilterCondition
	source string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(root FilterCondition, source string) *Expression {
	return &Expression{
		root:   root,
		source: source,
	}
}

// Root returns the AST, or nil for a blank filter.
func (e *Expression) Root() FilterCondition {
	return e.root
}

// Source returns the original filter text.
func (e *Expression) Source() string {
	return e.source
}

// IsEmpty reports whether the filter was blank.
func (e *Expression) IsEmpty() bool {
	return e.root == nil
}

// Fids yields the field tokens found within depth levels of nesting.
func (e *Expression) Fids(depth int) iter.Seq[Token] {
	if e.root == nil {
		return func(func(Token) bool) {}
	}
	return Fids(e.root, depth)
}

// TokenAtDepth returns the first field token found at exactly depth.
func (e *Expression) TokenAtDepth(depth int) (Token, bool) {
	if e.root == nil {
		return Token{}, false
	}
	return TokenAtDepth(e.root, depth)
}

// UseContainsOperator returns the first CONTAINS or STARTS WITH keyword.
func (e *Expression) UseContainsOperator() (Token, bool) {
	if e.root == nil {
		return Token{}, false
	}
	return UseContainsOperator(e.root)
}

// String returns the canonical rendering of the filter, or the empty
// string for a blank filter.
func (e *Expression) String() string {
	if e.root == nil {
		return ""
	}
	return e.root.String()
}

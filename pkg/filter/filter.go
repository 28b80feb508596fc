// Package filter builds search filters from the forms accepted by a search
// request: a filter string, an array of rules or their JSON encoding.
//
// # Arrays
//
// An array filter is a list of rules. Each rule is either a single filter or
// a group of alternatives. Groups are joined with OR, rules with AND:
//
//	["genre = horror", ["year = 2020", "year = 2021"]]
//
// is equivalent to
//
//	genre = horror AND (year = 2020 OR year = 2021)
//
// Blank filters are skipped. A filter made only of blank rules is no filter
// at all: constructors return a nil *Filter and a nil error.
package filter

import (
	"fmt"
	"iter"

	"github.com/sandrolain/gofilter/pkg/geo"
	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

// DefaultMaxConditions is the default nesting limit of a Filter.
const DefaultMaxConditions = 2000

// TooDeepError reports a filter nesting more than Max levels of conditions.
type TooDeepError struct {
	Max int
}

func (e *TooDeepError) Error() string {
	return fmt.Sprintf("Too many filter conditions, can't process more than %d filters.", e.Max)
}

// Option configures how filters are built.
type Option func(*Options)

// Options holds the filter configuration.
type Options struct {
	// MaxConditions limits the nesting of And and Or conditions.
	MaxConditions int
	// Parser options used for every filter string.
	Parser []parser.CompileOption
}

// WithMaxConditions sets the nesting limit. Values <= 0 keep the default.
func WithMaxConditions(n int) Option {
	return func(opts *Options) {
		if n > 0 {
			opts.MaxConditions = n
		}
	}
}

// WithParserOptions forwards options to the parser.
func WithParserOptions(opts ...parser.CompileOption) Option {
	return func(o *Options) {
		o.Parser = append(o.Parser, opts...)
	}
}

func newOptions(opts []Option) *Options {
	o := &Options{MaxConditions: DefaultMaxConditions}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Filter is a validated filter condition.
//
// Tokens of the condition point into the strings the Filter was built from.
// A Filter is immutable and safe for concurrent use.
type Filter struct {
	condition types.FilterCondition
}

// Condition returns the root of the filter AST.
func (f *Filter) Condition() types.FilterCondition {
	return f.condition
}

// String returns the canonical rendering of the filter.
func (f *Filter) String() string {
	return f.condition.String()
}

// Fids yields the field tokens found within depth levels of nesting.
func (f *Filter) Fids(depth int) iter.Seq[types.Token] {
	return types.Fids(f.condition, depth)
}

// UseContainsOperator returns the first CONTAINS or STARTS WITH keyword of
// the filter.
func (f *Filter) UseContainsOperator() (types.Token, bool) {
	return types.UseContainsOperator(f.condition)
}

// ValidateGeo checks the coordinates of every geo filter.
func (f *Filter) ValidateGeo() error {
	return geo.Validate(f.condition)
}

// Equal reports whether both filters have the same structure and tokens.
func (f *Filter) Equal(other *Filter) bool {
	if f == nil || other == nil {
		return f == other
	}
	return types.EqualFilters(f.condition, other.condition)
}

// FromString parses a filter string. A blank string yields a nil Filter.
func FromString(s string, opts ...Option) (*Filter, error) {
	o := newOptions(opts)
	condition, err := parseRule(s, o)
	if err != nil || condition == nil {
		return nil, err
	}
	return newFilter(condition, o)
}

func parseRule(s string, o *Options) (types.FilterCondition, error) {
	return parser.ParseCondition(s, o.Parser...)
}

func newFilter(condition types.FilterCondition, o *Options) (*Filter, error) {
	if token, ok := types.TokenAtDepth(condition, o.MaxConditions); ok {
		return nil, token.AsExternalError(&TooDeepError{Max: o.MaxConditions})
	}
	return &Filter{condition: condition}, nil
}

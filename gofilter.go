// Package gofilter parses the filter expressions of a search engine.
//
// A filter restricts the documents a search returns:
//
//	genre = horror AND (year 2000 TO 2010 OR rating >= 4) AND NOT studio IN [A24, Neon]
//
// The parser works on the caller's string without copying it: every token
// of the resulting tree points back into the source, so errors and tools can
// report exact positions.
//
// # Quick Start
//
//	// Parse a filter string
//	expr, err := gofilter.Parse("genre = horror AND year > 2000")
//	fmt.Println(expr) // AND[{genre} = {horror}, {year} > {2000}, ]
//
//	// Build a filter from an array of rules
//	f, err := gofilter.ParseArray(filter.Is("genre = horror"), filter.AnyOf("year = 2020", "year = 2021"))
//
//	// Build a filter from a JSON request parameter
//	f, err := gofilter.ParseJSON([]byte(`["genre = horror", ["year = 2020", "year = 2021"]]`))
//
// # Errors
//
// Parse errors are *types.Error values. Their message names the problem and
// their second line locates it:
//
//	Was expecting a value but instead got nothing.
//	11:11 channel =
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/gofilter/pkg/parser
//   - Types: github.com/sandrolain/gofilter/pkg/types
//   - Filters from arrays and JSON: github.com/sandrolain/gofilter/pkg/filter
//   - Geo decoding: github.com/sandrolain/gofilter/pkg/geo
package gofilter

import (
	"fmt"

	"github.com/sandrolain/gofilter/pkg/filter"
	"github.com/sandrolain/gofilter/pkg/parser"
	"github.com/sandrolain/gofilter/pkg/types"
)

// Version returns the current version of gofilter.
func Version() string {
	return "v0.1.0-dev"
}

// Parse parses a filter string.
//
// A blank filter yields an Expression whose Root is nil. It is safe to call
// Parse from multiple goroutines.
//
// Example:
//
//	expr, err := gofilter.Parse("channel = 'Mister Mv'")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Parse(filter string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Parse(filter, opts...)
}

// MustParse is like Parse but panics if the filter cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(filter string) *types.Expression {
	expr, err := Parse(filter)
	if err != nil {
		panic(fmt.Sprintf("gofilter: Parse(%q): %v", filter, err))
	}
	return expr
}

// ParseArray joins rules with AND, the alternatives of each rule with OR.
// It returns nil when every rule is blank.
func ParseArray(rules ...filter.Rule) (*filter.Filter, error) {
	return filter.FromArray(rules)
}

// ParseJSON builds a filter from a JSON string or array of rules.
// It returns nil when the filter is blank.
func ParseJSON(data []byte, opts ...filter.Option) (*filter.Filter, error) {
	return filter.FromJSON(data, opts...)
}

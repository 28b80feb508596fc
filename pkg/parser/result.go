package parser

import "github.com/sandrolain/gofilter/pkg/types"

// parseError is the failure of a grammar rule.
//
// A recoverable error means the rule did not apply and the next
// alternative may be tried. A forced error means the rule committed to
// the input and failed: alternation stops and the error is returned as is.
type parseError struct {
	err    *types.Error
	forced bool
}

// mismatch creates a recoverable error.
func mismatch(span types.Span, kind types.ErrorKind) *parseError {
	return &parseError{err: types.NewError(span, kind)}
}

// failure creates a forced error.
func failure(span types.Span, kind types.ErrorKind) *parseError {
	return &parseError{err: types.NewError(span, kind), forced: true}
}

// forcedFrom creates a forced error from an already built one.
func forcedFrom(err *types.Error) *parseError {
	return &parseError{err: err, forced: true}
}

// cut commits e: a recoverable error becomes forced.
func (e *parseError) cut() *parseError {
	if e == nil || e.forced {
		return e
	}
	return &parseError{err: e.err, forced: true}
}

func (e *parseError) kind() types.ErrorKind {
	return e.err.Kind
}

// rule is a grammar rule producing a filter node.
type rule func(in types.Span) (types.Span, types.FilterCondition, *parseError)

// alt tries every rule in order and returns the first match. It stops at
// the first forced error. When every rule fails recoverably the last error
// is returned.
func alt(in types.Span, rules ...rule) (types.Span, types.FilterCondition, *parseError) {
	var last *parseError
	for _, r := range rules {
		rest, node, perr := r(in)
		if perr == nil {
			return rest, node, nil
		}
		if perr.forced {
			return in, nil, perr
		}
		last = perr
	}
	return in, nil, last
}

func (e *parseError) withName(name string) *parseError {
	e.err.WithName(name)
	return e
}

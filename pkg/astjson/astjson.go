// Package astjson renders filter trees and errors as JSON for tooling.
//
// Tokens are rendered as objects holding their value and the byte range
// they cover in the source:
//
//	{"value":"Ponce","start":10,"end":15}
//
// Nodes carry a "type" member naming their variant.
package astjson

import (
	"errors"

	"github.com/valyala/fastjson"

	"github.com/sandrolain/gofilter/pkg/types"
)

var arenaPool fastjson.ArenaPool

// Marshal renders f as JSON. A nil f renders as null.
func Marshal(f types.FilterCondition) []byte {
	a := arenaPool.Get()
	defer arenaPool.Put(a)
	return Filter(a, f).MarshalTo(nil)
}

// MarshalError renders err as JSON.
func MarshalError(err *types.Error) []byte {
	a := arenaPool.Get()
	defer arenaPool.Put(a)
	return Error(a, err).MarshalTo(nil)
}

// Filter builds the JSON value of f in a.
func Filter(a *fastjson.Arena, f types.FilterCondition) *fastjson.Value {
	switch f := f.(type) {
	case *types.Not:
		o := node(a, "not")
		o.Set("filter", Filter(a, f.Filter))
		return o
	case *types.FieldCondition:
		o := node(a, "condition")
		o.Set("fid", Token(a, f.Fid))
		o.Set("op", Condition(a, f.Op))
		return o
	case *types.In:
		o := node(a, "in")
		o.Set("fid", Token(a, f.Fid))
		o.Set("values", tokens(a, f.Els...))
		return o
	case *types.Or:
		return list(a, "or", f.Filters)
	case *types.And:
		return list(a, "and", f.Filters)
	case *types.GeoLowerThan:
		o := node(a, "geoRadius")
		o.Set("point", tokens(a, f.Point[:]...))
		o.Set("radius", Token(a, f.Radius))
		return o
	case *types.GeoBoundingBox:
		o := node(a, "geoBoundingBox")
		o.Set("topRight", tokens(a, f.TopRightPoint[:]...))
		o.Set("bottomLeft", tokens(a, f.BottomLeftPoint[:]...))
		return o
	}
	return a.NewNull()
}

// Condition builds the JSON value of an operator in a.
func Condition(a *fastjson.Arena, c types.Condition) *fastjson.Value {
	switch c := c.(type) {
	case *types.GreaterThan:
		return valueOp(a, ">", c.Value)
	case *types.GreaterThanOrEqual:
		return valueOp(a, ">=", c.Value)
	case *types.Equal:
		return valueOp(a, "=", c.Value)
	case *types.NotEqual:
		return valueOp(a, "!=", c.Value)
	case *types.LowerThan:
		return valueOp(a, "<", c.Value)
	case *types.LowerThanOrEqual:
		return valueOp(a, "<=", c.Value)
	case *types.Null:
		return node(a, "null")
	case *types.Empty:
		return node(a, "empty")
	case *types.Exists:
		return node(a, "exists")
	case *types.Between:
		o := node(a, "to")
		o.Set("from", Token(a, c.From))
		o.Set("to", Token(a, c.To))
		return o
	case *types.Contains:
		o := node(a, "contains")
		o.Set("keyword", Token(a, c.Keyword))
		o.Set("value", Token(a, c.Word))
		return o
	case *types.StartsWith:
		o := node(a, "startsWith")
		o.Set("keyword", Token(a, c.Keyword))
		o.Set("value", Token(a, c.Word))
		return o
	}
	return a.NewNull()
}

// Token builds the JSON value of a token in a.
func Token(a *fastjson.Arena, t types.Token) *fastjson.Value {
	span := t.Span()
	o := a.NewObject()
	o.Set("value", a.NewString(t.Value()))
	o.Set("start", a.NewNumberInt(span.Offset()))
	o.Set("end", a.NewNumberInt(span.End()))
	return o
}

// Error builds the JSON value of a parse error in a.
func Error(a *fastjson.Arena, err *types.Error) *fastjson.Value {
	o := a.NewObject()
	o.Set("kind", a.NewString(string(err.Kind)))
	o.Set("message", a.NewString(err.Message()))
	o.Set("position", a.NewString(err.Position()))
	o.Set("line", a.NewNumberInt(err.Span.Line()))
	o.Set("start", a.NewNumberInt(err.Span.Offset()))
	o.Set("end", a.NewNumberInt(err.Span.End()))
	return o
}

func node(a *fastjson.Arena, kind string) *fastjson.Value {
	o := a.NewObject()
	o.Set("type", a.NewString(kind))
	return o
}

func valueOp(a *fastjson.Arena, op string, value types.Token) *fastjson.Value {
	o := node(a, op)
	o.Set("value", Token(a, value))
	return o
}

func list(a *fastjson.Arena, kind string, filters []types.FilterCondition) *fastjson.Value {
	o := node(a, kind)
	arr := a.NewArray()
	for i, f := range filters {
		arr.SetArrayItem(i, Filter(a, f))
	}
	o.Set("filters", arr)
	return o
}

func tokens(a *fastjson.Arena, ts ...types.Token) *fastjson.Value {
	arr := a.NewArray()
	for i, t := range ts {
		arr.SetArrayItem(i, Token(a, t))
	}
	return arr
}

// Result builds the response of a parse in a: the canonical rendering and
// tree of root on success, the error otherwise. A nil root with a nil err
// is a blank filter.
//
//	{"canonical":"{a} = {1}","ast":{...}}
//	{"error":{"kind":"expected_value",...}}
func Result(a *fastjson.Arena, root types.FilterCondition, err error) *fastjson.Value {
	o := a.NewObject()
	if err != nil {
		var ferr *types.Error
		if errors.As(err, &ferr) {
			o.Set("error", Error(a, ferr))
			return o
		}
		e := a.NewObject()
		e.Set("message", a.NewString(err.Error()))
		o.Set("error", e)
		return o
	}
	canonical := ""
	if root != nil {
		canonical = root.String()
	}
	o.Set("canonical", a.NewString(canonical))
	o.Set("ast", Filter(a, root))
	return o
}

// MarshalResult renders the outcome of a parse as JSON.
func MarshalResult(root types.FilterCondition, err error) []byte {
	a := arenaPool.Get()
	defer arenaPool.Put(a)
	return Result(a, root, err).MarshalTo(nil)
}

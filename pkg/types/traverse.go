package types

import "iter"

// Fids yields the field token of every FieldCondition and In node found
// within depth levels of Not, And and Or nesting. A depth of 0 yields
// nothing, 1 only inspects f itself.
func Fids(f FilterCondition, depth int) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		walkFids(f, depth, yield)
	}
}

func walkFids(f FilterCondition, depth int, yield func(Token) bool) bool {
	if depth <= 0 {
		return true
	}
	switch f := f.(type) {
	case *FieldCondition:
		return yield(f.Fid)
	case *In:
		return yield(f.Fid)
	case *Not:
		return walkFids(f.Filter, depth-1, yield)
	case *And:
		return walkChildren(f.Filters, depth-1, yield)
	case *Or:
		return walkChildren(f.Filters, depth-1, yield)
	}
	return true
}

func walkChildren(filters []FilterCondition, depth int, yield func(Token) bool) bool {
	for _, child := range filters {
		if !walkFids(child, depth, yield) {
			return false
		}
	}
	return true
}

// TokenAtDepth returns the first field or radius point token found at
// exactly depth levels of And and Or nesting. Other nodes, bounding boxes
// included, are not descended into.
func TokenAtDepth(f FilterCondition, depth int) (Token, bool) {
	switch f := f.(type) {
	case *FieldCondition:
		if depth == 0 {
			return f.Fid, true
		}
	case *GeoLowerThan:
		if depth == 0 {
			return f.Point[0], true
		}
	case *Or:
		return firstTokenAtDepth(f.Filters, max(depth-1, 0))
	case *And:
		return firstTokenAtDepth(f.Filters, max(depth-1, 0))
	}
	return Token{}, false
}

func firstTokenAtDepth(filters []FilterCondition, depth int) (Token, bool) {
	for _, child := range filters {
		if token, ok := TokenAtDepth(child, depth); ok {
			return token, true
		}
	}
	return Token{}, false
}

// UseContainsOperator returns the keyword token of the first CONTAINS or
// STARTS WITH operator of the tree, at any depth.
func UseContainsOperator(f FilterCondition) (Token, bool) {
	switch f := f.(type) {
	case *FieldCondition:
		switch op := f.Op.(type) {
		case *Contains:
			return op.Keyword, true
		case *StartsWith:
			return op.Keyword, true
		}
	case *Not:
		return UseContainsOperator(f.Filter)
	case *Or:
		return firstContainsOperator(f.Filters)
	case *And:
		return firstContainsOperator(f.Filters)
	}
	return Token{}, false
}

func firstContainsOperator(filters []FilterCondition) (Token, bool) {
	for _, child := range filters {
		if token, ok := UseContainsOperator(child); ok {
			return token, true
		}
	}
	return Token{}, false
}

package types

// EqualFilters reports whether a and b are the same tree. Tokens are
// compared with Token.Equal, so only their source text matters.
func EqualFilters(a, b FilterCondition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Not:
		b, ok := b.(*Not)
		return ok && EqualFilters(a.Filter, b.Filter)
	case *FieldCondition:
		b, ok := b.(*FieldCondition)
		return ok && a.Fid.Equal(b.Fid) && equalConditions(a.Op, b.Op)
	case *In:
		b, ok := b.(*In)
		return ok && a.Fid.Equal(b.Fid) && equalTokens(a.Els, b.Els)
	case *Or:
		b, ok := b.(*Or)
		return ok && equalLists(a.Filters, b.Filters)
	case *And:
		b, ok := b.(*And)
		return ok && equalLists(a.Filters, b.Filters)
	case *GeoLowerThan:
		b, ok := b.(*GeoLowerThan)
		return ok && equalTokens(a.Point[:], b.Point[:]) && a.Radius.Equal(b.Radius)
	case *GeoBoundingBox:
		b, ok := b.(*GeoBoundingBox)
		return ok && equalTokens(a.TopRightPoint[:], b.TopRightPoint[:]) &&
			equalTokens(a.BottomLeftPoint[:], b.BottomLeftPoint[:])
	}
	return false
}

func equalLists(a, b []FilterCondition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualFilters(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalConditions(a, b Condition) bool {
	switch a := a.(type) {
	case *GreaterThan:
		b, ok := b.(*GreaterThan)
		return ok && a.Value.Equal(b.Value)
	case *GreaterThanOrEqual:
		b, ok := b.(*GreaterThanOrEqual)
		return ok && a.Value.Equal(b.Value)
	case *Equal:
		b, ok := b.(*Equal)
		return ok && a.Value.Equal(b.Value)
	case *NotEqual:
		b, ok := b.(*NotEqual)
		return ok && a.Value.Equal(b.Value)
	case *LowerThan:
		b, ok := b.(*LowerThan)
		return ok && a.Value.Equal(b.Value)
	case *LowerThanOrEqual:
		b, ok := b.(*LowerThanOrEqual)
		return ok && a.Value.Equal(b.Value)
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Empty:
		_, ok := b.(*Empty)
		return ok
	case *Exists:
		_, ok := b.(*Exists)
		return ok
	case *Between:
		b, ok := b.(*Between)
		return ok && a.From.Equal(b.From) && a.To.Equal(b.To)
	case *Contains:
		b, ok := b.(*Contains)
		return ok && a.Keyword.Equal(b.Keyword) && a.Word.Equal(b.Word)
	case *StartsWith:
		b, ok := b.(*StartsWith)
		return ok && a.Keyword.Equal(b.Keyword) && a.Word.Equal(b.Word)
	}
	return false
}

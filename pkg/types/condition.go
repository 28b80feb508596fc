package types

// Condition is the operator half of a field condition. It is a closed set:
// only the variants declared in this file implement it.
type Condition interface {
	isCondition()
	String() string
}

// GreaterThan matches values strictly above Value.
type GreaterThan struct{ Value Token }

// GreaterThanOrEqual matches values at or above Value.
type GreaterThanOrEqual struct{ Value Token }

// Equal matches values equal to Value.
type Equal struct{ Value Token }

// NotEqual matches values different from Value.
type NotEqual struct{ Value Token }

// LowerThan matches values strictly below Value.
type LowerThan struct{ Value Token }

// LowerThanOrEqual matches values at or below Value.
type LowerThanOrEqual struct{ Value Token }

// Null matches fields holding null.
type Null struct{}

// Empty matches fields holding an empty value.
type Empty struct{}

// Exists matches documents having the field.
type Exists struct{}

// Between matches the inclusive range From TO To.
type Between struct {
	From Token
	To   Token
}

// Contains matches values containing Word. Keyword is the source
// spelling of the CONTAINS keyword.
type Contains struct {
	Keyword Token
	Word    Token
}

// StartsWith matches values beginning with Word. Keyword spans the STARTS
// keyword.
type StartsWith struct {
	Keyword Token
	Word    Token
}

func (*GreaterThan) isCondition()        {}
func (*GreaterThanOrEqual) isCondition() {}
func (*Equal) isCondition()              {}
func (*NotEqual) isCondition()           {}
func (*LowerThan) isCondition()          {}
func (*LowerThanOrEqual) isCondition()   {}
func (*Null) isCondition()               {}
func (*Empty) isCondition()              {}
func (*Exists) isCondition()             {}
func (*Between) isCondition()            {}
func (*Contains) isCondition()           {}
func (*StartsWith) isCondition()         {}

func (c *GreaterThan) String() string        { return "> " + c.Value.String() }
func (c *GreaterThanOrEqual) String() string { return ">= " + c.Value.String() }
func (c *Equal) String() string              { return "= " + c.Value.String() }
func (c *NotEqual) String() string           { return "!= " + c.Value.String() }
func (c *LowerThan) String() string          { return "< " + c.Value.String() }
func (c *LowerThanOrEqual) String() string   { return "<= " + c.Value.String() }
func (*Null) String() string                 { return "IS NULL" }
func (*Empty) String() string                { return "IS EMPTY" }
func (*Exists) String() string               { return "EXISTS" }
func (c *Between) String() string            { return c.From.String() + " TO " + c.To.String() }
func (c *Contains) String() string           { return "CONTAINS " + c.Word.String() }
func (c *StartsWith) String() string         { return "STARTS WITH " + c.Word.String() }
